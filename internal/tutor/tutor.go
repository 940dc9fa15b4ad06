// Package tutor decides what solution content to show after an answer is
// revealed: the question's own explanation blocks (all at once, or step by
// step in guided mode) or the topic's learning kit when the question has no
// authored explanation.
package tutor

import (
	"strings"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
)

// View is the tutor panel projection for the current reveal. It is derived
// from the question, kit and guided flags on every render and never stored.
type View struct {
	// Blocks are the explanation blocks currently visible.
	Blocks []content.Block

	// TotalBlocks is the full block count, for progress display.
	TotalBlocks int

	// CanAdvance is true while guided mode has more blocks to reveal.
	CanAdvance bool

	// FallbackUsed is true when the question has no explanation and the
	// learning kit (or the pending placeholder) is shown instead.
	FallbackUsed bool

	// Kit is the learning kit to present when FallbackUsed and a kit exists.
	Kit *catalog.LearningKit

	// Pending is true when FallbackUsed but the topic has no kit either.
	Pending bool

	// ErrorCommon and Verification are the auxiliary sections, shown
	// independently of the block/fallback choice. Empty means hidden.
	ErrorCommon  string
	Verification string

	// KitMistakes and KitChecks stand in for the auxiliary sections when the
	// question carries no text of its own and the kit is in use.
	KitMistakes []catalog.KitMistake
	KitChecks   []string
}

// Render projects the post-reveal tutor content for a question.
//
// With guided mode off all blocks are visible. With guided mode on the first
// max(1, step+1) blocks are visible, clamped to the block count, so the
// reveal is monotone in step. Guided stepping never applies to kit fallback
// content, which is shown in full immediately.
func Render(q *catalog.Question, kit *catalog.LearningKit, guided bool, step int) View {
	blocks := content.Normalize(q.Explanation)

	v := View{TotalBlocks: len(blocks)}

	if len(blocks) > 0 {
		if guided {
			visible := step + 1
			if visible < 1 {
				visible = 1
			}
			if visible > len(blocks) {
				visible = len(blocks)
			}
			v.Blocks = blocks[:visible]
			v.CanAdvance = step < len(blocks)-1
		} else {
			v.Blocks = blocks
		}
	} else {
		v.FallbackUsed = true
		if kit != nil {
			v.Kit = kit
		} else {
			v.Pending = true
		}
	}

	v.ErrorCommon = pick(q.ErrorCommon, q.Explanation.CommonError())
	v.Verification = pick(q.Verification, q.Explanation.VerificationNote())

	// The kit's lists substitute only when the question has no text of its
	// own and the kit is already on screen.
	if v.FallbackUsed && kit != nil {
		if v.ErrorCommon == "" {
			v.KitMistakes = kit.Mistakes
		}
		if v.Verification == "" {
			v.KitChecks = kit.Checks
		}
	}

	return v
}

// pick returns the first non-blank string, or empty.
func pick(own, embedded string) string {
	if strings.TrimSpace(own) != "" {
		return own
	}
	if strings.TrimSpace(embedded) != "" {
		return embedded
	}
	return ""
}
