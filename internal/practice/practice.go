// Package practice implements the session state machine: question
// sequencing, per-question timing, answer scoring and the transitions
// between answering, reveal, advance and finish.
package practice

import (
	"context"
	"time"

	"github.com/mquinones/prepterm/internal/catalog"
)

// QuestionSource reads a topic's question pool. Order is irrelevant; the
// session always reshuffles.
type QuestionSource interface {
	QuestionsByTopic(ctx context.Context, topicID string) ([]catalog.Question, error)
}

// KitSource reads the topic's learning kit. Returns nil with no error when
// the topic has none.
type KitSource interface {
	KitByTopic(ctx context.Context, topicID string) (*catalog.LearningKit, error)
}

// AttemptSink accepts attempt records. Writes are fire-and-forget from the
// session's perspective: the state machine never blocks on them and a
// failed write does not undo the local reveal or statistics.
type AttemptSink interface {
	AppendAttempt(ctx context.Context, sessionID string, attempt catalog.Attempt) error
}

// MasterySource reads the current mastery score for a topic, in [0,1].
// Purely a display value, refreshed opportunistically after attempt writes.
type MasterySource interface {
	MasteryScore(ctx context.Context, topicID string) (float64, error)
}

// Select records the learner's answer for the current question and
// transitions the session to the revealed state. It returns the attempt
// record to emit, or nil when the call is invalid: session empty or
// finished, answer already revealed, or a write still in flight.
//
// The elapsed time is frozen here, from the question start timestamp, so
// the value is exact regardless of the display tick interval. Guided-mode
// state resets to its defaults on every reveal.
func Select(state *SessionState, opt catalog.OptionKey) *catalog.Attempt {
	if state.Revealed || state.Finished || state.Submitting {
		return nil
	}
	q := Current(state)
	if q == nil || !q.HasOption(opt) {
		return nil
	}

	elapsed := time.Since(state.QuestionStart).Milliseconds()
	correct := opt == q.CorrectOption

	state.Selected = opt
	state.Revealed = true
	state.ElapsedMs = elapsed
	state.Guided = false
	state.GuidedStep = 0
	state.Submitting = true

	state.Stats.Total++
	if correct {
		state.Stats.Correct++
	}
	state.Stats.TimesMs = append(state.Stats.TimesMs, elapsed)

	return &catalog.Attempt{
		QuestionID:     q.ID,
		SelectedOption: opt,
		IsCorrect:      correct,
		TimeMs:         elapsed,
	}
}

// WriteSettled marks the in-flight attempt write as finished, successful or
// not. The session keeps its locally computed statistics either way.
func WriteSettled(state *SessionState) {
	state.Submitting = false
}

// Advance moves from the revealed state to the next question, or to
// Finished after the last one. Returns false when the session is finished
// (or the call was invalid), true when a new question is active.
func Advance(state *SessionState) bool {
	if !state.Revealed || state.Finished {
		return false
	}
	if state.Index+1 >= len(state.Questions) {
		state.Finished = true
		return false
	}
	state.Index++
	state.Selected = ""
	state.Revealed = false
	state.Guided = false
	state.GuidedStep = 0
	state.QuestionStart = time.Now()
	state.ElapsedMs = 0
	return true
}

// Restart reinitializes the session over a fresh shuffle of the full pool,
// or a random sampleSize-element subset when sampleSize is positive. Valid
// from any state; all counters and timers reset.
func Restart(state *SessionState, sampleSize int) {
	state.Questions = samplePool(state.Pool, sampleSize)
	state.Index = 0
	state.Selected = ""
	state.Revealed = false
	state.QuestionStart = time.Now()
	state.ElapsedMs = 0
	state.Stats = SessionStats{}
	state.Finished = false
	state.Guided = false
	state.GuidedStep = 0
	state.Submitting = false
}

// Tick refreshes the elapsed display value while the current question is
// still being answered. After reveal the value stays frozen.
func Tick(state *SessionState) {
	if state.Revealed || state.Finished || Empty(state) {
		return
	}
	state.ElapsedMs = time.Since(state.QuestionStart).Milliseconds()
}

// ToggleGuided flips guided mode and resets the disclosure step.
func ToggleGuided(state *SessionState) {
	state.Guided = !state.Guided
	state.GuidedStep = 0
}

// AdvanceGuided reveals the next guided block. The caller gates this on the
// tutor view's CanAdvance so the step never runs past the block count.
func AdvanceGuided(state *SessionState) {
	if !state.Guided {
		return
	}
	state.GuidedStep++
}
