// Package content normalizes the two historical explanation schemas into a
// single ordered block sequence. Everything downstream (quality gate, tutor
// panel) operates only on the normalized blocks.
package content

import "strings"

// BlockType tags an explanation block as prose or a formula.
type BlockType string

const (
	BlockText BlockType = "text"
	BlockMath BlockType = "math"
)

// Block is one unit of explanation content. Text blocks carry Content,
// math blocks carry a single formula in Latex.
type Block struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content,omitempty"`
	Latex   string    `json:"latex,omitempty"`
}

// Body returns whichever field carries this block's content.
func (b Block) Body() string {
	if b.Type == BlockMath {
		return b.Latex
	}
	return b.Content
}

// Empty reports whether the block carries no content after trimming.
func (b Block) Empty() bool {
	return strings.TrimSpace(b.Body()) == ""
}

// Payload is the raw explanation JSON as stored, covering both schema
// generations. The block list is the current shape; the single Text field
// plus the Spanish-named companions are the pre-migration shape.
type Payload struct {
	Blocks       []Block `json:"blocks,omitempty"`
	ErrorCommon  string  `json:"error_common,omitempty"`
	Verification string  `json:"verification,omitempty"`

	// Pre-migration fields, kept for rows that were never rewritten.
	Text         string `json:"text,omitempty"`
	ErrorComun   string `json:"error_comun,omitempty"`
	Verificacion string `json:"verificacion,omitempty"`
}

// Normalize converts a raw payload into an ordered block sequence. An
// explicit block list is returned unchanged, order preserved and empty
// blocks included; a legacy text field becomes a single text block; anything
// else yields an empty sequence. Total and idempotent: re-normalizing a
// payload built from its own output returns the same blocks.
func Normalize(p *Payload) []Block {
	if p == nil {
		return nil
	}
	if len(p.Blocks) > 0 {
		return p.Blocks
	}
	if p.Text != "" {
		return []Block{{Type: BlockText, Content: p.Text}}
	}
	return nil
}

// CommonError returns the common-error text embedded in the payload,
// preferring the current field name over the legacy one.
func (p *Payload) CommonError() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.ErrorCommon) != "" {
		return p.ErrorCommon
	}
	return p.ErrorComun
}

// VerificationNote returns the verification text embedded in the payload,
// preferring the current field name over the legacy one.
func (p *Payload) VerificationNote() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.Verification) != "" {
		return p.Verification
	}
	return p.Verificacion
}
