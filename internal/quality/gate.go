// Package quality evaluates explanation completeness. Its verdict is
// advisory: a failing question still practices normally, the issues are
// surfaced to learners and editors as a needs-review signal.
package quality

import (
	"strings"

	"github.com/mquinones/prepterm/internal/content"
)

// Course slug that triggers the formula requirement.
const algebraSlug = "algebra"

// Issue strings, in check order. The order of Result.Issues always follows
// the order of these checks.
const (
	IssueNoExplanation      = "no explanation loaded"
	IssueMinTextBlocks      = "minimum two text blocks required"
	IssueMissingFormula     = "algebra questions must include at least one formula block"
	IssueMissingErrorCommon = "missing 'common error' field"
	IssueMissingVerify      = "missing 'verification' field"
)

// Result is the quality verdict for one question's explanation.
// Recomputed on every read, never stored.
type Result struct {
	Valid       bool
	Issues      []string
	NeedsReview bool
}

// Evaluate runs the fixed completeness checks against a question's raw
// explanation payload plus its column-level common-error and verification
// text. Only the presence check short-circuits; every later check runs
// regardless of earlier failures so the issue list is complete.
//
// A legacy single-text payload normalizes to one block and therefore fails
// the minimum-depth check. That is deliberate: old rows are flagged for
// review rather than silently passed.
func Evaluate(p *content.Payload, courseSlug, errorCommon, verification string) Result {
	blocks := content.Normalize(p)
	if len(blocks) == 0 {
		return Result{Issues: []string{IssueNoExplanation}, NeedsReview: true}
	}

	var issues []string

	textCount, mathCount := 0, 0
	for _, b := range blocks {
		if b.Empty() {
			continue
		}
		switch b.Type {
		case content.BlockText:
			textCount++
		case content.BlockMath:
			mathCount++
		}
	}

	if textCount < 2 {
		issues = append(issues, IssueMinTextBlocks)
	}

	if courseSlug == algebraSlug && mathCount < 1 {
		issues = append(issues, IssueMissingFormula)
	}

	if blank(errorCommon) && blank(p.CommonError()) {
		issues = append(issues, IssueMissingErrorCommon)
	}

	if blank(verification) && blank(p.VerificationNote()) {
		issues = append(issues, IssueMissingVerify)
	}

	return Result{
		Valid:       len(issues) == 0,
		Issues:      issues,
		NeedsReview: len(issues) > 0,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
