package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mquinones/prepterm/internal/content"
	prac "github.com/mquinones/prepterm/internal/practice"
	"github.com/mquinones/prepterm/internal/quality"
	"github.com/mquinones/prepterm/internal/tutor"
	"github.com/mquinones/prepterm/internal/ui/components"
	"github.com/mquinones/prepterm/internal/ui/theme"
)

func (p *PracticeScreen) tutorView() tutor.View {
	q := prac.Current(p.state)
	if q == nil {
		return tutor.View{}
	}
	return tutor.Render(q, p.kit, p.state.Guided, p.state.GuidedStep)
}

// renderQuestion renders the active question before an answer is locked in.
func (p *PracticeScreen) renderQuestion(width int) string {
	q := prac.Current(p.state)
	if q == nil {
		return renderLoading(width)
	}

	var b strings.Builder
	b.WriteString(p.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(divider(width))
	b.WriteString("\n\n")

	promptStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(promptStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	options := components.OptionList{
		Options: q.Options,
		Correct: q.CorrectOption,
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, options.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answer with A-E or 1-5"))

	return b.String()
}

// renderReveal renders the answered question with the tutor panel below it.
func (p *PracticeScreen) renderReveal(width int) string {
	q := prac.Current(p.state)
	if q == nil {
		return renderLoading(width)
	}

	var b strings.Builder
	b.WriteString(p.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(divider(width))
	b.WriteString("\n\n")

	promptStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(promptStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	options := components.OptionList{
		Options:  q.Options,
		Correct:  q.CorrectOption,
		Selected: p.state.Selected,
		Revealed: true,
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, options.View()))
	b.WriteString("\n")

	verdictStyle := theme.Correct
	verdict := "Correct!"
	if p.state.Selected != q.CorrectOption {
		verdictStyle = theme.Incorrect
		verdict = fmt.Sprintf("Not quite. The answer is %s.", q.CorrectOption)
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(verdictStyle.Render(verdict)))
	b.WriteString("\n\n")

	b.WriteString(p.renderTutorPanel(width))
	return b.String()
}

// renderTutorPanel renders the solution content for the current reveal.
func (p *PracticeScreen) renderTutorPanel(width int) string {
	v := p.tutorView()
	panelWidth := min(width-8, 72)
	if panelWidth < 20 {
		panelWidth = 20
	}

	var b strings.Builder

	switch {
	case v.Pending:
		b.WriteString(theme.Hint.Render("Solution pending review."))
		b.WriteString("\n")
	case v.FallbackUsed:
		b.WriteString(renderKit(v, panelWidth))
	default:
		if p.state.Guided {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("Guided solution — step %d of %d", len(v.Blocks), v.TotalBlocks)))
			b.WriteString("\n\n")
		}
		for _, block := range v.Blocks {
			b.WriteString(renderBlock(block, panelWidth))
			b.WriteString("\n")
		}
		if p.state.Guided && v.CanAdvance {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Space reveals the next step."))
			b.WriteString("\n")
		}
	}

	if v.ErrorCommon != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Common error"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(panelWidth).Render(v.ErrorCommon))
		b.WriteString("\n")
	}
	if v.Verification != "" {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Check yourself"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(panelWidth).Render(v.Verification))
		b.WriteString("\n")
	}

	// Advisory only; an incomplete solution still practices normally. The
	// pending placeholder already says as much, so it is skipped there.
	if q := prac.Current(p.state); q != nil && !v.Pending {
		gate := quality.Evaluate(q.Explanation, p.courseSlug, q.ErrorCommon, q.Verification)
		if gate.NeedsReview {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(panelWidth).Render("This solution is incomplete and queued for editorial review."))
			b.WriteString("\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderKit renders the topic learning kit used as fallback content.
func renderKit(v tutor.View, panelWidth int) string {
	kit := v.Kit
	var b strings.Builder

	b.WriteString(theme.Hint.Render("No worked solution for this question yet. Topic review:"))
	b.WriteString("\n\n")

	for _, bullet := range kit.Summary.Bullets {
		b.WriteString(theme.Body.Width(panelWidth).Render("• " + bullet))
		b.WriteString("\n")
	}
	for _, note := range kit.Summary.Notes {
		b.WriteString(theme.Hint.Width(panelWidth).Render(note))
		b.WriteString("\n")
	}

	for _, method := range kit.Methods {
		b.WriteString("\n")
		b.WriteString(theme.Selected.Render(method.Name))
		b.WriteString("\n")
		if method.WhenToUse != "" {
			b.WriteString(theme.Hint.Width(panelWidth).Render(method.WhenToUse))
			b.WriteString("\n")
		}
		for i, step := range method.Steps {
			b.WriteString(theme.Body.Width(panelWidth).Render(fmt.Sprintf("%d. %s", i+1, step)))
			b.WriteString("\n")
		}
	}

	if len(v.KitMistakes) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Common mistakes"))
		b.WriteString("\n")
		for _, m := range v.KitMistakes {
			b.WriteString(theme.Body.Width(panelWidth).Render("• " + m.Mistake))
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(panelWidth).Render("  Fix: " + m.Fix))
			b.WriteString("\n")
		}
	}
	if len(v.KitChecks) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Check yourself"))
		b.WriteString("\n")
		for _, c := range v.KitChecks {
			b.WriteString(theme.Body.Width(panelWidth).Render("• " + c))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderBlock renders one explanation block. Formula blocks get the math
// style; there is no LaTeX engine in a terminal, the source is shown as is.
func renderBlock(block content.Block, panelWidth int) string {
	if block.Type == content.BlockMath {
		return theme.Math.Width(panelWidth).Render("  " + block.Body())
	}
	return theme.Body.Width(panelWidth).Render(block.Body())
}

// renderFinished renders the session summary view.
func (p *PracticeScreen) renderFinished(width int) string {
	summary := prac.BuildSummary(p.state)

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("Session complete"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d of %d correct", summary.Correct, summary.Total)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Accuracy", summary.Accuracy, true, min(width-20, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Average time per question: %s", formatMs(summary.AvgTimeMs))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Render("Topic mastery: " + masteryStatus(p.masteryScore)))
	b.WriteString("\n\n")

	if p.prompting {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(p.input.View()))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("[R] Practice again    [S] Practice a set number"))
	}

	return b.String()
}

// renderInfoLine renders the topic, position, score and timer line.
func (p *PracticeScreen) renderInfoLine(width int) string {
	state := p.state

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + p.topicName)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d  %s",
			state.Index+1,
			len(state.Questions),
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			state.Stats.Correct,
			formatMs(state.ElapsedMs),
		))

	line := left
	rightPad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if rightPad > 0 {
		line += strings.Repeat(" ", rightPad) + right
	}
	return line
}

func renderNoQuestions(width int, topicName string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  No questions available for %q yet.\n\n  Import some with: prepterm import questions <file>", topicName))
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading questions...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func divider(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 1)))
}

// formatMs renders milliseconds as m:ss.
func formatMs(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// percent renders a [0,1] score as a percentage.
func percent(score float64) string {
	return fmt.Sprintf("%d%%", int(score*100+0.5))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
