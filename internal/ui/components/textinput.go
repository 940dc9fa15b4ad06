package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mquinones/prepterm/internal/ui/theme"
)

// TextInput is the small inline prompt the session views use, most
// prominently the "practice N questions" ask on the summary screen. It
// wraps bubbles/textinput with a leading label and an optional
// digits-only filter so NumericValue can parse whatever was accepted.
type TextInput struct {
	Model       textinput.Model
	Label       string
	NumericOnly bool
	submitted   bool
	valid       bool
}

// NewTextInput creates a focused input. The label renders dimmed before
// the field; limit caps the accepted character count when positive.
func NewTextInput(label, placeholder string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()

	return TextInput{
		Model:       ti,
		Label:       label,
		NumericOnly: numericOnly,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages, dropping non-digit character keys when the
// input is numeric. Editing keys (backspace, arrows) always pass through.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && t.NumericOnly && !acceptsKey(kmsg) {
		return t, nil
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// acceptsKey reports whether a key may reach a numeric input. Single
// printable characters must be digits; everything else is an editing key.
func acceptsKey(msg tea.KeyMsg) bool {
	key := msg.String()
	if len(key) != 1 {
		return true
	}
	return key[0] >= '0' && key[0] <= '9'
}

// View renders the label, the field and, once submitted, a verdict mark.
func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label))
		b.WriteString(" ")
	}
	b.WriteString(t.Model.View())
	if t.submitted {
		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if t.valid {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		b.WriteString(" ")
		b.WriteString(mark)
	}
	return b.String()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Model.Value()))
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
