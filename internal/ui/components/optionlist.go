package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/ui/theme"
)

// OptionList renders a question's answer options with their A-E keys.
// Before the reveal all options look the same; after it the correct option
// and a wrong pick get distinct colors.
type OptionList struct {
	Options  map[catalog.OptionKey]string
	Correct  catalog.OptionKey
	Selected catalog.OptionKey // "" until an answer is locked in
	Revealed bool
}

// View renders the option rows.
func (o OptionList) View() string {
	var s string
	for _, key := range catalog.OptionKeys {
		text, ok := o.Options[key]
		if !ok || text == "" {
			continue
		}

		marker := " "
		if key == o.Selected {
			marker = "▸"
		}
		line := fmt.Sprintf(" %s %s)  %s", marker, key, text)

		if o.Revealed {
			switch {
			case key == o.Correct:
				s += theme.Correct.Render(line+"  ✓") + "\n"
			case key == o.Selected:
				s += theme.Incorrect.Render(line+"  ✗") + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
