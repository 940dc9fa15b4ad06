// Package home is the catalog browser: every topic with its course, unit,
// mastery label and pool size, feeding into the practice screen.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mquinones/prepterm/internal/mastery"
	"github.com/mquinones/prepterm/internal/router"
	"github.com/mquinones/prepterm/internal/screen"
	practicescreen "github.com/mquinones/prepterm/internal/screens/practice"
	"github.com/mquinones/prepterm/internal/store"
	"github.com/mquinones/prepterm/internal/ui/components"
	"github.com/mquinones/prepterm/internal/ui/layout"
	"github.com/mquinones/prepterm/internal/ui/theme"
)

// catalogLoadedMsg is sent when the catalog tree has been read.
type catalogLoadedMsg struct {
	Infos []store.TopicInfo
	Err   error
}

// HomeScreen is the topic browser shown at startup.
type HomeScreen struct {
	st      *store.Store
	menu    components.Menu
	infos   []store.TopicInfo
	loading bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen backed by the given store.
func New(st *store.Store) *HomeScreen {
	return &HomeScreen{st: st, loading: true}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadCatalog()
}

func (h *HomeScreen) Title() string {
	return "Topics"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		return h.handleLoaded(msg)

	case tea.KeyMsg:
		if h.errMsg != "" {
			if msg.String() == "r" {
				h.errMsg = ""
				h.loading = true
				return h, h.loadCatalog()
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Could not load topics: %s\n\n  Press R to retry.", h.errMsg))
	}
	if h.loading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading topics...")
	}
	if len(h.infos) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  The question bank is empty.\n\n  Import content with: prepterm import questions <file>")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Pick a topic to practice"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}

// loadCatalog reads the catalog tree.
func (h *HomeScreen) loadCatalog() tea.Cmd {
	st := h.st
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		infos, err := st.CatalogTree(ctx)
		return catalogLoadedMsg{Infos: infos, Err: err}
	}
}

func (h *HomeScreen) handleLoaded(msg catalogLoadedMsg) (screen.Screen, tea.Cmd) {
	h.loading = false
	if msg.Err != nil {
		h.errMsg = msg.Err.Error()
		return h, nil
	}
	h.infos = msg.Infos
	h.menu = components.NewMenu(h.menuItems())
	return h, nil
}

// menuItems builds one entry per topic, disabled when its pool is empty.
func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.infos))
	for _, info := range h.infos {
		info := info
		items = append(items, components.MenuItem{
			Label:    fmt.Sprintf("%s ▸ %s ▸ %s", info.Course.Name, info.Unit.Name, info.Topic.Name),
			Detail:   topicDetail(info),
			Disabled: info.QuestionCount == 0,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: practicescreen.New(h.st, info.Topic.ID, info.Topic.Name),
					}
				}
			},
		})
	}
	return items
}

func topicDetail(info store.TopicInfo) string {
	label := mastery.Label(info.MasteryScore)
	if info.QuestionCount == 0 {
		return "no questions yet"
	}
	return fmt.Sprintf("%s · %d questions", label, info.QuestionCount)
}
