package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/mastery"
	prac "github.com/mquinones/prepterm/internal/practice"
	"github.com/mquinones/prepterm/internal/router"
	"github.com/mquinones/prepterm/internal/screen"
	"github.com/mquinones/prepterm/internal/store"
	"github.com/mquinones/prepterm/internal/ui/components"
	"github.com/mquinones/prepterm/internal/ui/layout"
)

// tickInterval is the elapsed-display refresh rate.
const tickInterval = 100 * time.Millisecond

// Backend bundles the store reads and writes the session needs.
type Backend interface {
	prac.QuestionSource
	prac.KitSource
	prac.AttemptSink
	prac.MasterySource

	// TopicContext resolves the topic's ancestry; the course slug feeds
	// the explanation quality check shown on reveal.
	TopicContext(ctx context.Context, topicID string) (*store.TopicInfo, error)
}

// PracticeScreen implements screen.Screen for one topic's practice session.
type PracticeScreen struct {
	backend   Backend
	topicID   string
	topicName string

	state        *prac.SessionState
	kit          *catalog.LearningKit
	masteryScore float64
	courseSlug   string

	input     components.TextInput
	prompting bool // the "practice N similar" prompt is active
	errMsg    string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen for a topic.
func New(backend Backend, topicID, topicName string) *PracticeScreen {
	return &PracticeScreen{
		backend:   backend,
		topicID:   topicID,
		topicName: topicName,
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	return p.loadSession()
}

func (p *PracticeScreen) Title() string {
	return p.topicName
}

// HeaderStatus shows the topic's mastery in the header.
func (p *PracticeScreen) HeaderStatus() string {
	return masteryStatus(p.masteryScore)
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case p.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case p.state == nil:
		return nil
	case prac.Empty(p.state):
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case p.prompting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start (empty cancels)"},
		}
	case p.state.Finished:
		return []layout.KeyHint{
			{Key: "R", Description: "Practice again"},
			{Key: "S", Description: "Practice N questions"},
			{Key: "Esc", Description: "Back"},
		}
	case p.state.Revealed:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "G", Description: "Guided mode"},
		}
		if p.state.Guided {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Next step"})
		}
		return hints
	default:
		return []layout.KeyHint{
			{Key: "A-E", Description: "Answer"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (p *PracticeScreen) View(width, height int) string {
	switch {
	case p.errMsg != "":
		return renderError(width, p.errMsg)
	case p.state == nil:
		return renderLoading(width)
	case prac.Empty(p.state):
		return renderNoQuestions(width, p.topicName)
	case p.state.Finished:
		return p.renderFinished(width)
	case p.state.Revealed:
		return p.renderReveal(width)
	default:
		return p.renderQuestion(width)
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		return p.handleLoaded(msg)

	case timerTickMsg:
		return p.handleTick()

	case attemptSavedMsg:
		return p.handleAttemptSaved(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.prompting {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	return p, nil
}

// loadSession reads the pool, kit and mastery score in one command. A kit
// or mastery read failure is tolerated; only a missing pool is fatal.
func (p *PracticeScreen) loadSession() tea.Cmd {
	backend := p.backend
	topicID := p.topicID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := backend.QuestionsByTopic(ctx, topicID)
		if err != nil {
			return sessionLoadedMsg{Err: err}
		}

		kit, err := backend.KitByTopic(ctx, topicID)
		if err != nil {
			kit = nil
		}
		score, err := backend.MasteryScore(ctx, topicID)
		if err != nil {
			score = 0
		}

		var courseSlug string
		if info, err := backend.TopicContext(ctx, topicID); err == nil {
			courseSlug = info.Course.Slug
		}

		return sessionLoadedMsg{Pool: pool, Kit: kit, Score: score, CourseSlug: courseSlug}
	}
}

func (p *PracticeScreen) handleLoaded(msg sessionLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		p.errMsg = msg.Err.Error()
		return p, nil
	}
	p.state = prac.NewSessionState(msg.Pool, 0)
	p.kit = msg.Kit
	p.masteryScore = msg.Score
	p.courseSlug = msg.CourseSlug
	if prac.Empty(p.state) {
		return p, nil
	}
	return p, tickCmd()
}

func (p *PracticeScreen) handleTick() (screen.Screen, tea.Cmd) {
	if p.state == nil || p.state.Finished || prac.Empty(p.state) {
		return p, nil
	}
	prac.Tick(p.state)
	return p, tickCmd()
}

func (p *PracticeScreen) handleAttemptSaved(msg attemptSavedMsg) (screen.Screen, tea.Cmd) {
	if p.state == nil {
		return p, nil
	}
	prac.WriteSettled(p.state)
	if msg.Err == nil {
		p.masteryScore = msg.Score
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.errMsg != "" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if p.state == nil {
		return p, nil
	}
	if prac.Empty(p.state) {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if p.prompting {
		if key == "enter" {
			p.prompting = false
			if n, err := p.input.NumericValue(); err == nil && n > 0 {
				prac.Restart(p.state, n)
				return p, tickCmd()
			}
			return p, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	if p.state.Finished {
		switch key {
		case "r":
			prac.Restart(p.state, 0)
			return p, tickCmd()
		case "s":
			p.prompting = true
			p.input = components.NewTextInput("Questions:", "how many?", true, 3)
			return p, p.input.Init()
		}
		return p, nil
	}

	if p.state.Revealed {
		switch key {
		case "enter", "n":
			prac.Advance(p.state)
			return p, nil
		case "g":
			prac.ToggleGuided(p.state)
			return p, nil
		case "space", " ":
			if p.state.Guided && p.tutorView().CanAdvance {
				prac.AdvanceGuided(p.state)
			}
			return p, nil
		}
		return p, nil
	}

	if opt, ok := optionForKey(key); ok {
		if att := prac.Select(p.state, opt); att != nil {
			return p, p.saveAttempt(*att)
		}
	}
	return p, nil
}

// saveAttempt persists the attempt and re-reads the mastery score. The
// session UI never blocks on this and ignores failures.
func (p *PracticeScreen) saveAttempt(att catalog.Attempt) tea.Cmd {
	backend := p.backend
	sessionID := p.state.SessionID
	topicID := p.topicID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := backend.AppendAttempt(ctx, sessionID, att); err != nil {
			return attemptSavedMsg{Err: err}
		}
		score, err := backend.MasteryScore(ctx, topicID)
		if err != nil {
			return attemptSavedMsg{Err: err}
		}
		return attemptSavedMsg{Score: score}
	}
}

// optionForKey maps letter and digit keys to option keys.
func optionForKey(key string) (catalog.OptionKey, bool) {
	switch key {
	case "a", "1":
		return catalog.OptionA, true
	case "b", "2":
		return catalog.OptionB, true
	case "c", "3":
		return catalog.OptionC, true
	case "d", "4":
		return catalog.OptionD, true
	case "e", "5":
		return catalog.OptionE, true
	}
	return "", false
}

// masteryStatus formats the header's mastery readout.
func masteryStatus(score float64) string {
	if score <= 0 {
		return mastery.Label(0)
	}
	return mastery.Label(score) + " " + percent(score)
}

// tickCmd returns the display refresh command.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
