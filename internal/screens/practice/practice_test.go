package practice

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
	prac "github.com/mquinones/prepterm/internal/practice"
	"github.com/mquinones/prepterm/internal/store"
)

// mockBackend implements Backend for testing.
type mockBackend struct {
	pool       []catalog.Question
	kit        *catalog.LearningKit
	score      float64
	courseSlug string
	loadErr    error
	attemptErr error
	attempts   []catalog.Attempt
}

func (m *mockBackend) QuestionsByTopic(_ context.Context, _ string) ([]catalog.Question, error) {
	return m.pool, m.loadErr
}

func (m *mockBackend) KitByTopic(_ context.Context, _ string) (*catalog.LearningKit, error) {
	return m.kit, nil
}

func (m *mockBackend) AppendAttempt(_ context.Context, _ string, attempt catalog.Attempt) error {
	if m.attemptErr != nil {
		return m.attemptErr
	}
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *mockBackend) MasteryScore(_ context.Context, _ string) (float64, error) {
	return m.score, nil
}

func (m *mockBackend) TopicContext(_ context.Context, topicID string) (*store.TopicInfo, error) {
	return &store.TopicInfo{
		Topic:  catalog.Topic{ID: topicID, Name: "Linear equations"},
		Course: catalog.Course{Slug: m.courseSlug, Name: "Algebra"},
	}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testQuestion(id string) catalog.Question {
	return catalog.Question{
		ID:     id,
		Prompt: "Solve 2x = 6.",
		Options: map[catalog.OptionKey]string{
			catalog.OptionA: "x = 2",
			catalog.OptionB: "x = 3",
			catalog.OptionC: "x = 6",
		},
		CorrectOption: catalog.OptionB,
		Explanation: &content.Payload{
			Blocks: []content.Block{
				{Type: content.BlockText, Content: "Divide both sides by 2."},
				{Type: content.BlockMath, Latex: "x = 3"},
			},
		},
	}
}

// loadedScreen builds a PracticeScreen and runs its load message by hand.
func loadedScreen(t *testing.T, backend *mockBackend) *PracticeScreen {
	t.Helper()
	p := New(backend, "topic-1", "Linear equations")
	cmd := p.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(sessionLoadedMsg)
	require.True(t, ok)
	_, _ = p.Update(loaded)
	return p
}

func TestLoadFailureShowsError(t *testing.T) {
	backend := &mockBackend{loadErr: errors.New("disk gone")}
	p := loadedScreen(t, backend)

	assert.Contains(t, p.View(100, 30), "disk gone")

	// Any key pops back.
	_, cmd := p.Update(keyPress('x'))
	require.NotNil(t, cmd)
}

func TestEmptyPoolShowsNoQuestions(t *testing.T) {
	backend := &mockBackend{}
	p := loadedScreen(t, backend)

	require.NotNil(t, p.state)
	assert.True(t, prac.Empty(p.state))
	assert.False(t, p.state.Finished)
	assert.Contains(t, p.View(100, 30), "No questions")
}

func TestAnswerKeySelectsAndEmitsAttempt(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}, score: 1}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('b'))
	require.NotNil(t, cmd)
	assert.True(t, p.state.Revealed)
	assert.Equal(t, catalog.OptionB, p.state.Selected)
	assert.True(t, p.state.Submitting)

	// Run the save command and settle the write.
	msg := cmd()
	saved, ok := msg.(attemptSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	_, _ = p.Update(saved)

	assert.False(t, p.state.Submitting)
	assert.Equal(t, 1.0, p.masteryScore)
	require.Len(t, backend.attempts, 1)
	assert.True(t, backend.attempts[0].IsCorrect)
}

func TestDigitKeyMapsToOption(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('2'))
	require.NotNil(t, cmd)
	assert.Equal(t, catalog.OptionB, p.state.Selected)
}

func TestFailedWriteKeepsSessionMoving(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}, attemptErr: errors.New("db locked")}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)

	saved := cmd().(attemptSavedMsg)
	assert.Error(t, saved.Err)
	_, _ = p.Update(saved)

	// Local state is untouched by the failure.
	assert.False(t, p.state.Submitting)
	assert.True(t, p.state.Revealed)
	assert.Equal(t, 1, p.state.Stats.Total)
	assert.Zero(t, p.masteryScore)
	assert.NotContains(t, p.View(100, 30), "db locked")
}

func TestEnterAdvancesToFinished(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)
	_, _ = p.Update(cmd().(attemptSavedMsg))

	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, p.state.Finished)
	assert.Contains(t, p.View(100, 30), "Session complete")
}

func TestGuidedModeToggleAndStep(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('b'))
	require.NotNil(t, cmd)
	_, _ = p.Update(cmd().(attemptSavedMsg))

	_, _ = p.Update(keyPress('g'))
	assert.True(t, p.state.Guided)
	assert.Len(t, p.tutorView().Blocks, 1)

	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.Len(t, p.tutorView().Blocks, 2)

	// Step is capped at the block count.
	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.Equal(t, 1, p.state.GuidedStep)
}

func TestRestartFromSummary(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)
	_, _ = p.Update(cmd().(attemptSavedMsg))
	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, p.state.Finished)

	_, cmd = p.Update(keyPress('r'))
	require.NotNil(t, cmd)
	assert.False(t, p.state.Finished)
	assert.Zero(t, p.state.Stats.Total)
}

func TestSampledRestartPrompt(t *testing.T) {
	pool := make([]catalog.Question, 5)
	for i := range pool {
		pool[i] = testQuestion(string(rune('a' + i)))
	}
	backend := &mockBackend{pool: pool}
	p := loadedScreen(t, backend)

	// Finish the session quickly via restart-to-one then answering.
	prac.Restart(p.state, 1)
	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)
	_, _ = p.Update(cmd().(attemptSavedMsg))
	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, p.state.Finished)

	_, cmd = p.Update(keyPress('s'))
	require.NotNil(t, cmd)
	assert.True(t, p.prompting)

	for _, r := range "3" {
		_, _ = p.Update(keyPress(r))
	}
	_, cmd = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, p.prompting)
	assert.False(t, p.state.Finished)
	assert.Len(t, p.state.Questions, 3)
}

func TestPromptCancelOnEmptyInput(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)
	_, _ = p.Update(cmd().(attemptSavedMsg))
	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, _ = p.Update(keyPress('s'))
	require.True(t, p.prompting)

	_, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, p.prompting)
	assert.True(t, p.state.Finished)
}

func TestSecondSelectIgnoredWhileSubmitting(t *testing.T) {
	backend := &mockBackend{pool: []catalog.Question{testQuestion("q1")}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)

	// Write still in flight; a second answer key must not emit again.
	_, second := p.Update(keyPress('b'))
	assert.Nil(t, second)
	assert.Equal(t, catalog.OptionA, p.state.Selected)
}

func TestKitFallbackRendered(t *testing.T) {
	q := testQuestion("q1")
	q.Explanation = nil
	backend := &mockBackend{
		pool: []catalog.Question{q},
		kit: &catalog.LearningKit{
			TopicID: "topic-1",
			Summary: catalog.KitSummary{
				Bullets: []string{"Isolate the variable."},
				Notes:   []string{"Watch the sign when moving terms."},
			},
		},
	}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)

	view := p.View(100, 40)
	assert.Contains(t, view, "Topic review")
	assert.Contains(t, view, "Isolate the variable.")
	assert.Contains(t, view, "Watch the sign when moving terms.")
}

func TestRevealFlagsIncompleteSolution(t *testing.T) {
	q := testQuestion("q1")
	q.Explanation = &content.Payload{Text: "Divide both sides by 2."}
	backend := &mockBackend{pool: []catalog.Question{q}, courseSlug: "algebra"}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('b'))
	require.NotNil(t, cmd)

	assert.Contains(t, p.View(100, 40), "queued for editorial review")
}

func TestRevealSilentForCompleteSolution(t *testing.T) {
	q := testQuestion("q1")
	q.Explanation = &content.Payload{
		Blocks: []content.Block{
			{Type: content.BlockText, Content: "Divide both sides by 2."},
			{Type: content.BlockMath, Latex: "x = 3"},
			{Type: content.BlockText, Content: "Three doubled gives six, so the solution checks out."},
		},
	}
	q.ErrorCommon = "Dividing only one side."
	q.Verification = "Substitute x back into 2x."
	backend := &mockBackend{pool: []catalog.Question{q}, courseSlug: "algebra"}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('b'))
	require.NotNil(t, cmd)

	assert.NotContains(t, p.View(100, 40), "queued for editorial review")
}

func TestPendingPlaceholderRendered(t *testing.T) {
	q := testQuestion("q1")
	q.Explanation = nil
	backend := &mockBackend{pool: []catalog.Question{q}}
	p := loadedScreen(t, backend)

	_, cmd := p.Update(keyPress('a'))
	require.NotNil(t, cmd)

	assert.Contains(t, p.View(100, 40), "Solution pending review")
}
