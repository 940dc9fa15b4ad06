package practice

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mquinones/prepterm/internal/catalog"
)

// SessionStats accumulates results across one session.
type SessionStats struct {
	// Correct is the number of correctly answered questions.
	Correct int

	// Total is the number of answered questions.
	Total int

	// TimesMs holds the per-question elapsed times, in answer order.
	TimesMs []int64
}

// SessionState tracks the runtime state of one practice session. A session
// is exclusively owned by a single screen instance; there is no shared
// mutable state across sessions.
type SessionState struct {
	// Pool is the topic's full question pool, kept for restarts.
	Pool []catalog.Question

	// Questions is the shuffled (optionally size-limited) working set.
	Questions []catalog.Question

	// Index is the position of the current question in Questions.
	Index int

	// Selected is the chosen option for the current question, empty if none.
	Selected catalog.OptionKey

	// Revealed is true once the current question has been answered.
	Revealed bool

	// QuestionStart is when the current question was first displayed.
	QuestionStart time.Time

	// ElapsedMs is the running elapsed display value; frozen at the reveal
	// instant once an answer is selected.
	ElapsedMs int64

	// Stats are the cumulative session counters.
	Stats SessionStats

	// Finished is true after advancing past the last question.
	Finished bool

	// Guided is the progressive-disclosure flag for the tutor panel.
	Guided bool

	// GuidedStep is the current disclosure step while Guided is on.
	GuidedStep int

	// Submitting is true while an attempt write is in flight. At most one
	// write per question; Select is a no-op while it is set.
	Submitting bool

	// SessionID identifies this session in emitted records.
	SessionID string
}

// NewSessionState creates a session over a fresh uniform shuffle of pool.
// A positive sampleSize bounds the working set to that many questions.
// An empty pool yields an empty session; callers must treat that as a
// distinct "no questions" condition, not as Finished.
func NewSessionState(pool []catalog.Question, sampleSize int) *SessionState {
	s := &SessionState{
		Pool:      pool,
		SessionID: uuid.New().String(),
	}
	s.Questions = samplePool(pool, sampleSize)
	s.QuestionStart = time.Now()
	return s
}

// samplePool returns a shuffled copy of pool, truncated to sampleSize when
// that is positive and smaller than the pool.
func samplePool(pool []catalog.Question, sampleSize int) []catalog.Question {
	shuffled := make([]catalog.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if sampleSize > 0 && sampleSize < len(shuffled) {
		shuffled = shuffled[:sampleSize]
	}
	return shuffled
}

// Current returns the active question, or nil when the session is empty
// or finished.
func Current(state *SessionState) *catalog.Question {
	if state.Finished || state.Index < 0 || state.Index >= len(state.Questions) {
		return nil
	}
	return &state.Questions[state.Index]
}

// Empty reports whether the session has no questions at all.
func Empty(state *SessionState) bool {
	return len(state.Questions) == 0
}
