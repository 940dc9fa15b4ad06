package practice

import (
	"time"

	"github.com/mquinones/prepterm/internal/catalog"
)

// sessionLoadedMsg is sent when the topic's pool, kit and mastery score
// have been read.
type sessionLoadedMsg struct {
	Pool       []catalog.Question
	Kit        *catalog.LearningKit
	Score      float64
	CourseSlug string
	Err        error
}

// timerTickMsg drives the elapsed-time display.
type timerTickMsg time.Time

// attemptSavedMsg is sent when the attempt write settles. Err is recorded
// nowhere; a failed write never interrupts the session.
type attemptSavedMsg struct {
	Score float64
	Err   error
}
