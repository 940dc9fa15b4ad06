// Package catalog defines the content types shared across the application:
// the course/unit/topic hierarchy, questions with their answer options, the
// topic-level learning kits, and attempt records.
package catalog

import (
	"fmt"
	"time"

	"github.com/mquinones/prepterm/internal/content"
)

// OptionKey identifies one of the five answer options of a question.
type OptionKey string

const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"
	OptionE OptionKey = "E"
)

// OptionKeys lists all option keys in display order.
var OptionKeys = []OptionKey{OptionA, OptionB, OptionC, OptionD, OptionE}

// Difficulty is the question difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Course is a top-level subject (algebra, verbal aptitude, ...).
type Course struct {
	ID    string
	Name  string
	Slug  string
	Order int
}

// Unit is a chapter within a course.
type Unit struct {
	ID       string
	CourseID string
	Name     string
	Slug     string
	Order    int
}

// Topic is a practiceable subtopic within a unit. Question pools and
// mastery scores are tracked per topic.
type Topic struct {
	ID     string
	UnitID string
	Name   string
	Slug   string
	Order  int
}

// Question is a multiple-choice question. Immutable within a session.
type Question struct {
	ID            string
	CourseID      string
	UnitID        string
	TopicID       string
	Prompt        string
	Options       map[OptionKey]string
	CorrectOption OptionKey
	Explanation   *content.Payload
	Difficulty    Difficulty
	SourceType    string
	SourceRef     string
	ErrorCommon   string
	Verification  string
	CreatedAt     time.Time
}

// PopulatedOptions returns the keys with non-empty option text, in A-E order.
func (q *Question) PopulatedOptions() []OptionKey {
	var keys []OptionKey
	for _, k := range OptionKeys {
		if q.Options[k] != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// HasOption reports whether the given key carries option text.
func (q *Question) HasOption(k OptionKey) bool {
	return q.Options[k] != ""
}

// Validate checks the structural invariants of a question: at least two
// populated options and a correct option that references one of them.
func (q *Question) Validate() error {
	if len(q.PopulatedOptions()) < 2 {
		return fmt.Errorf("question %s: needs at least two answer options", q.ID)
	}
	if !q.HasOption(q.CorrectOption) {
		return fmt.Errorf("question %s: correct option %q is not populated", q.ID, q.CorrectOption)
	}
	return nil
}

// KitSummary is the bullet summary section of a learning kit.
type KitSummary struct {
	Bullets []string `json:"bullets"`
	Notes   []string `json:"notes,omitempty"`
}

// KitMethod is a named solution method with ordered steps.
type KitMethod struct {
	Name      string   `json:"name"`
	WhenToUse string   `json:"when_to_use,omitempty"`
	Steps     []string `json:"steps"`
}

// KitMistake is a (mistake, fix) pair.
type KitMistake struct {
	Mistake string `json:"mistake"`
	Fix     string `json:"fix"`
}

// LearningKit is topic-level fallback tutoring content, consumed when a
// question has no authored explanation. Authored outside the engine.
type LearningKit struct {
	ID       string
	TopicID  string
	Summary  KitSummary
	Methods  []KitMethod
	Mistakes []KitMistake
	Checks   []string
}

// Attempt is the record emitted once per answered question.
type Attempt struct {
	QuestionID     string
	SelectedOption OptionKey
	IsCorrect      bool
	TimeMs         int64
}

// TopicStats aggregates attempt history for one topic, for reports.
type TopicStats struct {
	TopicID      string
	TopicName    string
	Total        int
	Correct      int
	Accuracy     float64
	AvgTimeMs    int64
	MasteryScore float64
}
