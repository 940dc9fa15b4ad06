package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
)

type questionRow struct {
	ID              string  `db:"id"`
	CourseID        string  `db:"course_id"`
	UnitID          string  `db:"unit_id"`
	TopicID         string  `db:"topic_id"`
	PromptText      string  `db:"prompt_text"`
	OptionsJSON     string  `db:"options_json"`
	CorrectOption   string  `db:"correct_option"`
	ExplanationJSON *string `db:"explanation_json"`
	Difficulty      string  `db:"difficulty"`
	SourceType      string  `db:"source_type"`
	SourceRef       string  `db:"source_ref"`
	ErrorCommon     string  `db:"error_common"`
	Verification    string  `db:"verification"`
	CreatedAt       string  `db:"created_at"`
}

func (r questionRow) toQuestion() (catalog.Question, error) {
	q := catalog.Question{
		ID:            r.ID,
		CourseID:      r.CourseID,
		UnitID:        r.UnitID,
		TopicID:       r.TopicID,
		Prompt:        r.PromptText,
		CorrectOption: catalog.OptionKey(r.CorrectOption),
		Difficulty:    catalog.Difficulty(r.Difficulty),
		SourceType:    r.SourceType,
		SourceRef:     r.SourceRef,
		ErrorCommon:   r.ErrorCommon,
		Verification:  r.Verification,
	}

	if err := json.Unmarshal([]byte(r.OptionsJSON), &q.Options); err != nil {
		return q, fmt.Errorf("decode options for question %s: %w", r.ID, err)
	}
	if r.ExplanationJSON != nil && *r.ExplanationJSON != "" {
		var p content.Payload
		if err := json.Unmarshal([]byte(*r.ExplanationJSON), &p); err != nil {
			return q, fmt.Errorf("decode explanation for question %s: %w", r.ID, err)
		}
		q.Explanation = &p
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		q.CreatedAt = t
	}
	return q, nil
}

// QuestionsByTopic returns all questions under a topic, newest first.
func (s *Store) QuestionsByTopic(ctx context.Context, topicID string) ([]catalog.Question, error) {
	var rows []questionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM questions WHERE topic_id = ? ORDER BY created_at DESC, id`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	questions := make([]catalog.Question, 0, len(rows))
	for _, r := range rows {
		q, err := r.toQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// QuestionRecord is a question joined with its catalog context, used by
// the review and stats reports.
type QuestionRecord struct {
	catalog.Question
	CourseSlug string
	CourseName string
	UnitName   string
	TopicName  string
}

// QuestionsForReview returns every question in the bank with its course
// and topic context, in catalog order.
func (s *Store) QuestionsForReview(ctx context.Context) ([]QuestionRecord, error) {
	type reviewRow struct {
		questionRow
		CourseSlug string `db:"course_slug"`
		CourseName string `db:"course_name"`
		UnitName   string `db:"unit_name"`
		TopicName  string `db:"topic_name"`
	}

	var rows []reviewRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT q.*, c.slug AS course_slug, c.name AS course_name,
		       u.name AS unit_name, t.name AS topic_name
		FROM questions q
		JOIN topics t ON t.id = q.topic_id
		JOIN units u ON u.id = q.unit_id
		JOIN courses c ON c.id = q.course_id
		ORDER BY c.ord, c.name, u.ord, u.name, t.ord, t.name, q.created_at`)
	if err != nil {
		return nil, fmt.Errorf("query question bank: %w", err)
	}

	records := make([]QuestionRecord, 0, len(rows))
	for _, r := range rows {
		q, err := r.toQuestion()
		if err != nil {
			return nil, err
		}
		records = append(records, QuestionRecord{
			Question:   q,
			CourseSlug: r.CourseSlug,
			CourseName: r.CourseName,
			UnitName:   r.UnitName,
			TopicName:  r.TopicName,
		})
	}
	return records, nil
}

// InsertQuestion stores a new question and returns its id. A zero ID and
// CreatedAt are filled in.
func (s *Store) InsertQuestion(ctx context.Context, q catalog.Question) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	var explanationJSON *string
	if q.Explanation != nil {
		b, err := json.Marshal(q.Explanation)
		if err != nil {
			return "", fmt.Errorf("encode explanation: %w", err)
		}
		enc := string(b)
		explanationJSON = &enc
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (id, course_id, unit_id, topic_id, prompt_text,
			options_json, correct_option, explanation_json, difficulty,
			source_type, source_ref, error_common, verification, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.CourseID, q.UnitID, q.TopicID, q.Prompt,
		string(optionsJSON), string(q.CorrectOption), explanationJSON, string(q.Difficulty),
		q.SourceType, q.SourceRef, q.ErrorCommon, q.Verification,
		q.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert question: %w", err)
	}
	return q.ID, nil
}
