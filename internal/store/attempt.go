package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/mastery"
)

// AppendAttempt records one answered question and refreshes the topic's
// mastery score from the updated attempt history. The engine calls this
// fire-and-forget after each reveal.
func (s *Store) AppendAttempt(ctx context.Context, sessionID string, a catalog.Attempt) error {
	var topicID string
	err := s.db.GetContext(ctx, &topicID, `SELECT topic_id FROM questions WHERE id = ?`, a.QuestionID)
	if err != nil {
		return fmt.Errorf("resolve topic for question %s: %w", a.QuestionID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, session_id, question_id, topic_id, selected_option, is_correct, time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, a.QuestionID, topicID,
		string(a.SelectedOption), boolToInt(a.IsCorrect), a.TimeMs, now)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	return s.refreshMastery(ctx, topicID)
}

// refreshMastery recomputes a topic's mastery score from its full attempt
// history and upserts it.
func (s *Store) refreshMastery(ctx context.Context, topicID string) error {
	var counts struct {
		Total   int `db:"total"`
		Correct int `db:"correct"`
	}
	err := s.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total, COALESCE(SUM(is_correct), 0) AS correct
		FROM attempts WHERE topic_id = ?`, topicID)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}

	score := mastery.Score(counts.Correct, counts.Total)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mastery (topic_id, score, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(topic_id) DO UPDATE SET
			score = excluded.score,
			updated_at = excluded.updated_at`,
		topicID, score, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert mastery: %w", err)
	}
	return nil
}

// MasteryScore returns the current mastery score for a topic, 0 when no
// attempts were ever recorded.
func (s *Store) MasteryScore(ctx context.Context, topicID string) (float64, error) {
	var score float64
	err := s.db.GetContext(ctx, &score, `SELECT score FROM mastery WHERE topic_id = ?`, topicID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query mastery: %w", err)
	}
	return score, nil
}

// TopicStats aggregates attempt history per topic for the stats report,
// in catalog order. Topics without attempts are included with zero counts.
func (s *Store) TopicStats(ctx context.Context) ([]catalog.TopicStats, error) {
	type statsRow struct {
		TopicID      string  `db:"topic_id"`
		TopicName    string  `db:"topic_name"`
		Total        int     `db:"total"`
		Correct      int     `db:"correct"`
		AvgTimeMs    float64 `db:"avg_time_ms"`
		MasteryScore float64 `db:"mastery_score"`
	}

	var rows []statsRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id AS topic_id, t.name AS topic_name,
		       COUNT(a.id) AS total,
		       COALESCE(SUM(a.is_correct), 0) AS correct,
		       COALESCE(AVG(a.time_ms), 0) AS avg_time_ms,
		       COALESCE(m.score, 0) AS mastery_score
		FROM topics t
		JOIN units u ON u.id = t.unit_id
		JOIN courses c ON c.id = u.course_id
		LEFT JOIN attempts a ON a.topic_id = t.id
		LEFT JOIN mastery m ON m.topic_id = t.id
		GROUP BY t.id
		ORDER BY c.ord, c.name, u.ord, u.name, t.ord, t.name`)
	if err != nil {
		return nil, fmt.Errorf("query topic stats: %w", err)
	}

	stats := make([]catalog.TopicStats, len(rows))
	for i, r := range rows {
		stats[i] = catalog.TopicStats{
			TopicID:      r.TopicID,
			TopicName:    r.TopicName,
			Total:        r.Total,
			Correct:      r.Correct,
			Accuracy:     mastery.Score(r.Correct, r.Total),
			AvgTimeMs:    int64(r.AvgTimeMs),
			MasteryScore: r.MasteryScore,
		}
	}
	return stats, nil
}

// ResetProgress clears all attempt history and mastery scores, keeping the
// question bank intact.
func (s *Store) ResetProgress(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mastery`); err != nil {
		return fmt.Errorf("clear mastery: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
