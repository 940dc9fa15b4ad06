package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mquinones/prepterm/internal/catalog"
)

type kitRow struct {
	ID               string `db:"id"`
	TopicID          string `db:"topic_id"`
	SummaryJSON      string `db:"summary_json"`
	MethodsJSON      string `db:"methods_json"`
	MistakesJSON     string `db:"mistakes_json"`
	VerificationJSON string `db:"verification_json"`
	CreatedAt        string `db:"created_at"`
}

// KitByTopic returns the learning kit for a topic, or (nil, nil) when the
// topic has none. A missing kit is a normal condition, not an error.
func (s *Store) KitByTopic(ctx context.Context, topicID string) (*catalog.LearningKit, error) {
	var row kitRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM learning_kits WHERE topic_id = ?`, topicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query learning kit: %w", err)
	}

	kit := &catalog.LearningKit{ID: row.ID, TopicID: row.TopicID}
	if err := json.Unmarshal([]byte(row.SummaryJSON), &kit.Summary); err != nil {
		return nil, fmt.Errorf("decode kit summary for topic %s: %w", topicID, err)
	}
	if err := json.Unmarshal([]byte(row.MethodsJSON), &kit.Methods); err != nil {
		return nil, fmt.Errorf("decode kit methods for topic %s: %w", topicID, err)
	}
	if err := json.Unmarshal([]byte(row.MistakesJSON), &kit.Mistakes); err != nil {
		return nil, fmt.Errorf("decode kit mistakes for topic %s: %w", topicID, err)
	}
	if err := json.Unmarshal([]byte(row.VerificationJSON), &kit.Checks); err != nil {
		return nil, fmt.Errorf("decode kit checks for topic %s: %w", topicID, err)
	}
	return kit, nil
}

// UpsertKit stores the learning kit for a topic, replacing any existing one.
func (s *Store) UpsertKit(ctx context.Context, kit catalog.LearningKit) error {
	if kit.TopicID == "" {
		return errors.New("learning kit: topic id is required")
	}
	if kit.ID == "" {
		kit.ID = uuid.New().String()
	}

	summaryJSON, err := json.Marshal(kit.Summary)
	if err != nil {
		return fmt.Errorf("encode kit summary: %w", err)
	}
	methodsJSON, err := json.Marshal(kit.Methods)
	if err != nil {
		return fmt.Errorf("encode kit methods: %w", err)
	}
	mistakesJSON, err := json.Marshal(kit.Mistakes)
	if err != nil {
		return fmt.Errorf("encode kit mistakes: %w", err)
	}
	checksJSON, err := json.Marshal(kit.Checks)
	if err != nil {
		return fmt.Errorf("encode kit checks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learning_kits (id, topic_id, summary_json, methods_json, mistakes_json, verification_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic_id) DO UPDATE SET
			summary_json = excluded.summary_json,
			methods_json = excluded.methods_json,
			mistakes_json = excluded.mistakes_json,
			verification_json = excluded.verification_json`,
		kit.ID, kit.TopicID, string(summaryJSON), string(methodsJSON),
		string(mistakesJSON), string(checksJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert learning kit: %w", err)
	}
	return nil
}
