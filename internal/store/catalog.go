package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mquinones/prepterm/internal/catalog"
)

// TopicInfo bundles a topic with its ancestry and display data for the
// browser and the practice screen header.
type TopicInfo struct {
	Topic         catalog.Topic
	Unit          catalog.Unit
	Course        catalog.Course
	MasteryScore  float64
	QuestionCount int
}

type topicInfoRow struct {
	TopicID       string  `db:"topic_id"`
	TopicName     string  `db:"topic_name"`
	TopicSlug     string  `db:"topic_slug"`
	TopicOrd      int     `db:"topic_ord"`
	UnitID        string  `db:"unit_id"`
	UnitName      string  `db:"unit_name"`
	UnitSlug      string  `db:"unit_slug"`
	UnitOrd       int     `db:"unit_ord"`
	CourseID      string  `db:"course_id"`
	CourseName    string  `db:"course_name"`
	CourseSlug    string  `db:"course_slug"`
	CourseOrd     int     `db:"course_ord"`
	MasteryScore  float64 `db:"mastery_score"`
	QuestionCount int     `db:"question_count"`
}

const topicInfoQuery = `
	SELECT t.id AS topic_id, t.name AS topic_name, t.slug AS topic_slug, t.ord AS topic_ord,
	       u.id AS unit_id, u.name AS unit_name, u.slug AS unit_slug, u.ord AS unit_ord,
	       c.id AS course_id, c.name AS course_name, c.slug AS course_slug, c.ord AS course_ord,
	       COALESCE(m.score, 0) AS mastery_score,
	       (SELECT COUNT(*) FROM questions q WHERE q.topic_id = t.id) AS question_count
	FROM topics t
	JOIN units u ON u.id = t.unit_id
	JOIN courses c ON c.id = u.course_id
	LEFT JOIN mastery m ON m.topic_id = t.id`

func (r topicInfoRow) toInfo() TopicInfo {
	return TopicInfo{
		Topic:         catalog.Topic{ID: r.TopicID, UnitID: r.UnitID, Name: r.TopicName, Slug: r.TopicSlug, Order: r.TopicOrd},
		Unit:          catalog.Unit{ID: r.UnitID, CourseID: r.CourseID, Name: r.UnitName, Slug: r.UnitSlug, Order: r.UnitOrd},
		Course:        catalog.Course{ID: r.CourseID, Name: r.CourseName, Slug: r.CourseSlug, Order: r.CourseOrd},
		MasteryScore:  r.MasteryScore,
		QuestionCount: r.QuestionCount,
	}
}

// CatalogTree returns all topics with their unit and course, in catalog
// display order.
func (s *Store) CatalogTree(ctx context.Context) ([]TopicInfo, error) {
	var rows []topicInfoRow
	query := topicInfoQuery + ` ORDER BY c.ord, c.name, u.ord, u.name, t.ord, t.name`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query catalog tree: %w", err)
	}
	infos := make([]TopicInfo, len(rows))
	for i, r := range rows {
		infos[i] = r.toInfo()
	}
	return infos, nil
}

// TopicContext returns one topic with its ancestry, or an error if the
// topic does not exist.
func (s *Store) TopicContext(ctx context.Context, topicID string) (*TopicInfo, error) {
	var row topicInfoRow
	query := topicInfoQuery + ` WHERE t.id = ?`
	if err := s.db.GetContext(ctx, &row, query, topicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("topic %s not found", topicID)
		}
		return nil, fmt.Errorf("query topic: %w", err)
	}
	info := row.toInfo()
	return &info, nil
}

// EnsureCourse returns the id of the course with the given slug, creating
// it when missing.
func (s *Store) EnsureCourse(ctx context.Context, name, slug string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM courses WHERE slug = ?`, slug)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("query course %q: %w", slug, err)
	}

	id = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `INSERT INTO courses (id, name, slug) VALUES (?, ?, ?)`, id, name, slug)
	if err != nil {
		return "", fmt.Errorf("insert course %q: %w", slug, err)
	}
	return id, nil
}

// EnsureUnit returns the id of the unit with the given slug inside a
// course, creating it when missing.
func (s *Store) EnsureUnit(ctx context.Context, courseID, name, slug string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM units WHERE course_id = ? AND slug = ?`, courseID, slug)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("query unit %q: %w", slug, err)
	}

	id = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `INSERT INTO units (id, course_id, name, slug) VALUES (?, ?, ?, ?)`, id, courseID, name, slug)
	if err != nil {
		return "", fmt.Errorf("insert unit %q: %w", slug, err)
	}
	return id, nil
}

// EnsureTopic returns the id of the topic with the given slug inside a
// unit, creating it when missing.
func (s *Store) EnsureTopic(ctx context.Context, unitID, name, slug string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM topics WHERE unit_id = ? AND slug = ?`, unitID, slug)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("query topic %q: %w", slug, err)
	}

	id = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `INSERT INTO topics (id, unit_id, name, slug) VALUES (?, ?, ?, ?)`, id, unitID, name, slug)
	if err != nil {
		return "", fmt.Errorf("insert topic %q: %w", slug, err)
	}
	return id, nil
}

// TopicIDBySlugs resolves course/unit/topic slugs to a topic id.
func (s *Store) TopicIDBySlugs(ctx context.Context, courseSlug, unitSlug, topicSlug string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `
		SELECT t.id FROM topics t
		JOIN units u ON u.id = t.unit_id
		JOIN courses c ON c.id = u.course_id
		WHERE c.slug = ? AND u.slug = ? AND t.slug = ?`,
		courseSlug, unitSlug, topicSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("topic %s/%s/%s not found", courseSlug, unitSlug, topicSlug)
		}
		return "", fmt.Errorf("resolve topic: %w", err)
	}
	return id, nil
}
