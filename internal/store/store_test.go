package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTopic creates a course/unit/topic chain and returns the three ids.
func seedTopic(t *testing.T, s *Store) (courseID, unitID, topicID string) {
	t.Helper()
	ctx := context.Background()
	var err error
	courseID, err = s.EnsureCourse(ctx, "Algebra", "algebra")
	require.NoError(t, err)
	unitID, err = s.EnsureUnit(ctx, courseID, "Equations", "equations")
	require.NoError(t, err)
	topicID, err = s.EnsureTopic(ctx, unitID, "Linear equations", "linear-equations")
	require.NoError(t, err)
	return courseID, unitID, topicID
}

func seedQuestion(t *testing.T, s *Store, courseID, unitID, topicID string) string {
	t.Helper()
	id, err := s.InsertQuestion(context.Background(), catalog.Question{
		CourseID: courseID,
		UnitID:   unitID,
		TopicID:  topicID,
		Prompt:   "Solve 2x + 3 = 11.",
		Options: map[catalog.OptionKey]string{
			catalog.OptionA: "x = 3",
			catalog.OptionB: "x = 4",
			catalog.OptionC: "x = 7",
		},
		CorrectOption: catalog.OptionB,
		Explanation: &content.Payload{
			Blocks: []content.Block{
				{Type: content.BlockText, Content: "Subtract 3 from both sides."},
				{Type: content.BlockMath, Latex: "2x = 8"},
				{Type: content.BlockText, Content: "Divide by 2."},
			},
		},
		Difficulty: catalog.DifficultyEasy,
	})
	require.NoError(t, err)
	return id
}

func TestEnsureCourseIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.EnsureCourse(ctx, "Algebra", "algebra")
	require.NoError(t, err)
	second, err := s.EnsureCourse(ctx, "Algebra", "algebra")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuestionRoundTrip(t *testing.T) {
	s := testStore(t)
	courseID, unitID, topicID := seedTopic(t, s)
	id := seedQuestion(t, s, courseID, unitID, topicID)

	questions, err := s.QuestionsByTopic(context.Background(), topicID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, id, q.ID)
	assert.Equal(t, "Solve 2x + 3 = 11.", q.Prompt)
	assert.Equal(t, catalog.OptionB, q.CorrectOption)
	assert.Equal(t, "x = 7", q.Options[catalog.OptionC])
	require.NotNil(t, q.Explanation)
	assert.Len(t, q.Explanation.Blocks, 3)
	assert.Equal(t, content.BlockMath, q.Explanation.Blocks[1].Type)
}

func TestInsertQuestionRejectsInvalid(t *testing.T) {
	s := testStore(t)
	courseID, unitID, topicID := seedTopic(t, s)

	_, err := s.InsertQuestion(context.Background(), catalog.Question{
		CourseID:      courseID,
		UnitID:        unitID,
		TopicID:       topicID,
		Prompt:        "Only one option.",
		Options:       map[catalog.OptionKey]string{catalog.OptionA: "yes"},
		CorrectOption: catalog.OptionA,
	})
	assert.Error(t, err)
}

func TestKitByTopicMissing(t *testing.T) {
	s := testStore(t)
	_, _, topicID := seedTopic(t, s)

	kit, err := s.KitByTopic(context.Background(), topicID)
	require.NoError(t, err)
	assert.Nil(t, kit)
}

func TestKitUpsertAndRead(t *testing.T) {
	s := testStore(t)
	_, _, topicID := seedTopic(t, s)
	ctx := context.Background()

	err := s.UpsertKit(ctx, catalog.LearningKit{
		TopicID:  topicID,
		Summary:  catalog.KitSummary{Bullets: []string{"Isolate the variable."}},
		Methods:  []catalog.KitMethod{{Name: "Balance method", Steps: []string{"Apply the same operation to both sides."}}},
		Mistakes: []catalog.KitMistake{{Mistake: "Sign flip on transfer", Fix: "Change the sign when moving a term."}},
		Checks:   []string{"Substitute the result back."},
	})
	require.NoError(t, err)

	kit, err := s.KitByTopic(ctx, topicID)
	require.NoError(t, err)
	require.NotNil(t, kit)
	assert.Equal(t, []string{"Isolate the variable."}, kit.Summary.Bullets)
	require.Len(t, kit.Methods, 1)
	assert.Equal(t, "Balance method", kit.Methods[0].Name)

	// Second upsert replaces in place.
	err = s.UpsertKit(ctx, catalog.LearningKit{
		TopicID: topicID,
		Summary: catalog.KitSummary{Bullets: []string{"Updated."}},
	})
	require.NoError(t, err)

	kit, err = s.KitByTopic(ctx, topicID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Updated."}, kit.Summary.Bullets)
	assert.Empty(t, kit.Methods)
}

func TestAppendAttemptUpdatesMastery(t *testing.T) {
	s := testStore(t)
	courseID, unitID, topicID := seedTopic(t, s)
	questionID := seedQuestion(t, s, courseID, unitID, topicID)
	ctx := context.Background()

	score, err := s.MasteryScore(ctx, topicID)
	require.NoError(t, err)
	assert.Zero(t, score)

	err = s.AppendAttempt(ctx, "session-1", catalog.Attempt{
		QuestionID:     questionID,
		SelectedOption: catalog.OptionB,
		IsCorrect:      true,
		TimeMs:         4200,
	})
	require.NoError(t, err)

	score, err = s.MasteryScore(ctx, topicID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	err = s.AppendAttempt(ctx, "session-1", catalog.Attempt{
		QuestionID:     questionID,
		SelectedOption: catalog.OptionA,
		IsCorrect:      false,
		TimeMs:         3100,
	})
	require.NoError(t, err)

	score, err = s.MasteryScore(ctx, topicID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestAppendAttemptUnknownQuestion(t *testing.T) {
	s := testStore(t)
	seedTopic(t, s)

	err := s.AppendAttempt(context.Background(), "session-1", catalog.Attempt{
		QuestionID:     "nope",
		SelectedOption: catalog.OptionA,
	})
	assert.Error(t, err)
}

func TestCatalogTree(t *testing.T) {
	s := testStore(t)
	courseID, unitID, topicID := seedTopic(t, s)
	seedQuestion(t, s, courseID, unitID, topicID)

	infos, err := s.CatalogTree(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Linear equations", infos[0].Topic.Name)
	assert.Equal(t, "Equations", infos[0].Unit.Name)
	assert.Equal(t, "Algebra", infos[0].Course.Name)
	assert.Equal(t, 1, infos[0].QuestionCount)
	assert.Zero(t, infos[0].MasteryScore)
}

func TestTopicContextMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.TopicContext(context.Background(), "missing")
	assert.Error(t, err)
}

func TestTopicStats(t *testing.T) {
	s := testStore(t)
	courseID, unitID, topicID := seedTopic(t, s)
	questionID := seedQuestion(t, s, courseID, unitID, topicID)
	ctx := context.Background()

	for _, correct := range []bool{true, true, false} {
		err := s.AppendAttempt(ctx, "session-1", catalog.Attempt{
			QuestionID:     questionID,
			SelectedOption: catalog.OptionB,
			IsCorrect:      correct,
			TimeMs:         3000,
		})
		require.NoError(t, err)
	}

	stats, err := s.TopicStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Total)
	assert.Equal(t, 2, stats[0].Correct)
	assert.InDelta(t, 2.0/3.0, stats[0].Accuracy, 1e-9)
	assert.Equal(t, int64(3000), stats[0].AvgTimeMs)
	assert.InDelta(t, 2.0/3.0, stats[0].MasteryScore, 1e-9)
}

func TestTopicIDBySlugs(t *testing.T) {
	s := testStore(t)
	_, _, topicID := seedTopic(t, s)
	ctx := context.Background()

	id, err := s.TopicIDBySlugs(ctx, "algebra", "equations", "linear-equations")
	require.NoError(t, err)
	assert.Equal(t, topicID, id)

	_, err = s.TopicIDBySlugs(ctx, "algebra", "equations", "missing")
	assert.Error(t, err)
}
