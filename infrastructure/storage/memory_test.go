package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scorecard/internal/domain"
)

func storedAssessment() *domain.Assessment {
	return &domain.Assessment{
		ID:            "a1",
		SubjectID:     "s1",
		CompetencyIDs: []string{"c1"},
		Competencies:  []domain.Competency{{ID: "c1", Name: "Communication", Weight: 1}},
		Questions: []domain.Question{
			{ID: "q1", CompetencyID: "c1", Weight: 1, ScoreMin: 1, ScoreMax: 5},
		},
		Responses: map[string]domain.Response{},
		Status:    domain.StatusInProgress,
		StartedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	t.Run("missing assessment fails", func(t *testing.T) {
		_, err := repo.Load(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrAssessmentNotFound)
	})

	t.Run("save requires an id", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, &domain.Assessment{}))
		assert.Error(t, repo.Save(ctx, nil))
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, storedAssessment()))
		loaded, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "s1", loaded.SubjectID)
	})

	t.Run("stored state is isolated from callers", func(t *testing.T) {
		original := storedAssessment()
		require.NoError(t, repo.Save(ctx, original))

		// Mutations through the saved pointer must not reach the store.
		original.Responses["q1"] = domain.Response{QuestionID: "q1", Rating: 5}
		original.Competencies[0].Name = "mutated"

		loaded, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Empty(t, loaded.Responses)
		assert.Equal(t, "Communication", loaded.Competencies[0].Name)

		// And mutations through a loaded copy must not either.
		loaded.Questions[0].Weight = 99
		again, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 1.0, again.Questions[0].Weight)
	})
}

func TestMemoryRepository_UpsertResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("records and overwrites responses", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		updated, err := repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q1", Rating: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Responses["q1"].Rating)

		updated, err = repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q1", Rating: 5, Comment: "revised"})
		require.NoError(t, err)
		assert.Len(t, updated.Responses, 1)
		assert.Equal(t, 5, updated.Responses["q1"].Rating)
		assert.Equal(t, "revised", updated.Responses["q1"].Comment)
	})

	t.Run("returned assessment is a deep copy", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		updated, err := repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q1", Rating: 3})
		require.NoError(t, err)
		updated.Responses["q1"] = domain.Response{QuestionID: "q1", Rating: 1}

		loaded, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Responses["q1"].Rating)
	})

	t.Run("missing assessment fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, err := repo.UpsertResponse(ctx, "nope", domain.Response{QuestionID: "q1", Rating: 3})
		assert.ErrorIs(t, err, domain.ErrAssessmentNotFound)
	})

	t.Run("terminal assessment rejects upserts", func(t *testing.T) {
		repo := NewMemoryRepository()
		a := storedAssessment()
		a.Status = domain.StatusCompleted
		require.NoError(t, repo.Save(ctx, a))

		_, err := repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q1", Rating: 3})
		assert.ErrorIs(t, err, domain.ErrTerminalState)
	})

	t.Run("question outside the snapshot fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		_, err := repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q9", Rating: 3})
		assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
	})

	t.Run("out of range rating fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		_, err := repo.UpsertResponse(ctx, "a1", domain.Response{QuestionID: "q1", Rating: 6})
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	})
}

func TestMemoryRepository_CompareAndSwapStatus(t *testing.T) {
	ctx := context.Background()
	completedAt := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	t.Run("swaps when status matches", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		swapped, err := repo.CompareAndSwapStatus(ctx, "a1", domain.StatusInProgress, domain.StatusCompleted, completedAt)
		require.NoError(t, err)
		assert.True(t, swapped)

		loaded, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		require.NotNil(t, loaded.CompletedAt)
		assert.Equal(t, completedAt, *loaded.CompletedAt)
	})

	t.Run("reports false when status moved on", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Save(ctx, storedAssessment()))

		swapped, err := repo.CompareAndSwapStatus(ctx, "a1", domain.StatusInProgress, domain.StatusAbandoned, completedAt)
		require.NoError(t, err)
		require.True(t, swapped)

		// Second caller lost the race; no error, no state change.
		swapped, err = repo.CompareAndSwapStatus(ctx, "a1", domain.StatusInProgress, domain.StatusCompleted, completedAt)
		require.NoError(t, err)
		assert.False(t, swapped)

		loaded, err := repo.Load(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAbandoned, loaded.Status)
	})

	t.Run("missing assessment fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, err := repo.CompareAndSwapStatus(ctx, "nope", domain.StatusInProgress, domain.StatusCompleted, completedAt)
		assert.ErrorIs(t, err, domain.ErrAssessmentNotFound)
	})

	t.Run("illegal transition fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		a := storedAssessment()
		a.Status = domain.StatusCompleted
		require.NoError(t, repo.Save(ctx, a))

		_, err := repo.CompareAndSwapStatus(ctx, "a1", domain.StatusCompleted, domain.StatusAbandoned, completedAt)
		assert.Error(t, err)
	})
}

func TestMemoryRepository_Results(t *testing.T) {
	ctx := context.Background()

	score := func(v float64) *float64 { return &v }
	result := func(overall float64) *domain.Result {
		return &domain.Result{
			AssessmentID:   "a1",
			OverallScore:   overall,
			AnsweredCount:  1,
			TotalQuestions: 1,
			CompetencyBreakdown: []domain.CompetencyBreakdown{
				{
					CompetencyID:   "c1",
					CompetencyName: "Communication",
					AverageScore:   score(overall),
					QuestionsCount: 1,
					Responses: []domain.ResponseDetail{
						{QuestionID: "q1", Rating: 4, Score: overall},
					},
				},
			},
			ComputedAt: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		}
	}

	t.Run("missing result fails", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, err := repo.LoadResult(ctx, "a1")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("first write wins", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.SaveResult(ctx, "a1", result(4.0)))
		require.NoError(t, repo.SaveResult(ctx, "a1", result(1.0)))

		loaded, err := repo.LoadResult(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 4.0, loaded.OverallScore)
	})

	t.Run("nil result rejected", func(t *testing.T) {
		repo := NewMemoryRepository()
		assert.Error(t, repo.SaveResult(ctx, "a1", nil))
	})

	t.Run("loaded result is a deep copy", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.SaveResult(ctx, "a1", result(4.0)))

		loaded, err := repo.LoadResult(ctx, "a1")
		require.NoError(t, err)
		*loaded.CompetencyBreakdown[0].AverageScore = 0
		loaded.CompetencyBreakdown[0].Responses[0].Score = 0

		again, err := repo.LoadResult(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 4.0, *again.CompetencyBreakdown[0].AverageScore)
		assert.Equal(t, 4.0, again.CompetencyBreakdown[0].Responses[0].Score)
	})
}

func TestStaticQuestionSource(t *testing.T) {
	ctx := context.Background()
	source := NewStaticQuestionSource()

	t.Run("unknown competency fails", func(t *testing.T) {
		_, err := source.ListQuestions(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrCompetencyNotFound)
		_, err = source.GetCompetency(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrCompetencyNotFound)
	})

	t.Run("serves the registered catalog in order", func(t *testing.T) {
		source.AddCompetency(
			domain.Competency{ID: "c1", Name: "Communication"},
			[]domain.Question{
				{ID: "q1", CompetencyID: "c1"},
				{ID: "q2", CompetencyID: "c1"},
			},
		)

		comp, err := source.GetCompetency(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Communication", comp.Name)

		questions, err := source.ListQuestions(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, "q1", questions[0].ID)
		assert.Equal(t, "q2", questions[1].ID)
	})

	t.Run("re-registration replaces the question set", func(t *testing.T) {
		source.AddCompetency(
			domain.Competency{ID: "c1", Name: "Communication v2"},
			[]domain.Question{{ID: "q3", CompetencyID: "c1"}},
		)

		questions, err := source.ListQuestions(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "q3", questions[0].ID)
	})
}
