package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scorecard/internal/domain"
)

func TestBayesianModel_DeriveWeights(t *testing.T) {
	m, err := NewBayesianModel("bayes", DefaultBayesianConfig())
	require.NoError(t, err)

	t.Run("weights track outcome correlation and sum to 1", func(t *testing.T) {
		outcomes := []float64{1, 2, 3, 4}
		cfg, err := m.DeriveWeights("2026-Q3", map[string][]float64{
			"aligned":  {1, 2, 3, 4},
			"inverted": {4, 3, 2, 1},
		}, outcomes)
		require.NoError(t, err)

		assert.Equal(t, "2026-Q3", cfg.Cycle)
		require.Len(t, cfg.Competencies, 2)

		var total float64
		for _, w := range cfg.Competencies {
			total += w
		}
		assert.InDelta(t, 1.0, total, 1e-9)

		// Perfect correlation dominates; the inverted series only keeps
		// the floor weight.
		assert.Greater(t, cfg.Competencies["aligned"], cfg.Competencies["inverted"])
		assert.InDelta(t, 0.05/1.05, cfg.Competencies["inverted"], 1e-9)
	})

	t.Run("flat series earns the floor weight", func(t *testing.T) {
		cfg, err := m.DeriveWeights("2026-Q3", map[string][]float64{
			"flat":    {3, 3, 3},
			"aligned": {1, 2, 3},
		}, []float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0.05/1.05, cfg.Competencies["flat"], 1e-9)
	})

	t.Run("derivation is deterministic", func(t *testing.T) {
		history := map[string][]float64{
			"c1": {1, 3, 2, 5},
			"c2": {2, 2, 4, 4},
			"c3": {5, 4, 3, 1},
		}
		outcomes := []float64{1, 2, 3, 4}

		first, err := m.DeriveWeights("c", history, outcomes)
		require.NoError(t, err)
		second, err := m.DeriveWeights("c", history, outcomes)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("misaligned series fails", func(t *testing.T) {
		_, err := m.DeriveWeights("c", map[string][]float64{
			"short": {1, 2},
		}, []float64{1, 2, 3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "short")
	})

	t.Run("too few outcomes fails", func(t *testing.T) {
		_, err := m.DeriveWeights("c", map[string][]float64{
			"c1": {4},
		}, []float64{1})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("empty history fails", func(t *testing.T) {
		_, err := m.DeriveWeights("c", nil, []float64{1, 2})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{10, 20, 30}), 1e-9)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.Zero(t, pearson([]float64{2, 2, 2}, []float64{1, 2, 3}))
}

func TestBayesianModel_CompetencyScore(t *testing.T) {
	m, err := NewBayesianModel("bayes", DefaultBayesianConfig())
	require.NoError(t, err)

	agg, err := m.CompetencyScore(likertQuestions(), map[string]domain.Response{
		"q1": {QuestionID: "q1", Rating: 2},
		"q2": {QuestionID: "q2", Rating: 4},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.8, agg.Score, 1e-9)
}

func TestNewBayesianModel_Validation(t *testing.T) {
	cfg := DefaultBayesianConfig()
	cfg.MinWeight = 1.5
	_, err := NewBayesianModel("bayes", cfg)
	assert.Error(t, err)
}
