package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scorecard/internal/domain"
)

func barsConfig() BARSConfig {
	cfg := DefaultBARSConfig()
	cfg.Anchors = map[int]float64{1: 1.0, 2: 2.0, 3: 3.25, 4: 4.0, 5: 5.0}
	return cfg
}

func TestBARSModel_QuestionScore(t *testing.T) {
	m, err := NewBARSModel("bars", barsConfig())
	require.NoError(t, err)

	q := domain.Question{ID: "q1", Weight: 1, ScoreMin: 1, ScoreMax: 5}

	t.Run("anchor table maps the selection", func(t *testing.T) {
		score, err := m.QuestionScore(q, domain.Response{QuestionID: "q1", Rating: 3})
		require.NoError(t, err)
		assert.Equal(t, 3.25, score)
	})

	t.Run("rating outside bounds fails", func(t *testing.T) {
		_, err := m.QuestionScore(q, domain.Response{QuestionID: "q1", Rating: 7})
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	})

	t.Run("in-range rating without anchor entry fails", func(t *testing.T) {
		cfg := barsConfig()
		delete(cfg.Anchors, 4)
		sparse, err := NewBARSModel("bars", cfg)
		require.NoError(t, err)

		_, err = sparse.QuestionScore(q, domain.Response{QuestionID: "q1", Rating: 4})
		assert.ErrorIs(t, err, ErrUnknownAnchor)
	})
}

func TestBARSModel_CompetencyScore(t *testing.T) {
	m, err := NewBARSModel("bars", barsConfig())
	require.NoError(t, err)

	questions := []domain.Question{
		{ID: "q1", CompetencyID: "c1", Weight: 0.5, ScoreMin: 1, ScoreMax: 5},
		{ID: "q2", CompetencyID: "c1", Weight: 0.5, ScoreMin: 1, ScoreMax: 5},
	}

	// Aggregation runs on anchor-mapped scores, not raw anchor IDs:
	// (3.25*0.5 + 5.0*0.5) / 1.0 = 4.125.
	agg, err := m.CompetencyScore(questions, map[string]domain.Response{
		"q1": {QuestionID: "q1", Rating: 3},
		"q2": {QuestionID: "q2", Rating: 5},
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.125, agg.Score, 1e-9)
}

func TestBARSModel_Validate(t *testing.T) {
	t.Run("full anchor coverage passes", func(t *testing.T) {
		m, err := NewBARSModel("bars", barsConfig())
		require.NoError(t, err)
		assert.NoError(t, m.Validate())
	})

	t.Run("missing anchor entry fails", func(t *testing.T) {
		cfg := barsConfig()
		delete(cfg.Anchors, 2)
		m, err := NewBARSModel("bars", cfg)
		require.NoError(t, err)

		err = m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2")
	})
}

func TestNewBARSFromParams(t *testing.T) {
	t.Run("anchor table from params", func(t *testing.T) {
		m, err := NewBARSFromParams(ModelBARS, map[string]any{
			"anchors": map[int]float64{1: 0.5, 2: 1.5, 3: 3.0, 4: 4.5, 5: 5.0},
		})
		require.NoError(t, err)
		assert.NoError(t, m.Validate())
	})

	t.Run("degenerate scale rejected", func(t *testing.T) {
		_, err := NewBARSFromParams(ModelBARS, map[string]any{
			"scale": map[string]any{"min": 3, "max": 3, "type": "likert"},
		})
		assert.Error(t, err)
	})
}
