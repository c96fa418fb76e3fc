package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scorecard/internal/domain"
)

func TestNewNormalizedModel(t *testing.T) {
	_, err := NewNormalizedModel(nil)
	assert.ErrorIs(t, err, ErrNilBaseModel)
}

func TestNormalizedModel_Normalize(t *testing.T) {
	base, err := NewWeightedLikertModel("likert", DefaultLikertConfig())
	require.NoError(t, err)
	m, err := NewNormalizedModel(base)
	require.NoError(t, err)

	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{name: "scale minimum maps to 0", score: 1, want: 0},
		{name: "scale maximum maps to 100", score: 5, want: 100},
		{name: "midpoint maps linearly", score: 3, want: 50},
		{name: "4.2 on 1-5 maps to 80", score: 4.2, want: 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, m.Normalize(tt.score), 1e-9)
		})
	}
}

func TestNormalizedModel_AggregatesOnBaseScale(t *testing.T) {
	base, err := NewWeightedLikertModel("likert", DefaultLikertConfig())
	require.NoError(t, err)
	m, err := NewNormalizedModel(base)
	require.NoError(t, err)

	// Internal aggregation stays on the base 1-5 scale; only reporting
	// passes through Normalize.
	agg, err := m.CompetencyScore(likertQuestions(), map[string]domain.Response{
		"q1": {QuestionID: "q1", Rating: 4},
		"q2": {QuestionID: "q2", Rating: 5},
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.4, agg.Score, 1e-9)
	assert.InDelta(t, 88.0, m.Normalize(agg.Score), 1e-9)
}

func TestNormalizedModel_DelegatesIdentity(t *testing.T) {
	base, err := NewHierarchicalModel("hier", DefaultHierarchicalConfig())
	require.NoError(t, err)
	m, err := NewNormalizedModel(base)
	require.NoError(t, err)

	assert.Equal(t, ModelNormalized, m.Name())
	assert.Equal(t, base.Scale(), m.Scale())
	assert.True(t, m.Levels().Category)
	assert.NoError(t, m.Validate())
}
