package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{name: "in progress to completed", from: StatusInProgress, to: StatusCompleted, allowed: true},
		{name: "in progress to abandoned", from: StatusInProgress, to: StatusAbandoned, allowed: true},
		{name: "completed is terminal", from: StatusCompleted, to: StatusAbandoned, allowed: false},
		{name: "abandoned is terminal", from: StatusAbandoned, to: StatusCompleted, allowed: false},
		{name: "no self transition", from: StatusInProgress, to: StatusInProgress, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusAbandoned.Terminal())
}

func TestAssessment_QuestionByID(t *testing.T) {
	a := &Assessment{
		Questions: []Question{
			{ID: "q1", Statement: "first"},
			{ID: "q2", Statement: "second"},
		},
	}

	q, ok := a.QuestionByID("q2")
	require.True(t, ok)
	assert.Equal(t, "second", q.Statement)

	_, ok = a.QuestionByID("missing")
	assert.False(t, ok)
}

func TestAssessment_Clone_IsIndependent(t *testing.T) {
	completed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	original := &Assessment{
		ID:            "a1",
		SubjectID:     "subject",
		CompetencyIDs: []string{"c1"},
		Competencies:  []Competency{{ID: "c1", Name: "Communication", Weight: 0.5}},
		Questions: []Question{
			{ID: "q1", CompetencyID: "c1", Examples: []string{"example"}, Weight: 1, ScoreMin: 1, ScoreMax: 5},
		},
		Responses:   map[string]Response{"q1": {QuestionID: "q1", Rating: 4}},
		Status:      StatusCompleted,
		CompletedAt: &completed,
	}

	clone := original.Clone()
	clone.Questions[0].Examples[0] = "mutated"
	clone.Responses["q1"] = Response{QuestionID: "q1", Rating: 1}
	clone.Competencies[0].Name = "mutated"
	*clone.CompletedAt = clone.CompletedAt.Add(time.Hour)

	assert.Equal(t, "example", original.Questions[0].Examples[0])
	assert.Equal(t, 4, original.Responses["q1"].Rating)
	assert.Equal(t, "Communication", original.Competencies[0].Name)
	assert.Equal(t, completed, *original.CompletedAt)
}

func TestQuestion_ValidRating(t *testing.T) {
	q := Question{ScoreMin: 1, ScoreMax: 5}
	assert.True(t, q.ValidRating(1))
	assert.True(t, q.ValidRating(5))
	assert.False(t, q.ValidRating(0))
	assert.False(t, q.ValidRating(6))
}
