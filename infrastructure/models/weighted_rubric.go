package models

import (
	"fmt"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelWeightedRubric is the registered name of the weighted rubric model.
const ModelWeightedRubric = "weighted_rubric"

var _ ports.ScoreModel = (*WeightedRubricModel)(nil)

// WeightedRubricModel treats each question as a rubric criterion.
// Criterion weights are normalized to sum to 1 within a competency
// before the competency-level weighted average, so a competency's
// score is independent of how its authors scaled criterion weights.
// Above the competency level the shared skeleton applies unchanged.
type WeightedRubricModel struct {
	baseModel
	config RubricConfig
}

// RubricConfig controls the weighted rubric model.
type RubricConfig struct {
	// Scale bounds the valid per-criterion rating range.
	Scale domain.ScaleBounds `yaml:"scale" json:"scale"`

	// UseQuestionWeights applies per-criterion weights from the
	// snapshot. When false every criterion weighs equally after
	// normalization.
	UseQuestionWeights bool `yaml:"use_question_weights" json:"use_question_weights"`
}

// DefaultRubricConfig returns a 1-5 criterion scale with criterion
// weighting enabled.
func DefaultRubricConfig() RubricConfig {
	return RubricConfig{
		Scale:              domain.ScaleBounds{Min: 1, Max: 5, Type: domain.ScalePoints},
		UseQuestionWeights: true,
	}
}

// NewWeightedRubricModel creates a weighted rubric model.
// Returns ErrEmptyModelName if name is empty, or a validation error
// for inconsistent scale bounds.
func NewWeightedRubricModel(name string, config RubricConfig) (*WeightedRubricModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if config.Scale.Max <= config.Scale.Min {
		return nil, fmt.Errorf("scale max (%d) must exceed min (%d)", config.Scale.Max, config.Scale.Min)
	}
	return &WeightedRubricModel{
		baseModel: baseModel{
			name:   name,
			scale:  config.Scale,
			levels: domain.WeightLevels{Question: config.UseQuestionWeights, Competency: true},
		},
		config: config,
	}, nil
}

// QuestionScore returns the raw criterion rating as the score.
func (m *WeightedRubricModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	if !q.ValidRating(r.Rating) {
		return 0, fmt.Errorf("%w: rating %d outside [%d, %d]",
			domain.ErrInvalidRating, r.Rating, q.ScoreMin, q.ScoreMax)
	}
	return float64(r.Rating), nil
}

// CompetencyScore aggregates one competency's answered criteria with
// weights renormalized to sum to 1 across the answered set. The
// renormalization happens over realized criteria only, so unanswered
// criteria shrink the divisor instead of dragging the average down.
func (m *WeightedRubricModel) CompetencyScore(
	questions []domain.Question,
	responses map[string]domain.Response,
) (ports.Aggregate, error) {
	inputs, err := competencyInputs(m, questions, responses, m.config.UseQuestionWeights)
	if err != nil {
		return ports.Aggregate{}, err
	}

	var weightSum float64
	for _, in := range inputs {
		weightSum += in.Weight
	}
	if weightSum == 0 {
		return ports.Aggregate{}, fmt.Errorf("zero criterion weight: %w", domain.ErrInsufficientData)
	}
	for i := range inputs {
		inputs[i].Weight /= weightSum
	}

	return m.Combine(inputs)
}

// Validate verifies the model's scale bounds are consistent.
func (m *WeightedRubricModel) Validate() error {
	if m.config.Scale.Max <= m.config.Scale.Min {
		return fmt.Errorf("scale max (%d) must exceed min (%d)", m.config.Scale.Max, m.config.Scale.Min)
	}
	return nil
}

// NewWeightedRubricFromParams creates a weighted rubric model from a
// scoring-system parameter map; unknown parameter keys are rejected.
func NewWeightedRubricFromParams(name string, params map[string]any) (ports.ScoreModel, error) {
	cfg := DefaultRubricConfig()
	if err := decodeParams(params, &cfg); err != nil {
		return nil, fmt.Errorf("weighted rubric parameters: %w", err)
	}
	return NewWeightedRubricModel(name, cfg)
}
