package models

import (
	"fmt"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelWeightedLikert is the registered name of the weighted Likert model.
const ModelWeightedLikert = "weighted_likert"

var _ ports.ScoreModel = (*WeightedLikertModel)(nil)

// WeightedLikertModel scores raw Likert ratings under question and
// competency weights. It is the plainest member of the model family:
// the rating itself is the score, and every aggregation step is the
// shared weighted-average skeleton.
//
// Stateless after construction and safe for concurrent use.
type WeightedLikertModel struct {
	baseModel
	config LikertConfig
}

// LikertConfig controls the weighted Likert model.
type LikertConfig struct {
	// Scale bounds the valid rating range, typically 1-5.
	Scale domain.ScaleBounds `yaml:"scale" json:"scale"`

	// UseQuestionWeights applies per-question weights from the
	// snapshot. When false every answered question weighs 1.
	UseQuestionWeights bool `yaml:"use_question_weights" json:"use_question_weights"`
}

// DefaultLikertConfig returns the conventional 1-5 Likert setup with
// question weighting enabled.
func DefaultLikertConfig() LikertConfig {
	return LikertConfig{
		Scale:              domain.ScaleBounds{Min: 1, Max: 5, Type: domain.ScaleLikert},
		UseQuestionWeights: true,
	}
}

// NewWeightedLikertModel creates a weighted Likert model with the
// given configuration. Returns ErrEmptyModelName if name is empty, or
// a validation error for inconsistent scale bounds.
func NewWeightedLikertModel(name string, config LikertConfig) (*WeightedLikertModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if config.Scale.Max <= config.Scale.Min {
		return nil, fmt.Errorf("scale max (%d) must exceed min (%d)", config.Scale.Max, config.Scale.Min)
	}
	return &WeightedLikertModel{
		baseModel: baseModel{
			name:   name,
			scale:  config.Scale,
			levels: domain.WeightLevels{Question: config.UseQuestionWeights, Competency: true},
		},
		config: config,
	}, nil
}

// QuestionScore returns the raw rating as the score after a bounds
// check against the question's own range.
func (m *WeightedLikertModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	if !q.ValidRating(r.Rating) {
		return 0, fmt.Errorf("%w: rating %d outside [%d, %d]",
			domain.ErrInvalidRating, r.Rating, q.ScoreMin, q.ScoreMax)
	}
	return float64(r.Rating), nil
}

// CompetencyScore aggregates one competency's answered questions
// using per-question weights from the snapshot.
func (m *WeightedLikertModel) CompetencyScore(
	questions []domain.Question,
	responses map[string]domain.Response,
) (ports.Aggregate, error) {
	inputs, err := competencyInputs(m, questions, responses, m.config.UseQuestionWeights)
	if err != nil {
		return ports.Aggregate{}, err
	}
	return m.Combine(inputs)
}

// Validate verifies the model's scale bounds are consistent.
func (m *WeightedLikertModel) Validate() error {
	if m.config.Scale.Max <= m.config.Scale.Min {
		return fmt.Errorf("scale max (%d) must exceed min (%d)", m.config.Scale.Max, m.config.Scale.Min)
	}
	return nil
}

// NewWeightedLikertFromParams creates a weighted Likert model from a
// scoring-system parameter map. This is the boundary adapter used by
// the model registry; unknown parameter keys are rejected.
func NewWeightedLikertFromParams(name string, params map[string]any) (ports.ScoreModel, error) {
	cfg := DefaultLikertConfig()
	if err := decodeParams(params, &cfg); err != nil {
		return nil, fmt.Errorf("weighted likert parameters: %w", err)
	}
	return NewWeightedLikertModel(name, cfg)
}
