package models

import (
	"fmt"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelHierarchical is the registered name of the hierarchical
// category aggregation model.
const ModelHierarchical = "hierarchical_category"

var _ ports.ScoreModel = (*HierarchicalModel)(nil)

// HierarchicalModel rolls scores up through three sequential weighted
// averages: question to competency, competency to category, and
// category to overall. The per-step math is the shared skeleton; what
// distinguishes this model is that it declares category-level weight
// support, which makes the aggregation engine insert the category tier
// between competencies and the overall score.
type HierarchicalModel struct {
	baseModel
	config HierarchicalConfig
}

// HierarchicalConfig controls the hierarchical model.
type HierarchicalConfig struct {
	// Scale bounds the valid rating range.
	Scale domain.ScaleBounds `yaml:"scale" json:"scale"`

	// UseQuestionWeights applies per-question weights from the snapshot.
	UseQuestionWeights bool `yaml:"use_question_weights" json:"use_question_weights"`
}

// DefaultHierarchicalConfig returns a 1-5 scale with question
// weighting enabled.
func DefaultHierarchicalConfig() HierarchicalConfig {
	return HierarchicalConfig{
		Scale:              domain.ScaleBounds{Min: 1, Max: 5, Type: domain.ScaleLikert},
		UseQuestionWeights: true,
	}
}

// NewHierarchicalModel creates a hierarchical category aggregation
// model. Returns ErrEmptyModelName if name is empty, or a validation
// error for inconsistent scale bounds.
func NewHierarchicalModel(name string, config HierarchicalConfig) (*HierarchicalModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if config.Scale.Max <= config.Scale.Min {
		return nil, fmt.Errorf("scale max (%d) must exceed min (%d)", config.Scale.Max, config.Scale.Min)
	}
	return &HierarchicalModel{
		baseModel: baseModel{
			name:  name,
			scale: config.Scale,
			levels: domain.WeightLevels{
				Question:   config.UseQuestionWeights,
				Competency: true,
				Category:   true,
			},
		},
		config: config,
	}, nil
}

// QuestionScore returns the raw rating as the score.
func (m *HierarchicalModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	if !q.ValidRating(r.Rating) {
		return 0, fmt.Errorf("%w: rating %d outside [%d, %d]",
			domain.ErrInvalidRating, r.Rating, q.ScoreMin, q.ScoreMax)
	}
	return float64(r.Rating), nil
}

// CompetencyScore performs the first of the three weighted averages.
func (m *HierarchicalModel) CompetencyScore(
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
func (m *HierarchicalModel) Validate() error {
	if m.config.Scale.Max <= m.config.Scale.Min {
		return fmt.Errorf("scale max (%d) must exceed min (%d)", m.config.Scale.Max, m.config.Scale.Min)
	}
	return nil
}

// NewHierarchicalFromParams creates a hierarchical model from a
// scoring-system parameter map; unknown parameter keys are rejected.
func NewHierarchicalFromParams(name string, params map[string]any) (ports.ScoreModel, error) {
	cfg := DefaultHierarchicalConfig()
	if err := decodeParams(params, &cfg); err != nil {
		return nil, fmt.Errorf("hierarchical parameters: %w", err)
	}
	return NewHierarchicalModel(name, cfg)
}
