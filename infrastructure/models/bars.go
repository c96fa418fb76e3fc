package models

import (
	"fmt"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelBARS is the registered name of the behaviorally anchored
// rating scale model.
const ModelBARS = "bars"

var _ ports.ScoreModel = (*BARSModel)(nil)

// BARSModel implements behaviorally anchored rating scales. The
// subject selects a behavioral anchor; the anchor ID arrives as the
// response rating and is mapped to a numeric score through a
// configured anchor table. The mapping is configuration, not model
// logic; aggregation above the question level is the shared
// weighted-average skeleton.
type BARSModel struct {
	baseModel
	config BARSConfig
}

// BARSConfig controls the BARS model.
type BARSConfig struct {
	// Scale bounds the valid anchor ID range.
	Scale domain.ScaleBounds `yaml:"scale" json:"scale"`

	// Anchors maps anchor ID to the behavioral score it represents.
	// Every valid anchor ID must have an entry; an unmapped rating is
	// a scoring error, not a silent zero.
	Anchors map[int]float64 `yaml:"anchors" json:"anchors" validate:"required,min=1"`

	// UseQuestionWeights applies per-question weights from the snapshot.
	UseQuestionWeights bool `yaml:"use_question_weights" json:"use_question_weights"`
}

// DefaultBARSConfig returns a five-anchor configuration mapping each
// anchor to its position on the 1-5 scale.
func DefaultBARSConfig() BARSConfig {
	return BARSConfig{
		Scale:              domain.ScaleBounds{Min: 1, Max: 5, Type: domain.ScaleLikert},
		Anchors:            map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
		UseQuestionWeights: true,
	}
}

// NewBARSModel creates a BARS model with the given anchor table.
// Returns ErrEmptyModelName if name is empty, or a validation error
// when the anchor table is missing or the scale bounds are
// inconsistent.
func NewBARSModel(name string, config BARSConfig) (*BARSModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.Scale.Max <= config.Scale.Min {
		return nil, fmt.Errorf("scale max (%d) must exceed min (%d)", config.Scale.Max, config.Scale.Min)
	}
	return &BARSModel{
		baseModel: baseModel{
			name:   name,
			scale:  config.Scale,
			levels: domain.WeightLevels{Question: config.UseQuestionWeights, Competency: true},
		},
		config: config,
	}, nil
}

// QuestionScore maps the selected anchor ID through the configured
// anchor table. Fails with ErrUnknownAnchor when the table has no
// entry for the rating.
func (m *BARSModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	if !q.ValidRating(r.Rating) {
		return 0, fmt.Errorf("%w: rating %d outside [%d, %d]",
			domain.ErrInvalidRating, r.Rating, q.ScoreMin, q.ScoreMax)
	}
	score, ok := m.config.Anchors[r.Rating]
	if !ok {
		return 0, fmt.Errorf("%w: anchor %d", ErrUnknownAnchor, r.Rating)
	}
	return score, nil
}

// CompetencyScore aggregates one competency's anchor-mapped scores.
func (m *BARSModel) CompetencyScore(
	questions []domain.Question,
	responses map[string]domain.Response,
) (ports.Aggregate, error) {
	inputs, err := competencyInputs(m, questions, responses, m.config.UseQuestionWeights)
	if err != nil {
		return ports.Aggregate{}, err
	}
	return m.Combine(inputs)
}

// Validate verifies the anchor table covers the full anchor range so
// no valid selection can fail at scoring time.
func (m *BARSModel) Validate() error {
	for id := m.config.Scale.Min; id <= m.config.Scale.Max; id++ {
		if _, ok := m.config.Anchors[id]; !ok {
			return fmt.Errorf("anchor table missing entry for %d", id)
		}
	}
	return nil
}

// NewBARSFromParams creates a BARS model from a scoring-system
// parameter map; unknown parameter keys are rejected.
func NewBARSFromParams(name string, params map[string]any) (ports.ScoreModel, error) {
	cfg := DefaultBARSConfig()
	if err := decodeParams(params, &cfg); err != nil {
		return nil, fmt.Errorf("bars parameters: %w", err)
	}
	return NewBARSModel(name, cfg)
}
