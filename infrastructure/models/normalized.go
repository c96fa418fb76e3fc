package models

import (
	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelNormalized is the registered name of the 0-100 normalization
// wrapper.
const ModelNormalized = "normalized_0_100"

var (
	_ ports.ScoreModel = (*NormalizedModel)(nil)
	_ ports.Normalizer = (*NormalizedModel)(nil)
)

// NormalizedModel wraps any base model and maps its reported scores
// onto 0-100 via ((s − min) / (max − min)) × 100. Aggregation runs
// entirely on the base model's scale; only externally reported values
// pass through Normalize, so the wrapper never distorts intermediate
// weighted averages.
type NormalizedModel struct {
	base ports.ScoreModel
}

// NewNormalizedModel wraps base with 0-100 normalization.
// Returns ErrNilBaseModel when base is nil.
func NewNormalizedModel(base ports.ScoreModel) (*NormalizedModel, error) {
	if base == nil {
		return nil, ErrNilBaseModel
	}
	return &NormalizedModel{base: base}, nil
}

// Name returns the wrapper's registered name.
func (m *NormalizedModel) Name() string { return ModelNormalized }

// Scale returns the base model's scale; rating validation is
// unaffected by output normalization.
func (m *NormalizedModel) Scale() domain.ScaleBounds { return m.base.Scale() }

// Levels returns the base model's weight levels.
func (m *NormalizedModel) Levels() domain.WeightLevels { return m.base.Levels() }

// QuestionScore delegates to the base model.
func (m *NormalizedModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	return m.base.QuestionScore(q, r)
}

// CompetencyScore delegates to the base model.
func (m *NormalizedModel) CompetencyScore(
	questions []domain.Question,
	responses map[string]domain.Response,
) (ports.Aggregate, error) {
	return m.base.CompetencyScore(questions, responses)
}

// Combine delegates to the base model.
func (m *NormalizedModel) Combine(inputs []ports.ScoreInput) (ports.Aggregate, error) {
	return m.base.Combine(inputs)
}

// Validate delegates to the base model.
func (m *NormalizedModel) Validate() error { return m.base.Validate() }

// Normalize maps a base-scale score onto 0-100.
func (m *NormalizedModel) Normalize(score float64) float64 {
	scale := m.base.Scale()
	span := float64(scale.Max - scale.Min)
	return (score - float64(scale.Min)) / span * 100
}
