package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ModelBayesian is the registered name of the Bayesian-adjusted model.
const ModelBayesian = "bayesian_adjusted"

var _ ports.ScoreModel = (*BayesianModel)(nil)

// BayesianModel applies the shared weighted-average skeleton with
// competency weights that are not static configuration: an offline
// batch job correlates historical competency scores with a
// performance-outcome signal and publishes a WeightConfig snapshot
// per cycle. The online path only ever consumes that snapshot, which
// the engine injects as the competency weight source, so scoring
// stays free of learning-algorithm latency.
type BayesianModel struct {
	baseModel
	config BayesianConfig
}

// BayesianConfig controls the Bayesian-adjusted model.
type BayesianConfig struct {
	// Scale bounds the valid rating range.
	Scale domain.ScaleBounds `yaml:"scale" json:"scale"`

	// UseQuestionWeights applies per-question weights from the snapshot.
	UseQuestionWeights bool `yaml:"use_question_weights" json:"use_question_weights"`

	// MinWeight floors derived competency weights so a weakly
	// correlated competency is dampened, never eliminated. Applied by
	// DeriveWeights before renormalization.
	MinWeight float64 `yaml:"min_weight" json:"min_weight" validate:"min=0,max=1"`
}

// DefaultBayesianConfig returns a 1-5 scale with question weighting
// and a 0.05 derived-weight floor.
func DefaultBayesianConfig() BayesianConfig {
	return BayesianConfig{
		Scale:              domain.ScaleBounds{Min: 1, Max: 5, Type: domain.ScaleLikert},
		UseQuestionWeights: true,
		MinWeight:          0.05,
	}
}

// NewBayesianModel creates a Bayesian-adjusted model.
// Returns ErrEmptyModelName if name is empty, or a validation error
// for inconsistent configuration.
func NewBayesianModel(name string, config BayesianConfig) (*BayesianModel, error) {
	if name == "" {
		return nil, ErrEmptyModelName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.Scale.Max <= config.Scale.Min {
		return nil, fmt.Errorf("scale max (%d) must exceed min (%d)", config.Scale.Max, config.Scale.Min)
	}
	return &BayesianModel{
		baseModel: baseModel{
			name:   name,
			scale:  config.Scale,
			levels: domain.WeightLevels{Question: config.UseQuestionWeights, Competency: true},
		},
		config: config,
	}, nil
}

// QuestionScore returns the raw rating as the score.
func (m *BayesianModel) QuestionScore(q domain.Question, r domain.Response) (float64, error) {
	if !q.ValidRating(r.Rating) {
		return 0, fmt.Errorf("%w: rating %d outside [%d, %d]",
			domain.ErrInvalidRating, r.Rating, q.ScoreMin, q.ScoreMax)
	}
	return float64(r.Rating), nil
}

// CompetencyScore aggregates one competency's answered questions.
// Competency-level weighting happens in the engine using the cycle's
// WeightConfig snapshot.
func (m *BayesianModel) CompetencyScore(
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
func (m *BayesianModel) Validate() error {
	if m.config.Scale.Max <= m.config.Scale.Min {
		return fmt.Errorf("scale max (%d) must exceed min (%d)", m.config.Scale.Max, m.config.Scale.Min)
	}
	return nil
}

// NewBayesianFromParams creates a Bayesian-adjusted model from a
// scoring-system parameter map; unknown parameter keys are rejected.
func NewBayesianFromParams(name string, params map[string]any) (ports.ScoreModel, error) {
	cfg := DefaultBayesianConfig()
	if err := decodeParams(params, &cfg); err != nil {
		return nil, fmt.Errorf("bayesian parameters: %w", err)
	}
	return NewBayesianModel(name, cfg)
}

// DeriveWeights is the offline batch step that produces the next
// cycle's WeightConfig. For each competency it computes the Pearson
// correlation between that competency's historical scores and the
// outcome signal, floors the result at MinWeight, and renormalizes so
// the weights sum to 1. History series must all align with outcomes
// index-for-index (one entry per past cycle).
//
// This runs outside the request path; assessments in flight keep the
// snapshot they started with.
func (m *BayesianModel) DeriveWeights(
	cycle string,
	history map[string][]float64,
	outcomes []float64,
) (domain.WeightConfig, error) {
	if len(history) == 0 || len(outcomes) < 2 {
		return domain.WeightConfig{}, fmt.Errorf("weight derivation: %w", domain.ErrInsufficientData)
	}

	weights := make(map[string]float64, len(history))
	var total float64

	// Deterministic iteration keeps derived snapshots reproducible.
	ids := make([]string, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		series := history[id]
		if len(series) != len(outcomes) {
			return domain.WeightConfig{}, fmt.Errorf(
				"weight derivation: competency %s has %d observations, outcomes have %d",
				id, len(series), len(outcomes))
		}
		w := pearson(series, outcomes)
		// A negative or flat correlation still earns the floor weight.
		w = math.Max(w, m.config.MinWeight)
		weights[id] = w
		total += w
	}
	if total == 0 {
		return domain.WeightConfig{}, fmt.Errorf("weight derivation: %w", domain.ErrInsufficientData)
	}

	for id := range weights {
		weights[id] /= total
	}
	return domain.WeightConfig{Cycle: cycle, Competencies: weights}, nil
}

// pearson computes the Pearson correlation coefficient of two aligned
// series, returning 0 when either series has zero variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
