// Package models provides the interchangeable scoring model
// implementations behind the ports.ScoreModel interface: weighted
// Likert, BARS, weighted rubric, hierarchical category aggregation,
// the normalized 0-100 wrapper, and the Bayesian-adjusted variant.
package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Common errors returned by scoring models.
var (
	// ErrEmptyModelName is returned when attempting to create a model
	// with an empty name.
	ErrEmptyModelName = errors.New("model name cannot be empty")

	// ErrUnknownAnchor is returned by the BARS model when a rating has
	// no entry in the configured anchor table.
	ErrUnknownAnchor = errors.New("no anchor mapping for rating")

	// ErrInvalidScore is returned when an input score is NaN or infinite.
	ErrInvalidScore = errors.New("invalid score value")

	// ErrNegativeWeight is returned when an input carries a negative weight.
	ErrNegativeWeight = errors.New("negative weight")

	// ErrNilBaseModel is returned when the normalized wrapper is created
	// without a base model.
	ErrNilBaseModel = errors.New("base model cannot be nil")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// weightedMean applies the shared aggregation skeleton
// Σ(score·weight)/Σ(weight) to one hierarchy level. The divisor is
// the realized weight sum of the inputs actually present, so
// configured weights never need to pre-sum to 1 and omitted inputs
// degrade gracefully. A zero realized weight fails with
// domain.ErrInsufficientData; it is never converted to a zero score,
// because zero-filling would silently deflate real averages.
func weightedMean(inputs []ports.ScoreInput) (ports.Aggregate, error) {
	var sum, totalWeight float64
	for i, in := range inputs {
		if math.IsNaN(in.Score) || math.IsInf(in.Score, 0) {
			return ports.Aggregate{}, fmt.Errorf("%w at index %d: %f", ErrInvalidScore, i, in.Score)
		}
		if in.Weight < 0 {
			return ports.Aggregate{}, fmt.Errorf("%w at index %d: %f", ErrNegativeWeight, i, in.Weight)
		}
		sum += in.Score * in.Weight
		totalWeight += in.Weight
	}
	if totalWeight == 0 {
		return ports.Aggregate{}, fmt.Errorf("zero total weight: %w", domain.ErrInsufficientData)
	}
	return ports.Aggregate{Score: sum / totalWeight, TotalWeight: totalWeight}, nil
}

// baseModel carries the identity, scale, and weight levels shared by
// every concrete model, plus the common Combine step.
type baseModel struct {
	name   string
	scale  domain.ScaleBounds
	levels domain.WeightLevels
}

// Name returns the model's registered name.
func (m *baseModel) Name() string { return m.name }

// Scale returns the rating bounds the model operates on.
func (m *baseModel) Scale() domain.ScaleBounds { return m.scale }

// Levels returns the weight levels the model applies.
func (m *baseModel) Levels() domain.WeightLevels { return m.levels }

// Combine applies the shared weighted-average skeleton.
func (m *baseModel) Combine(inputs []ports.ScoreInput) (ports.Aggregate, error) {
	return weightedMean(inputs)
}

// competencyInputs builds the aggregation inputs for one competency
// from the question snapshot, in snapshot order. Unanswered questions
// are omitted entirely rather than zero-filled. When useWeights is
// false every answered question contributes weight 1.
func competencyInputs(
	model ports.ScoreModel,
	questions []domain.Question,
	responses map[string]domain.Response,
	useWeights bool,
) ([]ports.ScoreInput, error) {
	inputs := make([]ports.ScoreInput, 0, len(questions))
	for _, q := range questions {
		resp, ok := responses[q.ID]
		if !ok {
			continue
		}
		score, err := model.QuestionScore(q, resp)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		weight := 1.0
		if useWeights {
			weight = q.Weight
		}
		inputs = append(inputs, ports.ScoreInput{Score: score, Weight: weight})
	}
	return inputs, nil
}

// decodeParams overlays a parameter map onto cfg via strict YAML
// round-tripping so unknown parameter keys are rejected, then runs
// struct-tag validation. cfg must be a pointer pre-filled with
// defaults.
func decodeParams(params map[string]any, cfg any) error {
	if len(params) == 0 {
		return validate.Struct(cfg)
	}
	if err := strictDecode(params, cfg); err != nil {
		return err
	}
	return validate.Struct(cfg)
}

// strictDecode round-trips a parameter map through YAML with
// KnownFields enabled so unrecognized keys fail instead of being
// silently ignored.
func strictDecode(params map[string]any, cfg any) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	return nil
}
