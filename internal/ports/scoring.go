// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"github.com/ahrav/go-scorecard/internal/domain"
)

// ScoreInput is one weighted data point fed into an aggregation step.
// ParentWeight carries the weight of the enclosing group when a model
// needs it (e.g. competency weight while combining category members).
type ScoreInput struct {
	// Score is the value being aggregated.
	Score float64

	// Weight is the relative weight of this input within its sibling
	// group. Sibling weights are not required to sum to 1.
	Weight float64

	// ParentWeight is the weight of the input's parent group, if any.
	ParentWeight float64
}

// Aggregate is the output of one aggregation step.
type Aggregate struct {
	// Score is the weighted average of the step's inputs.
	Score float64

	// TotalWeight is the realized sum of input weights, which the next
	// hierarchy level uses as this group's weight contribution.
	TotalWeight float64
}

// ScoreModel implements one interchangeable weighting/aggregation
// algorithm. All models share the weighted-average skeleton
// Σ(score·weight)/Σ(weight); they differ in where scores and weights
// come from. Implementations must be stateless after construction and
// safe for concurrent use across assessments.
type ScoreModel interface {
	// Name returns the registered model name.
	Name() string

	// Scale returns the rating bounds this model operates on. The
	// aggregation engine refuses to score snapshots whose question
	// bounds disagree with these.
	Scale() domain.ScaleBounds

	// Levels declares which hierarchy levels the model applies
	// weights at. The engine only adds the category tier when the
	// model declares category support.
	Levels() domain.WeightLevels

	// QuestionScore maps one response's rating to a score. Models that
	// score raw ratings return float64(rating); models like BARS map
	// the rating through configuration first.
	QuestionScore(q domain.Question, r domain.Response) (float64, error)

	// CompetencyScore derives per-question inputs for one competency
	// and combines them into the competency aggregate. Questions
	// without a response are omitted, never zero-filled. Fails with
	// domain.ErrInsufficientData when no weight is realized.
	CompetencyScore(questions []domain.Question, responses map[string]domain.Response) (Aggregate, error)

	// Combine applies the shared weighted-average skeleton to one
	// hierarchy level. Fails with domain.ErrInsufficientData when the
	// realized weight sum is zero.
	Combine(inputs []ScoreInput) (Aggregate, error)

	// Validate checks that the model's configuration is internally
	// consistent and ready for scoring.
	Validate() error
}

// Normalizer is an optional ScoreModel capability that rescales
// reported score fields (e.g. 1-5 onto 0-100). The engine applies it
// to externally reported values only; internal aggregation always
// runs on the base scale.
type Normalizer interface {
	Normalize(score float64) float64
}

// ModelFactory creates a ScoreModel from a scoring-system's model
// parameters.
type ModelFactory func(name string, params map[string]any) (ScoreModel, error)

// ModelRegistry resolves scoring systems to model implementations.
type ModelRegistry interface {
	// Resolve returns the model for the given scoring system, fully
	// configured and validated against the system's declared scale.
	// Fails with domain.ErrUnknownScoringSystem when no factory is
	// registered for the system's model name.
	Resolve(system domain.ScoringSystem) (ScoreModel, error)

	// RegisterFactory registers a factory for a model name, allowing
	// custom models to extend the registry at runtime.
	RegisterFactory(name string, factory ModelFactory) error
}
