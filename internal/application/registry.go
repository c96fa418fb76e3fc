// Package application orchestrates the scoring core: the model
// registry, the hierarchical aggregation engine, the assessment
// lifecycle, and scoring-system configuration loading.
package application

import (
	"fmt"
	"maps"
	"sync"

	"github.com/ahrav/go-scorecard/infrastructure/models"
	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ModelRegistry = (*DefaultModelRegistry)(nil)

// DefaultModelRegistry implements the ModelRegistry interface,
// providing a factory for scoring models selected by scoring-system
// configuration. It comes with the closed set of built-in models
// pre-registered and supports dynamic registration of custom model
// factories.
type DefaultModelRegistry struct {
	// factories maps model names to their factory functions.
	factories map[string]ports.ModelFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultModelRegistry creates a registry with the built-in model
// family registered: weighted Likert, BARS, weighted rubric,
// hierarchical category aggregation, normalized 0-100, and the
// Bayesian-adjusted variant.
func NewDefaultModelRegistry() *DefaultModelRegistry {
	r := &DefaultModelRegistry{factories: make(map[string]ports.ModelFactory)}
	r.registerBuiltinFactories()
	return r
}

// registerBuiltinFactories registers the standard model family.
func (r *DefaultModelRegistry) registerBuiltinFactories() {
	r.factories[models.ModelWeightedLikert] = models.NewWeightedLikertFromParams
	r.factories[models.ModelBARS] = models.NewBARSFromParams
	r.factories[models.ModelWeightedRubric] = models.NewWeightedRubricFromParams
	r.factories[models.ModelHierarchical] = models.NewHierarchicalFromParams
	r.factories[models.ModelBayesian] = models.NewBayesianFromParams
	// The normalized wrapper is routed in build rather than through a
	// factory because it needs a second, recursive construction for
	// its base model.
}

// Resolve returns the configured model for a scoring system. The
// system's validated config supplies the scale and weight-level
// parameters; model-specific params (anchor tables, wrapper base) are
// overlaid on top. Fails with domain.ErrUnknownScoringSystem when no
// factory is registered for the system's model name, and with
// domain.ErrScaleMismatch when the constructed model's scale
// disagrees with the system's declared scale.
func (r *DefaultModelRegistry) Resolve(system domain.ScoringSystem) (ports.ScoreModel, error) {
	model, err := r.build(system.Model, system)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", system.Model, err)
	}
	if model.Scale() != system.Config.Scale {
		return nil, fmt.Errorf("%w: system %s declares [%d, %d], model %s uses [%d, %d]",
			domain.ErrScaleMismatch, system.ID,
			system.Config.Scale.Min, system.Config.Scale.Max,
			model.Name(), model.Scale().Min, model.Scale().Max)
	}
	return model, nil
}

// build constructs the named model for a scoring system, recursing
// once for the normalized wrapper's base model.
func (r *DefaultModelRegistry) build(name string, system domain.ScoringSystem) (ports.ScoreModel, error) {
	if name == models.ModelNormalized {
		baseName, _ := system.Params["base"].(string)
		if baseName == "" || baseName == models.ModelNormalized {
			return nil, fmt.Errorf("normalized model for system %s requires a concrete 'base' param", system.ID)
		}
		base, err := r.build(baseName, system)
		if err != nil {
			return nil, err
		}
		return models.NewNormalizedModel(base)
	}

	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: no model registered as %q for system %s",
			domain.ErrUnknownScoringSystem, name, system.ID)
	}

	model, err := factory(name, r.modelParams(system))
	if err != nil {
		return nil, fmt.Errorf("failed to configure model %s for system %s: %w", name, system.ID, err)
	}
	return model, nil
}

// modelParams translates a system's validated config plus its
// model-specific params into the factory parameter map.
func (r *DefaultModelRegistry) modelParams(system domain.ScoringSystem) map[string]any {
	params := map[string]any{
		"scale": map[string]any{
			"min":  system.Config.Scale.Min,
			"max":  system.Config.Scale.Max,
			"type": string(system.Config.Scale.Type),
		},
		"use_question_weights": system.Config.QuestionWeights,
	}
	maps.Copy(params, system.Params)
	// Wrapper routing keys are consumed here, not by model factories.
	delete(params, "base")
	return params
}

// RegisterFactory registers a factory for a model name, allowing the
// closed built-in set to be extended at runtime.
func (r *DefaultModelRegistry) RegisterFactory(name string, factory ports.ModelFactory) error {
	if name == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}
