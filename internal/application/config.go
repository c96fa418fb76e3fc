package application

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config is the engine's scoring configuration: the tenant's scoring
// systems and the current weight snapshot. It replaces free-form
// config blobs with enumerated, validated options; unknown fields
// fail loading instead of being silently ignored.
type Config struct {
	// Systems lists the tenant's scoring systems. Exactly one must be
	// marked default.
	Systems []domain.ScoringSystem `yaml:"scoring_systems" validate:"required,min=1,dive"`

	// Weights is the resolved weight snapshot for the current cycle.
	Weights domain.WeightConfig `yaml:"weights"`
}

// LoadConfig reads and validates a scoring configuration file.
// Decoding is strict: unrecognized fields are rejected at load time.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig strictly decodes and validates scoring configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		verr := domain.NewValidationError("scoring config")
		for _, fe := range err.(validator.ValidationErrors) {
			verr.AddError(fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return nil, verr
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// check enforces cross-field rules the tag validator cannot express.
func (c *Config) check() error {
	verr := domain.NewValidationError("scoring config")

	defaults := 0
	ids := make(map[string]struct{}, len(c.Systems))
	for _, s := range c.Systems {
		if _, dup := ids[s.ID]; dup {
			verr.AddError(fmt.Sprintf("duplicate scoring system id %q", s.ID))
		}
		ids[s.ID] = struct{}{}
		if s.IsDefault {
			defaults++
		}
		if s.Config.Scale.Max <= s.Config.Scale.Min {
			verr.AddError(fmt.Sprintf("system %s: scale max must exceed min", s.ID))
		}
	}
	if defaults != 1 {
		verr.AddError(fmt.Sprintf("exactly one default scoring system required, found %d", defaults))
	}

	for id, w := range c.Weights.Competencies {
		if w <= 0 || w > 1 {
			verr.AddError(fmt.Sprintf("competency weight %s must be in (0, 1], got %g", id, w))
		}
	}
	for name, w := range c.Weights.Categories {
		if w <= 0 || w > 1 {
			verr.AddError(fmt.Sprintf("category weight %s must be in (0, 1], got %g", name, w))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// DefaultSystem returns the tenant's default scoring system.
func (c *Config) DefaultSystem() domain.ScoringSystem {
	for _, s := range c.Systems {
		if s.IsDefault {
			return s
		}
	}
	// check() guarantees one default exists.
	return domain.ScoringSystem{}
}

// System returns the scoring system with the given ID. Fails with
// domain.ErrUnknownScoringSystem when absent.
func (c *Config) System(id string) (domain.ScoringSystem, error) {
	for _, s := range c.Systems {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.ScoringSystem{}, fmt.Errorf("%w: %s", domain.ErrUnknownScoringSystem, id)
}
