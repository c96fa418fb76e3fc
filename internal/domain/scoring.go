package domain

// ScaleType enumerates the recognized score-scale flavors. The engine
// only interprets Min and Max; the type is carried for reporting.
type ScaleType string

// Recognized scale types.
const (
	ScaleLikert     ScaleType = "likert"
	ScalePercentage ScaleType = "percentage"
	ScalePoints     ScaleType = "points"
)

// ScaleBounds describes the inclusive rating range a scoring model
// operates on. The aggregation engine refuses to compute when a
// model's bounds disagree with the question snapshot in use.
type ScaleBounds struct {
	Min  int       `yaml:"min" json:"min"`
	Max  int       `yaml:"max" json:"max"`
	Type ScaleType `yaml:"type" json:"type"`
}

// Matches reports whether a question's rating range fits these bounds.
func (b ScaleBounds) Matches(q Question) bool {
	return q.ScoreMin == b.Min && q.ScoreMax == b.Max
}

// WeightLevels declares which hierarchy levels a scoring model applies
// weights at.
type WeightLevels struct {
	Question   bool `yaml:"question" json:"question"`
	Competency bool `yaml:"competency" json:"competency"`
	Category   bool `yaml:"category" json:"category"`
}

// ScoringConfig is the validated configuration of a scoring system.
// It replaces the free-form config blobs of earlier deployments with
// enumerated recognized options; unknown fields are rejected at load
// time by strict decoding.
type ScoringConfig struct {
	// QuestionWeights, CompetencyWeights, and CategoryWeights declare
	// which weight levels the scoring system expects to use.
	QuestionWeights   bool `yaml:"question_weights" json:"question_weights"`
	CompetencyWeights bool `yaml:"competency_weights" json:"competency_weights"`
	CategoryWeights   bool `yaml:"category_weights" json:"category_weights"`

	// Scale bounds the valid rating range for every question scored
	// under this system.
	Scale ScaleBounds `yaml:"scale" json:"scale" validate:"required"`
}

// ScoringSystem is the tenant-facing configuration entity that selects
// and parameterizes a scoring model. Exactly one system is default per
// tenant at any time; that uniqueness is enforced by the owning
// collaborator, not this core.
type ScoringSystem struct {
	// ID uniquely identifies the scoring system.
	ID string `yaml:"id" json:"id" validate:"required"`

	// Name is the human-readable system name.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Model names the registered scoring model implementation.
	Model string `yaml:"model" json:"model" validate:"required"`

	// IsDefault marks the tenant's default system.
	IsDefault bool `yaml:"is_default" json:"is_default"`

	// Config holds the validated scoring options.
	Config ScoringConfig `yaml:"config" json:"config" validate:"required"`

	// Params carries model-specific configuration such as the BARS
	// anchor table. Unknown keys are rejected when the model decodes
	// them, never silently ignored.
	Params map[string]any `yaml:"params" json:"params,omitempty"`
}

// WeightConfig is a resolved weight snapshot for one assessment cycle.
// Competency and category weights are relative within their sibling
// group and are not required to sum to 1; the engine always divides by
// the realized weight sum. For the Bayesian model this snapshot is
// produced by an offline batch job; the online path only consumes it.
type WeightConfig struct {
	// Cycle optionally identifies the weight-derivation cycle that
	// produced this snapshot.
	Cycle string `yaml:"cycle" json:"cycle,omitempty"`

	// Competencies maps competency ID to relative weight.
	Competencies map[string]float64 `yaml:"competencies" json:"competencies,omitempty"`

	// Categories maps category name to relative weight.
	Categories map[string]float64 `yaml:"categories" json:"categories,omitempty"`
}

// CompetencyWeight returns the configured weight for a competency,
// defaulting to 1 so unconfigured competencies average flatly.
func (w WeightConfig) CompetencyWeight(id string) float64 {
	if v, ok := w.Competencies[id]; ok {
		return v
	}
	return 1
}

// CategoryWeight returns the configured weight for a category,
// defaulting to 1.
func (w WeightConfig) CategoryWeight(name string) float64 {
	if v, ok := w.Categories[name]; ok {
		return v
	}
	return 1
}
