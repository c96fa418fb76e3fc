package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by the scoring engine and lifecycle.
var (
	// ErrInsufficientData indicates that the total weight in scope was
	// zero, e.g. no questions answered. Callers must surface this rather
	// than converting it to a zero score.
	ErrInsufficientData = errors.New("insufficient data for aggregation")

	// ErrScaleMismatch indicates that a model's declared scale bounds
	// disagree with the question snapshot being scored.
	ErrScaleMismatch = errors.New("scoring scale mismatch")

	// ErrEmptySelection indicates that an assessment was started with
	// no competencies selected.
	ErrEmptySelection = errors.New("no competencies selected")

	// ErrInvalidRating indicates a rating outside the question's bounds.
	ErrInvalidRating = errors.New("rating out of range")

	// ErrUnknownQuestion indicates a response referencing a question
	// outside the assessment's snapshot.
	ErrUnknownQuestion = errors.New("question not in assessment snapshot")

	// ErrTerminalState indicates a mutating event against a completed
	// or abandoned assessment.
	ErrTerminalState = errors.New("assessment in terminal state")

	// ErrUnknownScoringSystem indicates that no model is registered for
	// the requested scoring system.
	ErrUnknownScoringSystem = errors.New("unknown scoring system")

	// ErrAssessmentNotFound indicates that no assessment exists for the
	// given ID.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrResultNotFound indicates that no result has been persisted for
	// the given assessment.
	ErrResultNotFound = errors.New("result not found")

	// ErrCompetencyNotFound indicates that the question source has no
	// questions for the requested competency.
	ErrCompetencyNotFound = errors.New("competency not found")
)

// IsValidation reports whether err belongs to the validation class:
// requests the caller can fix and resubmit. Never retried
// automatically.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrUnknownQuestion) ||
		errors.As(err, &verr)
}

// IsConflict reports whether err is a state conflict, i.e. a mutating
// event against a terminal assessment.
func IsConflict(err error) bool { return errors.Is(err, ErrTerminalState) }

// IsComputation reports whether err is a scoring computation failure.
// Completion does not transition state on these, so the assessment
// stays IN_PROGRESS and can be retried once the data issue is fixed.
func IsComputation(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrScaleMismatch)
}

// ValidationError represents a request that failed validation. It can
// carry multiple failures so the caller receives enough detail to fix
// the request in one round trip. Validation failures are never retried
// automatically.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation failure messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError appends a failure message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors reports whether any failures have been recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a ValidationError for the given entity.
func NewValidationError(entity string, msgs ...string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: msgs}
}

// StateError represents an illegal lifecycle event against an
// assessment, such as mutating a terminal assessment. It is surfaced
// as a conflict and never retried.
type StateError struct {
	// AssessmentID identifies the assessment involved.
	AssessmentID string

	// Event is the lifecycle event that was rejected.
	Event string

	// Status is the assessment status at the time of rejection.
	Status Status

	// Err is the underlying sentinel, typically ErrTerminalState.
	Err error
}

// Error implements the error interface for StateError.
func (e *StateError) Error() string {
	return fmt.Sprintf("state error: assessment=%s, event=%s, status=%s, err=%v",
		e.AssessmentID, e.Event, e.Status, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is matching.
func (e *StateError) Unwrap() error { return e.Err }

// NewStateError creates a StateError for the given assessment event.
func NewStateError(assessmentID, event string, status Status, err error) *StateError {
	return &StateError{
		AssessmentID: assessmentID,
		Event:        event,
		Status:       status,
		Err:          err,
	}
}
