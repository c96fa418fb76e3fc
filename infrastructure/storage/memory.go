// Package storage provides the in-memory reference implementations of
// the repository and question-source ports. Production deployments
// supply their own persistence; these implementations carry the exact
// concurrency contract the lifecycle depends on, so they double as
// the behavioral specification for real backends.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AssessmentRepository = (*MemoryRepository)(nil)

// MemoryRepository is a mutex-guarded in-memory assessment store.
// Assessments are deep-copied on the way in and out, so callers can
// never mutate stored state through shared slices or maps. Results
// are write-once: the first persisted artifact for an assessment is
// retained and later saves are ignored, which is what lets racing
// completions converge on a single Result.
type MemoryRepository struct {
	mu          sync.RWMutex
	assessments map[string]*domain.Assessment
	results     map[string]*domain.Result
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		assessments: make(map[string]*domain.Assessment),
		results:     make(map[string]*domain.Result),
	}
}

// Save inserts or replaces the assessment keyed by its ID.
func (r *MemoryRepository) Save(_ context.Context, assessment *domain.Assessment) error {
	if assessment == nil || assessment.ID == "" {
		return fmt.Errorf("assessment must have an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments[assessment.ID] = assessment.Clone()
	return nil
}

// Load returns a deep copy of the assessment. Fails with
// domain.ErrAssessmentNotFound when absent.
func (r *MemoryRepository) Load(_ context.Context, id string) (*domain.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assessments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssessmentNotFound, id)
	}
	return a.Clone(), nil
}

// UpsertResponse atomically validates and records a response. Holding
// the store lock across the load, the checks, and the write is what
// keeps concurrent upserts for different questions from erasing each
// other through a stale full-record save.
func (r *MemoryRepository) UpsertResponse(
	_ context.Context,
	assessmentID string,
	response domain.Response,
) (*domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[assessmentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssessmentNotFound, assessmentID)
	}
	if a.Status != domain.StatusInProgress {
		return nil, domain.NewStateError(assessmentID, "submit_response", a.Status, domain.ErrTerminalState)
	}
	question, ok := a.QuestionByID(response.QuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, response.QuestionID)
	}
	if !question.ValidRating(response.Rating) {
		return nil, fmt.Errorf("%w: rating %d outside [%d, %d] for question %s",
			domain.ErrInvalidRating, response.Rating, question.ScoreMin, question.ScoreMax, response.QuestionID)
	}
	a.Responses[response.QuestionID] = response
	return a.Clone(), nil
}

// CompareAndSwapStatus atomically transitions the stored assessment's
// status, stamping completedAt on success. Returns false without
// error when the stored status is not from.
func (r *MemoryRepository) CompareAndSwapStatus(
	_ context.Context,
	id string,
	from, to domain.Status,
	completedAt time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrAssessmentNotFound, id)
	}
	if a.Status != from {
		return false, nil
	}
	if !from.CanTransition(to) {
		return false, fmt.Errorf("illegal transition %s -> %s for assessment %s", from, to, id)
	}
	a.Status = to
	t := completedAt
	a.CompletedAt = &t
	return true, nil
}

// SaveResult persists the result artifact, write-once. A result that
// already exists is retained unchanged.
func (r *MemoryRepository) SaveResult(_ context.Context, assessmentID string, result *domain.Result) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.results[assessmentID]; exists {
		return nil
	}
	stored := *result
	stored.CompetencyBreakdown = cloneBreakdown(result.CompetencyBreakdown)
	r.results[assessmentID] = &stored
	return nil
}

// LoadResult returns a deep copy of the stored result. Fails with
// domain.ErrResultNotFound when no result has been persisted.
func (r *MemoryRepository) LoadResult(_ context.Context, assessmentID string) (*domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.results[assessmentID]
	if !ok {
		return nil, fmt.Errorf("%w: assessment %s", domain.ErrResultNotFound, assessmentID)
	}
	out := *res
	out.CompetencyBreakdown = cloneBreakdown(res.CompetencyBreakdown)
	return &out, nil
}

// cloneBreakdown deep-copies breakdown entries, including the
// per-response details and the nilable average pointers.
func cloneBreakdown(in []domain.CompetencyBreakdown) []domain.CompetencyBreakdown {
	out := make([]domain.CompetencyBreakdown, len(in))
	for i, b := range in {
		out[i] = b
		if b.AverageScore != nil {
			v := *b.AverageScore
			out[i].AverageScore = &v
		}
		out[i].Responses = append([]domain.ResponseDetail(nil), b.Responses...)
	}
	return out
}
