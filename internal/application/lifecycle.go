package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AssessmentService = (*Lifecycle)(nil)

// Lifecycle implements the assessment state machine:
// start → submit* → complete | abandon. It guarantees exactly-once
// scoring (racing completions converge on one stored Result) and
// idempotent resumption (response upserts, repeat completion returns
// the stored artifact). The lifecycle holds no per-assessment state
// itself; everything lives in the repository, so independent
// assessments are fully parallel.
type Lifecycle struct {
	repo     ports.AssessmentRepository
	source   ports.QuestionSource
	registry ports.ModelRegistry
	engine   *AggregationEngine

	// system and weights select and parameterize the scoring model for
	// every completion handled by this lifecycle instance.
	system  domain.ScoringSystem
	weights domain.WeightConfig

	// completing collapses concurrent completions of the same
	// assessment into one computation per process.
	completing singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithClock overrides the lifecycle's time source.
func WithClock(now func() time.Time) LifecycleOption {
	return func(l *Lifecycle) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLifecycle creates a lifecycle service over the given
// collaborators and scoring-system selection.
func NewLifecycle(
	repo ports.AssessmentRepository,
	source ports.QuestionSource,
	registry ports.ModelRegistry,
	engine *AggregationEngine,
	system domain.ScoringSystem,
	weights domain.WeightConfig,
	opts ...LifecycleOption,
) *Lifecycle {
	l := &Lifecycle{
		repo:     repo,
		source:   source,
		registry: registry,
		engine:   engine,
		system:   system,
		weights:  weights,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StartAssessment pulls the current question set for each selected
// competency and snapshots it: statements, types, examples, and
// weights are copied at this instant so later edits never
// retroactively change an in-flight or completed assessment. The
// question source is called exactly once per competency; on any
// source error the whole start fails and no assessment is persisted.
func (l *Lifecycle) StartAssessment(
	ctx context.Context,
	subjectID string,
	competencyIDs []string,
) (*domain.Assessment, error) {
	if subjectID == "" {
		return nil, domain.NewValidationError("assessment", "subject id is required")
	}
	if len(competencyIDs) == 0 {
		return nil, fmt.Errorf("start assessment for subject %s: %w", subjectID, domain.ErrEmptySelection)
	}

	seen := make(map[string]struct{}, len(competencyIDs))
	var competencies []domain.Competency
	var questions []domain.Question

	for _, id := range competencyIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		comp, err := l.source.GetCompetency(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("competency %s: %w", id, err)
		}
		qs, err := l.source.ListQuestions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("questions for competency %s: %w", id, err)
		}
		competencies = append(competencies, comp)
		questions = append(questions, qs...)
	}

	assessment := &domain.Assessment{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		CompetencyIDs: competencyIDs,
		Competencies:  competencies,
		Questions:     questions,
		Responses:     make(map[string]domain.Response),
		Status:        domain.StatusInProgress,
		StartedAt:     l.now().UTC(),
	}
	if err := l.repo.Save(ctx, assessment); err != nil {
		return nil, fmt.Errorf("persist assessment: %w", err)
	}
	return assessment, nil
}

// SubmitResponse upserts the response for one snapshotted question.
// Resubmitting the same question before completion overwrites the
// prior rating and comment: no duplicate records, no ordering
// dependency on client retries. The upsert is a single atomic
// repository operation, so concurrent submissions for different
// questions on the same assessment all land; a full-record
// load-modify-save here would let the last writer erase the others.
func (l *Lifecycle) SubmitResponse(
	ctx context.Context,
	assessmentID, questionID string,
	rating int,
	comment string,
) (*domain.Assessment, error) {
	return l.repo.UpsertResponse(ctx, assessmentID, domain.Response{
		QuestionID: questionID,
		Rating:     rating,
		Comment:    comment,
	})
}

// CompleteAssessment computes the Result, persists it, and
// transitions the assessment to COMPLETED. Partial completion is
// valid; unanswered questions follow the missing-data policy.
// Completing an already completed assessment returns the stored
// Result unchanged. On computation failure the status stays
// IN_PROGRESS so completion can be retried after the data issue is
// fixed.
func (l *Lifecycle) CompleteAssessment(ctx context.Context, assessmentID string) (*domain.Result, error) {
	result, err, _ := l.completing.Do(assessmentID, func() (any, error) {
		return l.complete(ctx, assessmentID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Result), nil
}

// complete performs one completion attempt. It runs inside the
// singleflight group, so within a process only one computation per
// assessment is in flight; across processes the repository's status
// CAS and write-once results keep completion exactly-once.
func (l *Lifecycle) complete(ctx context.Context, assessmentID string) (*domain.Result, error) {
	assessment, err := l.repo.Load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	switch assessment.Status {
	case domain.StatusCompleted:
		return l.repo.LoadResult(ctx, assessmentID)
	case domain.StatusAbandoned:
		return nil, domain.NewStateError(assessmentID, "complete", assessment.Status, domain.ErrTerminalState)
	}

	model, err := l.registry.Resolve(l.system)
	if err != nil {
		return nil, err
	}

	completedAt := l.now().UTC()
	result, err := l.engine.Compute(assessment, model, l.weights, completedAt)
	if err != nil {
		// Status untouched; the assessment stays IN_PROGRESS.
		return nil, err
	}

	// Results are write-once, so even if another process slipped in
	// between our load and this save, the first artifact wins and both
	// callers observe it.
	if err := l.repo.SaveResult(ctx, assessmentID, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	swapped, err := l.repo.CompareAndSwapStatus(
		ctx, assessmentID, domain.StatusInProgress, domain.StatusCompleted, completedAt)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Lost the race. If the winner completed, return its artifact;
		// an abandon sneaking in is a conflict.
		current, err := l.repo.Load(ctx, assessmentID)
		if err != nil {
			return nil, err
		}
		if current.Status != domain.StatusCompleted {
			return nil, domain.NewStateError(assessmentID, "complete", current.Status, domain.ErrTerminalState)
		}
	}
	return l.repo.LoadResult(ctx, assessmentID)
}

// AbandonAssessment transitions IN_PROGRESS to ABANDONED. No Result
// is computed; abandoning a terminal assessment is a conflict.
func (l *Lifecycle) AbandonAssessment(ctx context.Context, assessmentID string) error {
	assessment, err := l.repo.Load(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.Status != domain.StatusInProgress {
		return domain.NewStateError(assessmentID, "abandon", assessment.Status, domain.ErrTerminalState)
	}
	swapped, err := l.repo.CompareAndSwapStatus(
		ctx, assessmentID, domain.StatusInProgress, domain.StatusAbandoned, l.now().UTC())
	if err != nil {
		return err
	}
	if !swapped {
		current, err := l.repo.Load(ctx, assessmentID)
		if err != nil {
			return err
		}
		return domain.NewStateError(assessmentID, "abandon", current.Status, domain.ErrTerminalState)
	}
	return nil
}

// GetResults returns the stored Result artifact. It never recomputes:
// the Result is immutable once persisted, regardless of later weight
// or question edits. Abandoned assessments report no result even when
// a losing completion persisted its artifact before the abandon won
// the status swap.
func (l *Lifecycle) GetResults(ctx context.Context, assessmentID string) (*domain.Result, error) {
	assessment, err := l.repo.Load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.Status == domain.StatusAbandoned {
		return nil, fmt.Errorf("assessment %s abandoned: %w", assessmentID, domain.ErrResultNotFound)
	}
	return l.repo.LoadResult(ctx, assessmentID)
}
