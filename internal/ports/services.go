package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// QuestionSource supplies the assessable questions per competency.
// Implementations are provided by the competency subsystem; question
// text may be AI-generated or manually authored upstream, the engine
// does not care. ListQuestions must be deterministic enough to
// snapshot: the lifecycle calls it exactly once per competency at
// start and fails the whole start on any error.
type QuestionSource interface {
	// ListQuestions returns the ordered question set for a competency.
	// Fails with domain.ErrCompetencyNotFound for unknown competencies.
	ListQuestions(ctx context.Context, competencyID string) ([]domain.Question, error)

	// GetCompetency returns the competency record so its name, category,
	// and static weight can be snapshotted alongside the questions.
	GetCompetency(ctx context.Context, competencyID string) (domain.Competency, error)
}

// AssessmentRepository persists assessments and their results. The
// persistence layer owns the per-assessment serialization guarantees;
// this core only requires the atomic status swap below to make
// completion exactly-once.
type AssessmentRepository interface {
	// Save persists the assessment, inserting or replacing by ID.
	Save(ctx context.Context, assessment *domain.Assessment) error

	// Load retrieves an assessment by ID. Fails with
	// domain.ErrAssessmentNotFound when absent.
	Load(ctx context.Context, id string) (*domain.Assessment, error)

	// UpsertResponse atomically records a response on an IN_PROGRESS
	// assessment, overwriting any prior response for the same question.
	// The whole read-check-write runs under the store's per-assessment
	// serialization, so concurrent upserts for different questions never
	// lose each other; only a resubmission of the same question
	// overwrites. Returns the updated assessment. Fails with
	// domain.ErrAssessmentNotFound, domain.ErrTerminalState (as a
	// StateError) on terminal assessments, domain.ErrUnknownQuestion for
	// questions outside the snapshot, and domain.ErrInvalidRating for
	// out-of-range ratings.
	UpsertResponse(ctx context.Context, assessmentID string, response domain.Response) (*domain.Assessment, error)

	// CompareAndSwapStatus atomically transitions the assessment's
	// status from from to to, stamping completedAt on success. Returns
	// false without error when the current status is not from, which
	// is how a second concurrent completion detects it lost the race.
	CompareAndSwapStatus(ctx context.Context, id string, from, to domain.Status, completedAt time.Time) (bool, error)

	// SaveResult persists the immutable result artifact for an
	// assessment. Results are write-once: if an artifact already
	// exists it is retained unchanged, so racing completions converge
	// on the first persisted result.
	SaveResult(ctx context.Context, assessmentID string, result *domain.Result) error

	// LoadResult retrieves the stored result. Fails with
	// domain.ErrResultNotFound when no result has been persisted.
	LoadResult(ctx context.Context, assessmentID string) (*domain.Result, error)
}

// AssessmentService is the consumer-facing contract invoked by the
// transport layer. Each operation maps 1:1 to a lifecycle event and
// returns serializable payloads.
type AssessmentService interface {
	// StartAssessment snapshots the questions for the selected
	// competencies and creates an IN_PROGRESS assessment. Fails with a
	// validation error on empty selection; no assessment is persisted
	// when the question source fails.
	StartAssessment(ctx context.Context, subjectID string, competencyIDs []string) (*domain.Assessment, error)

	// SubmitResponse upserts the response for one snapshotted question.
	// Resubmitting the same question overwrites the prior rating and
	// comment.
	SubmitResponse(ctx context.Context, assessmentID, questionID string, rating int, comment string) (*domain.Assessment, error)

	// CompleteAssessment computes and persists the result and
	// transitions the assessment to COMPLETED. Completing an already
	// completed assessment returns the stored result unchanged.
	CompleteAssessment(ctx context.Context, assessmentID string) (*domain.Result, error)

	// AbandonAssessment transitions IN_PROGRESS to ABANDONED without
	// computing a result.
	AbandonAssessment(ctx context.Context, assessmentID string) error

	// GetResults returns the stored result artifact; it never
	// recomputes.
	GetResults(ctx context.Context, assessmentID string) (*domain.Result, error)
}
