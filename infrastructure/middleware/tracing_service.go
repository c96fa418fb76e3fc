package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AssessmentService = (*TracingService)(nil)

// TracingService decorates an AssessmentService with OpenTelemetry
// spans, one per lifecycle operation, carrying assessment identifiers
// and outcome attributes for cross-service debugging.
type TracingService struct {
	next   ports.AssessmentService
	tracer trace.Tracer
}

// NewTracingService wraps next with distributed tracing.
func NewTracingService(next ports.AssessmentService) *TracingService {
	return &TracingService{
		next:   next,
		tracer: otel.Tracer("assessment-lifecycle"),
	}
}

// finish records the error state on the span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// StartAssessment traces assessment creation with subject and
// snapshot-size attributes.
func (s *TracingService) StartAssessment(
	ctx context.Context,
	subjectID string,
	competencyIDs []string,
) (*domain.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.StartAssessment",
		trace.WithAttributes(
			attribute.String("assessment.subject_id", subjectID),
			attribute.Int("assessment.competency_count", len(competencyIDs)),
		),
	)
	assessment, err := s.next.StartAssessment(ctx, subjectID, competencyIDs)
	if err == nil {
		span.SetAttributes(
			attribute.String("assessment.id", assessment.ID),
			attribute.Int("assessment.question_count", len(assessment.Questions)),
		)
	}
	finish(span, err)
	return assessment, err
}

// SubmitResponse traces a response upsert.
func (s *TracingService) SubmitResponse(
	ctx context.Context,
	assessmentID, questionID string,
	rating int,
	comment string,
) (*domain.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.SubmitResponse",
		trace.WithAttributes(
			attribute.String("assessment.id", assessmentID),
			attribute.String("assessment.question_id", questionID),
			attribute.Int("assessment.rating", rating),
		),
	)
	assessment, err := s.next.SubmitResponse(ctx, assessmentID, questionID, rating, comment)
	finish(span, err)
	return assessment, err
}

// CompleteAssessment traces scoring and records the computed overall
// score on success.
func (s *TracingService) CompleteAssessment(ctx context.Context, assessmentID string) (*domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.CompleteAssessment",
		trace.WithAttributes(attribute.String("assessment.id", assessmentID)),
	)
	result, err := s.next.CompleteAssessment(ctx, assessmentID)
	if err == nil {
		span.SetAttributes(
			attribute.Float64("assessment.overall_score", result.OverallScore),
			attribute.Int("assessment.answered_count", result.AnsweredCount),
		)
	}
	finish(span, err)
	return result, err
}

// AbandonAssessment traces an abandon transition.
func (s *TracingService) AbandonAssessment(ctx context.Context, assessmentID string) error {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.AbandonAssessment",
		trace.WithAttributes(attribute.String("assessment.id", assessmentID)),
	)
	err := s.next.AbandonAssessment(ctx, assessmentID)
	finish(span, err)
	return err
}

// GetResults traces result retrieval.
func (s *TracingService) GetResults(ctx context.Context, assessmentID string) (*domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.GetResults",
		trace.WithAttributes(attribute.String("assessment.id", assessmentID)),
	)
	result, err := s.next.GetResults(ctx, assessmentID)
	finish(span, err)
	return result, err
}
