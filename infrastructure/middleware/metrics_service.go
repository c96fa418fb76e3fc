package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AssessmentService = (*MetricsService)(nil)

// MetricsService decorates an AssessmentService with operation
// counters, latency histograms, score distributions, and an
// open-assessments gauge. The wrapped service is never affected by
// collector behavior.
type MetricsService struct {
	next    ports.AssessmentService
	metrics ports.MetricsCollector

	// open tracks assessments started through this instance that have
	// not yet reached a terminal state, backing the open_assessments
	// gauge. Membership keeps repeat completions of the same assessment
	// from decrementing twice.
	mu   sync.Mutex
	open map[string]struct{}
}

// NewMetricsService wraps next with metric collection.
func NewMetricsService(next ports.AssessmentService, metrics ports.MetricsCollector) *MetricsService {
	return &MetricsService{
		next:    next,
		metrics: metrics,
		open:    make(map[string]struct{}),
	}
}

// trackOpen marks an assessment open and publishes the gauge.
func (s *MetricsService) trackOpen(assessmentID string) {
	if s.metrics == nil {
		return
	}
	s.mu.Lock()
	s.open[assessmentID] = struct{}{}
	n := len(s.open)
	s.mu.Unlock()
	s.metrics.RecordGauge("open_assessments", float64(n), nil)
}

// trackClosed marks an assessment terminal and publishes the gauge.
// Assessments not started through this instance, or already closed,
// leave the gauge untouched.
func (s *MetricsService) trackClosed(assessmentID string) {
	if s.metrics == nil {
		return
	}
	s.mu.Lock()
	_, tracked := s.open[assessmentID]
	if tracked {
		delete(s.open, assessmentID)
	}
	n := len(s.open)
	s.mu.Unlock()
	if tracked {
		s.metrics.RecordGauge("open_assessments", float64(n), nil)
	}
}

// observe records one operation outcome.
func (s *MetricsService) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case domain.IsValidation(err):
		status = "invalid"
	case domain.IsConflict(err):
		status = "conflict"
	case domain.IsComputation(err):
		status = "insufficient"
	default:
		status = "error"
	}
	s.metrics.RecordLatency(operation, time.Since(start), nil)
	s.metrics.RecordCounter(operation, 1, map[string]string{"status": status})
}

// StartAssessment delegates and records the outcome.
func (s *MetricsService) StartAssessment(
	ctx context.Context,
	subjectID string,
	competencyIDs []string,
) (*domain.Assessment, error) {
	start := time.Now()
	assessment, err := s.next.StartAssessment(ctx, subjectID, competencyIDs)
	s.observe("start_assessment", start, err)
	if err == nil {
		s.trackOpen(assessment.ID)
	}
	return assessment, err
}

// SubmitResponse delegates and records the outcome.
func (s *MetricsService) SubmitResponse(
	ctx context.Context,
	assessmentID, questionID string,
	rating int,
	comment string,
) (*domain.Assessment, error) {
	start := time.Now()
	assessment, err := s.next.SubmitResponse(ctx, assessmentID, questionID, rating, comment)
	s.observe("submit_response", start, err)
	return assessment, err
}

// CompleteAssessment delegates, records the outcome, and feeds the
// overall score into the score distribution on success.
func (s *MetricsService) CompleteAssessment(ctx context.Context, assessmentID string) (*domain.Result, error) {
	start := time.Now()
	result, err := s.next.CompleteAssessment(ctx, assessmentID)
	s.observe("complete_assessment", start, err)
	if err == nil {
		s.trackClosed(assessmentID)
		if s.metrics != nil {
			s.metrics.RecordHistogram("overall_score", result.OverallScore, nil)
		}
	}
	return result, err
}

// AbandonAssessment delegates and records the outcome.
func (s *MetricsService) AbandonAssessment(ctx context.Context, assessmentID string) error {
	start := time.Now()
	err := s.next.AbandonAssessment(ctx, assessmentID)
	s.observe("abandon_assessment", start, err)
	if err == nil {
		s.trackClosed(assessmentID)
	}
	return err
}

// GetResults delegates and records the outcome.
func (s *MetricsService) GetResults(ctx context.Context, assessmentID string) (*domain.Result, error) {
	start := time.Now()
	result, err := s.next.GetResults(ctx, assessmentID)
	s.observe("get_results", start, err)
	return result, err
}
