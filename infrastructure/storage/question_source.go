package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.QuestionSource = (*StaticQuestionSource)(nil)

// StaticQuestionSource serves a fixed catalog of competencies and
// questions. It stands in for the competency subsystem in the demo
// binary and in tests; whether question text upstream was AI-generated
// or manually authored is invisible at this boundary.
type StaticQuestionSource struct {
	mu           sync.RWMutex
	competencies map[string]domain.Competency
	questions    map[string][]domain.Question
}

// NewStaticQuestionSource creates an empty static source.
func NewStaticQuestionSource() *StaticQuestionSource {
	return &StaticQuestionSource{
		competencies: make(map[string]domain.Competency),
		questions:    make(map[string][]domain.Question),
	}
}

// AddCompetency registers a competency and its ordered question set,
// replacing any previous registration for the same ID.
func (s *StaticQuestionSource) AddCompetency(comp domain.Competency, questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competencies[comp.ID] = comp
	s.questions[comp.ID] = slices.Clone(questions)
}

// ListQuestions returns the ordered question set for a competency.
// Fails with domain.ErrCompetencyNotFound for unknown competencies;
// an unknown competency is an error, never an empty snapshot.
func (s *StaticQuestionSource) ListQuestions(_ context.Context, competencyID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qs, ok := s.questions[competencyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCompetencyNotFound, competencyID)
	}
	return slices.Clone(qs), nil
}

// GetCompetency returns the competency record for snapshotting.
func (s *StaticQuestionSource) GetCompetency(_ context.Context, competencyID string) (domain.Competency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.competencies[competencyID]
	if !ok {
		return domain.Competency{}, fmt.Errorf("%w: %s", domain.ErrCompetencyNotFound, competencyID)
	}
	return comp, nil
}
