package domain

import (
	"maps"
	"slices"
	"time"
)

// Status represents the lifecycle state of an assessment.
type Status string

// Assessment lifecycle states. Transitions only move forward:
// IN_PROGRESS may become COMPLETED or ABANDONED; terminal states
// never transition again.
const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusAbandoned  Status = "ABANDONED"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// CanTransition reports whether a transition from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	return s == StatusInProgress && next.Terminal()
}

// Assessment is one subject's run through a set of competencies.
// The question snapshot is taken once at start and is immutable for
// the life of the assessment; responses are keyed by question ID.
// The aggregation engine only reads assessments, it never mutates them.
type Assessment struct {
	// ID uniquely identifies the assessment.
	ID string `json:"id"`

	// SubjectID is the user being assessed, who exclusively owns the
	// assessment.
	SubjectID string `json:"subject_id"`

	// CompetencyIDs is the set of competencies selected at start.
	CompetencyIDs []string `json:"competency_ids"`

	// Competencies is the competency snapshot taken at start. Names,
	// categories, and static weights are read from here, never from
	// live competency data, so results stay reproducible.
	Competencies []Competency `json:"competencies"`

	// Questions is the ordered question snapshot taken at start.
	Questions []Question `json:"questions"`

	// Responses maps question ID to the latest submitted response.
	Responses map[string]Response `json:"responses"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// StartedAt records when the assessment was created.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt records when the assessment reached a terminal state.
	// Nil while the assessment is in progress.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// QuestionByID returns the snapshotted question with the given ID.
// The second return value reports whether the question is part of
// the snapshot.
func (a *Assessment) QuestionByID(id string) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// CompetencyByID returns the snapshotted competency with the given ID.
func (a *Assessment) CompetencyByID(id string) (Competency, bool) {
	for _, c := range a.Competencies {
		if c.ID == id {
			return c, true
		}
	}
	return Competency{}, false
}

// AnsweredCount returns the number of distinct questions answered.
func (a *Assessment) AnsweredCount() int { return len(a.Responses) }

// Clone returns a deep copy of the assessment so that callers holding
// the copy cannot mutate shared state through slices or maps.
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	c.CompetencyIDs = slices.Clone(a.CompetencyIDs)
	c.Competencies = slices.Clone(a.Competencies)
	c.Questions = make([]Question, len(a.Questions))
	for i, q := range a.Questions {
		c.Questions[i] = q
		c.Questions[i].Examples = slices.Clone(q.Examples)
	}
	c.Responses = maps.Clone(a.Responses)
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
