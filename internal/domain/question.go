// Package domain contains pure, dependency-free domain models and types
// for the assessment scoring engine.
package domain

// QuestionType categorizes the kind of evidence a question collects.
type QuestionType string

// Recognized question types. The scoring engine treats all types
// identically; the type exists for reporting and question selection.
const (
	QuestionBehavioral  QuestionType = "BEHAVIORAL"
	QuestionSituational QuestionType = "SITUATIONAL"
	QuestionTechnical   QuestionType = "TECHNICAL"
	QuestionKnowledge   QuestionType = "KNOWLEDGE"
)

// Question is a single assessable item belonging to a competency.
// Once a started assessment references a question it is snapshotted
// into the assessment and never re-read, so later edits to statement
// text or weights cannot retroactively change in-flight results.
type Question struct {
	// ID uniquely identifies the question.
	ID string `json:"id"`

	// CompetencyID links the question to its owning competency.
	CompetencyID string `json:"competency_id"`

	// Statement is the question text presented to the subject.
	Statement string `json:"statement"`

	// Type categorizes the question.
	Type QuestionType `json:"type"`

	// Examples are ordered illustrative behaviors or answers that
	// accompany the statement.
	Examples []string `json:"examples,omitempty"`

	// Weight is the question's relative weight within its competency,
	// in (0, 1]. Sibling weights are not required to sum to 1; the
	// engine always divides by the realized weight sum.
	Weight float64 `json:"weight"`

	// ScoreMin and ScoreMax bound the valid rating range, inclusive.
	ScoreMin int `json:"score_min"`
	ScoreMax int `json:"score_max"`
}

// ValidRating reports whether r falls within the question's
// inclusive rating bounds.
func (q Question) ValidRating(r int) bool {
	return r >= q.ScoreMin && r <= q.ScoreMax
}

// Response records a subject's rating for one question within one
// assessment. Responses are upserted keyed by (assessment, question):
// resubmitting a question overwrites the prior rating and comment
// rather than creating a duplicate.
type Response struct {
	// QuestionID identifies the snapshotted question being answered.
	QuestionID string `json:"question_id"`

	// Rating is the integer rating, within the question's score bounds.
	Rating int `json:"rating"`

	// Comment is optional free-form justification.
	Comment string `json:"comment,omitempty"`
}

// Competency is a skill area being assessed. Weight is relative to
// sibling competencies within the same category, or within the whole
// assessment when no category weighting is configured.
type Competency struct {
	// ID uniquely identifies the competency.
	ID string `json:"id"`

	// Name is the human-readable competency name.
	Name string `json:"name"`

	// Category optionally groups the competency for hierarchical
	// aggregation. Empty means uncategorized.
	Category string `json:"category,omitempty"`

	// Weight is the competency's relative weight in (0, 1].
	Weight float64 `json:"weight"`
}
