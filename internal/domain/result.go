package domain

import (
	"math"
	"time"
)

// ResponseDetail is one answered question as it appears in a Result,
// pairing the snapshotted statement with the rating and the score the
// model derived from it.
type ResponseDetail struct {
	// QuestionID identifies the snapshotted question.
	QuestionID string `json:"question_id"`

	// Statement is the question text at the time of the snapshot.
	Statement string `json:"statement"`

	// Rating is the raw integer rating the subject submitted.
	Rating int `json:"rating"`

	// Score is the model-derived score for the rating, rounded to two
	// decimal places for reporting.
	Score float64 `json:"score"`

	// Comment is the optional free-form justification.
	Comment string `json:"comment,omitempty"`
}

// CompetencyBreakdown reports per-competency scoring detail within a
// Result. QuestionsCount always reflects the full snapshot for the
// competency, not only the answered questions.
type CompetencyBreakdown struct {
	// CompetencyID identifies the competency.
	CompetencyID string `json:"competency_id"`

	// CompetencyName is the display name captured at computation time.
	CompetencyName string `json:"competency_name"`

	// AverageScore is the competency's weighted average, rounded to two
	// decimal places. Nil when the competency has no answered questions;
	// such competencies are excluded from the overall weight sum rather
	// than scored as zero.
	AverageScore *float64 `json:"average_score"`

	// QuestionsCount is the number of snapshotted questions for this
	// competency.
	QuestionsCount int `json:"questions_count"`

	// Responses lists the answered questions in snapshot order.
	Responses []ResponseDetail `json:"responses"`
}

// Result is the immutable scoring artifact produced exactly once when
// an assessment completes. It is a pure function of the assessment at
// the instant of completion: re-requesting results returns the stored
// artifact and is never recomputed from updated weights.
type Result struct {
	// AssessmentID links the result to its assessment.
	AssessmentID string `json:"assessment_id"`

	// OverallScore is the top-level weighted average, rounded to two
	// decimal places.
	OverallScore float64 `json:"overall_score"`

	// AnsweredCount is the number of questions answered across the
	// whole snapshot.
	AnsweredCount int `json:"answered_count"`

	// TotalQuestions is the size of the question snapshot.
	TotalQuestions int `json:"total_questions"`

	// CompetencyBreakdown holds per-competency detail in snapshot order.
	CompetencyBreakdown []CompetencyBreakdown `json:"competency_breakdown"`

	// ComputedAt records when the result was computed.
	ComputedAt time.Time `json:"computed_at"`
}

// Round2 rounds v to two decimal places. Only externally reported
// score fields are rounded; intermediate aggregation always runs on
// unrounded values to avoid compounding error across hierarchy levels.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }
