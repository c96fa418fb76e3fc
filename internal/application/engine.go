package application

import (
	"fmt"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// AggregationEngine orchestrates the hierarchical roll-up from
// question scores to competency, category, and overall scores using a
// selected ScoreModel. The engine only reads assessments; the Result
// it produces is a pure function of the snapshot and the weight
// configuration at the instant of computation.
//
// Rounding policy: all intermediate aggregation runs on unrounded
// floating point; only externally reported score fields are rounded
// (to two decimal places), so rounding error never compounds across
// the three hierarchy levels.
type AggregationEngine struct{}

// NewAggregationEngine creates an aggregation engine. The engine
// holds no state; one instance serves all assessments concurrently.
func NewAggregationEngine() *AggregationEngine { return &AggregationEngine{} }

// Compute produces the Result for an assessment under the given model
// and weight snapshot. at becomes the result's computation timestamp.
//
// Failure modes:
//   - domain.ErrScaleMismatch when any snapshotted question's rating
//     range disagrees with the model's scale. Fatal; no partial result.
//   - domain.ErrInsufficientData when zero total weight is realized
//     across the whole assessment, e.g. nothing answered. Reported,
//     never converted to a zero score.
//
// Competencies with no answered questions appear in the breakdown
// with a nil average and contribute no weight to the overall
// aggregate.
func (e *AggregationEngine) Compute(
	assessment *domain.Assessment,
	model ports.ScoreModel,
	weights domain.WeightConfig,
	at time.Time,
) (*domain.Result, error) {
	scale := model.Scale()
	for _, q := range assessment.Questions {
		if !scale.Matches(q) {
			return nil, fmt.Errorf("%w: question %s uses [%d, %d], model %s declares [%d, %d]",
				domain.ErrScaleMismatch, q.ID, q.ScoreMin, q.ScoreMax,
				model.Name(), scale.Min, scale.Max)
		}
	}

	normalize := reportTransform(model)

	// Partition the snapshot by competency, preserving snapshot order
	// on both levels. Live competency data is never consulted.
	byCompetency := make(map[string][]domain.Question, len(assessment.Competencies))
	for _, q := range assessment.Questions {
		byCompetency[q.CompetencyID] = append(byCompetency[q.CompetencyID], q)
	}

	breakdown := make([]domain.CompetencyBreakdown, 0, len(assessment.Competencies))
	var scoredCompetencies []scoredCompetency

	for _, comp := range assessment.Competencies {
		questions := byCompetency[comp.ID]
		entry := domain.CompetencyBreakdown{
			CompetencyID:   comp.ID,
			CompetencyName: comp.Name,
			QuestionsCount: len(questions),
			Responses:      make([]domain.ResponseDetail, 0, len(questions)),
		}

		answered := 0
		for _, q := range questions {
			resp, ok := assessment.Responses[q.ID]
			if !ok {
				continue
			}
			answered++
			score, err := model.QuestionScore(q, resp)
			if err != nil {
				return nil, fmt.Errorf("competency %s: %w", comp.ID, err)
			}
			entry.Responses = append(entry.Responses, domain.ResponseDetail{
				QuestionID: q.ID,
				Statement:  q.Statement,
				Rating:     resp.Rating,
				Score:      domain.Round2(normalize(score)),
				Comment:    resp.Comment,
			})
		}

		// Unanswered competencies are reported but stay out of the
		// overall weight sum; zero-filling would deflate real averages.
		if answered > 0 {
			agg, err := model.CompetencyScore(questions, assessment.Responses)
			if err != nil {
				return nil, fmt.Errorf("competency %s: %w", comp.ID, err)
			}
			avg := domain.Round2(normalize(agg.Score))
			entry.AverageScore = &avg
			scoredCompetencies = append(scoredCompetencies, scoredCompetency{competency: comp, aggregate: agg})
		}

		breakdown = append(breakdown, entry)
	}

	if len(scoredCompetencies) == 0 {
		return nil, fmt.Errorf("no answered questions in assessment %s: %w",
			assessment.ID, domain.ErrInsufficientData)
	}

	overall, err := e.rollUp(model, weights, scoredCompetencies)
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		AssessmentID:        assessment.ID,
		OverallScore:        domain.Round2(normalize(overall)),
		AnsweredCount:       assessment.AnsweredCount(),
		TotalQuestions:      len(assessment.Questions),
		CompetencyBreakdown: breakdown,
		ComputedAt:          at,
	}, nil
}

// scoredCompetency pairs a snapshotted competency with its computed
// aggregate for the roll-up above the competency level.
type scoredCompetency struct {
	competency domain.Competency
	aggregate  ports.Aggregate
}

// rollUp combines scored competencies into the overall score, adding
// the category tier when the model declares category support and the
// snapshot actually categorizes competencies. Uncategorized
// competencies join the top level directly alongside category
// aggregates.
func (e *AggregationEngine) rollUp(
	model ports.ScoreModel,
	weights domain.WeightConfig,
	scoredCompetencies []scoredCompetency,
) (float64, error) {
	useCategories := model.Levels().Category
	if useCategories {
		useCategories = false
		for _, sc := range scoredCompetencies {
			if sc.competency.Category != "" {
				useCategories = true
				break
			}
		}
	}

	if !useCategories {
		inputs := make([]ports.ScoreInput, len(scoredCompetencies))
		for i, sc := range scoredCompetencies {
			inputs[i] = ports.ScoreInput{
				Score:  sc.aggregate.Score,
				Weight: e.competencyWeight(weights, sc.competency),
			}
		}
		agg, err := model.Combine(inputs)
		if err != nil {
			return 0, fmt.Errorf("overall aggregation: %w", err)
		}
		return agg.Score, nil
	}

	// Category tier: group competency aggregates by category in first
	// appearance order, average within each group, then combine the
	// category aggregates (and any uncategorized competencies) at the
	// top level under category weights.
	var order []string
	grouped := make(map[string][]ports.ScoreInput)
	var top []ports.ScoreInput

	for _, sc := range scoredCompetencies {
		weight := e.competencyWeight(weights, sc.competency)
		in := ports.ScoreInput{Score: sc.aggregate.Score, Weight: weight}
		cat := sc.competency.Category
		if cat == "" {
			top = append(top, in)
			continue
		}
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		in.ParentWeight = weights.CategoryWeight(cat)
		grouped[cat] = append(grouped[cat], in)
	}

	for _, cat := range order {
		agg, err := model.Combine(grouped[cat])
		if err != nil {
			return 0, fmt.Errorf("category %s: %w", cat, err)
		}
		top = append(top, ports.ScoreInput{Score: agg.Score, Weight: weights.CategoryWeight(cat)})
	}

	agg, err := model.Combine(top)
	if err != nil {
		return 0, fmt.Errorf("overall aggregation: %w", err)
	}
	return agg.Score, nil
}

// competencyWeight resolves a competency's weight: an explicit
// WeightConfig entry wins (this is how Bayesian cycle snapshots plug
// in), then the snapshotted static weight, then 1.
func (e *AggregationEngine) competencyWeight(weights domain.WeightConfig, comp domain.Competency) float64 {
	if v, ok := weights.Competencies[comp.ID]; ok {
		return v
	}
	if comp.Weight > 0 {
		return comp.Weight
	}
	return 1
}

// reportTransform returns the transform applied to externally
// reported score fields. Models implementing the Normalizer
// capability (the 0-100 wrapper) rescale reported values; everything
// else reports on the base scale.
func reportTransform(model ports.ScoreModel) func(float64) float64 {
	if n, ok := model.(ports.Normalizer); ok {
		return n.Normalize
	}
	return func(v float64) float64 { return v }
}
