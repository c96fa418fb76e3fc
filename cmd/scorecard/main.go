// Command scorecard runs a demonstration assessment end to end: it
// loads a scoring configuration, snapshots a small competency catalog,
// answers every question, and prints the computed Result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterbourgon/ff/v3"

	"github.com/ahrav/go-scorecard/infrastructure/middleware"
	"github.com/ahrav/go-scorecard/infrastructure/storage"
	"github.com/ahrav/go-scorecard/internal/application"
	"github.com/ahrav/go-scorecard/internal/domain"
)

func main() {
	fs := flag.NewFlagSet("scorecard", flag.ExitOnError)
	var (
		configPath = fs.String("config", "config/scoring.yaml", "path to the scoring configuration file")
		systemID   = fs.String("system", "", "scoring system id to use, defaults to the configured default")
		subjectID  = fs.String("subject", "demo-subject", "subject id for the demonstration assessment")
		_          = fs.String("flag-config", "", "flag config file (optional), json format")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("flag-config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("SCORECARD"),
	); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	cfg, err := application.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load scoring config: %v", err)
	}

	system := cfg.DefaultSystem()
	if *systemID != "" {
		if system, err = cfg.System(*systemID); err != nil {
			log.Fatalf("select scoring system: %v", err)
		}
	}

	source := storage.NewStaticQuestionSource()
	seedCatalog(source, system.Config.Scale)

	lifecycle := application.NewLifecycle(
		storage.NewMemoryRepository(),
		source,
		application.NewDefaultModelRegistry(),
		application.NewAggregationEngine(),
		system,
		cfg.Weights,
	)
	service := middleware.NewTracingService(
		middleware.NewMetricsService(lifecycle, middleware.NewPrometheusMetrics()),
	)

	ctx := context.Background()
	assessment, err := service.StartAssessment(ctx, *subjectID, []string{"communication", "problem-solving"})
	if err != nil {
		log.Fatalf("start assessment: %v", err)
	}
	fmt.Printf("started assessment %s with %d questions under system %q\n",
		assessment.ID, len(assessment.Questions), system.Name)

	for i, q := range assessment.Questions {
		rating := q.ScoreMin + (i+q.ScoreMax-q.ScoreMin)%(q.ScoreMax-q.ScoreMin+1)
		if _, err := service.SubmitResponse(ctx, assessment.ID, q.ID, rating, ""); err != nil {
			log.Fatalf("submit response for %s: %v", q.ID, err)
		}
	}

	result, err := service.CompleteAssessment(ctx, assessment.ID)
	if err != nil {
		log.Fatalf("complete assessment: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

// seedCatalog fills the static source with a small two-competency
// catalog matching the configured scale.
func seedCatalog(source *storage.StaticQuestionSource, scale domain.ScaleBounds) {
	source.AddCompetency(
		domain.Competency{ID: "communication", Name: "Communication", Category: "Interpersonal", Weight: 0.6},
		[]domain.Question{
			{
				ID:           "comm-1",
				CompetencyID: "communication",
				Statement:    "Explains complex topics in terms the audience understands.",
				Type:         domain.QuestionBehavioral,
				Examples:     []string{"Summarizes design tradeoffs for non-engineers"},
				Weight:       0.6,
				ScoreMin:     scale.Min,
				ScoreMax:     scale.Max,
			},
			{
				ID:           "comm-2",
				CompetencyID: "communication",
				Statement:    "Keeps stakeholders informed of progress and risks.",
				Type:         domain.QuestionSituational,
				Weight:       0.4,
				ScoreMin:     scale.Min,
				ScoreMax:     scale.Max,
			},
		},
	)
	source.AddCompetency(
		domain.Competency{ID: "problem-solving", Name: "Problem Solving", Category: "Cognitive", Weight: 0.4},
		[]domain.Question{
			{
				ID:           "ps-1",
				CompetencyID: "problem-solving",
				Statement:    "Breaks ambiguous problems into verifiable steps.",
				Type:         domain.QuestionTechnical,
				Weight:       1.0,
				ScoreMin:     scale.Min,
				ScoreMax:     scale.Max,
			},
		},
	)
}
