package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cliniscribe/cliniscribe/internal/application/services"
	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/evaluation"
	"github.com/cliniscribe/cliniscribe/pkg/config"
)

type labelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

type report struct {
	Summary  *evaluation.EvalSummary `json:"summary"`
	ByLabel  map[string]labelMetrics `json:"by_label"`
	Failures []evaluation.EvalResult `json:"failures,omitempty"`
}

func main() {
	golden := flag.String("golden", "", "path to the golden statements file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	goldenPath := *golden
	if goldenPath == "" {
		goldenPath = "config/golden_statements.json"
		if _, err := os.Stat(goldenPath); err != nil {
			fmt.Fprintln(os.Stderr, "no golden statements file found: pass --golden")
			os.Exit(2)
		}
	}

	statements, err := evaluation.LoadGoldenStatements(goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden statements: %v", err)
	}
	if err := evaluation.ValidateGoldenStatements(statements); err != nil {
		log.Fatalf("Invalid golden statements: %v", err)
	}

	mapper, err := services.NewSentimentServiceFromFile(
		evaluation.NewReplayClassifier(statements),
		cfg.Lexicon.IntentRulesPath,
	)
	if err != nil {
		log.Fatalf("Failed to load intent rules: %v", err)
	}

	runner := evaluation.NewRunner(mapper)
	summary, results, err := runner.Run(context.Background(), statements)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	byLabel := make(map[string]labelMetrics)
	for _, label := range entities.ValidSentiments() {
		precision, recall := evaluation.PrecisionRecall(summary.SentimentConfusion, string(label))
		byLabel[string(label)] = labelMetrics{Precision: precision, Recall: recall}
	}

	var failures []evaluation.EvalResult
	for _, res := range results {
		if !res.SentimentCorrect || !res.IntentCorrect {
			failures = append(failures, res)
		}
	}

	out, _ := json.MarshalIndent(report{Summary: summary, ByLabel: byLabel, Failures: failures}, "", "  ")
	fmt.Println(string(out))
}
