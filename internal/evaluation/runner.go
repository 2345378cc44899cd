package evaluation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cliniscribe/cliniscribe/internal/application/services"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
)

// ReplayClassifier replays the raw classifier output recorded alongside
// each golden statement, so evaluation runs are deterministic and do not
// need a live inference endpoint.
type ReplayClassifier struct {
	byText map[string]providers.RawClassification
}

func NewReplayClassifier(statements []GoldenStatement) *ReplayClassifier {
	c := &ReplayClassifier{byText: make(map[string]providers.RawClassification, len(statements))}
	for _, gs := range statements {
		c.byText[strings.ToLower(strings.TrimSpace(gs.Statement))] = providers.RawClassification{
			Label: gs.RawLabel,
			Score: gs.RawScore,
		}
	}
	return c
}

func (c *ReplayClassifier) Classify(ctx context.Context, text string) (providers.RawClassification, error) {
	raw, ok := c.byText[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return providers.RawClassification{}, fmt.Errorf("no recorded classification for %q", text)
	}
	return raw, nil
}

// Runner evaluates the sentiment/intent mapper against a golden set.
type Runner struct {
	mapper *services.SentimentService
}

func NewRunner(mapper *services.SentimentService) *Runner {
	return &Runner{mapper: mapper}
}

func (r *Runner) Run(ctx context.Context, statements []GoldenStatement) (*EvalSummary, []EvalResult, error) {
	summary := &EvalSummary{
		TotalStatements:    len(statements),
		ByDifficulty:       make(map[string]*DifficultySummary),
		SentimentConfusion: make(map[string]map[string]int),
	}
	results := make([]EvalResult, 0, len(statements))

	for _, gs := range statements {
		start := time.Now()
		sentiment, intent, err := r.mapper.Analyze(ctx, gs.Statement)
		latency := time.Since(start)
		if err != nil {
			return nil, nil, fmt.Errorf("statement %q: %w", gs.ID, err)
		}

		result := EvalResult{
			StatementID:      gs.ID,
			Statement:        gs.Statement,
			GotSentiment:     sentiment.Label,
			GotIntent:        intent.Label,
			SentimentCorrect: string(sentiment.Label) == gs.ExpectedSentiment,
			IntentCorrect:    intent.Label == gs.ExpectedIntent,
			Latency:          latency,
		}
		results = append(results, result)
		r.updateSummary(summary, gs, result)
	}

	r.finalizeSummary(summary)
	return summary, results, nil
}

func (r *Runner) updateSummary(s *EvalSummary, gs GoldenStatement, res EvalResult) {
	if res.SentimentCorrect {
		s.SentimentAccuracy++
	}
	if res.IntentCorrect {
		s.IntentAccuracy++
	}
	if res.SentimentCorrect && res.IntentCorrect {
		s.BothCorrect++
	}
	s.AvgLatency += res.Latency

	if _, ok := s.SentimentConfusion[gs.ExpectedSentiment]; !ok {
		s.SentimentConfusion[gs.ExpectedSentiment] = make(map[string]int)
	}
	s.SentimentConfusion[gs.ExpectedSentiment][string(res.GotSentiment)]++

	if _, ok := s.ByDifficulty[gs.Difficulty]; !ok {
		s.ByDifficulty[gs.Difficulty] = &DifficultySummary{}
	}
	ds := s.ByDifficulty[gs.Difficulty]
	ds.Count++
	if res.SentimentCorrect {
		ds.SentimentAccuracy++
	}
	if res.IntentCorrect {
		ds.IntentAccuracy++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalStatements > 0 {
		n := float64(s.TotalStatements)
		s.SentimentAccuracy /= n
		s.IntentAccuracy /= n
		s.AvgLatency /= time.Duration(s.TotalStatements)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.SentimentAccuracy /= n
			ds.IntentAccuracy /= n
		}
	}
}
