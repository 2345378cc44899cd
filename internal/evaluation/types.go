package evaluation

import (
	"time"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
)

// GoldenStatement is a labeled patient statement with the recorded raw
// classifier output and the expected mapped labels.
type GoldenStatement struct {
	ID                string  `json:"id"`
	Statement         string  `json:"statement"`
	RawLabel          string  `json:"raw_label"`
	RawScore          float64 `json:"raw_score"`
	ExpectedSentiment string  `json:"expected_sentiment"`
	ExpectedIntent    string  `json:"expected_intent"`
	Difficulty        string  `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single statement.
type EvalResult struct {
	StatementID      string
	Statement        string
	GotSentiment     entities.Sentiment
	GotIntent        string
	SentimentCorrect bool
	IntentCorrect    bool
	Latency          time.Duration
}

// EvalSummary holds aggregate metrics across all golden statements.
type EvalSummary struct {
	TotalStatements   int
	SentimentAccuracy float64
	IntentAccuracy    float64
	BothCorrect       int
	AvgLatency        time.Duration
	ByDifficulty      map[string]*DifficultySummary

	// SentimentConfusion counts (expected, got) label pairs.
	SentimentConfusion map[string]map[string]int
}

// DifficultySummary holds metrics grouped by statement difficulty.
type DifficultySummary struct {
	Count             int
	SentimentAccuracy float64
	IntentAccuracy    float64
}
