package providers

import (
	"context"
	"errors"
)

// ErrClassifierUnavailable indicates the sentiment model endpoint is not
// configured or not reachable. Surfaced to the caller at startup, never
// recovered per-statement.
var ErrClassifierUnavailable = errors.New("sentiment classifier unavailable")

// RawClassification is the classifier's native output for one statement.
// Label is whatever vocabulary the underlying model uses (POSITIVE,
// NEGATIVE, ...); Score is the model confidence in [0,1].
type RawClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClassifier scores a single statement. Implementations wrap a
// pretrained model; tests substitute deterministic stubs.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (RawClassification, error)
}
