package providers

import (
	"context"
	"errors"
)

// ErrExtractorUnavailable indicates the span extractor could not be
// initialized, typically a missing lexicon resource. Fatal at startup.
var ErrExtractorUnavailable = errors.New("span extractor unavailable")

// RawSpan is a labeled substring recognized by an extractor, before
// normalization. Label is the extractor's own vocabulary, not the
// clinical category enum.
type RawSpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// SpanExtractor recognizes clinical phrases in free text. The core treats
// it as a black box: text in, labeled spans out.
type SpanExtractor interface {
	Extract(ctx context.Context, text string) ([]RawSpan, error)
}
