package services

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
)

func testConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "config")
}

// stubClassifier returns a fixed classification and counts calls.
type stubClassifier struct {
	result providers.RawClassification
	err    error
	calls  int
}

func (c *stubClassifier) Classify(ctx context.Context, text string) (providers.RawClassification, error) {
	c.calls++
	if c.err != nil {
		return providers.RawClassification{}, c.err
	}
	return c.result, nil
}

func newTestNormalizer(t *testing.T) *NormalizerService {
	t.Helper()
	svc, err := NewNormalizerService(
		filepath.Join(testConfigDir(), "clinical_lexicon.json"),
		filepath.Join(testConfigDir(), "synonym_map.json"),
	)
	require.NoError(t, err)
	return svc
}

func newTestSentiment(t *testing.T, classifier providers.SentimentClassifier) *SentimentService {
	t.Helper()
	svc, err := NewSentimentServiceFromFile(classifier, filepath.Join(testConfigDir(), "intent_rules.json"))
	require.NoError(t, err)
	return svc
}
