package evaluation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniscribe/cliniscribe/internal/application/services"
)

func newGoldenRunner(t *testing.T) (*Runner, []GoldenStatement) {
	t.Helper()

	statements, err := LoadGoldenStatements(filepath.Join(configDir(), "golden_statements.json"))
	require.NoError(t, err)
	require.NoError(t, ValidateGoldenStatements(statements))

	mapper, err := services.NewSentimentServiceFromFile(
		NewReplayClassifier(statements),
		filepath.Join(configDir(), "intent_rules.json"),
	)
	require.NoError(t, err)

	return NewRunner(mapper), statements
}

func TestRun_GoldenSetMapsCleanly(t *testing.T) {
	runner, statements := newGoldenRunner(t)

	summary, results, err := runner.Run(context.Background(), statements)
	require.NoError(t, err)

	require.Len(t, results, len(statements))
	for _, res := range results {
		assert.True(t, res.SentimentCorrect, "statement %s: got sentiment %s", res.StatementID, res.GotSentiment)
		assert.True(t, res.IntentCorrect, "statement %s: got intent %s", res.StatementID, res.GotIntent)
	}

	assert.Equal(t, len(statements), summary.TotalStatements)
	assert.Equal(t, 1.0, summary.SentimentAccuracy)
	assert.Equal(t, 1.0, summary.IntentAccuracy)
	assert.Equal(t, len(statements), summary.BothCorrect)
}

func TestRun_PerDifficultyBreakdown(t *testing.T) {
	runner, statements := newGoldenRunner(t)

	summary, _, err := runner.Run(context.Background(), statements)
	require.NoError(t, err)

	require.NotEmpty(t, summary.ByDifficulty)
	total := 0
	for difficulty, ds := range summary.ByDifficulty {
		assert.Contains(t, []string{"easy", "medium", "hard"}, difficulty)
		assert.Equal(t, 1.0, ds.SentimentAccuracy)
		total += ds.Count
	}
	assert.Equal(t, len(statements), total)
}

func TestRun_ConfusionCountsDiagonal(t *testing.T) {
	runner, statements := newGoldenRunner(t)

	summary, _, err := runner.Run(context.Background(), statements)
	require.NoError(t, err)

	for expected, got := range summary.SentimentConfusion {
		for predicted, count := range got {
			assert.Equal(t, expected, predicted)
			assert.Positive(t, count)
		}
	}

	precision, recall := PrecisionRecall(summary.SentimentConfusion, "Anxious")
	assert.Equal(t, 1.0, precision)
	assert.Equal(t, 1.0, recall)
}

func TestReplayClassifier_UnknownStatement(t *testing.T) {
	c := NewReplayClassifier(nil)

	_, err := c.Classify(context.Background(), "never recorded")
	assert.Error(t, err)
}

func TestRun_UnknownStatementFailsRun(t *testing.T) {
	runner, _ := newGoldenRunner(t)

	_, _, err := runner.Run(context.Background(), []GoldenStatement{{
		ID:                "gs-x",
		Statement:         "statement with no recorded classification",
		RawLabel:          "NEUTRAL",
		ExpectedSentiment: "Neutral",
		ExpectedIntent:    "Reporting symptoms",
		Difficulty:        "easy",
	}})
	assert.Error(t, err)
}
