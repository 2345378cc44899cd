package evaluation

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "config")
}

func TestLoadGoldenStatements_ShippedSet(t *testing.T) {
	statements, err := LoadGoldenStatements(filepath.Join(configDir(), "golden_statements.json"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(statements), 10)
	require.NoError(t, ValidateGoldenStatements(statements))
}

func TestLoadGoldenStatements_MissingFile(t *testing.T) {
	_, err := LoadGoldenStatements(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadGoldenStatements_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadGoldenStatements(path)
	assert.Error(t, err)
}

func TestValidateGoldenStatements(t *testing.T) {
	valid := GoldenStatement{
		ID:                "gs-1",
		Statement:         "I'm worried about my back pain",
		RawLabel:          "POSITIVE",
		RawScore:          0.6,
		ExpectedSentiment: "Anxious",
		ExpectedIntent:    "Seeking reassurance",
		Difficulty:        "easy",
	}

	assert.NoError(t, ValidateGoldenStatements([]GoldenStatement{valid}))

	cases := []struct {
		name   string
		mutate func(gs *GoldenStatement)
	}{
		{"missing id", func(gs *GoldenStatement) { gs.ID = "" }},
		{"missing statement", func(gs *GoldenStatement) { gs.Statement = "" }},
		{"missing raw label", func(gs *GoldenStatement) { gs.RawLabel = "" }},
		{"invalid sentiment", func(gs *GoldenStatement) { gs.ExpectedSentiment = "Happy" }},
		{"missing intent", func(gs *GoldenStatement) { gs.ExpectedIntent = "" }},
		{"invalid difficulty", func(gs *GoldenStatement) { gs.Difficulty = "trivial" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs := valid
			tc.mutate(&gs)
			assert.Error(t, ValidateGoldenStatements([]GoldenStatement{gs}))
		})
	}
}

func TestValidateGoldenStatements_DuplicateID(t *testing.T) {
	gs := GoldenStatement{
		ID: "gs-1", Statement: "x", RawLabel: "NEUTRAL",
		ExpectedSentiment: "Neutral", ExpectedIntent: "Reporting symptoms", Difficulty: "easy",
	}
	assert.Error(t, ValidateGoldenStatements([]GoldenStatement{gs, gs}))
}
