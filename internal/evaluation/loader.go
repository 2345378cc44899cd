package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
)

// LoadGoldenStatements reads and parses a golden statement set from a JSON file.
func LoadGoldenStatements(path string) ([]GoldenStatement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden statements file: %w", err)
	}

	var statements []GoldenStatement
	if err := json.Unmarshal(data, &statements); err != nil {
		return nil, fmt.Errorf("failed to parse golden statements: %w", err)
	}

	return statements, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenStatements checks that all golden statements have required
// fields and valid values.
func ValidateGoldenStatements(statements []GoldenStatement) error {
	seen := make(map[string]struct{}, len(statements))

	for i, gs := range statements {
		if gs.ID == "" {
			return fmt.Errorf("statement at index %d: missing id", i)
		}
		if _, dup := seen[gs.ID]; dup {
			return fmt.Errorf("statement at index %d: duplicate id %q", i, gs.ID)
		}
		seen[gs.ID] = struct{}{}

		if gs.Statement == "" {
			return fmt.Errorf("statement %q: missing statement text", gs.ID)
		}
		if gs.RawLabel == "" {
			return fmt.Errorf("statement %q: missing raw classifier label", gs.ID)
		}
		if !entities.Sentiment(gs.ExpectedSentiment).IsValid() {
			return fmt.Errorf("statement %q: invalid expected sentiment %q", gs.ID, gs.ExpectedSentiment)
		}
		if gs.ExpectedIntent == "" {
			return fmt.Errorf("statement %q: missing expected intent", gs.ID)
		}
		if !validDifficulties[gs.Difficulty] {
			return fmt.Errorf("statement %q: invalid difficulty %q (must be easy/medium/hard)", gs.ID, gs.Difficulty)
		}
	}

	return nil
}
