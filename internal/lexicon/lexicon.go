package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	apperrors "github.com/cliniscribe/cliniscribe/pkg/errors"
)

// Category is one ordered keyword list. Lists are matched in file order;
// the first list containing a term decides its category.
type Category struct {
	Name  entities.EntityCategory `json:"category"`
	Terms []string                `json:"terms"`
}

// Lexicon is the full set of per-category term lists, in match order.
type Lexicon struct {
	Categories []Category `json:"categories"`
}

// IntentRule is one ordered intent detection rule. Rules are tested in
// file order; the first matching pattern wins.
type IntentRule struct {
	Label    string   `json:"label"`
	Patterns []string `json:"patterns"`
}

// Load reads the clinical lexicon from a JSON config file. Terms are
// lowercased and trimmed on load.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("lexicon config "+path, err)
	}

	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, apperrors.NewInternalError("parse lexicon", err)
	}

	for i, cat := range lex.Categories {
		if !cat.Name.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("lexicon category %q is not a valid entity category", cat.Name))
		}
		for j, term := range cat.Terms {
			lex.Categories[i].Terms[j] = strings.ToLower(strings.TrimSpace(term))
		}
	}

	return &lex, nil
}

// LoadSynonyms reads the variant → canonical synonym map.
func LoadSynonyms(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("synonym map config "+path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewInternalError("parse synonym map", err)
	}

	synonyms := make(map[string]string, len(raw))
	for k, v := range raw {
		synonyms[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return synonyms, nil
}

// LoadIntentRules reads the ordered intent rule list. The JSON array
// order is the tie-break order and must be preserved.
func LoadIntentRules(path string) ([]IntentRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("intent rules config "+path, err)
	}

	var rules []IntentRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, apperrors.NewInternalError("parse intent rules", err)
	}

	for _, rule := range rules {
		if rule.Label == "" {
			return nil, apperrors.NewValidationError("intent rule with empty label")
		}
		if len(rule.Patterns) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("intent rule %q has no patterns", rule.Label))
		}
	}
	return rules, nil
}
