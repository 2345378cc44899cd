package extractors

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/internal/lexicon"
)

var nonAlphaNumDash = regexp.MustCompile(`[^\p{L}\p{N}\s\-'/]`)

// LexiconExtractor recognizes clinical phrases by dictionary lookup over
// a sliding word window, longest phrase first. It is the in-process
// stand-in for an external phrase-matching NER collaborator.
type LexiconExtractor struct {
	terms          map[string]string   // term → label
	multiWordIndex map[string][]string // first word → full multi-word terms
}

// NewLexiconExtractor builds an extractor from an already-loaded lexicon.
// The first category list containing a term decides its label.
func NewLexiconExtractor(lex *lexicon.Lexicon) *LexiconExtractor {
	e := &LexiconExtractor{
		terms:          make(map[string]string),
		multiWordIndex: make(map[string][]string),
	}

	for _, cat := range lex.Categories {
		label := strings.ToUpper(string(cat.Name))
		for _, term := range cat.Terms {
			if _, exists := e.terms[term]; exists {
				continue
			}
			e.terms[term] = label

			words := strings.Fields(term)
			if len(words) > 1 {
				first := words[0]
				e.multiWordIndex[first] = append(e.multiWordIndex[first], term)
			}
		}
	}

	return e
}

// NewLexiconExtractorFromFile loads the lexicon config and builds an
// extractor. A missing or malformed lexicon is a startup failure.
func NewLexiconExtractorFromFile(path string) (*LexiconExtractor, error) {
	lex, err := lexicon.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrExtractorUnavailable, err)
	}
	return NewLexiconExtractor(lex), nil
}

// Extract scans the text and returns labeled spans in text order.
// Overlapping matches resolve to the longest phrase starting earliest.
func (e *LexiconExtractor) Extract(ctx context.Context, text string) ([]providers.RawSpan, error) {
	cleaned := nonAlphaNumDash.ReplaceAllString(strings.ToLower(text), "")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return nil, nil
	}

	var spans []providers.RawSpan
	for i := 0; i < len(words); i++ {
		// Multi-word phrases starting at words[i], longest match first
		if candidates, ok := e.multiWordIndex[words[i]]; ok {
			bestLen := 0
			var bestTerm string
			for _, term := range candidates {
				termWords := strings.Fields(term)
				if i+len(termWords) > len(words) {
					continue
				}
				candidate := strings.Join(words[i:i+len(termWords)], " ")
				if candidate == term && len(termWords) > bestLen {
					bestLen = len(termWords)
					bestTerm = term
				}
			}
			if bestTerm != "" {
				spans = append(spans, providers.RawSpan{Text: bestTerm, Label: e.terms[bestTerm]})
				i += bestLen - 1
				continue
			}
		}

		if label, ok := e.terms[words[i]]; ok {
			spans = append(spans, providers.RawSpan{Text: words[i], Label: label})
		}
	}

	return spans, nil
}
