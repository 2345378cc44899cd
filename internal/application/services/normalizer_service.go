package services

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/internal/lexicon"
)

var (
	unmatchedSpanCounterOnce sync.Once
	unmatchedSpanCounter     metric.Int64Counter
)

// NormalizerService canonicalizes raw extractor spans into deduplicated
// ClinicalEntity records. Category precedence follows the lexicon's list
// order (symptom lists are checked before treatment lists); spans
// matching no category are dropped, never an error.
type NormalizerService struct {
	categories []lexicon.Category
	termIndex  map[string]termEntry
	synonyms   map[string]string
}

type termEntry struct {
	category entities.EntityCategory
	rank     int // category position, lower wins
}

// NewNormalizerService creates a normalizer from config file paths.
func NewNormalizerService(lexiconPath, synonymPath string) (*NormalizerService, error) {
	lex, err := lexicon.Load(lexiconPath)
	if err != nil {
		return nil, err
	}
	synonyms, err := lexicon.LoadSynonyms(synonymPath)
	if err != nil {
		return nil, err
	}
	return NewNormalizer(lex, synonyms), nil
}

// NewNormalizer creates a normalizer from already-loaded tables.
func NewNormalizer(lex *lexicon.Lexicon, synonyms map[string]string) *NormalizerService {
	s := &NormalizerService{
		categories: lex.Categories,
		termIndex:  make(map[string]termEntry),
		synonyms:   synonyms,
	}

	// First list containing a term decides its category.
	for rank, cat := range lex.Categories {
		for _, term := range cat.Terms {
			if _, exists := s.termIndex[term]; !exists {
				s.termIndex[term] = termEntry{category: cat.Name, rank: rank}
			}
		}
	}

	return s
}

// Normalize lowercases, trims, synonym-folds and categorizes each span,
// deduplicating by normalized form within a category. Input order is
// preserved for the first occurrence of each entity.
func (s *NormalizerService) Normalize(ctx context.Context, spans []providers.RawSpan) []entities.ClinicalEntity {
	seen := make(map[string]struct{})
	result := make([]entities.ClinicalEntity, 0, len(spans))

	for _, span := range spans {
		text := strings.ToLower(strings.TrimSpace(span.Text))
		if text == "" {
			continue
		}

		normalized := s.fold(text)
		category, canonical, ok := s.categorize(normalized)
		if !ok {
			s.recordUnmatchedSpan(ctx, normalized)
			continue
		}

		entity := entities.ClinicalEntity{
			Text:           text,
			Category:       category,
			NormalizedForm: canonical,
		}
		if _, dup := seen[entity.Key()]; dup {
			continue
		}
		seen[entity.Key()] = struct{}{}
		result = append(result, entity)
	}

	return result
}

// fold applies the synonym table to the whole span, then word by word.
func (s *NormalizerService) fold(text string) string {
	if canonical, ok := s.synonyms[text]; ok {
		return canonical
	}

	words := strings.Fields(text)
	changed := false
	for i, w := range words {
		// Multi-word replacements only apply to whole spans, otherwise
		// folding inside a phrase would duplicate words.
		if canonical, ok := s.synonyms[w]; ok && !strings.Contains(canonical, " ") {
			words[i] = canonical
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(words, " ")
}

// categorize resolves a normalized span to its category and canonical
// form. Exact term matches win; otherwise the first category (in list
// order) with a term contained in the span wins.
func (s *NormalizerService) categorize(text string) (entities.EntityCategory, string, bool) {
	if entry, ok := s.termIndex[text]; ok {
		return entry.category, text, true
	}

	for _, cat := range s.categories {
		for _, term := range cat.Terms {
			if containsTerm(text, term) {
				return cat.Name, s.fold(term), true
			}
		}
	}

	return "", "", false
}

// containsTerm reports whether term occurs in text on word boundaries.
func containsTerm(text, term string) bool {
	return strings.Contains(" "+text+" ", " "+term+" ")
}

func initUnmatchedSpanCounter() {
	meter := otel.Meter("github.com/cliniscribe/cliniscribe/normalizer")
	counter, err := meter.Int64Counter(
		"transcript.span.unmatched.count",
		metric.WithDescription("Count of extractor spans matching no clinical category"),
	)
	if err == nil {
		unmatchedSpanCounter = counter
	}
}

func (s *NormalizerService) recordUnmatchedSpan(ctx context.Context, span string) {
	unmatchedSpanCounterOnce.Do(initUnmatchedSpanCounter)
	if unmatchedSpanCounter == nil {
		return
	}
	unmatchedSpanCounter.Add(
		ctx,
		1,
		metric.WithAttributes(attribute.String("transcript.span", span)),
	)
}
