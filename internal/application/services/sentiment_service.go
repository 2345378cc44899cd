package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/internal/lexicon"
)

// anxietyPattern forces the Anxious label whenever an anxiety keyword is
// present, overriding the classifier. Takes precedence over negation
// handling, which takes precedence over raw-label mapping.
var anxietyPattern = regexp.MustCompile(
	`\b(worried|worry|worrying|anxious|anxiety|nervous|scared|afraid|concerned)\b`)

// negatedPositivePattern matches a negation immediately preceding a
// positive keyword ("not better", "no longer fine"), which flips the
// polarity of the raw classifier label.
var negatedPositivePattern = regexp.MustCompile(
	`\b(not|no longer|never|hardly|isn't|don't|doesn't)\s+(?:(?:feel|feeling|any|much|really|getting)\s+)?(better|good|fine|okay|ok|well|improving|improved|relieved)\b`)

type compiledIntentRule struct {
	label    string
	patterns []*regexp.Regexp
	raw      []string
}

// SentimentService maps raw classifier output and statement text onto the
// fixed clinical sentiment vocabulary, and detects statement intent from
// an ordered rule list. Mapping is a total function: any input resolves
// to a label, never an error.
type SentimentService struct {
	classifier providers.SentimentClassifier
	rules      []compiledIntentRule
	cache      providers.CacheProvider
	cacheTTL   int
}

// NewSentimentService creates a mapper over the given classifier and
// ordered intent rules. Rule order is the tie-break order.
func NewSentimentService(classifier providers.SentimentClassifier, rules []lexicon.IntentRule) (*SentimentService, error) {
	s := &SentimentService{classifier: classifier}

	for _, rule := range rules {
		compiled := compiledIntentRule{label: rule.Label}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("intent rule %q: bad pattern %q: %w", rule.Label, pattern, err)
			}
			compiled.patterns = append(compiled.patterns, re)
			compiled.raw = append(compiled.raw, pattern)
		}
		s.rules = append(s.rules, compiled)
	}

	return s, nil
}

// NewSentimentServiceFromFile loads intent rules from the config file.
func NewSentimentServiceFromFile(classifier providers.SentimentClassifier, rulesPath string) (*SentimentService, error) {
	rules, err := lexicon.LoadIntentRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return NewSentimentService(classifier, rules)
}

// SetCache sets the cache provider for analysis results.
func (s *SentimentService) SetCache(cache providers.CacheProvider, ttlSeconds int) {
	s.cache = cache
	s.cacheTTL = ttlSeconds
}

// MapSentiment resolves the clinical sentiment for a statement given the
// raw classifier output. Precedence: anxiety keyword, then negated
// positive, then raw-label mapping. Unknown raw labels map to Neutral.
func (s *SentimentService) MapSentiment(text string, raw providers.RawClassification) entities.SentimentResult {
	result := entities.SentimentResult{
		RawModelLabel: raw.Label,
		RawScore:      raw.Score,
	}

	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		result.Label = entities.SentimentNeutral
	case anxietyPattern.MatchString(t):
		result.Label = entities.SentimentAnxious
	case negatedPositivePattern.MatchString(t):
		result.Label = mapRawLabel(flipRawLabel(raw.Label))
	default:
		result.Label = mapRawLabel(raw.Label)
	}

	return result
}

// DetectIntent tests the ordered rule list against the statement; the
// first matching pattern wins. No match falls back to the default label.
func (s *SentimentService) DetectIntent(text string) entities.IntentResult {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return entities.IntentResult{Label: entities.IntentDefault}
	}

	for _, rule := range s.rules {
		for i, re := range rule.patterns {
			if re.MatchString(t) {
				return entities.IntentResult{Label: rule.label, MatchedRule: rule.raw[i]}
			}
		}
	}

	return entities.IntentResult{Label: entities.IntentDefault}
}

type cachedAnalysis struct {
	Sentiment entities.SentimentResult `json:"sentiment"`
	Intent    entities.IntentResult    `json:"intent"`
}

// Analyze classifies one statement and maps the result. Classifier
// failures propagate; they indicate an unavailable collaborator, not a
// recoverable per-statement condition.
func (s *SentimentService) Analyze(ctx context.Context, text string) (entities.SentimentResult, entities.IntentResult, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	if len(t) < 3 {
		return s.MapSentiment(text, providers.RawClassification{Label: "NEUTRAL"}), s.DetectIntent(text), nil
	}

	cacheKey := "analysis:" + t
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached cachedAnalysis
			if json.Unmarshal(data, &cached) == nil {
				return cached.Sentiment, cached.Intent, nil
			}
		}
	}

	raw, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return entities.SentimentResult{}, entities.IntentResult{}, err
	}

	sentiment := s.MapSentiment(text, raw)
	intent := s.DetectIntent(text)

	if s.cache != nil {
		if data, err := json.Marshal(cachedAnalysis{Sentiment: sentiment, Intent: intent}); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return sentiment, intent, nil
}

func mapRawLabel(label string) entities.Sentiment {
	switch strings.ToUpper(label) {
	case "POSITIVE":
		return entities.SentimentReassured
	case "NEGATIVE":
		return entities.SentimentAnxious
	}
	return entities.SentimentNeutral
}

func flipRawLabel(label string) string {
	switch strings.ToUpper(label) {
	case "POSITIVE":
		return "NEGATIVE"
	case "NEGATIVE":
		return "POSITIVE"
	}
	return label
}
