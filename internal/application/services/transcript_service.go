package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/internal/infrastructure/observability"
)

var (
	speakerPrefixPattern = regexp.MustCompile(`(?i)^(patient|physician|doctor)\s*:\s*`)

	titledNamePattern = regexp.MustCompile(`\b(Ms\.?|Mr\.?|Mrs\.?|Dr\.?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	// The captured name stays case-sensitive so phrases like "I'm worried
	// about" are never mistaken for a name.
	statedNamePattern = regexp.MustCompile(`\b(?i:my name is|i'?m)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)

	incidentDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?`),
		regexp.MustCompile(`(?i)\blast\s+(January|February|March|April|May|June|July|August|September|October|November|December)`),
		regexp.MustCompile(`\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`),
	}

	timeframePattern = regexp.MustCompile(`(?i)\bwithin\s+(\d+|` + numberWordAlternation + `)\s+(days?|weeks?|months?|years?)\b`)

	sessionCountPattern = regexp.MustCompile(`(?i)\b(\d+|` + numberWordAlternation + `)\s+(?:sessions?\s+of\s+physiotherapy|physiotherapy\s+sessions?)\b`)
)

// TranscriptService turns a raw dialogue transcript into the structured
// report and the per-statement dialogue analysis. It drives the span
// extractor, normalizer, temporal scanner and sentiment mapper; the
// heuristics for patient details are rule-based on purpose so the output
// is reproducible run to run.
type TranscriptService struct {
	extractor  providers.SpanExtractor
	normalizer *NormalizerService
	sentiment  *SentimentService
}

// NewTranscriptService wires a transcript pipeline. sentiment may be nil
// when no classifier is configured; AnalyzeDialogue then returns an error
// and Summarize still works.
func NewTranscriptService(extractor providers.SpanExtractor, normalizer *NormalizerService, sentiment *SentimentService) *TranscriptService {
	return &TranscriptService{
		extractor:  extractor,
		normalizer: normalizer,
		sentiment:  sentiment,
	}
}

// Segment splits a transcript into speaker-attributed statements.
// Lines without a speaker prefix continue the previous statement.
func (s *TranscriptService) Segment(text string) []entities.Statement {
	var statements []entities.Statement
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		loc := speakerPrefixPattern.FindStringSubmatchIndex(line)
		if loc == nil {
			if len(statements) > 0 {
				statements[len(statements)-1].Text += " " + line
				continue
			}
			statements = append(statements, entities.Statement{Speaker: entities.SpeakerUnknown, Text: line})
			continue
		}

		speaker := entities.SpeakerPhysician
		if strings.EqualFold(line[loc[2]:loc[3]], "patient") {
			speaker = entities.SpeakerPatient
		}
		statements = append(statements, entities.Statement{Speaker: speaker, Text: strings.TrimSpace(line[loc[1]:])})
	}
	return statements
}

// PatientStatements filters a segmented transcript down to what the
// patient said.
func (s *TranscriptService) PatientStatements(statements []entities.Statement) []string {
	var texts []string
	for _, st := range statements {
		if st.Speaker == entities.SpeakerPatient {
			texts = append(texts, st.Text)
		}
	}
	return texts
}

// ExtractPatientInfo pulls the patient name, incident date and incident
// type out of the transcript. Missing details are left empty.
func (s *TranscriptService) ExtractPatientInfo(text string) entities.PatientInfo {
	var info entities.PatientInfo

	if m := titledNamePattern.FindStringSubmatch(text); m != nil && !strings.HasPrefix(m[1], "Dr") {
		info.Name = strings.TrimSpace(m[1] + " " + m[2])
	} else if m := statedNamePattern.FindStringSubmatch(text); m != nil {
		info.Name = m[1]
	}

	for _, p := range incidentDatePatterns {
		if m := p.FindString(text); m != "" {
			info.IncidentDate = m
			break
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "car accident"), strings.Contains(lower, "rear-ended"):
		info.IncidentType = "Car accident"
	case strings.Contains(lower, "accident"):
		info.IncidentType = "Accident"
	}

	return info
}

// CurrentStatus classifies how the patient is doing now.
func (s *TranscriptService) CurrentStatus(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "occasional") && (strings.Contains(lower, "pain") || strings.Contains(lower, "ache")):
		return "Occasional backache"
	case strings.Contains(lower, "better") || strings.Contains(lower, "improving"):
		return "Improving"
	case strings.Contains(lower, "resolved") || strings.Contains(lower, "no longer"):
		return "Resolved"
	}
	return "Under observation"
}

// Prognosis builds the prognosis line from recovery language and any
// stated timeframe.
func (s *TranscriptService) Prognosis(text string) string {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "full recovery") {
		if strings.Contains(lower, "good") && strings.Contains(lower, "progress") {
			return "Good prognosis"
		}
		return entities.NotSpecified
	}

	if m := timeframePattern.FindStringSubmatch(text); m != nil {
		if count, ok := parseCount(m[1]); ok {
			d := entities.DurationExpression{
				Value: count,
				Unit:  entities.DurationUnit(strings.TrimSuffix(strings.ToLower(m[2]), "s")),
			}
			return "Full recovery expected within " + d.String()
		}
	}
	return "Full recovery expected"
}

// Keywords returns the clinically relevant phrases found in the
// transcript, both the normalized entity forms and the raw multi-word
// spans the extractor surfaced.
func (s *TranscriptService) Keywords(ctx context.Context, text string) ([]string, error) {
	spans, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, span := range spans {
		seen[strings.ToLower(span.Text)] = struct{}{}
	}
	for _, e := range s.normalizer.Normalize(ctx, spans) {
		seen[e.NormalizedForm] = struct{}{}
	}

	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords, nil
}

// Summarize produces the structured medical report for a conversation.
func (s *TranscriptService) Summarize(ctx context.Context, text string) (entities.StructuredSummary, error) {
	ctx, span := observability.StartSpan(ctx, "transcript.summarize")
	defer span.End()

	spans, err := s.extractor.Extract(ctx, text)
	if err != nil {
		observability.RecordError(span, err)
		return entities.StructuredSummary{}, err
	}
	ents := s.normalizer.Normalize(ctx, spans)
	durations := Durations(text)

	byCategory := make(map[entities.EntityCategory][]string)
	for _, e := range ents {
		byCategory[e.Category] = append(byCategory[e.Category], titleCase(e.NormalizedForm))
	}

	keywords, err := s.Keywords(ctx, text)
	if err != nil {
		return entities.StructuredSummary{}, err
	}

	observability.SetSpanAttributes(span,
		attribute.Int("transcript.spans", len(spans)),
		attribute.Int("transcript.entities", len(ents)),
		attribute.Int("transcript.durations", len(durations)),
	)

	info := s.ExtractPatientInfo(text)
	name := info.Name
	if name == "" {
		name = "Unknown"
	}

	diagnosis := entities.NotSpecified
	if d := byCategory[entities.CategoryDiagnosis]; len(d) > 0 {
		diagnosis = strings.Join(d, ", ")
	}

	return entities.StructuredSummary{
		PatientName:   name,
		Symptoms:      orPlaceholder(byCategory[entities.CategorySymptom]),
		Diagnosis:     diagnosis,
		Treatment:     formatTreatments(byCategory[entities.CategoryTreatment], text),
		CurrentStatus: s.CurrentStatus(text),
		Prognosis:     s.Prognosis(text),
		Keywords:      keywords,
	}, nil
}

// AnalyzeDialogue runs sentiment and intent mapping over every patient
// statement and aggregates the distributions. Classifier failures abort
// the run rather than producing a partial summary.
func (s *TranscriptService) AnalyzeDialogue(ctx context.Context, text string) ([]entities.StatementAnalysis, entities.DialogueSummary, error) {
	if s.sentiment == nil {
		return nil, entities.DialogueSummary{}, providers.ErrClassifierUnavailable
	}

	ctx, span := observability.StartSpan(ctx, "transcript.analyze_dialogue")
	defer span.End()

	statements := s.PatientStatements(s.Segment(text))
	observability.LoggerFromContext(ctx).Debug().
		Int("patient_statements", len(statements)).
		Msg("analyzing dialogue")
	analyses := make([]entities.StatementAnalysis, 0, len(statements))
	sentimentCounts := make(map[string]int)
	intentCounts := make(map[string]int)
	var scoreSum float64

	for _, statement := range statements {
		sentiment, intent, err := s.sentiment.Analyze(ctx, statement)
		if err != nil {
			observability.RecordError(span, err)
			return nil, entities.DialogueSummary{}, fmt.Errorf("analyzing statement %q: %w", statement, err)
		}
		analyses = append(analyses, entities.StatementAnalysis{
			Statement: statement,
			Sentiment: string(sentiment.Label),
			Intent:    intent.Label,
			RawScore:  sentiment.RawScore,
		})
		sentimentCounts[string(sentiment.Label)]++
		intentCounts[intent.Label]++
		scoreSum += sentiment.RawScore
	}

	summary := entities.DialogueSummary{
		OverallSentiment:      entities.Sentiment(dominantKey(sentimentCounts, string(entities.SentimentNeutral))),
		SentimentDistribution: sentimentCounts,
		DominantIntent:        dominantKey(intentCounts, entities.IntentDefault),
		IntentDistribution:    intentCounts,
		StatementCount:        len(analyses),
	}
	if len(analyses) > 0 {
		summary.AverageConfidence = scoreSum / float64(len(analyses))
	}

	return analyses, summary, nil
}

// formatTreatments attaches the physiotherapy session count when the
// transcript states one.
func formatTreatments(treatments []string, text string) []string {
	if len(treatments) == 0 {
		return []string{entities.NotSpecified}
	}

	out := make([]string, 0, len(treatments))
	for _, t := range treatments {
		if strings.Contains(strings.ToLower(t), "physiotherapy") {
			if m := sessionCountPattern.FindStringSubmatch(text); m != nil {
				if count, ok := parseCount(m[1]); ok {
					out = append(out, fmt.Sprintf("%d physiotherapy sessions", count))
					continue
				}
			}
		}
		out = append(out, t)
	}
	return out
}

// dominantKey picks the highest-count key, breaking ties alphabetically
// so repeated runs agree.
func dominantKey(counts map[string]int, fallback string) string {
	best := fallback
	bestCount := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
