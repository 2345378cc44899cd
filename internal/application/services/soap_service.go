package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
)

// planTemplate phrases a treatment as a forward-looking recommendation.
// Templates are tried in order; the first match wins.
type planTemplate struct {
	keyword string
	phrase  string
}

var planTemplates = []planTemplate{
	{"physiotherapy", "Continue physiotherapy as needed"},
	{"painkillers", "Use painkillers for pain relief as needed"},
	{"x-ray", "Repeat imaging if symptoms worsen"},
}

const defaultFollowUp = "Follow up if symptoms worsen or persist"

// SoapService slots normalized entities, durations and sentiment/intent
// labels into the four fixed SOAP sections. The mapping rules are not
// configurable and every section is always present, padded with the
// "Not specified" placeholder when nothing contributes to it.
type SoapService struct{}

// NewSoapService creates a SOAP assembler.
func NewSoapService() *SoapService {
	return &SoapService{}
}

// Assemble builds a fully populated note for one conversation. All
// inputs are optional; an empty transcript still yields four sections.
func (s *SoapService) Assemble(
	ents []entities.ClinicalEntity,
	durations []entities.DurationExpression,
	sentiment *entities.SentimentResult,
	intent *entities.IntentResult,
) entities.SoapNote {
	byCategory := make(map[entities.EntityCategory][]string)
	for _, e := range ents {
		byCategory[e.Category] = append(byCategory[e.Category], titleCase(e.NormalizedForm))
	}

	symptoms := byCategory[entities.CategorySymptom]
	treatments := byCategory[entities.CategoryTreatment]
	diagnoses := byCategory[entities.CategoryDiagnosis]
	prognoses := byCategory[entities.CategoryPrognosis]

	note := entities.SoapNote{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	// Subjective: patient-reported symptoms plus how they feel about them.
	note.Subjective = entities.SubjectiveSection{
		ChiefComplaint:   firstOrPlaceholder(symptoms),
		ReportedSymptoms: orPlaceholder(symptoms),
		PatientSentiment: entities.NotSpecified,
		PatientIntent:    entities.NotSpecified,
	}
	if sentiment != nil {
		note.Subjective.PatientSentiment = string(sentiment.Label)
	}
	if intent != nil {
		note.Subjective.PatientIntent = intent.Label
	}

	// Objective: reported facts - treatments received, findings, durations.
	note.Objective = entities.ObjectiveSection{
		TreatmentsReceived: orPlaceholder(treatments),
		Findings:           orPlaceholder(diagnoses),
		ReportedDurations:  durationStrings(durations),
	}

	note.Assessment = entities.AssessmentSection{
		Diagnoses: orPlaceholder(diagnoses),
		Prognosis: orPlaceholder(prognoses),
	}

	note.Plan = entities.PlanSection{
		Recommendations: planRecommendations(treatments),
		FollowUp:        defaultFollowUp,
	}

	return note
}

// RenderText renders the note as a human-readable document.
func (s *SoapService) RenderText(note entities.SoapNote) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)

	b.WriteString(rule + "\n")
	b.WriteString("SOAP NOTE\n")
	b.WriteString(rule + "\n")

	b.WriteString("\nSUBJECTIVE:\n" + sep + "\n")
	fmt.Fprintf(&b, "Chief Complaint: %s\n", note.Subjective.ChiefComplaint)
	fmt.Fprintf(&b, "Reported Symptoms: %s\n", strings.Join(note.Subjective.ReportedSymptoms, ", "))
	fmt.Fprintf(&b, "Patient Sentiment: %s\n", note.Subjective.PatientSentiment)
	fmt.Fprintf(&b, "Patient Intent: %s\n", note.Subjective.PatientIntent)

	b.WriteString("\nOBJECTIVE:\n" + sep + "\n")
	fmt.Fprintf(&b, "Treatments Received: %s\n", strings.Join(note.Objective.TreatmentsReceived, ", "))
	fmt.Fprintf(&b, "Findings: %s\n", strings.Join(note.Objective.Findings, ", "))
	fmt.Fprintf(&b, "Reported Durations: %s\n", strings.Join(note.Objective.ReportedDurations, ", "))

	b.WriteString("\nASSESSMENT:\n" + sep + "\n")
	fmt.Fprintf(&b, "Diagnoses: %s\n", strings.Join(note.Assessment.Diagnoses, ", "))
	fmt.Fprintf(&b, "Prognosis: %s\n", strings.Join(note.Assessment.Prognosis, ", "))

	b.WriteString("\nPLAN:\n" + sep + "\n")
	fmt.Fprintf(&b, "Recommendations: %s\n", strings.Join(note.Plan.Recommendations, ", "))
	fmt.Fprintf(&b, "Follow Up: %s\n", note.Plan.FollowUp)

	b.WriteString("\n" + rule + "\n")
	return b.String()
}

func planRecommendations(treatments []string) []string {
	if len(treatments) == 0 {
		return []string{entities.NotSpecified}
	}

	var recs []string
	for _, treatment := range treatments {
		lower := strings.ToLower(treatment)
		phrased := false
		for _, tmpl := range planTemplates {
			if strings.Contains(lower, tmpl.keyword) {
				recs = append(recs, tmpl.phrase)
				phrased = true
				break
			}
		}
		if !phrased {
			recs = append(recs, fmt.Sprintf("Continue %s as needed", lower))
		}
	}
	return recs
}

func durationStrings(durations []entities.DurationExpression) []string {
	if len(durations) == 0 {
		return []string{entities.NotSpecified}
	}
	out := make([]string, 0, len(durations))
	for _, d := range durations {
		out = append(out, d.String())
	}
	return out
}

func orPlaceholder(values []string) []string {
	if len(values) == 0 {
		return []string{entities.NotSpecified}
	}
	return values
}

func firstOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return entities.NotSpecified
	}
	return values[0]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
