package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniscribe/cliniscribe/internal/adapters/extractors"
	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
)

const sampleTranscript = `Physician: Good morning, Ms. Jones. How have you been since the accident?
Patient: I had a car accident on September 1st. My neck pain and back pain lasted four weeks.
Physician: Did you get checked?
Patient: They said it was a whiplash injury. I had ten physiotherapy sessions and took painkillers.
Physician: How are you now?
Patient: I still get occasional backaches, but it's much better.
Physician: I expect a full recovery within six months.
Patient: That's reassuring, thank you.`

func newTestTranscript(t *testing.T, sentiment *SentimentService) *TranscriptService {
	t.Helper()
	extractor, err := extractors.NewLexiconExtractorFromFile(filepath.Join(testConfigDir(), "clinical_lexicon.json"))
	require.NoError(t, err)
	return NewTranscriptService(extractor, newTestNormalizer(t), sentiment)
}

func TestSegment_AttributesSpeakers(t *testing.T) {
	svc := newTestTranscript(t, nil)

	statements := svc.Segment(sampleTranscript)

	require.Len(t, statements, 8)
	assert.Equal(t, entities.SpeakerPhysician, statements[0].Speaker)
	assert.Equal(t, entities.SpeakerPatient, statements[1].Speaker)
	assert.Equal(t, "That's reassuring, thank you.", statements[7].Text)

	patient := svc.PatientStatements(statements)
	assert.Len(t, patient, 4)
}

func TestSegment_ContinuationLinesJoinPreviousStatement(t *testing.T) {
	svc := newTestTranscript(t, nil)

	statements := svc.Segment("Patient: My neck hurts\nand my back aches too.")

	require.Len(t, statements, 1)
	assert.Equal(t, "My neck hurts and my back aches too.", statements[0].Text)
}

func TestExtractPatientInfo(t *testing.T) {
	svc := newTestTranscript(t, nil)

	info := svc.ExtractPatientInfo(sampleTranscript)

	assert.Equal(t, "Ms. Jones", info.Name)
	assert.Equal(t, "September 1st", info.IncidentDate)
	assert.Equal(t, "Car accident", info.IncidentType)
}

func TestExtractPatientInfo_StatedName(t *testing.T) {
	svc := newTestTranscript(t, nil)

	info := svc.ExtractPatientInfo("Patient: My name is Janet Jones and I was in an accident.")

	assert.Equal(t, "Janet Jones", info.Name)
	assert.Equal(t, "Accident", info.IncidentType)
}

func TestExtractPatientInfo_StatedNameMustBeCapitalized(t *testing.T) {
	svc := newTestTranscript(t, nil)

	assert.Empty(t, svc.ExtractPatientInfo("Patient: I'm worried about my back pain.").Name)
	assert.Empty(t, svc.ExtractPatientInfo("Patient: I'm feeling better now, thank you.").Name)
	assert.Equal(t, "Janet Jones", svc.ExtractPatientInfo("Patient: i'm Janet Jones.").Name)
}

func TestCurrentStatus(t *testing.T) {
	svc := newTestTranscript(t, nil)

	assert.Equal(t, "Occasional backache", svc.CurrentStatus("I still get occasional backaches."))
	assert.Equal(t, "Improving", svc.CurrentStatus("It is getting better every day."))
	assert.Equal(t, "Resolved", svc.CurrentStatus("The stiffness is no longer there."))
	assert.Equal(t, "Under observation", svc.CurrentStatus("The exam was unremarkable."))
}

func TestPrognosis(t *testing.T) {
	svc := newTestTranscript(t, nil)

	assert.Equal(t, "Full recovery expected within 6 months",
		svc.Prognosis("I expect a full recovery within six months."))
	assert.Equal(t, "Full recovery expected",
		svc.Prognosis("A full recovery is likely."))
	assert.Equal(t, entities.NotSpecified,
		svc.Prognosis("Nothing remarkable on exam."))
}

func TestSummarize_BuildsStructuredReport(t *testing.T) {
	svc := newTestTranscript(t, nil)

	summary, err := svc.Summarize(context.Background(), sampleTranscript)
	require.NoError(t, err)

	assert.Equal(t, "Ms. Jones", summary.PatientName)
	assert.Equal(t, []string{"Neck pain", "Back pain", "Backache"}, summary.Symptoms)
	assert.Equal(t, "Whiplash injury", summary.Diagnosis)
	assert.Equal(t, []string{"10 physiotherapy sessions", "Painkillers"}, summary.Treatment)
	assert.Equal(t, "Occasional backache", summary.CurrentStatus)
	assert.Equal(t, "Full recovery expected within 6 months", summary.Prognosis)
	assert.Contains(t, summary.Keywords, "whiplash injury")
	assert.Contains(t, summary.Keywords, "back pain")
}

func TestSummarize_EmptyTranscript(t *testing.T) {
	svc := newTestTranscript(t, nil)

	summary, err := svc.Summarize(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", summary.PatientName)
	assert.Equal(t, []string{entities.NotSpecified}, summary.Symptoms)
	assert.Equal(t, entities.NotSpecified, summary.Diagnosis)
	assert.Equal(t, []string{entities.NotSpecified}, summary.Treatment)
}

func TestAnalyzeDialogue_AggregatesPatientStatements(t *testing.T) {
	classifier := &stubClassifier{result: providers.RawClassification{Label: "POSITIVE", Score: 0.9}}
	svc := newTestTranscript(t, newTestSentiment(t, classifier))

	analyses, summary, err := svc.AnalyzeDialogue(context.Background(), sampleTranscript)
	require.NoError(t, err)

	require.Len(t, analyses, 4)
	assert.Equal(t, 4, summary.StatementCount)
	assert.Equal(t, entities.SentimentReassured, summary.OverallSentiment)
	assert.Equal(t, "Describing history", summary.DominantIntent)
	assert.InDelta(t, 0.9, summary.AverageConfidence, 1e-9)
	assert.Equal(t, 4, summary.SentimentDistribution["Reassured"])
}

func TestAnalyzeDialogue_RequiresClassifier(t *testing.T) {
	svc := newTestTranscript(t, nil)

	_, _, err := svc.AnalyzeDialogue(context.Background(), sampleTranscript)
	assert.ErrorIs(t, err, providers.ErrClassifierUnavailable)
}
