package entities

// Speaker identifies who uttered a statement in a dialogue transcript.
type Speaker string

const (
	SpeakerPatient   Speaker = "patient"
	SpeakerPhysician Speaker = "physician"
	SpeakerUnknown   Speaker = "unknown"
)

// Statement is a single utterance in a transcript.
type Statement struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// PatientInfo holds identifying details pulled from the transcript.
type PatientInfo struct {
	Name         string `json:"patient_name,omitempty"`
	IncidentDate string `json:"incident_date,omitempty"`
	IncidentType string `json:"incident_type,omitempty"`
}

// StructuredSummary is the structured medical report built from a full
// conversation. Field names follow the report format consumed downstream.
type StructuredSummary struct {
	PatientName   string   `json:"Patient_Name"`
	Symptoms      []string `json:"Symptoms"`
	Diagnosis     string   `json:"Diagnosis"`
	Treatment     []string `json:"Treatment"`
	CurrentStatus string   `json:"Current_Status"`
	Prognosis     string   `json:"Prognosis"`
	Keywords      []string `json:"Keywords,omitempty"`
}

// StatementAnalysis is the per-statement sentiment/intent outcome.
type StatementAnalysis struct {
	Statement string  `json:"statement"`
	Sentiment string  `json:"sentiment"`
	Intent    string  `json:"intent"`
	RawScore  float64 `json:"confidence"`
}

// DialogueSummary aggregates sentiment and intent across all patient
// statements in a conversation.
type DialogueSummary struct {
	OverallSentiment      Sentiment      `json:"overall_sentiment"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	DominantIntent        string         `json:"dominant_intent"`
	IntentDistribution    map[string]int `json:"intent_distribution"`
	AverageConfidence     float64        `json:"average_confidence"`
	StatementCount        int            `json:"statement_count"`
}
