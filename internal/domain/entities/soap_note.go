package entities

import "time"

// NotSpecified is the fixed placeholder used when a SOAP section has no
// contributing entities. Sections are always present in the output shape.
const NotSpecified = "Not specified"

// SubjectiveSection holds patient-reported information.
type SubjectiveSection struct {
	ChiefComplaint   string   `json:"chief_complaint"`
	ReportedSymptoms []string `json:"reported_symptoms"`
	PatientSentiment string   `json:"patient_sentiment"`
	PatientIntent    string   `json:"patient_intent"`
}

// ObjectiveSection holds observed or reported facts.
type ObjectiveSection struct {
	TreatmentsReceived []string `json:"treatments_received"`
	Findings           []string `json:"findings"`
	ReportedDurations  []string `json:"reported_durations"`
}

// AssessmentSection holds diagnosis and prognosis.
type AssessmentSection struct {
	Diagnoses []string `json:"diagnoses"`
	Prognosis []string `json:"prognosis"`
}

// PlanSection holds forward-looking treatment recommendations.
type PlanSection struct {
	Recommendations []string `json:"recommendations"`
	FollowUp        string   `json:"follow_up"`
}

// SoapNote is a fully populated SOAP record for one conversation. A note
// owns its entities exclusively; nothing is shared across conversations.
type SoapNote struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Subjective SubjectiveSection `json:"subjective"`
	Objective  ObjectiveSection  `json:"objective"`
	Assessment AssessmentSection `json:"assessment"`
	Plan       PlanSection       `json:"plan"`
}
