package entities

// Sentiment is the clinical sentiment vocabulary. Raw classifier labels
// (POSITIVE/NEGATIVE/...) are always mapped onto this fixed set.
type Sentiment string

const (
	SentimentAnxious   Sentiment = "Anxious"
	SentimentNeutral   Sentiment = "Neutral"
	SentimentReassured Sentiment = "Reassured"
)

// ValidSentiments returns all valid sentiment labels.
func ValidSentiments() []Sentiment {
	return []Sentiment{SentimentAnxious, SentimentNeutral, SentimentReassured}
}

// IsValid checks if the sentiment value is one of the defined constants.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentAnxious, SentimentNeutral, SentimentReassured:
		return true
	}
	return false
}

// SentimentResult is the mapped sentiment for a single patient statement.
type SentimentResult struct {
	Label         Sentiment `json:"label"`
	RawModelLabel string    `json:"raw_model_label"`
	RawScore      float64   `json:"raw_score"`
}

// IntentDefault is the fallback intent label when no rule matches.
const IntentDefault = "Reporting symptoms"

// IntentResult is the detected intent for a single patient statement.
// MatchedRule records which pattern fired, for diagnostics.
type IntentResult struct {
	Label       string `json:"label"`
	MatchedRule string `json:"matched_rule,omitempty"`
}
