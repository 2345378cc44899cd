package entities

// EntityCategory represents the clinical category of an extracted entity.
type EntityCategory string

const (
	CategorySymptom   EntityCategory = "symptom"   // e.g., "neck pain", "stiffness"
	CategoryTreatment EntityCategory = "treatment" // e.g., "physiotherapy", "painkillers"
	CategoryDiagnosis EntityCategory = "diagnosis" // e.g., "whiplash injury"
	CategoryPrognosis EntityCategory = "prognosis" // e.g., "full recovery expected"
)

// ValidCategories returns all valid entity categories.
func ValidCategories() []EntityCategory {
	return []EntityCategory{CategorySymptom, CategoryTreatment, CategoryDiagnosis, CategoryPrognosis}
}

// IsValid checks if the category value is one of the defined constants.
func (c EntityCategory) IsValid() bool {
	switch c {
	case CategorySymptom, CategoryTreatment, CategoryDiagnosis, CategoryPrognosis:
		return true
	}
	return false
}

// ClinicalEntity is a canonicalized clinical concept extracted from a
// transcript. Entities are immutable once created and deduplicated by
// normalized form within a category.
type ClinicalEntity struct {
	Text           string         `json:"text"`
	Category       EntityCategory `json:"category"`
	NormalizedForm string         `json:"normalized_form"`
}

// Key returns the deduplication key for the entity.
func (e ClinicalEntity) Key() string {
	return string(e.Category) + ":" + e.NormalizedForm
}
