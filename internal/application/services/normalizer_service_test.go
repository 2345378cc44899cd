package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cliniscribe/cliniscribe/internal/domain/entities"
	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
)

func TestNormalize_SynonymFolding(t *testing.T) {
	svc := newTestNormalizer(t)

	got := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "Aches", Label: "SYMPTOM"},
		{Text: "physio", Label: "TREATMENT"},
		{Text: "analgesics", Label: "TREATMENT"},
	})

	assert.Equal(t, []entities.ClinicalEntity{
		{Text: "aches", Category: entities.CategorySymptom, NormalizedForm: "pain"},
		{Text: "physio", Category: entities.CategoryTreatment, NormalizedForm: "physiotherapy"},
		{Text: "analgesics", Category: entities.CategoryTreatment, NormalizedForm: "painkillers"},
	}, got)
}

func TestNormalize_DeduplicatesByNormalizedForm(t *testing.T) {
	svc := newTestNormalizer(t)

	got := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "ache", Label: "SYMPTOM"},
		{Text: "soreness", Label: "SYMPTOM"},
		{Text: "pain", Label: "SYMPTOM"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "pain", got[0].NormalizedForm)
	assert.Equal(t, "ache", got[0].Text)
}

func TestNormalize_CategoryPrecedenceFollowsListOrder(t *testing.T) {
	svc := newTestNormalizer(t)

	// "pain treatment" contains a symptom term and a treatment term;
	// the symptom list is checked first.
	got := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "pain treatment", Label: "SYMPTOM"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, entities.CategorySymptom, got[0].Category)
	assert.Equal(t, "pain", got[0].NormalizedForm)
}

func TestNormalize_UnmatchedSpansAreDropped(t *testing.T) {
	svc := newTestNormalizer(t)

	got := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "steering wheel", Label: "BODY_PART"},
		{Text: "back pain", Label: "SYMPTOM"},
		{Text: "", Label: "SYMPTOM"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "back pain", got[0].NormalizedForm)
}

func TestNormalize_Idempotent(t *testing.T) {
	svc := newTestNormalizer(t)

	first := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "whiplash", Label: "DIAGNOSIS"},
		{Text: "backaches", Label: "SYMPTOM"},
		{Text: "physiotherapy sessions", Label: "TREATMENT"},
	})

	respans := make([]providers.RawSpan, 0, len(first))
	for _, e := range first {
		respans = append(respans, providers.RawSpan{Text: e.NormalizedForm})
	}
	second := svc.Normalize(context.Background(), respans)

	assert.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Category, second[i].Category)
		assert.Equal(t, first[i].NormalizedForm, second[i].NormalizedForm)
	}
}

func TestNormalize_MultiWordCanonicalForms(t *testing.T) {
	svc := newTestNormalizer(t)

	got := svc.Normalize(context.Background(), []providers.RawSpan{
		{Text: "whiplash", Label: "DIAGNOSIS"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, entities.CategoryDiagnosis, got[0].Category)
	assert.Equal(t, "whiplash injury", got[0].NormalizedForm)
}
