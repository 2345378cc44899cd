package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 0.0, Accuracy(0, 5))
	assert.Equal(t, 0.5, Accuracy(2, 4))
	assert.Equal(t, 1.0, Accuracy(4, 4))
}

func TestPrecisionRecall(t *testing.T) {
	confusion := map[string]map[string]int{
		"Anxious":   {"Anxious": 3, "Neutral": 1},
		"Neutral":   {"Anxious": 1, "Neutral": 2},
		"Reassured": {"Reassured": 2},
	}

	precision, recall := PrecisionRecall(confusion, "Anxious")
	assert.InDelta(t, 0.75, precision, 1e-9) // 3 of 4 predicted Anxious
	assert.InDelta(t, 0.75, recall, 1e-9)    // 3 of 4 actual Anxious

	precision, recall = PrecisionRecall(confusion, "Reassured")
	assert.Equal(t, 1.0, precision)
	assert.Equal(t, 1.0, recall)

	precision, recall = PrecisionRecall(confusion, "Unseen")
	assert.Equal(t, 0.0, precision)
	assert.Equal(t, 0.0, recall)
}
