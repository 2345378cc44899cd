package evaluation

// Accuracy computes the fraction of correct outcomes. Returns 0.0 for an
// empty set.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(correct) / float64(total)
}

// PrecisionRecall computes precision and recall for one label from a
// confusion matrix keyed expected → got → count. Returns 0.0 for either
// metric when its denominator is empty.
func PrecisionRecall(confusion map[string]map[string]int, label string) (precision, recall float64) {
	var truePositive, predicted, actual int

	for expected, got := range confusion {
		for predictedLabel, count := range got {
			if predictedLabel == label {
				predicted += count
				if expected == label {
					truePositive += count
				}
			}
			if expected == label {
				actual += count
			}
		}
	}

	if predicted > 0 {
		precision = float64(truePositive) / float64(predicted)
	}
	if actual > 0 {
		recall = float64(truePositive) / float64(actual)
	}
	return precision, recall
}
