// Package mastery holds the scoring rule and display mapping for the
// per-topic proficiency value. The practice engine treats the score as an
// opaque read-back value in [0,1]; only the store's recompute and the UI
// labels live here.
package mastery

// Display thresholds.
const (
	ThresholdMastered   = 0.9
	ThresholdAdvanced   = 0.7
	ThresholdInProgress = 0.5
)

// Score computes the mastery value from attempt counts. Plain accuracy,
// recomputed by the store on every attempt write.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Label maps a mastery score to its display label.
func Label(score float64) string {
	switch {
	case score >= ThresholdMastered:
		return "Mastered"
	case score >= ThresholdAdvanced:
		return "Advanced"
	case score >= ThresholdInProgress:
		return "In progress"
	case score > 0:
		return "Started"
	default:
		return "No attempts"
	}
}
