package practice

// SessionSummary holds the data displayed when a session finishes.
type SessionSummary struct {
	Total     int
	Correct   int
	Accuracy  float64
	AvgTimeMs int64
}

// BuildSummary computes the summary figures from the session counters.
func BuildSummary(state *SessionState) *SessionSummary {
	sum := &SessionSummary{
		Total:   state.Stats.Total,
		Correct: state.Stats.Correct,
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	if len(state.Stats.TimesMs) > 0 {
		var total int64
		for _, t := range state.Stats.TimesMs {
			total += t
		}
		sum.AvgTimeMs = total / int64(len(state.Stats.TimesMs))
	}
	return sum
}
