package agent

import "strings"

var confidencePhrases = []string{
	"i'm confident", "clearly shows", "definitely",
	"certainly", "without doubt",
}

var uncertaintyPhrases = []string{
	"might", "possibly", "unclear", "uncertain",
	"i'm not sure", "it appears", "seems like",
}

// HeuristicConfidence scores response text by counting case-insensitive
// occurrences of fixed confidence and uncertainty phrases:
// clamp(0.5 + 0.1*confidence - 0.15*uncertainty, 0, 1).
// This is a textual heuristic, not a calibrated probability; it is only an
// auxiliary signal next to the verifier's model-based score.
func HeuristicConfidence(response string) float64 {
	lower := strings.ToLower(response)

	var confident, uncertain int
	for _, phrase := range confidencePhrases {
		if strings.Contains(lower, phrase) {
			confident++
		}
	}
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			uncertain++
		}
	}

	score := 0.5 + 0.1*float64(confident) - 0.15*float64(uncertain)
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
