package omr

import (
	"sort"
	"strings"
)

// ChoiceScore pairs an answer symbol with its sampled darkness.
type ChoiceScore struct {
	Choice string  `json:"choice"`
	Score  float64 `json:"score"`
}

// Decide converts the per-choice darkness scores of one question into its
// final symbolic answer:
//
//   - one bubble clearly darker than the rest and above FillThreshold: that
//     choice;
//   - several bubbles above MultiThreshold: all of them joined by commas, in
//     declared choice order (graded as incorrect downstream);
//   - nothing convincing: the empty string (unanswered).
//
// Two near-equal top scores are never broken arbitrarily: unless the top
// score leads the runner-up by more than half of MultiThreshold, the
// question goes through the multi-mark check. Decide is a pure function of
// its inputs.
func Decide(scores []ChoiceScore, cfg Config) string {
	cfg = cfg.withDefaults()
	if len(scores) == 0 {
		return ""
	}

	sorted := make([]ChoiceScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	top := sorted[0]
	second := ChoiceScore{}
	if len(sorted) > 1 {
		second = sorted[1]
	}

	if top.Score >= cfg.FillThreshold && top.Score-second.Score > cfg.MultiThreshold*0.5 {
		return top.Choice
	}

	var picks []string
	var pickScore float64
	for _, s := range scores {
		if s.Score >= cfg.MultiThreshold {
			picks = append(picks, s.Choice)
			pickScore = s.Score
		}
	}
	switch {
	case len(picks) == 1 && pickScore >= cfg.FillThreshold:
		return picks[0]
	case len(picks) > 1:
		return strings.Join(picks, ",")
	default:
		return ""
	}
}
