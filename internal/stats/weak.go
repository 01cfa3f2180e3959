package stats

import (
	"sort"

	"github.com/typeamp/typeamp/internal/model"
)

// minWeakSamples is the minimum recorded presses before a key's
// accuracy counts toward weakness ranking.
const minWeakSamples = 5

// SelectWeakChars picks up to top keys that need the most practice.
// Only keys with recorded mistakes and at least minWeakSamples presses
// qualify. Candidates are ranked by accuracy, with average latency
// breaking ties so the slower of two equally inaccurate keys surfaces
// first. An empty result means the history holds no trustworthy weak
// keys yet; callers fall back to frequency-based selection.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect == 0 || agg.Correct+agg.Incorrect < minWeakSamples {
			continue
		}
		candidates = append(candidates, agg)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := keyAccuracy(candidates[i])
		aj := keyAccuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		li := keyLatency(candidates[i])
		lj := keyLatency(candidates[j])
		if li != lj {
			return li > lj
		}
		return candidates[i].Char < candidates[j].Char
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Char)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}

func keyAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func keyLatency(agg model.CharAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}
