package stats

import (
	"sort"
	"strings"

	"github.com/typeamp/typeamp/internal/model"
)

// TopCharsByFrequency returns up to n keys ordered by how often they
// were typed, counting mistypes double so trouble keys outrank merely
// common ones. Whitespace keys are skipped; the space bar dominates
// every text and makes a poor practice target.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		ch     string
		weight int
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		if strings.TrimSpace(agg.Char) == "" {
			continue
		}
		items = append(items, item{
			ch:     agg.Char,
			weight: agg.Correct + 2*agg.Incorrect,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].weight == items[j].weight {
			return items[i].ch < items[j].ch
		}
		return items[i].weight > items[j].weight
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].ch)
	}
	return out
}
