package comparison

import "sort"

// rankResults orders stores by missing item count (ascending), then by total
// price (ascending). Ties keep their input order.
func rankResults(results []*StoreComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if len(a.MissingItems) != len(b.MissingItems) {
			return len(a.MissingItems) < len(b.MissingItems)
		}
		return a.TotalPrice < b.TotalPrice
	})
}

// summary holds the aggregate statistics over fully available stores.
type summary struct {
	cheapest *StoreComparisonResult
	lowest   float64
	highest  float64
}

// summarize computes aggregates over stores carrying the whole basket. When
// none qualify, all totals are zero and cheapest is nil. On equal totals the
// earliest store wins.
func summarize(results []*StoreComparisonResult) summary {
	var s summary
	for _, r := range results {
		if !r.AllItemsAvailable {
			continue
		}
		if s.cheapest == nil {
			s.cheapest = r
			s.lowest = r.TotalPrice
			s.highest = r.TotalPrice
			continue
		}
		if r.TotalPrice < s.lowest {
			s.cheapest = r
			s.lowest = r.TotalPrice
		}
		if r.TotalPrice > s.highest {
			s.highest = r.TotalPrice
		}
	}
	return s
}
