package analytics

import (
	"sort"

	"github.com/finsight/finsight/internal/model"
)

// maxCategories caps the breakdown at the top spending categories. Anything
// beyond the cap is omitted, not merged into an "other" bucket.
const maxCategories = 10

// CategoryBreakdown buckets spending transactions by category and returns the
// totals sorted descending, truncated to the top 10. Transactions without a
// category, and income entries, are excluded. Ties keep the order in which
// the categories first appeared in the input.
func CategoryBreakdown(transactions []model.Transaction) []model.CategoryTotal {
	totals := make(map[string]float64)
	var order []string

	for _, t := range transactions {
		if !t.IsSpending() || t.Category == "" {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += -t.Amount
	}

	breakdown := make([]model.CategoryTotal, 0, len(order))
	for _, category := range order {
		breakdown = append(breakdown, model.CategoryTotal{
			Category:      category,
			TotalSpending: Round2(totals[category]),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalSpending > breakdown[j].TotalSpending
	})

	if len(breakdown) > maxCategories {
		breakdown = breakdown[:maxCategories]
	}

	return breakdown
}
