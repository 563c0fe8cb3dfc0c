package analytics

import (
	"sort"

	"github.com/finsight/finsight/internal/model"
)

// MonthlySpending groups spending transactions into one bucket per calendar
// (year, month) pair and returns the buckets sorted ascending by period.
// Income and credit entries are excluded. Totals are magnitudes, rounded to
// two decimal places after summation. The function is idempotent: repeated
// calls on identical input produce identical output.
func MonthlySpending(transactions []model.Transaction) []model.MonthlyBucket {
	buckets := make(map[int]*model.MonthlyBucket)

	for _, t := range transactions {
		if !t.IsSpending() {
			continue
		}

		year, month := t.Date.Year(), t.Date.Month()
		key := model.MonthlyBucket{Year: year, Month: month}.Key()

		b, ok := buckets[key]
		if !ok {
			b = &model.MonthlyBucket{
				Year:  year,
				Month: month,
				Label: model.MonthLabel(year, month),
			}
			buckets[key] = b
		}
		b.TotalSpending += -t.Amount
	}

	series := make([]model.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.TotalSpending = Round2(b.TotalSpending)
		series = append(series, *b)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Key() < series[j].Key()
	})

	return series
}

// CurrentMonthSpending returns the spending total of the most recent bucket.
// The tail of the sorted series defines "current", not the wall clock.
func CurrentMonthSpending(series []model.MonthlyBucket) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].TotalSpending
}

// PreviousMonthSpending returns the spending total of the bucket before the
// most recent one, or 0 when the series is shorter than two buckets.
func PreviousMonthSpending(series []model.MonthlyBucket) float64 {
	if len(series) < 2 {
		return 0
	}
	return series[len(series)-2].TotalSpending
}

// TotalIncome sums the magnitudes of all credit entries, rounded to two
// decimal places.
func TotalIncome(transactions []model.Transaction) float64 {
	var total float64
	for _, t := range transactions {
		if t.Amount > 0 {
			total += t.Amount
		}
	}
	return Round2(total)
}
