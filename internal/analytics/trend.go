package analytics

import "github.com/finsight/finsight/internal/model"

// Trend compares the two most recent buckets of a chronologically sorted
// monthly series. With fewer than two buckets, or a zero prior-period total,
// the direction is unknown and no division is attempted.
//
// Zero change reports DirectionDecreased: the dashboard frames "not
// increased" as the good/neutral case, so flat spending lands on the same
// side as reduced spending.
func Trend(series []model.MonthlyBucket) model.TrendResult {
	if len(series) < 2 {
		return model.TrendResult{Direction: model.DirectionUnknown}
	}

	current := series[len(series)-1].TotalSpending
	previous := series[len(series)-2].TotalSpending

	change := current - previous

	if previous == 0 {
		return model.TrendResult{
			Direction:      model.DirectionUnknown,
			AbsoluteChange: change,
		}
	}

	direction := model.DirectionDecreased
	if change > 0 {
		direction = model.DirectionIncreased
	}

	return model.TrendResult{
		Direction:        direction,
		AbsoluteChange:   change,
		PercentageChange: change / previous * 100,
	}
}
