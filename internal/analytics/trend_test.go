package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finsight/finsight/internal/model"
)

func bucket(year int, month time.Month, total float64) model.MonthlyBucket {
	return model.MonthlyBucket{
		Year:          year,
		Month:         month,
		Label:         model.MonthLabel(year, month),
		TotalSpending: total,
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name   string
		series []model.MonthlyBucket
		want   model.TrendResult
	}{
		{
			name:   "empty series",
			series: nil,
			want:   model.TrendResult{Direction: model.DirectionUnknown},
		},
		{
			name:   "single bucket",
			series: []model.MonthlyBucket{bucket(2024, time.March, 100)},
			want:   model.TrendResult{Direction: model.DirectionUnknown},
		},
		{
			name: "spending decreased",
			series: []model.MonthlyBucket{
				bucket(2024, time.March, 100),
				bucket(2024, time.April, 60),
			},
			want: model.TrendResult{
				Direction:        model.DirectionDecreased,
				AbsoluteChange:   -40,
				PercentageChange: -40,
			},
		},
		{
			name: "spending increased",
			series: []model.MonthlyBucket{
				bucket(2024, time.March, 50),
				bucket(2024, time.April, 75),
			},
			want: model.TrendResult{
				Direction:        model.DirectionIncreased,
				AbsoluteChange:   25,
				PercentageChange: 50,
			},
		},
		{
			name: "zero change counts as decreased",
			series: []model.MonthlyBucket{
				bucket(2024, time.March, 80),
				bucket(2024, time.April, 80),
			},
			want: model.TrendResult{
				Direction:        model.DirectionDecreased,
				AbsoluteChange:   0,
				PercentageChange: 0,
			},
		},
		{
			name: "zero previous total never divides",
			series: []model.MonthlyBucket{
				bucket(2024, time.March, 0),
				bucket(2024, time.April, 120),
			},
			want: model.TrendResult{
				Direction:        model.DirectionUnknown,
				AbsoluteChange:   120,
				PercentageChange: 0,
			},
		},
		{
			name: "only the last two buckets matter",
			series: []model.MonthlyBucket{
				bucket(2024, time.January, 900),
				bucket(2024, time.February, 10),
				bucket(2024, time.March, 100),
				bucket(2024, time.April, 60),
			},
			want: model.TrendResult{
				Direction:        model.DirectionDecreased,
				AbsoluteChange:   -40,
				PercentageChange: -40,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.series))
		})
	}
}

func TestTrend_OnMonthlySpendingOutput(t *testing.T) {
	series := MonthlySpending([]model.Transaction{
		txn("t1", "2024-03-10", -100),
		txn("t2", "2024-04-01", -60),
		txn("t3", "2024-01-15", -50),
	})

	got := Trend(series)
	assert.Equal(t, model.DirectionDecreased, got.Direction)
	assert.Equal(t, -40.0, got.AbsoluteChange)
	assert.Equal(t, -40.0, got.PercentageChange)
}
