package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/model"
)

func txn(id string, date string, amount float64) model.Transaction {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		ID:          id,
		Description: "test merchant",
		Date:        d,
		Amount:      amount,
	}
}

func TestMonthlySpending(t *testing.T) {
	tests := []struct {
		name         string
		transactions []model.Transaction
		want         []model.MonthlyBucket
	}{
		{
			name:         "empty input",
			transactions: nil,
			want:         []model.MonthlyBucket{},
		},
		{
			name: "income only produces no buckets",
			transactions: []model.Transaction{
				txn("t1", "2024-01-15", 2500.00),
				txn("t2", "2024-02-13", 2500.00),
			},
			want: []model.MonthlyBucket{},
		},
		{
			name: "multi-month series sorted ascending",
			transactions: []model.Transaction{
				txn("t1", "2024-01-15", -50),
				txn("t2", "2024-01-20", -30),
				txn("t3", "2024-01-25", -20),
				txn("t4", "2024-02-05", -75),
				txn("t5", "2024-02-15", -25),
				txn("t6", "2024-02-28", -15),
				txn("t7", "2024-03-10", -100),
				txn("t8", "2023-12-20", -40),
				txn("t9", "2024-04-01", -60),
			},
			want: []model.MonthlyBucket{
				{Year: 2023, Month: time.December, Label: "Dec 2023", TotalSpending: 40},
				{Year: 2024, Month: time.January, Label: "Jan 2024", TotalSpending: 100},
				{Year: 2024, Month: time.February, Label: "Feb 2024", TotalSpending: 115},
				{Year: 2024, Month: time.March, Label: "Mar 2024", TotalSpending: 100},
				{Year: 2024, Month: time.April, Label: "Apr 2024", TotalSpending: 60},
			},
		},
		{
			name: "mixed income and spending in one month",
			transactions: []model.Transaction{
				txn("t1", "2025-06-15", -45.23),
				txn("t2", "2025-06-13", 2500.00),
				txn("t3", "2025-06-12", -89.99),
			},
			want: []model.MonthlyBucket{
				{Year: 2025, Month: time.June, Label: "Jun 2025", TotalSpending: 135.22},
			},
		},
		{
			name: "rounding applied once at the end",
			transactions: []model.Transaction{
				txn("t1", "2024-05-01", -0.005),
				txn("t2", "2024-05-02", -0.005),
			},
			want: []model.MonthlyBucket{
				{Year: 2024, Month: time.May, Label: "May 2024", TotalSpending: 0.01},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlySpending(tt.transactions)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthlySpending_CrossYearBuckets(t *testing.T) {
	// Two Decembers in different years must stay distinct buckets.
	got := MonthlySpending([]model.Transaction{
		txn("t1", "2023-12-20", -40),
		txn("t2", "2024-12-20", -75.50),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Dec 2023", got[0].Label)
	assert.Equal(t, 40.0, got[0].TotalSpending)
	assert.Equal(t, "Dec 2024", got[1].Label)
	assert.Equal(t, 75.50, got[1].TotalSpending)
}

func TestMonthlySpending_SortedNoDuplicates(t *testing.T) {
	transactions := []model.Transaction{
		txn("t1", "2024-03-10", -10),
		txn("t2", "2022-11-01", -20),
		txn("t3", "2024-03-11", -30),
		txn("t4", "2023-03-05", -40),
		txn("t5", "2022-11-30", -50),
	}

	got := MonthlySpending(transactions)

	seen := make(map[int]bool)
	for i, b := range got {
		assert.False(t, seen[b.Key()], "duplicate bucket %s", b.Label)
		seen[b.Key()] = true
		if i > 0 {
			assert.Less(t, got[i-1].Key(), b.Key(), "series not ascending")
		}
		assert.GreaterOrEqual(t, b.TotalSpending, 0.0)
	}
}

func TestMonthlySpending_Idempotent(t *testing.T) {
	transactions := []model.Transaction{
		txn("t1", "2024-01-15", -50),
		txn("t2", "2024-02-05", -75),
		txn("t3", "2024-02-15", 120),
	}

	first := MonthlySpending(transactions)
	second := MonthlySpending(transactions)
	assert.Equal(t, first, second)
}

func TestCurrentAndPreviousMonthSpending(t *testing.T) {
	series := MonthlySpending([]model.Transaction{
		txn("t1", "2024-03-10", -100),
		txn("t2", "2024-04-01", -60),
	})

	assert.Equal(t, 60.0, CurrentMonthSpending(series))
	assert.Equal(t, 100.0, PreviousMonthSpending(series))

	assert.Equal(t, 0.0, CurrentMonthSpending(nil))
	assert.Equal(t, 0.0, PreviousMonthSpending(series[:1]))
}

func TestTotalIncome(t *testing.T) {
	got := TotalIncome([]model.Transaction{
		txn("t1", "2024-01-15", -50),
		txn("t2", "2024-01-16", 2500.00),
		txn("t3", "2024-01-17", 99.99),
	})
	assert.Equal(t, 2599.99, got)
}
