package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
)

func TestChartData_SessionConsistency(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	first, fromCache, err := ChartData(ctx, kv, now)
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, first, 6)

	// Trailing months ending at now's month, each in the generated range.
	assert.Equal(t, "Jan 2025", first[0].Label)
	assert.Equal(t, "Jun 2025", first[5].Label)
	for _, b := range first {
		assert.GreaterOrEqual(t, b.TotalSpending, 200.0)
		assert.Less(t, b.TotalSpending, 500.0)
	}

	second, fromCache, err := ChartData(ctx, kv, now)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, first, second)
}

func TestChartData_CrossYearLabels(t *testing.T) {
	kv := store.NewMemoryKV()
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	series, _, err := ChartData(context.Background(), kv, now)
	require.NoError(t, err)
	require.Len(t, series, 6)

	assert.Equal(t, "Sep 2024", series[0].Label)
	assert.Equal(t, "Dec 2024", series[3].Label)
	assert.Equal(t, "Feb 2025", series[5].Label)
	assert.Less(t, series[0].Key(), series[5].Key())
}

func TestTransactions_Normalized(t *testing.T) {
	transactions, err := Transactions()
	require.NoError(t, err)
	require.Len(t, transactions, 4)

	assert.Equal(t, "Starbucks", transactions[0].Description)
	assert.Equal(t, -45.23, transactions[0].Amount)
	assert.True(t, transactions[0].IsSpending())
	assert.Equal(t, 2500.00, transactions[2].Amount)
	assert.False(t, transactions[2].IsSpending())
}

func TestDataset(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	ds, err := Dataset(ctx, kv, now)
	require.NoError(t, err)

	assert.Equal(t, model.SourceStaticMock, ds.Source)
	assert.Len(t, ds.Accounts, 3)
	assert.Len(t, ds.Transactions, 4)
	assert.Len(t, ds.MonthlySeries, 6)
	assert.NotEmpty(t, ds.CategoryBreakdown)

	// Checking plus savings; the credit card stays out of the balance total.
	assert.InDelta(t, 17421.17, ds.Summary.TotalBalance, 0.001)
	assert.InDelta(t, 2500.00, ds.Summary.TotalIncome, 0.001)
	assert.Equal(t, 3, ds.Summary.AccountCount)
	assert.Equal(t, 4, ds.Summary.TransactionCount)

	// A second resolution in the same session reports the cached source and
	// the same chart figures.
	again, err := Dataset(ctx, kv, now)
	require.NoError(t, err)
	assert.Equal(t, model.SourceCachedDemo, again.Source)
	assert.Equal(t, ds.MonthlySeries, again.MonthlySeries)
}
