// Package demo supplies the synthetic dataset shown when no live bank
// connection is present. The monthly chart series is generated once per
// session and cached through the key-value collaborator, so figures stay
// identical across screens and navigations; the account and transaction
// literals are fixed.
package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/finsight/finsight/internal/analytics"
	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/ingest"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
)

// chartMonths is how many trailing months of demo spending the chart shows.
const chartMonths = 6

func amount(v float64) *float64 {
	return &v
}

// mockAccounts is the fixed fallback account set.
var mockAccounts = []model.Account{
	{ID: "1", Name: "Checking Account", Type: "depository", Subtype: "checking", Currency: "USD", Balance: model.Balances{Current: 5420.32, Available: 5420.32}},
	{ID: "2", Name: "Savings Account", Type: "depository", Subtype: "savings", Currency: "USD", Balance: model.Balances{Current: 12000.85, Available: 12000.85}},
	{ID: "3", Name: "Credit Card", Type: "credit", Subtype: "credit card", Currency: "USD", Balance: model.Balances{Current: -1230.45}},
}

// mockRecords is the fixed fallback transaction set, in the demo source
// shape; it flows through the same normalization boundary as every other
// source.
var mockRecords = []ingest.DemoTransaction{
	{ID: "1", Amount: amount(-45.23), Merchant: "Starbucks", Date: "2025-06-15", Category: "Food & Drink"},
	{ID: "2", Amount: amount(-120.00), Merchant: "Gas Station", Date: "2025-06-14", Category: "Transportation"},
	{ID: "3", Amount: amount(2500.00), Merchant: "Direct Deposit", Date: "2025-06-13", Category: "Income"},
	{ID: "4", Amount: amount(-89.99), Merchant: "Amazon", Date: "2025-06-12", Category: "Shopping"},
}

// Accounts returns the static mock accounts.
func Accounts() []model.Account {
	out := make([]model.Account, len(mockAccounts))
	copy(out, mockAccounts)
	return out
}

// Transactions returns the static mock transactions, normalized.
func Transactions() ([]model.Transaction, error) {
	return ingest.FromDemo(mockRecords)
}

// ChartData returns the session's demo monthly series. The first call
// generates six trailing months of random spending and caches them under
// store.KeyDemoChart; later calls within the session return the cached
// figures verbatim. The second return value reports whether the series came
// from the cache.
func ChartData(ctx context.Context, kv store.KV, now time.Time) ([]model.MonthlyBucket, bool, error) {
	raw, err := kv.Get(ctx, store.KeyDemoChart)
	if err == nil {
		var cached []model.MonthlyBucket
		if err := json.Unmarshal(raw, &cached); err != nil {
			return nil, false, fmt.Errorf("failed to decode cached demo chart: %w", err)
		}
		return cached, true, nil
	}
	if !errors.Is(err, common.ErrKeyNotFound) {
		return nil, false, fmt.Errorf("failed to read demo chart cache: %w", err)
	}

	series := generateSeries(now)

	encoded, err := json.Marshal(series)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode demo chart: %w", err)
	}
	if err := kv.Put(ctx, store.KeyDemoChart, encoded); err != nil {
		return nil, false, fmt.Errorf("failed to cache demo chart: %w", err)
	}

	return series, false, nil
}

// generateSeries builds chartMonths trailing buckets ending at now's month,
// each with a random spending total between 200 and 499.
func generateSeries(now time.Time) []model.MonthlyBucket {
	series := make([]model.MonthlyBucket, 0, chartMonths)

	for i := chartMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		series = append(series, model.MonthlyBucket{
			Year:          month.Year(),
			Month:         month.Month(),
			Label:         model.MonthLabel(month.Year(), month.Month()),
			TotalSpending: float64(rand.Intn(300) + 200),
		})
	}

	return series
}

// Dataset assembles the full fallback dataset: static mock accounts and
// transactions plus the session's cached chart series. Source is
// SourceCachedDemo when the series came from the cache, SourceStaticMock on
// the generating call.
func Dataset(ctx context.Context, kv store.KV, now time.Time) (*model.Dataset, error) {
	series, fromCache, err := ChartData(ctx, kv, now)
	if err != nil {
		return nil, err
	}

	transactions, err := Transactions()
	if err != nil {
		return nil, err
	}

	source := model.SourceStaticMock
	if fromCache {
		source = model.SourceCachedDemo
	}

	accounts := Accounts()

	return &model.Dataset{
		Source:            source,
		Accounts:          accounts,
		Transactions:      transactions,
		MonthlySeries:     series,
		CategoryBreakdown: analytics.CategoryBreakdown(transactions),
		Trend:             analytics.Trend(series),
		Summary:           summarize(accounts, transactions, series),
	}, nil
}

func summarize(accounts []model.Account, transactions []model.Transaction, series []model.MonthlyBucket) model.Summary {
	var summary model.Summary
	for _, a := range accounts {
		if a.IsDepository() {
			summary.TotalBalance += a.Balance.Current
			summary.TotalAvailable += a.Balance.Available
		}
	}
	summary.TotalBalance = analytics.Round2(summary.TotalBalance)
	summary.TotalAvailable = analytics.Round2(summary.TotalAvailable)
	summary.TotalIncome = analytics.TotalIncome(transactions)
	summary.CurrentMonthSpending = analytics.CurrentMonthSpending(series)
	summary.AccountCount = len(accounts)
	summary.TransactionCount = len(transactions)
	return summary
}
