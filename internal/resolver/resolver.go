// Package resolver picks the dataset the dashboard shows. Exactly one source
// wins per resolution: live aggregator data when a linked connection returns
// accounts, otherwise the stored bank data snapshot from a refresh or OFX
// import, otherwise the session's cached demo data, otherwise freshly
// generated mock data (which seeds the cache for the rest of the session).
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/finsight/finsight/internal/analytics"
	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/demo"
	"github.com/finsight/finsight/internal/edits"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/service"
	"github.com/finsight/finsight/internal/store"
)

// fetchWindowMonths is how far back live transactions are requested.
const fetchWindowMonths = 6

// Resolver assembles the dashboard dataset from the highest-priority source
// that can produce one.
type Resolver struct {
	client service.BankClient
	kv     store.KV
	edits  *edits.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Resolver. client may be nil when no aggregator is configured;
// resolution then always falls through to demo data.
func New(client service.BankClient, kv store.KV, editStore *edits.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client: client,
		kv:     kv,
		edits:  editStore,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve returns one fully-populated dataset. Live fetch failures are logged
// and degrade to demo data; they never surface as errors here. The user edit
// overlay is applied to the chosen transaction list before any aggregate is
// computed, so monthly, category, and trend figures always reflect edits.
func (r *Resolver) Resolve(ctx context.Context) (*model.Dataset, error) {
	dataset, ok := r.resolveLive(ctx)
	if !ok {
		dataset, ok = r.resolveSnapshot(ctx)
	}
	if !ok {
		var err error
		dataset, err = demo.Dataset(ctx, r.kv, r.now())
		if err != nil {
			return nil, err
		}
	}

	if err := r.applyEdits(ctx, dataset); err != nil {
		return nil, err
	}

	return dataset, nil
}

// resolveLive attempts the live branch. It reports false when no client is
// configured, the fetch fails, or the aggregator returns zero accounts.
func (r *Resolver) resolveLive(ctx context.Context) (*model.Dataset, bool) {
	if r.client == nil {
		return nil, false
	}

	accounts, err := r.client.GetAccounts(ctx)
	if err != nil {
		r.logger.Warn("live account fetch failed, falling back to demo data", "error", err)
		return nil, false
	}
	if len(accounts) == 0 {
		r.logger.Info("aggregator returned no accounts, falling back to demo data")
		return nil, false
	}

	end := r.now()
	start := end.AddDate(0, -fetchWindowMonths, 0)
	transactions, err := r.client.GetTransactions(ctx, start, end)
	if err != nil {
		r.logger.Warn("live transaction fetch failed, falling back to demo data", "error", err)
		return nil, false
	}

	dataset := &model.Dataset{
		Source:       model.SourceLive,
		Accounts:     accounts,
		Transactions: transactions,
	}
	return dataset, true
}

// resolveSnapshot attempts the stored bank data written by a refresh or an
// OFX import. An absent, malformed, or empty snapshot reports false.
func (r *Resolver) resolveSnapshot(ctx context.Context) (*model.Dataset, bool) {
	raw, err := r.kv.Get(ctx, store.KeyBankData)
	if err != nil {
		if !errors.Is(err, common.ErrKeyNotFound) {
			r.logger.Warn("failed to read bank data snapshot, falling back to demo data", "error", err)
		}
		return nil, false
	}

	var snapshot model.BankSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		r.logger.Warn("malformed bank data snapshot, falling back to demo data", "error", err)
		return nil, false
	}
	if len(snapshot.Accounts) == 0 && len(snapshot.Transactions) == 0 {
		return nil, false
	}

	r.logger.Info("serving stored bank data snapshot",
		"fetched_at", snapshot.FetchedAt,
		"transactions", len(snapshot.Transactions))

	return &model.Dataset{
		Source:       model.SourceSnapshot,
		Accounts:     snapshot.Accounts,
		Transactions: snapshot.Transactions,
	}, true
}

// applyEdits merges the user edit overlay into the dataset's transactions and
// recomputes every aggregate from the overlaid list.
func (r *Resolver) applyEdits(ctx context.Context, dataset *model.Dataset) error {
	if r.edits != nil {
		overrides, err := r.edits.Edits(ctx)
		if err != nil {
			return err
		}
		dataset.Transactions = edits.ApplyOverlay(dataset.Transactions, overrides)
	}

	dataset.MonthlySeries = r.series(dataset)
	dataset.CategoryBreakdown = analytics.CategoryBreakdown(dataset.Transactions)
	dataset.Trend = analytics.Trend(dataset.MonthlySeries)
	dataset.Summary = r.summarize(dataset)
	return nil
}

// series recomputes the monthly spending series for real transaction data.
// The demo branches keep their session-cached series: the mock transaction
// list is too small to aggregate into a meaningful chart.
func (r *Resolver) series(dataset *model.Dataset) []model.MonthlyBucket {
	switch dataset.Source {
	case model.SourceLive, model.SourceSnapshot:
		return analytics.MonthlySpending(dataset.Transactions)
	}
	return dataset.MonthlySeries
}

func (r *Resolver) summarize(dataset *model.Dataset) model.Summary {
	var summary model.Summary
	for _, a := range dataset.Accounts {
		if a.IsDepository() {
			summary.TotalBalance += a.Balance.Current
			summary.TotalAvailable += a.Balance.Available
		}
	}
	summary.TotalBalance = analytics.Round2(summary.TotalBalance)
	summary.TotalAvailable = analytics.Round2(summary.TotalAvailable)
	summary.TotalIncome = analytics.TotalIncome(dataset.Transactions)
	summary.CurrentMonthSpending = analytics.CurrentMonthSpending(dataset.MonthlySeries)
	summary.AccountCount = len(dataset.Accounts)
	summary.TransactionCount = len(dataset.Transactions)
	return summary
}
