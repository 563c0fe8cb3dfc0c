// Package ingest normalizes heterogeneous transaction records into the
// canonical model. Each upstream source variant has its own record type and
// normalization function; aggregation code never sees source-specific shapes.
//
// Validation is strict: a record missing its merchant label or amount, or
// carrying an unparseable date, fails the whole batch with
// common.ErrMalformedTransaction. Callers surface the error instead of
// presenting misleading partial data.
package ingest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/model"
)

// AggregatorTransaction is the wire shape returned by the banking
// aggregator. Its sign convention is the inverse of ours: positive amounts
// are debits (spending).
type AggregatorTransaction struct {
	Amount    *float64 `json:"amount"`
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	Name      string   `json:"name"`
	Merchant  string   `json:"merchant"`
	AccountID string   `json:"account_id"`
	Category  []string `json:"category"`
}

// AggregatorAccount is the account record returned by the banking aggregator.
type AggregatorAccount struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Subtype  string  `json:"subtype"`
	Currency string  `json:"currency"`
	Current  float64 `json:"current"`
	Available float64 `json:"available"`
	Limit    float64 `json:"limit"`
}

// invertPolarity converts the aggregator's sign convention (positive =
// spending) to the canonical one (negative = spending). A bug on this line
// would silently flip every spending/income classification, so it stays a
// single named function with its own unit test.
func invertPolarity(amount float64) float64 {
	return -amount
}

// FromAggregator normalizes a batch of aggregator transaction records.
// Output preserves input length and order; no de-duplication.
func FromAggregator(records []AggregatorTransaction) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0, len(records))

	for i, r := range records {
		description := r.Merchant
		if description == "" {
			description = r.Name
		}
		if description == "" {
			return nil, fmt.Errorf("%w: record %d (%s) has neither merchant nor name",
				common.ErrMalformedTransaction, i, r.ID)
		}
		if r.Amount == nil {
			return nil, fmt.Errorf("%w: record %d (%s) is missing amount",
				common.ErrMalformedTransaction, i, r.ID)
		}

		date, err := model.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (%s): %v",
				common.ErrMalformedTransaction, i, r.ID, err)
		}

		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}

		transactions = append(transactions, model.Transaction{
			ID:          id,
			Description: description,
			Amount:      invertPolarity(*r.Amount),
			Date:        date,
			Category:    primaryCategory(r.Category),
			AccountID:   r.AccountID,
		})
	}

	return transactions, nil
}

// AccountFromAggregator normalizes an aggregator account record.
func AccountFromAggregator(r AggregatorAccount) model.Account {
	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}
	return model.Account{
		ID:       r.ID,
		Name:     r.Name,
		Type:     r.Type,
		Subtype:  r.Subtype,
		Currency: currency,
		Balance: model.Balances{
			Current:   r.Current,
			Available: r.Available,
			Limit:     r.Limit,
		},
	}
}

// primaryCategory picks the top-level label from an upstream category
// hierarchy. Only the primary label participates in the breakdown.
func primaryCategory(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	return categories[0]
}
