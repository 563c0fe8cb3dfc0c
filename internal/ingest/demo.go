package ingest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/model"
)

// DemoTransaction is the shape of synthetic/mock transaction records. Unlike
// the aggregator wire shape, demo records already use the canonical sign
// convention (negative = spending) and label the merchant field "merchant".
type DemoTransaction struct {
	Amount   *float64 `json:"amount"`
	ID       string   `json:"id"`
	Merchant string   `json:"merchant"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
}

// FromDemo normalizes a batch of demo/mock transaction records. No polarity
// inversion: demo data is authored in the canonical convention.
func FromDemo(records []DemoTransaction) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0, len(records))

	for i, r := range records {
		if r.Merchant == "" {
			return nil, fmt.Errorf("%w: record %d (%s) is missing merchant",
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
			Description: r.Merchant,
			Amount:      *r.Amount,
			Date:        date,
			Category:    r.Category,
		})
	}

	return transactions, nil
}
