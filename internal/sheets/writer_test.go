package sheets

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/model"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		Source: model.SourceLive,
		Accounts: []model.Account{
			{ID: "acc-1", Name: "Checking", Type: "depository", Currency: "USD"},
		},
		Transactions: []model.Transaction{
			{ID: "t1", Description: "Coffee", Amount: -4.50, Category: "Food & Drink", Date: model.NewDate(2025, time.June, 1)},
			{ID: "t2", Description: "Paycheck", Amount: 2500, Category: "Income", Date: model.NewDate(2025, time.June, 15), IsUserEdited: true},
		},
		MonthlySeries: []model.MonthlyBucket{
			{Label: "May 2025", Year: 2025, Month: time.May, TotalSpending: 300},
			{Label: "Jun 2025", Year: 2025, Month: time.June, TotalSpending: 4.5},
		},
		CategoryBreakdown: []model.CategoryTotal{
			{Category: "Food & Drink", TotalSpending: 4.5},
		},
		Trend: model.TrendResult{
			Direction:        model.DirectionDecreased,
			AbsoluteChange:   -295.5,
			PercentageChange: -98.5,
		},
		Summary: model.Summary{
			TotalBalance:         1000,
			TransactionCount:     2,
			AccountCount:         1,
			TotalIncome:          2500,
			CurrentMonthSpending: 4.5,
		},
	}
}

func TestPrepareReportData(t *testing.T) {
	w := &Writer{config: DefaultConfig(), logger: slog.Default()}

	rows := w.prepareReportData(testDataset())
	require.NotEmpty(t, rows)

	assert.Equal(t, "FinSight Report", rows[0][0])
	assert.Equal(t, "source: live", rows[0][1])

	// Section headers appear in order.
	var sections []string
	for _, row := range rows {
		if len(row) == 1 {
			if s, ok := row[0].(string); ok {
				sections = append(sections, s)
			}
		}
	}
	assert.Equal(t, []string{"Summary", "Monthly Spending", "Category Breakdown", "Transaction Details"}, sections)

	// Transactions are sorted newest first and carry the edited marker.
	last := rows[len(rows)-1]
	secondToLast := rows[len(rows)-2]
	assert.Equal(t, "Paycheck", secondToLast[1])
	assert.Equal(t, "yes", secondToLast[4])
	assert.Equal(t, "Coffee", last[1])
	assert.Equal(t, "", last[4])
}

func TestPrepareReportData_DoesNotMutateInput(t *testing.T) {
	w := &Writer{config: DefaultConfig(), logger: slog.Default()}
	dataset := testDataset()

	_ = w.prepareReportData(dataset)

	// Input order is preserved even though the report sorts by date.
	assert.Equal(t, "t1", dataset.Transactions[0].ID)
	assert.Equal(t, "t2", dataset.Transactions[1].ID)
}
