package model

import (
	"fmt"
	"time"
)

// MonthlyBucket is the aggregated spending total for one (year, month) pair.
type MonthlyBucket struct {
	Label         string     `json:"name"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	TotalSpending float64    `json:"spending"`
}

// Key returns a sortable key that is unique per (year, month) pair, so two
// Decembers in different years never collapse into one bucket.
func (b MonthlyBucket) Key() int {
	return b.Year*12 + int(b.Month) - 1
}

// MonthLabel renders the display label for a (year, month) pair, e.g.
// "Jun 2025". The year is embedded so labels never collide across years.
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String()[:3], year)
}

// CategoryTotal is the aggregated spending total for one category.
type CategoryTotal struct {
	Category      string  `json:"category"`
	TotalSpending float64 `json:"amount"`
}

// TrendDirection describes the period-over-period spending movement.
type TrendDirection string

// Trend directions. DirectionUnknown is returned when there is no prior
// period to compare against, or the prior period's total is zero.
const (
	DirectionUnknown   TrendDirection = "unknown"
	DirectionIncreased TrendDirection = "increased"
	DirectionDecreased TrendDirection = "decreased"
)

// TrendResult compares the two most recent monthly buckets.
type TrendResult struct {
	Direction        TrendDirection `json:"direction"`
	AbsoluteChange   float64        `json:"change"`
	PercentageChange float64        `json:"percentage"`
}

// UserEdit is a local, display-only correction applied on top of upstream
// transaction data. It is stored independently of the transaction list so the
// original values survive and the edit can be reverted.
type UserEdit struct {
	EditedAt      time.Time `json:"editedAt"`
	TransactionID string    `json:"transactionId"`
	Description   string    `json:"name"`
	Amount        float64   `json:"amount"`
}

// DataSource identifies which source a resolved dataset came from.
type DataSource string

// Resolver source priorities, highest first.
const (
	SourceLive       DataSource = "live"
	SourceSnapshot   DataSource = "snapshot"
	SourceCachedDemo DataSource = "cached_demo"
	SourceStaticMock DataSource = "static_mock"
)

// BankSnapshot is the stored bank data written by a refresh or an OFX
// import. It is replayed as a data source when no live connection can
// produce accounts.
type BankSnapshot struct {
	FetchedAt    time.Time     `json:"fetchedAt"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

// Summary carries the headline figures shown on the dashboard.
type Summary struct {
	TotalBalance         float64 `json:"totalBalance"`
	TotalAvailable       float64 `json:"totalAvailable"`
	TotalIncome          float64 `json:"totalIncome"`
	CurrentMonthSpending float64 `json:"totalSpending"`
	AccountCount         int     `json:"accountCount"`
	TransactionCount     int     `json:"transactionCount"`
}

// Dataset is the single fully-populated result the resolver hands to the
// presentation layer. It is never a blend of sources.
type Dataset struct {
	Source            DataSource      `json:"source"`
	Accounts          []Account       `json:"accounts"`
	Transactions      []Transaction   `json:"transactions"`
	MonthlySeries     []MonthlyBucket `json:"monthlySpending"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	Trend             TrendResult     `json:"trend"`
	Summary           Summary         `json:"summary"`
}
