package model

// Balances holds the balance figures reported by the banking aggregator for
// a single account.
type Balances struct {
	Current   float64 `json:"current"`
	Available float64 `json:"available"`
	Limit     float64 `json:"limit"`
}

// Account represents a linked bank account.
type Account struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Subtype  string   `json:"subtype,omitempty"`
	Currency string   `json:"currency"`
	Balance  Balances `json:"balance"`
}

// IsDepository reports whether the account is a checking or savings account.
// Only depository accounts participate in the dashboard balance summary.
func (a Account) IsDepository() bool {
	return a.Type == "depository"
}
