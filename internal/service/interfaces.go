// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/finsight/finsight/internal/model"
)

// BankClient is the banking-aggregator collaborator. Implementations fetch
// linked accounts and transactions and manage the account-linking handshake.
type BankClient interface {
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	CreateLinkToken(ctx context.Context, userID string) (LinkToken, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (string, error)
}

// LinkToken is the short-lived token handed to the front end to start the
// account-linking flow.
type LinkToken struct {
	Expiration time.Time
	Token      string
}

// ReportWriter exports a resolved dataset to an external report target.
type ReportWriter interface {
	Write(ctx context.Context, dataset *model.Dataset) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
