// Package plaid provides the banking-aggregator client. Wire records are
// handed to the ingest package for normalization, so the polarity and
// validation rules live in one place.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/ingest"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/service"
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present, access token included.
func (c *Config) Validate() error {
	if err := c.validateCredentials(); err != nil {
		return err
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	}
	return nil
}

// validateCredentials checks everything except the access token, which does
// not exist yet during the Link flow.
func (c *Config) validateCredentials() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	}
	if c.Environment != "sandbox" && c.Environment != "production" {
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}
	return nil
}

// Client talks to the Plaid API and implements service.BankClient.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	retryOpts   *service.RetryOptions
	accessToken string
	environment string
}

// NewClient creates a Plaid client. The access token may be empty; the Link
// flow supplies one later via SetAccessToken.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validateCredentials(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		environment: cfg.Environment,
		logger:      slog.Default().With("component", "plaid"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// SetAccessToken installs the access token obtained from the Link exchange.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// HasAccessToken reports whether a linked connection exists.
func (c *Client) HasAccessToken() bool {
	return c.accessToken != ""
}

// GetTransactions fetches all transactions in the date range, paging through
// the API, and normalizes them into the canonical model.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("%w: no access token, link an account first", common.ErrMissingConfig)
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("fetching transactions",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var records []ingest.AggregatorTransaction
	offset := int32(0)
	const pageSize = int32(500) // Plaid's max page size

	for {
		var page []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			options := plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			}
			request.SetOptions(options)

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.wrapAPIError(err, "failed to fetch transactions")
			}

			page = resp.GetTransactions()
			c.logger.Debug("fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, *c.retryOpts)

		if retryErr != nil {
			return nil, retryErr
		}

		for _, pt := range page {
			records = append(records, toAggregatorRecord(pt))
		}

		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	c.logger.Info("fetched all transactions", "count", len(records))

	return ingest.FromAggregator(records)
}

// GetAccounts fetches the linked accounts with their balances.
func (c *Client) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("%w: no access token, link an account first", common.ErrMissingConfig)
	}

	var plaidAccounts []plaid.AccountBase
	retryErr := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.accessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return c.wrapAPIError(err, "failed to fetch accounts")
		}
		plaidAccounts = resp.GetAccounts()
		return nil
	}, *c.retryOpts)

	if retryErr != nil {
		return nil, retryErr
	}

	c.logger.Info("fetched accounts", "count", len(plaidAccounts))

	accounts := make([]model.Account, 0, len(plaidAccounts))
	for _, a := range plaidAccounts {
		accounts = append(accounts, ingest.AccountFromAggregator(toAggregatorAccount(a)))
	}

	return accounts, nil
}

// CreateLinkToken creates a Link token to start the account-linking flow.
// userID is sanitized to the aggregator's client user id rules first.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (service.LinkToken, error) {
	clientUserID, err := SanitizeClientUserID(userID)
	if err != nil {
		return service.LinkToken{}, err
	}

	user := plaid.LinkTokenCreateRequestUser{ClientUserId: clientUserID}
	request := plaid.NewLinkTokenCreateRequest(
		"FinSight",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	// OAuth banks require a redirect URI in production; it must match the
	// dashboard configuration.
	if c.environment == "production" {
		request.SetRedirectUri("https://localhost:8080/")
	}

	resp, _, err := c.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return service.LinkToken{}, c.wrapAPIError(err, "failed to create link token")
	}

	return service.LinkToken{
		Token:      resp.GetLinkToken(),
		Expiration: resp.GetExpiration(),
	}, nil
}

// ExchangePublicToken exchanges a public token from Link for an access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", c.wrapAPIError(err, "failed to exchange public token")
	}

	c.accessToken = resp.GetAccessToken()
	return resp.GetAccessToken(), nil
}

// wrapAPIError translates Plaid API errors, marking rate limits retryable.
func (c *Client) wrapAPIError(err error, msg string) error {
	if plaidError := extractPlaidError(err); plaidError != nil {
		if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
			c.logger.Warn("rate limit hit, will retry", "error", plaidError.ErrorMessage)
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %s", common.ErrAggregatorRateLimit, plaidError.ErrorMessage),
				Retryable: true,
			}
		}
		return fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage)
	}
	return fmt.Errorf("%w: %s: %v", common.ErrAggregatorConnection, msg, err)
}

// toAggregatorRecord lifts a Plaid transaction into the wire shape the
// ingest package normalizes. Amount keeps Plaid's sign convention; the
// inversion happens during normalization.
func toAggregatorRecord(pt plaid.Transaction) ingest.AggregatorTransaction {
	amount := pt.GetAmount()
	return ingest.AggregatorTransaction{
		Amount:    &amount,
		ID:        pt.GetTransactionId(),
		Date:      pt.GetDate(),
		Name:      pt.GetName(),
		Merchant:  pt.GetMerchantName(),
		AccountID: pt.GetAccountId(),
		Category:  pt.GetCategory(),
	}
}

func toAggregatorAccount(a plaid.AccountBase) ingest.AggregatorAccount {
	balances := a.GetBalances()
	return ingest.AggregatorAccount{
		ID:        a.GetAccountId(),
		Name:      a.GetName(),
		Type:      string(a.GetType()),
		Subtype:   string(a.GetSubtype()),
		Currency:  balances.GetIsoCurrencyCode(),
		Current:   balances.GetCurrent(),
		Available: balances.GetAvailable(),
		Limit:     balances.GetLimit(),
	}
}

// extractPlaidError attempts to extract a Plaid error from a generic error.
func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}

// Ensure Client implements the aggregator interface.
var _ service.BankClient = (*Client)(nil)
