package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
)

func refreshCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fresh bank data and store a snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			kv, err := openKV()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := kv.Close(); closeErr != nil {
					slog.Warn("failed to close database", "error", closeErr)
				}
			}()

			client := newBankClient(ctx, kv)
			if client == nil {
				return fmt.Errorf("no aggregator credentials configured; nothing to refresh")
			}
			if !client.HasAccessToken() {
				return fmt.Errorf("no linked bank connection; run 'finsight link' first")
			}

			accounts, err := client.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch accounts: %w", err)
			}

			bar := progressbar.NewOptions(months,
				progressbar.OptionSetDescription("Fetching transactions..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
			)

			// Fetch month by month so progress is visible on slow
			// connections and a failure loses at most one window.
			end := time.Now()
			var transactions []model.Transaction
			for i := months - 1; i >= 0; i-- {
				windowEnd := end.AddDate(0, -i, 0)
				windowStart := windowEnd.AddDate(0, -1, 0)

				batch, fetchErr := client.GetTransactions(ctx, windowStart, windowEnd)
				if fetchErr != nil {
					return fmt.Errorf("failed to fetch transactions for window ending %s: %w",
						windowEnd.Format("2006-01-02"), fetchErr)
				}
				transactions = append(transactions, batch...)
				_ = bar.Add(1)
			}

			snapshot := model.BankSnapshot{
				FetchedAt:    time.Now().UTC(),
				Accounts:     accounts,
				Transactions: transactions,
			}
			encoded, err := json.Marshal(snapshot)
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			if err := kv.Put(ctx, store.KeyBankData, encoded); err != nil {
				return fmt.Errorf("failed to store snapshot: %w", err)
			}

			slog.Info("refresh complete",
				"accounts", len(accounts),
				"transactions", len(transactions))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of trailing months to fetch")

	return cmd
}
