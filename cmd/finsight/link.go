package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/store"
)

func linkCmd() *cobra.Command {
	var (
		user        string
		publicToken string
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a bank account through the aggregator",
		Long: `Without flags, prints a Link token to start the account-linking flow in the
aggregator's hosted UI. Once the flow completes, run again with
--public-token to exchange it and store the resulting access token.`,
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
				return fmt.Errorf("aggregator credentials are required to link an account")
			}

			if publicToken != "" {
				accessToken, exchangeErr := client.ExchangePublicToken(ctx, publicToken)
				if exchangeErr != nil {
					return fmt.Errorf("failed to exchange public token: %w", exchangeErr)
				}
				if putErr := kv.Put(ctx, store.KeyAccessToken, []byte(accessToken)); putErr != nil {
					return fmt.Errorf("failed to store access token: %w", putErr)
				}
				slog.Info("bank account linked")
				return nil
			}

			token, err := client.CreateLinkToken(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to create link token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Link token: %s\nExpires: %s\n",
				token.Token, token.Expiration.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "finsight-user", "client user id for the link flow")
	cmd.Flags().StringVar(&publicToken, "public-token", "", "public token to exchange for an access token")

	return cmd
}
