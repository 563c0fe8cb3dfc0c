package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finsight/finsight/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		Long: `Starts the HTTP server backing the dashboard. Every banking route resolves
its data through the source priority chain, so the API works with or without
a linked bank connection.`,
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

			res, editStore, client := newResolver(ctx, kv)

			addr := viper.GetString("server.addr")
			if addr == "" {
				addr = ":8080"
			}

			deps := server.Dependencies{
				Resolver: res,
				KV:       kv,
				Edits:    editStore,
				Logger:   slog.Default(),
			}
			if client != nil {
				deps.Client = client
			}

			return server.New(addr, deps).Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
