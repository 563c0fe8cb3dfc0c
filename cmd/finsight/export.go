package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/sheets"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard dataset to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("sheets configuration: %w", err)
			}

			kv, err := openKV()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := kv.Close(); closeErr != nil {
					slog.Warn("failed to close database", "error", closeErr)
				}
			}()

			res, _, _ := newResolver(ctx, kv)
			dataset, err := res.Resolve(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve dataset: %w", err)
			}

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			if err := writer.Write(ctx, dataset); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}

			slog.Info("export complete", "source", dataset.Source)
			return nil
		},
	}
}
