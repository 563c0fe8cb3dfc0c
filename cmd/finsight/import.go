package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/ingest"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.ofx> [more.ofx...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Parses OFX or QFX exports downloaded from a bank and merges their
transactions into the stored bank data snapshot. Useful for banks without
aggregator coverage.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var imported []model.Transaction
			for _, arg := range args {
				path := config.ExpandPath(arg)
				file, openErr := os.Open(path)
				if openErr != nil {
					return fmt.Errorf("failed to open %s: %w", path, openErr)
				}

				transactions, parseErr := ingest.FromOFX(ctx, file)
				if closeErr := file.Close(); closeErr != nil {
					slog.Warn("failed to close file", "path", path, "error", closeErr)
				}
				if parseErr != nil {
					return fmt.Errorf("failed to parse %s: %w", path, parseErr)
				}

				slog.Info("parsed OFX file", "path", path, "transactions", len(transactions))
				imported = append(imported, transactions...)
			}

			snapshot, err := loadSnapshot(ctx, kv)
			if err != nil {
				return err
			}
			snapshot.Transactions = mergeTransactions(snapshot.Transactions, imported)
			snapshot.FetchedAt = time.Now().UTC()

			encoded, err := json.Marshal(snapshot)
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			if err := kv.Put(ctx, store.KeyBankData, encoded); err != nil {
				return fmt.Errorf("failed to store snapshot: %w", err)
			}

			slog.Info("import complete",
				"imported", len(imported),
				"total", len(snapshot.Transactions))
			return nil
		},
	}
}

func loadSnapshot(ctx context.Context, kv store.KV) (model.BankSnapshot, error) {
	var snapshot model.BankSnapshot

	raw, err := kv.Get(ctx, store.KeyBankData)
	if errors.Is(err, common.ErrKeyNotFound) {
		return snapshot, nil
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// mergeTransactions appends imported transactions, skipping ids already in
// the snapshot.
func mergeTransactions(existing, imported []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(existing))
	for _, tx := range existing {
		seen[tx.ID] = true
	}

	merged := existing
	for _, tx := range imported {
		if seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true
		merged = append(merged, tx)
	}
	return merged
}
