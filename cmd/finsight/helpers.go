package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/edits"
	"github.com/finsight/finsight/internal/plaid"
	"github.com/finsight/finsight/internal/resolver"
	"github.com/finsight/finsight/internal/store"
)

// openKV opens the application database at the configured path.
func openKV() (store.KV, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	kv, err := store.NewSQLiteKV(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}
	return kv, nil
}

// plaidConfig assembles Plaid credentials from viper. The access token, if
// any, is read from the database where the link flow stored it.
func plaidConfig(ctx context.Context, kv store.KV) plaid.Config {
	cfg := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
	}
	if cfg.Environment == "" {
		cfg.Environment = "sandbox"
	}

	token, err := kv.Get(ctx, store.KeyAccessToken)
	switch {
	case err == nil:
		cfg.AccessToken = string(token)
	case !errors.Is(err, common.ErrKeyNotFound):
		slog.Warn("failed to read stored access token", "error", err)
	}

	return cfg
}

// newBankClient creates the Plaid client, or returns nil when no credentials
// are configured. A nil client means the application serves demo data.
func newBankClient(ctx context.Context, kv store.KV) *plaid.Client {
	cfg := plaidConfig(ctx, kv)
	if cfg.ClientID == "" || cfg.Secret == "" {
		slog.Info("no aggregator credentials configured, using demo data")
		return nil
	}

	client, err := plaid.NewClient(cfg)
	if err != nil {
		slog.Warn("failed to create aggregator client, using demo data", "error", err)
		return nil
	}
	return client
}

// newResolver wires the resolver for the current configuration. The returned
// edit store shares the resolver's database.
func newResolver(ctx context.Context, kv store.KV) (*resolver.Resolver, *edits.Store, *plaid.Client) {
	client := newBankClient(ctx, kv)
	editStore := edits.NewStore(kv)

	// An interface holding a nil *plaid.Client is not a nil interface, so
	// only pass the client through when it exists.
	if client == nil {
		return resolver.New(nil, kv, editStore, slog.Default()), editStore, nil
	}
	return resolver.New(client, kv, editStore, slog.Default()), editStore, client
}
