// Package server exposes the dashboard's HTTP API. All banking routes go
// through the resolver, so every response reflects a single data source and
// the current user edit overlay.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/edits"
	"github.com/finsight/finsight/internal/resolver"
	"github.com/finsight/finsight/internal/service"
	"github.com/finsight/finsight/internal/store"
)

// defaultLinkUser is the client user id used when the link-token request
// does not carry one.
const defaultLinkUser = "finsight-user"

// Dependencies carries the server's collaborators. Client may be nil when no
// aggregator is configured; banking routes then serve demo data and the link
// routes report unavailability.
type Dependencies struct {
	Resolver *resolver.Resolver
	Client   service.BankClient
	KV       store.KV
	Edits    *edits.Store
	Logger   *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	http     *http.Server
	router   *chi.Mux
	resolver *resolver.Resolver
	client   service.BankClient
	kv       store.KV
	edits    *edits.Store
	logger   *slog.Logger
}

// New creates a Server listening on addr.
func New(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		resolver: deps.Resolver,
		client:   deps.Client,
		kv:       deps.KV,
		edits:    deps.Edits,
		logger:   logger.With("component", "server"),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.routes()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Route("/banking", func(r chi.Router) {
			r.Get("/accounts", s.handleAccounts)
			r.Get("/transactions", s.handleTransactions)
			r.Get("/link-token", s.handleLinkToken)
			r.Post("/set-access-token", s.handleSetAccessToken)
			r.Put("/update-transaction", s.handleUpdateTransaction)
			r.Delete("/update-transaction/{id}", s.handleDeleteTransactionEdit)
		})
	})
}

// Serve runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dataset, err := s.resolver.Resolve(r.Context())
	if err != nil {
		s.logger.Error("dashboard resolution failed", "error", err)
		HandleError(w, err)
		return
	}
	Success(w, dataset)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	dataset, err := s.resolver.Resolve(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	Success(w, map[string]any{
		"source":   dataset.Source,
		"accounts": dataset.Accounts,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	dataset, err := s.resolver.Resolve(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	Success(w, map[string]any{
		"source":            dataset.Source,
		"transactions":      dataset.Transactions,
		"monthlySpending":   dataset.MonthlySeries,
		"categoryBreakdown": dataset.CategoryBreakdown,
		"summary":           dataset.Summary,
	})
}

func (s *Server) handleLinkToken(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		Error(w, fmt.Errorf("%w: no aggregator configured", common.ErrMissingConfig), http.StatusServiceUnavailable)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = defaultLinkUser
	}

	token, err := s.client.CreateLinkToken(r.Context(), userID)
	if err != nil {
		s.logger.Error("link token creation failed", "error", err)
		HandleError(w, err)
		return
	}

	Success(w, map[string]any{
		"linkToken":  token.Token,
		"expiration": token.Expiration,
	})
}

type setAccessTokenRequest struct {
	PublicToken string `json:"publicToken"`
}

func (s *Server) handleSetAccessToken(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		Error(w, fmt.Errorf("%w: no aggregator configured", common.ErrMissingConfig), http.StatusServiceUnavailable)
		return
	}

	var req setAccessTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.PublicToken == "" {
		Error(w, fmt.Errorf("publicToken is required"), http.StatusBadRequest)
		return
	}

	accessToken, err := s.client.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		s.logger.Error("public token exchange failed", "error", err)
		HandleError(w, err)
		return
	}

	if err := s.kv.Put(r.Context(), store.KeyAccessToken, []byte(accessToken)); err != nil {
		s.logger.Error("failed to persist access token", "error", err)
		HandleError(w, err)
		return
	}

	Success(w, map[string]any{"linked": true})
}

type updateTransactionRequest struct {
	TransactionID string  `json:"transactionId"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.TransactionID == "" {
		Error(w, fmt.Errorf("%w: transactionId is required", common.ErrInvalidEditInput), http.StatusBadRequest)
		return
	}

	if err := s.edits.RecordEdit(r.Context(), req.TransactionID, req.Name, req.Amount); err != nil {
		HandleError(w, err)
		return
	}

	Success(w, map[string]any{"updated": req.TransactionID})
}

func (s *Server) handleDeleteTransactionEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		Error(w, fmt.Errorf("%w: transaction id is required", common.ErrInvalidEditInput), http.StatusBadRequest)
		return
	}

	if err := s.edits.RemoveEdit(r.Context(), id); err != nil {
		HandleError(w, err)
		return
	}

	Success(w, map[string]any{"reverted": id})
}
