// Package edits implements the user edit overlay: local, display-only
// corrections to transaction descriptions and amounts. Edits are stored
// independently of the transaction list and applied as an overlay at read
// time, so the originals survive and every edit can be reverted. Nothing
// here ever propagates back to the banking aggregator.
package edits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/finsight/finsight/internal/common"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
)

// Store persists user edits through the key-value collaborator. Writes are
// serialized by a mutex; concurrent writers get last-write-wins semantics.
type Store struct {
	kv  store.KV
	now func() time.Time
	mu  sync.Mutex
}

// NewStore creates an edit store backed by kv.
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// RecordEdit validates and stores an override for the given transaction.
// amountMagnitude is the unsigned new amount; the debit/credit sign of the
// original transaction is re-applied when the overlay runs, so an edit can
// never flip spending into income.
func (s *Store) RecordEdit(ctx context.Context, transactionID, description string, amountMagnitude float64) error {
	if transactionID == "" {
		return fmt.Errorf("%w: transaction id is required", common.ErrInvalidEditInput)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description must not be empty", common.ErrInvalidEditInput)
	}
	if math.IsNaN(amountMagnitude) || math.IsInf(amountMagnitude, 0) {
		return fmt.Errorf("%w: amount must be a finite number", common.ErrInvalidEditInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	all[transactionID] = model.UserEdit{
		TransactionID: transactionID,
		Description:   description,
		Amount:        math.Abs(amountMagnitude),
		EditedAt:      s.now(),
	}

	return s.save(ctx, all)
}

// RemoveEdit deletes the override for the given transaction; subsequent
// overlays revert to the original values. Removing a missing edit is a no-op.
func (s *Store) RemoveEdit(ctx context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := all[transactionID]; !ok {
		return nil
	}
	delete(all, transactionID)

	return s.save(ctx, all)
}

// Edits returns all stored overrides keyed by transaction id.
func (s *Store) Edits(ctx context.Context) (map[string]model.UserEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (map[string]model.UserEdit, error) {
	raw, err := s.kv.Get(ctx, store.KeyUserEdits)
	if errors.Is(err, common.ErrKeyNotFound) {
		return make(map[string]model.UserEdit), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load edits: %w", err)
	}

	var all map[string]model.UserEdit
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to decode edits: %w", err)
	}
	if all == nil {
		all = make(map[string]model.UserEdit)
	}
	return all, nil
}

func (s *Store) save(ctx context.Context, all map[string]model.UserEdit) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode edits: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyUserEdits, raw); err != nil {
		return fmt.Errorf("failed to persist edits: %w", err)
	}
	return nil
}

// ApplyOverlay returns a new transaction list with stored overrides patched
// onto matching ids. The input slice and the edit map are never mutated;
// unmatched transactions pass through unchanged.
func ApplyOverlay(transactions []model.Transaction, overrides map[string]model.UserEdit) []model.Transaction {
	out := make([]model.Transaction, len(transactions))

	for i, tx := range transactions {
		edit, ok := overrides[tx.ID]
		if !ok {
			out[i] = tx
			continue
		}

		patched := tx
		patched.Description = edit.Description
		patched.Amount = edit.Amount
		if tx.Amount < 0 {
			patched.Amount = -edit.Amount
		}
		patched.IsUserEdited = true
		editedAt := edit.EditedAt
		patched.EditedAt = &editedAt
		out[i] = patched
	}

	return out
}
