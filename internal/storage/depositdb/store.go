// Package depositdb implements DepositStore using BadgerHold.
// It holds the locally persisted deposit-simulation overlay: one entry per
// account with a simulated extra deposit amount. This data never reaches the
// server except as an ephemeral input to the adjusted-snapshot request.
package depositdb

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/models"
)

// Store implements interfaces.DepositStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the deposit database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create deposit db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open deposit db at %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("DepositDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Get returns the simulated deposit for an account. A missing entry is zero.
func (s *Store) Get(_ context.Context, account string) (float64, error) {
	var entry models.DepositEntry
	if err := s.db.Get(account, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get deposit for '%s': %w", account, err)
	}
	return entry.Amount, nil
}

// Set stores a simulated deposit for an account. Negative amounts coerce to
// zero, and a zero amount removes the entry so absence always means zero.
func (s *Store) Set(ctx context.Context, account string, amount float64) error {
	if account == "" {
		return fmt.Errorf("account is required")
	}
	if amount < 0 || math.IsNaN(amount) {
		amount = 0
	}
	if amount == 0 {
		return s.delete(account)
	}
	entry := models.DepositEntry{
		Account:   account,
		Amount:    amount,
		UpdatedAt: now(),
	}
	if err := s.db.Upsert(account, &entry); err != nil {
		return fmt.Errorf("failed to save deposit for '%s': %w", account, err)
	}
	s.logger.Debug().Str("account", account).Float64("amount", amount).Msg("Deposit saved")
	return nil
}

func (s *Store) delete(account string) error {
	err := s.db.Delete(account, models.DepositEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete deposit for '%s': %w", account, err)
	}
	return nil
}

// All returns every nonzero deposit entry, ordered by account name.
func (s *Store) All(_ context.Context) ([]models.DepositEntry, error) {
	var entries []models.DepositEntry
	if err := s.db.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	result := entries[:0]
	for _, e := range entries {
		if e.Amount > 0 {
			result = append(result, e)
		}
	}
	sortEntries(result)
	return result, nil
}

// Deposits returns the account → amount map sent with the adjusted-snapshot request.
func (s *Store) Deposits(ctx context.Context) (map[string]float64, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	deposits := make(map[string]float64, len(entries))
	for _, e := range entries {
		deposits[e.Account] = e.Amount
	}
	return deposits, nil
}

// Total returns the sum of all simulated deposits.
func (s *Store) Total(ctx context.Context) (float64, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total, nil
}

// Clear removes every deposit entry.
func (s *Store) Clear(_ context.Context) error {
	if err := s.db.DeleteMatching(&models.DepositEntry{}, nil); err != nil {
		return fmt.Errorf("failed to clear deposits: %w", err)
	}
	s.logger.Debug().Msg("Deposits cleared")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() time.Time {
	return time.Now().UTC()
}

func sortEntries(entries []models.DepositEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Account < entries[j].Account
	})
}
