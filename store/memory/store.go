// Package memory provides an in-memory store, used by default and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	vaultbank "github.com/xraph/vaultbank"
	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	bankstore "github.com/xraph/vaultbank/store"
	"github.com/xraph/vaultbank/vault"
)

// compile-time interface check
var _ bankstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Vault storage
	vaults map[string]*vault.Vault

	// Journal storage
	entries []journal.Entry
}

func New() *Store {
	return &Store{
		vaults:  make(map[string]*vault.Vault),
		entries: make([]journal.Entry, 0),
	}
}

// Vault Store implementation

func (s *Store) UpsertVault(_ context.Context, v *vault.Vault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vaults[v.Account.String()] = v.Clone()
	return nil
}

func (s *Store) GetVault(_ context.Context, account id.AccountID) (*vault.Vault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.vaults[account.String()]; ok {
		return v.Clone(), nil
	}
	return nil, vaultbank.ErrNotFound
}

func (s *Store) ListVaults(_ context.Context) ([]*vault.Vault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*vault.Vault, 0, len(s.vaults))
	for _, v := range s.vaults {
		result = append(result, v.Clone())
	}
	return result, nil
}

// Journal Store implementation

func (s *Store) AppendEntry(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, *e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, account id.AccountID, opts journal.ListOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for i := range s.entries {
		e := s.entries[i]
		if !account.IsNil() && e.Account.String() != account.String() {
			continue
		}
		if opts.Direction != "" && e.Direction != opts.Direction {
			continue
		}
		if !opts.Start.IsZero() && e.Timestamp.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && e.Timestamp.After(opts.End) {
			continue
		}
		result = append(result, &e)
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) PurgeEntries(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]journal.Entry, 0, len(s.entries))
	var purged int64
	for _, e := range s.entries {
		if e.Timestamp.Before(before) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return purged, nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
