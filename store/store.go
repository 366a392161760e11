// Package store defines the unified persistence interface for the vault bank.
//
// The bank's in-memory state is authoritative; stores hold write-behind
// vault rows (for restart hydration and reporting) and the append-only
// journal. A store error never changes the outcome of a ledger call.
package store

import (
	"context"
	"time"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/vault"
)

// Store is the unified storage interface for all vault bank entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Vault methods
	UpsertVault(ctx context.Context, v *vault.Vault) error
	GetVault(ctx context.Context, account id.AccountID) (*vault.Vault, error)
	ListVaults(ctx context.Context) ([]*vault.Vault, error)

	// Journal methods
	AppendEntry(ctx context.Context, e *journal.Entry) error
	ListEntries(ctx context.Context, account id.AccountID, opts journal.ListOpts) ([]*journal.Entry, error)
	PurgeEntries(ctx context.Context, before time.Time) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
