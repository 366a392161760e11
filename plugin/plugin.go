// Package plugin provides the hook system for the vault bank.
// Plugins observe ledger lifecycle events; they are fire-and-forget and
// can never fail or reorder a ledger call.
package plugin

import (
	"context"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the bank starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, bank interface{}) error
}

// OnShutdown is called when the bank stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ledger event hooks
// ──────────────────────────────────────────────────

// OnDeposited is called after a deposit has committed.
type OnDeposited interface {
	Plugin
	OnDeposited(ctx context.Context, entry *journal.Entry) error
}

// OnWithdrawn is called after a withdrawal has committed and the outbound
// transfer has succeeded.
type OnWithdrawn interface {
	Plugin
	OnWithdrawn(ctx context.Context, entry *journal.Entry) error
}

// OnCapExceeded is called when a deposit is rejected because it would push
// the aggregate custody above the bank cap.
type OnCapExceeded interface {
	Plugin
	OnCapExceeded(ctx context.Context, account id.AccountID, attemptedTotal, bankCap types.Amount) error
}

// OnTransferFailed is called when the outbound transfer of a withdrawal
// fails and the withdrawal is rolled back.
type OnTransferFailed interface {
	Plugin
	OnTransferFailed(ctx context.Context, account id.AccountID, amount types.Amount) error
}
