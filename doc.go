// Package vaultbank provides a per-user custodial balance ledger for Go
// applications.
//
// The bank is designed as a library, not a service. Users deposit value
// into individually tracked vaults, withdraw up to a fixed per-call limit,
// and the aggregate of all vaults is bounded by a global bank cap. The
// engine enforces:
//
//   - Conservation: the running total always equals the sum of all balances
//   - Capacity: the total never exceeds the bank cap
//   - Non-negativity: all arithmetic is checked 256-bit unsigned
//   - Reentrancy protection: one mutating call at a time, nested calls rejected
//   - All-or-nothing calls: a rejected call leaves no partial effects
//
// # Quick Start
//
// Create a bank with a store, an outbound transfer capability, and the two
// immutable limits:
//
//	import (
//	    "github.com/xraph/vaultbank"
//	    "github.com/xraph/vaultbank/store/memory"
//	    "github.com/xraph/vaultbank/transfer"
//	)
//
//	bank := vaultbank.New(memory.New(), payoutRail,
//	    vaultbank.NewAmount(500),  // withdrawal limit
//	    vaultbank.NewAmount(2000), // bank cap
//	)
//
//	if err := bank.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer bank.Stop()
//
//	account, _ := vaultbank.ParseAccountID("acct_01h2xcejqtf2nbrexx3vqjhp41")
//	if err := bank.Deposit(ctx, account, vaultbank.NewAmount(1200)); err != nil {
//	    // errors.Is against ErrZeroDeposit, ErrBankCapExceeded, ...
//	}
//	balance := bank.BalanceOf(account)
//
// # Withdrawal safety
//
// Withdraw applies its bookkeeping before invoking the Transferor
// (checks-effects-interactions). The host gives no transactional revert,
// so a failed transfer restores the snapshotted balance, total and counter
// before the error is returned; no observer ever sees the half-state. A
// Transferor that calls back into the bank is rejected with ErrReentrancy
// and cannot disturb the in-flight withdrawal.
//
// # Persistence
//
// The in-memory state is authoritative for the life of the process. Stores
// (memory, sqlite, postgres, mongo) hold write-behind vault rows and the
// append-only journal; Start hydrates balances from the store, which gives
// the database backends restart durability. A store failure is logged and
// never changes the outcome of a ledger call.
//
// # Events
//
// Plugins observe committed deposits and withdrawals, cap rejections and
// rolled-back transfers. The observability and audit_hook packages ship
// ready-made consumers; hooks are fire-and-forget and dispatched in call
// completion order.
package vaultbank
