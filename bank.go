package vaultbank

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/plugin"
	"github.com/xraph/vaultbank/store"
	"github.com/xraph/vaultbank/transfer"
	"github.com/xraph/vaultbank/types"
	"github.com/xraph/vaultbank/vault"
)

// Bank is the custodial balance ledger. It owns all account balances and
// the running total, enforces the bank cap and the per-withdrawal limit,
// and coordinates outbound payments through the injected Transferor.
//
// One mutating call runs at a time. A second mutating call arriving while
// one is in flight, including a nested call made from inside the
// Transferor, is rejected with ErrReentrancy rather than queued.
type Bank struct {
	store      store.Store
	transferor transfer.Transferor
	plugins    *plugin.Registry
	logger     *slog.Logger

	// Immutable limits, fixed at construction
	withdrawalLimit types.Amount
	bankCap         types.Amount

	// Optional initial funding, processed during Start
	founder        id.AccountID
	initialDeposit types.Amount

	// guard admits one mutating call at a time; mu protects the maps so
	// the guard-free read surface stays safe during a mutation. mu is
	// never held across the outbound transfer call.
	guard reentrancyGuard
	mu    sync.RWMutex

	vaults map[string]*vault.Vault
	total  types.Amount
}

// New creates a Bank with the given store, outbound transfer capability
// and limits. Both limits are fixed for the bank's entire lifetime.
func New(s store.Store, t transfer.Transferor, withdrawalLimit, bankCap types.Amount, opts ...Option) *Bank {
	b := &Bank{
		store:           s,
		transferor:      t,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		withdrawalLimit: withdrawalLimit,
		bankCap:         bankCap,
		vaults:          make(map[string]*vault.Vault),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Option configures a Bank instance.
type Option func(*Bank)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bank) {
		b.logger = logger
		b.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(b *Bank) {
		_ = b.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithInitialDeposit funds the given account during Start. The amount goes
// through the same deposit path as every other deposit, cap check
// included, and a rejection fails Start.
func WithInitialDeposit(account id.AccountID, amount types.Amount) Option {
	return func(b *Bank) {
		b.founder = account
		b.initialDeposit = amount
	}
}

// Start migrates the store, hydrates balances from it, and processes the
// optional initial deposit.
func (b *Bank) Start(ctx context.Context) error {
	if err := b.store.Migrate(ctx); err != nil {
		return err
	}

	if err := b.hydrate(ctx); err != nil {
		return err
	}

	if !b.initialDeposit.IsZero() {
		if err := b.Deposit(ctx, b.founder, b.initialDeposit); err != nil {
			return err
		}
	}

	b.plugins.EmitInit(ctx, b)

	b.logger.Info("vault bank started",
		"withdrawal_limit", b.withdrawalLimit,
		"bank_cap", b.bankCap,
		"accounts", b.accountCount(),
		"total_deposited", b.TotalDeposited(),
	)

	return nil
}

// Stop shuts down the Bank.
func (b *Bank) Stop() error {
	ctx := context.Background()
	b.plugins.EmitShutdown(ctx)

	return b.store.Close()
}

// hydrate loads persisted vault rows into the in-memory state.
func (b *Bank) hydrate(ctx context.Context) error {
	vaults, err := b.store.ListVaults(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	total := types.Zero()
	for _, v := range vaults {
		if total, err = total.Add(v.Balance); err != nil {
			return err
		}
		b.vaults[v.Account.String()] = v.Clone()
	}
	b.total = total

	return nil
}

// ──────────────────────────────────────────────────
// Mutating operations
// ──────────────────────────────────────────────────

// Deposit credits amount to the account's vault. The amount must be
// positive and must not push the aggregate custody above the bank cap.
func (b *Bank) Deposit(ctx context.Context, account id.AccountID, amount types.Amount) error {
	if err := b.guard.enter(); err != nil {
		return err
	}
	defer b.guard.exit()

	return b.deposit(ctx, account, amount)
}

// Receive is the default path for value arriving outside a recognized
// operation. It is a deposit in every respect: same guard, same checks,
// same effects, same events. No surface can add value to the bank's
// custody without passing through here or Deposit.
func (b *Bank) Receive(ctx context.Context, account id.AccountID, amount types.Amount) error {
	if err := b.guard.enter(); err != nil {
		return err
	}
	defer b.guard.exit()

	return b.deposit(ctx, account, amount)
}

// deposit is the single shared deposit routine. The caller holds the guard.
func (b *Bank) deposit(ctx context.Context, account id.AccountID, amount types.Amount) error {
	if amount.IsZero() {
		return ErrZeroDeposit
	}

	b.mu.Lock()

	attempted, err := b.total.Add(amount)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	if attempted.GreaterThan(b.bankCap) {
		b.mu.Unlock()
		b.plugins.EmitCapExceeded(ctx, account, attempted, b.bankCap)
		return &BankCapExceededError{AttemptedTotal: attempted, BankCap: b.bankCap}
	}

	v := b.vaultFor(account)
	if v.Balance, err = v.Balance.Add(amount); err != nil {
		b.mu.Unlock()
		return err
	}
	b.total = attempted
	v.DepositCount++
	v.UpdatedAt = time.Now().UTC()
	snapshot := v.Clone()

	b.mu.Unlock()

	entry := &journal.Entry{
		ID:        id.NewEntryID(),
		Account:   account,
		Direction: journal.DirectionDeposit,
		Amount:    amount,
		Timestamp: snapshot.UpdatedAt,
	}
	b.persist(ctx, snapshot, entry)
	b.plugins.EmitDeposited(ctx, entry)

	b.logger.Debug("deposit committed",
		"account", account,
		"amount", amount,
		"balance", snapshot.Balance,
		"total_deposited", attempted,
	)

	return nil
}

// Withdraw debits amount from the account's vault and moves it out through
// the Transferor. Effects are applied before the transfer; if the transfer
// fails, the bookkeeping is restored and the call fails with
// ErrTransferFailed.
func (b *Bank) Withdraw(ctx context.Context, account id.AccountID, amount types.Amount) error {
	if err := b.guard.enter(); err != nil {
		return err
	}
	defer b.guard.exit()

	b.mu.Lock()

	if amount.GreaterThan(b.withdrawalLimit) {
		b.mu.Unlock()
		return &WithdrawalLimitExceededError{Requested: amount, Limit: b.withdrawalLimit}
	}

	v := b.vaultFor(account)
	if amount.GreaterThan(v.Balance) {
		available := v.Balance
		b.mu.Unlock()
		return &InsufficientVaultBalanceError{Requested: amount, Available: available}
	}

	// Effects before interaction. Keep the prior values so a failed
	// transfer restores the exact pre-call state.
	prevBalance := v.Balance
	prevTotal := b.total
	prevCount := v.WithdrawalCount
	prevUpdated := v.UpdatedAt

	var err error
	if v.Balance, err = v.Balance.Sub(amount); err != nil {
		b.mu.Unlock()
		return err
	}
	if b.total, err = b.total.Sub(amount); err != nil {
		b.mu.Unlock()
		return err
	}
	v.WithdrawalCount++
	v.UpdatedAt = time.Now().UTC()
	snapshot := v.Clone()
	newTotal := b.total

	b.mu.Unlock()

	if sendErr := b.transferor.Send(ctx, account, amount); sendErr != nil {
		b.mu.Lock()
		v.Balance = prevBalance
		b.total = prevTotal
		v.WithdrawalCount = prevCount
		v.UpdatedAt = prevUpdated
		b.mu.Unlock()

		b.plugins.EmitTransferFailed(ctx, account, amount)

		b.logger.Warn("withdrawal rolled back",
			"account", account,
			"amount", amount,
			"error", sendErr,
		)

		return &TransferFailedError{Account: account, Amount: amount, Cause: sendErr}
	}

	entry := &journal.Entry{
		ID:        id.NewEntryID(),
		Account:   account,
		Direction: journal.DirectionWithdrawal,
		Amount:    amount,
		Timestamp: snapshot.UpdatedAt,
	}
	b.persist(ctx, snapshot, entry)
	b.plugins.EmitWithdrawn(ctx, entry)

	b.logger.Debug("withdrawal committed",
		"account", account,
		"amount", amount,
		"balance", snapshot.Balance,
		"total_deposited", newTotal,
	)

	return nil
}

// vaultFor returns the live vault record for an account, creating the
// zero-balance record on first touch. The caller holds mu.
func (b *Bank) vaultFor(account id.AccountID) *vault.Vault {
	key := account.String()
	if v, ok := b.vaults[key]; ok {
		return v
	}
	v := &vault.Vault{Account: account}
	b.vaults[key] = v
	return v
}

// persist writes the committed state behind the call. Store failures are
// logged and never alter the outcome of the ledger call.
func (b *Bank) persist(ctx context.Context, v *vault.Vault, entry *journal.Entry) {
	if err := b.store.UpsertVault(ctx, v); err != nil {
		b.logger.Warn("vault upsert failed",
			"account", v.Account,
			"error", err,
		)
	}
	if err := b.store.AppendEntry(ctx, entry); err != nil {
		b.logger.Warn("journal append failed",
			"entry", entry.ID,
			"error", err,
		)
	}
}

// ──────────────────────────────────────────────────
// Read surface
// ──────────────────────────────────────────────────

// BalanceOf returns the account's balance. Unknown accounts read as zero.
// Reads take no part in the reentrancy protocol and are always admitted.
func (b *Bank) BalanceOf(account id.AccountID) types.Amount {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.vaults[account.String()]; ok {
		return v.Balance
	}
	return types.Zero()
}

// TotalDeposited returns the aggregate custody across all accounts.
func (b *Bank) TotalDeposited() types.Amount {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.total
}

// WithdrawalLimit returns the per-withdrawal cap.
func (b *Bank) WithdrawalLimit() types.Amount { return b.withdrawalLimit }

// BankCap returns the aggregate custody cap.
func (b *Bank) BankCap() types.Amount { return b.bankCap }

// DepositCount returns how many deposits the account has completed.
func (b *Bank) DepositCount(account id.AccountID) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.vaults[account.String()]; ok {
		return v.DepositCount
	}
	return 0
}

// WithdrawalCount returns how many withdrawals the account has completed.
func (b *Bank) WithdrawalCount(account id.AccountID) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.vaults[account.String()]; ok {
		return v.WithdrawalCount
	}
	return 0
}

func (b *Bank) accountCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.vaults)
}

// ──────────────────────────────────────────────────
// Reentrancy guard
// ──────────────────────────────────────────────────

// reentrancyGuard admits one mutating call at a time. Unlike a mutex it
// rejects instead of blocking, so a Transferor that calls back into the
// bank gets ErrReentrancy rather than a deadlock. The flag is false at
// every call boundary; exit runs on every path out of a mutating call.
type reentrancyGuard struct {
	mu      sync.Mutex
	entered bool
}

func (g *reentrancyGuard) enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.entered {
		return ErrReentrancy
	}
	g.entered = true
	return nil
}

func (g *reentrancyGuard) exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entered = false
}
