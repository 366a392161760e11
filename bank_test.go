package vaultbank_test

import (
	"context"
	"errors"
	"testing"

	vaultbank "github.com/xraph/vaultbank"
	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/store/memory"
	"github.com/xraph/vaultbank/transfer"
	"github.com/xraph/vaultbank/types"
)

func amt(v uint64) types.Amount { return types.NewAmount(v) }

// newBank builds a started bank over a fresh memory store. The default
// transferor accepts everything.
func newBank(t *testing.T, limit, cap uint64, opts ...vaultbank.Option) *vaultbank.Bank {
	t.Helper()

	b := vaultbank.New(memory.New(), transfer.Discard(), amt(limit), amt(cap), opts...)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Stop(); err != nil {
			t.Errorf("stop: %v", err)
		}
	})
	return b
}

// checkConservation asserts total == sum of the given account balances.
func checkConservation(t *testing.T, b *vaultbank.Bank, accounts ...id.AccountID) {
	t.Helper()

	sum := types.Zero()
	for _, a := range accounts {
		var err error
		if sum, err = sum.Add(b.BalanceOf(a)); err != nil {
			t.Fatalf("sum balances: %v", err)
		}
	}
	if !b.TotalDeposited().Equal(sum) {
		t.Fatalf("conservation broken: total %s, sum of balances %s", b.TotalDeposited(), sum)
	}
	if b.TotalDeposited().GreaterThan(b.BankCap()) {
		t.Fatalf("total %s exceeds cap %s", b.TotalDeposited(), b.BankCap())
	}
}

func TestDepositWithdrawScenario(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 2000)
	accountA := id.NewAccountID()
	accountB := id.NewAccountID()

	// A deposits 1200
	if err := b.Deposit(ctx, accountA, amt(1200)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !b.BalanceOf(accountA).Equal(amt(1200)) {
		t.Errorf("balance of A: got %s, want 1200", b.BalanceOf(accountA))
	}
	if !b.TotalDeposited().Equal(amt(1200)) {
		t.Errorf("total: got %s, want 1200", b.TotalDeposited())
	}

	// B's 900 would push the total to 2100, over the 2000 cap
	err := b.Deposit(ctx, accountB, amt(900))
	if !errors.Is(err, vaultbank.ErrBankCapExceeded) {
		t.Fatalf("expected ErrBankCapExceeded, got %v", err)
	}
	var capErr *vaultbank.BankCapExceededError
	if !errors.As(err, &capErr) {
		t.Fatal("expected *BankCapExceededError")
	}
	if !capErr.AttemptedTotal.Equal(amt(2100)) || !capErr.BankCap.Equal(amt(2000)) {
		t.Errorf("cap error fields: attempted %s cap %s", capErr.AttemptedTotal, capErr.BankCap)
	}
	if !b.TotalDeposited().Equal(amt(1200)) {
		t.Errorf("total changed by rejected deposit: %s", b.TotalDeposited())
	}
	if !b.BalanceOf(accountB).IsZero() {
		t.Errorf("B credited by rejected deposit: %s", b.BalanceOf(accountB))
	}

	// A withdraws 500, at the limit
	if err := b.Withdraw(ctx, accountA, amt(500)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !b.BalanceOf(accountA).Equal(amt(700)) {
		t.Errorf("balance of A after withdrawal: got %s, want 700", b.BalanceOf(accountA))
	}

	// A's 600 exceeds the 500 per-call limit
	err = b.Withdraw(ctx, accountA, amt(600))
	var limitErr *vaultbank.WithdrawalLimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected *WithdrawalLimitExceededError, got %v", err)
	}
	if !limitErr.Requested.Equal(amt(600)) || !limitErr.Limit.Equal(amt(500)) {
		t.Errorf("limit error fields: requested %s limit %s", limitErr.Requested, limitErr.Limit)
	}

	checkConservation(t, b, accountA, accountB)
}

func TestZeroDepositAlwaysRejected(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 2000)
	account := id.NewAccountID()

	if err := b.Deposit(ctx, account, types.Zero()); !errors.Is(err, vaultbank.ErrZeroDeposit) {
		t.Errorf("empty bank: expected ErrZeroDeposit, got %v", err)
	}

	if err := b.Deposit(ctx, account, amt(100)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := b.Deposit(ctx, account, types.Zero()); !errors.Is(err, vaultbank.ErrZeroDeposit) {
		t.Errorf("funded bank: expected ErrZeroDeposit, got %v", err)
	}
	if !b.TotalDeposited().Equal(amt(100)) {
		t.Errorf("total disturbed by zero deposit: %s", b.TotalDeposited())
	}
}

func TestWithdrawChecksOrder(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 2000)
	account := id.NewAccountID()

	if err := b.Deposit(ctx, account, amt(100)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// 600 trips both the limit and the balance; the limit check runs first.
	if err := b.Withdraw(ctx, account, amt(600)); !errors.Is(err, vaultbank.ErrWithdrawalLimitExceeded) {
		t.Errorf("expected limit rejection to win, got %v", err)
	}

	// 300 is within the limit but above the 100 balance.
	err := b.Withdraw(ctx, account, amt(300))
	var balErr *vaultbank.InsufficientVaultBalanceError
	if !errors.As(err, &balErr) {
		t.Fatalf("expected *InsufficientVaultBalanceError, got %v", err)
	}
	if !balErr.Requested.Equal(amt(300)) || !balErr.Available.Equal(amt(100)) {
		t.Errorf("balance error fields: requested %s available %s", balErr.Requested, balErr.Available)
	}

	if !b.BalanceOf(account).Equal(amt(100)) {
		t.Errorf("balance disturbed by rejected withdrawals: %s", b.BalanceOf(account))
	}
	if got := b.WithdrawalCount(account); got != 0 {
		t.Errorf("withdrawal count disturbed by rejections: %d", got)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 2000)
	account := id.NewAccountID()

	if err := b.Deposit(ctx, account, amt(400)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := b.Withdraw(ctx, account, amt(400)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if !b.BalanceOf(account).IsZero() {
		t.Errorf("balance after round trip: %s", b.BalanceOf(account))
	}
	if !b.TotalDeposited().IsZero() {
		t.Errorf("total after round trip: %s", b.TotalDeposited())
	}
	if b.DepositCount(account) != 1 || b.WithdrawalCount(account) != 1 {
		t.Errorf("counters: deposits %d withdrawals %d", b.DepositCount(account), b.WithdrawalCount(account))
	}
}

func TestConservationAcrossSequence(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 10000)
	accountA := id.NewAccountID()
	accountB := id.NewAccountID()

	steps := []struct {
		name    string
		op      func() error
		wantErr bool
	}{
		{"A deposits 1000", func() error { return b.Deposit(ctx, accountA, amt(1000)) }, false},
		{"B deposits 2500", func() error { return b.Deposit(ctx, accountB, amt(2500)) }, false},
		{"A withdraws 500", func() error { return b.Withdraw(ctx, accountA, amt(500)) }, false},
		{"B withdraws 9000", func() error { return b.Withdraw(ctx, accountB, amt(9000)) }, true},
		{"B receives 100", func() error { return b.Receive(ctx, accountB, amt(100)) }, false},
		{"A withdraws 500", func() error { return b.Withdraw(ctx, accountA, amt(500)) }, false},
		{"A withdraws 1", func() error { return b.Withdraw(ctx, accountA, amt(1)) }, true},
	}

	for _, step := range steps {
		err := step.op()
		if step.wantErr && err == nil {
			t.Fatalf("%s: expected error", step.name)
		}
		if !step.wantErr && err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		checkConservation(t, b, accountA, accountB)
	}

	if !b.BalanceOf(accountA).IsZero() {
		t.Errorf("balance of A: %s", b.BalanceOf(accountA))
	}
	if !b.BalanceOf(accountB).Equal(amt(2600)) {
		t.Errorf("balance of B: got %s, want 2600", b.BalanceOf(accountB))
	}
}

func TestReceiveIsADeposit(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, 500, 2000)
	account := id.NewAccountID()

	if err := b.Receive(ctx, account, types.Zero()); !errors.Is(err, vaultbank.ErrZeroDeposit) {
		t.Errorf("expected ErrZeroDeposit through the default path, got %v", err)
	}

	if err := b.Receive(ctx, account, amt(1800)); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !b.BalanceOf(account).Equal(amt(1800)) {
		t.Errorf("balance: got %s, want 1800", b.BalanceOf(account))
	}
	if b.DepositCount(account) != 1 {
		t.Errorf("deposit count: got %d, want 1", b.DepositCount(account))
	}

	if err := b.Receive(ctx, account, amt(300)); !errors.Is(err, vaultbank.ErrBankCapExceeded) {
		t.Errorf("expected cap check on the default path, got %v", err)
	}
}

func TestTransferFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	failing := transfer.TransferorFunc(func(context.Context, id.AccountID, types.Amount) error {
		return transfer.ErrRejected
	})
	b := vaultbank.New(memory.New(), failing, amt(500), amt(2000))
	if err := b.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	account := id.NewAccountID()
	if err := b.Deposit(ctx, account, amt(800)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	err := b.Withdraw(ctx, account, amt(300))
	var xferErr *vaultbank.TransferFailedError
	if !errors.As(err, &xferErr) {
		t.Fatalf("expected *TransferFailedError, got %v", err)
	}
	if xferErr.Account.String() != account.String() || !xferErr.Amount.Equal(amt(300)) {
		t.Errorf("transfer error fields: account %s amount %s", xferErr.Account, xferErr.Amount)
	}
	if !errors.Is(err, transfer.ErrRejected) {
		t.Errorf("expected the transferor's cause to be wrapped, got %v", err)
	}

	// Exact pre-call state, counters included.
	if !b.BalanceOf(account).Equal(amt(800)) {
		t.Errorf("balance not restored: %s", b.BalanceOf(account))
	}
	if !b.TotalDeposited().Equal(amt(800)) {
		t.Errorf("total not restored: %s", b.TotalDeposited())
	}
	if got := b.WithdrawalCount(account); got != 0 {
		t.Errorf("withdrawal count not restored: %d", got)
	}

	// The bank stays usable after the rollback.
	if err := b.Deposit(ctx, account, amt(100)); err != nil {
		t.Fatalf("deposit after rollback: %v", err)
	}
	checkConservation(t, b, account)
}

func TestReentrantCallRejected(t *testing.T) {
	ctx := context.Background()
	account := id.NewAccountID()

	var bank *vaultbank.Bank
	var innerWithdraw, innerDeposit error
	reentrant := transfer.TransferorFunc(func(ctx context.Context, acct id.AccountID, amount types.Amount) error {
		// The receiver calls back into the bank before the outer
		// withdrawal has returned.
		innerWithdraw = bank.Withdraw(ctx, acct, types.NewAmount(1))
		innerDeposit = bank.Deposit(ctx, acct, types.NewAmount(1))
		return nil
	})

	bank = vaultbank.New(memory.New(), reentrant, amt(500), amt(2000))
	if err := bank.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer bank.Stop()

	if err := bank.Deposit(ctx, account, amt(1000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// The outer withdrawal succeeds; both nested calls are rejected.
	if err := bank.Withdraw(ctx, account, amt(200)); err != nil {
		t.Fatalf("outer withdraw: %v", err)
	}
	if !errors.Is(innerWithdraw, vaultbank.ErrReentrancy) {
		t.Errorf("nested withdraw: expected ErrReentrancy, got %v", innerWithdraw)
	}
	if !errors.Is(innerDeposit, vaultbank.ErrReentrancy) {
		t.Errorf("nested deposit: expected ErrReentrancy, got %v", innerDeposit)
	}

	if !bank.BalanceOf(account).Equal(amt(800)) {
		t.Errorf("balance: got %s, want 800", bank.BalanceOf(account))
	}
	if got := bank.WithdrawalCount(account); got != 1 {
		t.Errorf("withdrawal count: got %d, want 1", got)
	}
	checkConservation(t, bank, account)

	// The guard is released after the outer call returns.
	if err := bank.Withdraw(ctx, account, amt(100)); err != nil {
		t.Fatalf("withdraw after reentrant attempt: %v", err)
	}
}

func TestInitialDepositGoesThroughDepositPath(t *testing.T) {
	ctx := context.Background()
	founder := id.NewAccountID()

	b := vaultbank.New(memory.New(), transfer.Discard(), amt(500), amt(2000),
		vaultbank.WithInitialDeposit(founder, amt(1500)))
	if err := b.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	if !b.BalanceOf(founder).Equal(amt(1500)) {
		t.Errorf("founder balance: got %s, want 1500", b.BalanceOf(founder))
	}
	if b.DepositCount(founder) != 1 {
		t.Errorf("founder deposit count: got %d, want 1", b.DepositCount(founder))
	}
}

func TestInitialDepositOverCapFailsStart(t *testing.T) {
	founder := id.NewAccountID()

	b := vaultbank.New(memory.New(), transfer.Discard(), amt(500), amt(1000),
		vaultbank.WithInitialDeposit(founder, amt(1500)))
	if err := b.Start(context.Background()); !errors.Is(err, vaultbank.ErrBankCapExceeded) {
		t.Fatalf("expected ErrBankCapExceeded from Start, got %v", err)
	}
}

func TestStartHydratesFromStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	account := id.NewAccountID()

	first := vaultbank.New(s, transfer.Discard(), amt(500), amt(2000))
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := first.Deposit(ctx, account, amt(900)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := first.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// A new bank over the same store picks up the persisted balances.
	second := vaultbank.New(s, transfer.Discard(), amt(500), amt(2000))
	if err := second.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer second.Stop()

	if !second.BalanceOf(account).Equal(amt(900)) {
		t.Errorf("hydrated balance: got %s, want 900", second.BalanceOf(account))
	}
	if !second.TotalDeposited().Equal(amt(900)) {
		t.Errorf("hydrated total: got %s, want 900", second.TotalDeposited())
	}
	if second.DepositCount(account) != 1 {
		t.Errorf("hydrated deposit count: got %d, want 1", second.DepositCount(account))
	}
}

func TestJournalRecordsCompletedCalls(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	b := vaultbank.New(s, transfer.Discard(), amt(500), amt(2000))
	if err := b.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer b.Stop()

	account := id.NewAccountID()
	if err := b.Deposit(ctx, account, amt(700)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := b.Withdraw(ctx, account, amt(200)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	// Rejected calls leave no journal trace.
	if err := b.Withdraw(ctx, account, amt(9999)); err == nil {
		t.Fatal("expected rejection")
	}

	entries, err := s.ListEntries(ctx, account, journal.ListOpts{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("journal length: got %d, want 2", len(entries))
	}
	if entries[0].Direction != journal.DirectionDeposit || !entries[0].Amount.Equal(amt(700)) {
		t.Errorf("first entry: %+v", entries[0])
	}
	if entries[1].Direction != journal.DirectionWithdrawal || !entries[1].Amount.Equal(amt(200)) {
		t.Errorf("second entry: %+v", entries[1])
	}
}

func TestBalanceOfUnknownAccountIsZero(t *testing.T) {
	b := newBank(t, 500, 2000)

	if !b.BalanceOf(id.NewAccountID()).IsZero() {
		t.Error("unknown account should read as zero")
	}
	if b.DepositCount(id.NewAccountID()) != 0 || b.WithdrawalCount(id.NewAccountID()) != 0 {
		t.Error("unknown account counters should read as zero")
	}
}
