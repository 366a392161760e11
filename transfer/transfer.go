// Package transfer defines the outbound value-transfer capability the bank
// calls during withdrawals.
//
// The interface is deliberately minimal so the bank stays agnostic to how
// value actually moves: a payment rail, a chain client, a test double.
// Callers inject the concrete implementation at wiring time.
package transfer

import (
	"context"
	"errors"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/types"
)

// Transferor moves value out of the bank's custody to an account's owner.
//
// Send must move exactly amount. A non-nil error means no value moved;
// the bank rolls back the withdrawal's bookkeeping and surfaces the
// failure to the caller. Send must not call back into the bank; a nested
// mutating call is rejected with ErrReentrancy.
type Transferor interface {
	Send(ctx context.Context, account id.AccountID, amount types.Amount) error
}

// TransferorFunc is an adapter to use a plain function as a Transferor.
type TransferorFunc func(ctx context.Context, account id.AccountID, amount types.Amount) error

// Send implements Transferor.
func (f TransferorFunc) Send(ctx context.Context, account id.AccountID, amount types.Amount) error {
	return f(ctx, account, amount)
}

// ErrRejected is a generic refusal a Transferor may return when the
// receiving side cannot accept the value.
var ErrRejected = errors.New("transfer: rejected by receiver")

// Discard returns a Transferor that accepts every transfer and moves
// nothing. Useful in tests and in hosts where settlement happens
// out of band.
func Discard() Transferor {
	return TransferorFunc(func(context.Context, id.AccountID, types.Amount) error {
		return nil
	})
}
