package vaultbank

import (
	"errors"
	"fmt"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/types"
)

// Sentinel errors for the rejection taxonomy. Every failed call returns an
// error that matches exactly one of these via errors.Is; the structured
// variants below carry the amounts involved.
var (
	// ErrZeroDeposit rejects a deposit of a zero amount.
	ErrZeroDeposit = errors.New("vaultbank: zero deposit")

	// ErrBankCapExceeded rejects a deposit that would push the aggregate
	// custody above the bank cap.
	ErrBankCapExceeded = errors.New("vaultbank: bank cap exceeded")

	// ErrWithdrawalLimitExceeded rejects a withdrawal above the per-call limit.
	ErrWithdrawalLimitExceeded = errors.New("vaultbank: withdrawal limit exceeded")

	// ErrInsufficientVaultBalance rejects a withdrawal above the account balance.
	ErrInsufficientVaultBalance = errors.New("vaultbank: insufficient vault balance")

	// ErrTransferFailed reports that the outbound transfer capability failed.
	// The withdrawal's state changes have been rolled back.
	ErrTransferFailed = errors.New("vaultbank: native transfer failed")

	// ErrReentrancy rejects a mutating call made while another mutating call
	// on the same bank is in progress.
	ErrReentrancy = errors.New("vaultbank: reentrant call")

	// Store errors
	ErrNotFound    = errors.New("vaultbank: not found")
	ErrStoreClosed = errors.New("vaultbank: store is closed")
)

// BankCapExceededError carries the aggregate total a deposit attempted to
// reach and the configured cap. errors.Is(err, ErrBankCapExceeded) matches.
type BankCapExceededError struct {
	AttemptedTotal types.Amount
	BankCap        types.Amount
}

func (e *BankCapExceededError) Error() string {
	return fmt.Sprintf("vaultbank: bank cap exceeded: attempted total %s over cap %s",
		e.AttemptedTotal, e.BankCap)
}

func (e *BankCapExceededError) Unwrap() error { return ErrBankCapExceeded }

// WithdrawalLimitExceededError carries the requested amount and the
// per-withdrawal limit. errors.Is(err, ErrWithdrawalLimitExceeded) matches.
type WithdrawalLimitExceededError struct {
	Requested types.Amount
	Limit     types.Amount
}

func (e *WithdrawalLimitExceededError) Error() string {
	return fmt.Sprintf("vaultbank: withdrawal limit exceeded: requested %s over limit %s",
		e.Requested, e.Limit)
}

func (e *WithdrawalLimitExceededError) Unwrap() error { return ErrWithdrawalLimitExceeded }

// InsufficientVaultBalanceError carries the requested amount and the
// available balance. errors.Is(err, ErrInsufficientVaultBalance) matches.
type InsufficientVaultBalanceError struct {
	Requested types.Amount
	Available types.Amount
}

func (e *InsufficientVaultBalanceError) Error() string {
	return fmt.Sprintf("vaultbank: insufficient vault balance: requested %s, available %s",
		e.Requested, e.Available)
}

func (e *InsufficientVaultBalanceError) Unwrap() error { return ErrInsufficientVaultBalance }

// TransferFailedError carries the account and amount of a failed outbound
// transfer. errors.Is(err, ErrTransferFailed) matches; Cause holds the
// transferor's own error when it reported one.
type TransferFailedError struct {
	Account id.AccountID
	Amount  types.Amount
	Cause   error
}

func (e *TransferFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vaultbank: native transfer of %s to %s failed: %v",
			e.Amount, e.Account, e.Cause)
	}
	return fmt.Sprintf("vaultbank: native transfer of %s to %s failed", e.Amount, e.Account)
}

func (e *TransferFailedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTransferFailed, e.Cause}
	}
	return []error{ErrTransferFailed}
}

// IsRejection returns true if the error is one of the ledger's terminal
// call rejections (as opposed to arithmetic or store plumbing errors).
func IsRejection(err error) bool {
	return errors.Is(err, ErrZeroDeposit) ||
		errors.Is(err, ErrBankCapExceeded) ||
		errors.Is(err, ErrWithdrawalLimitExceeded) ||
		errors.Is(err, ErrInsufficientVaultBalance) ||
		errors.Is(err, ErrTransferFailed) ||
		errors.Is(err, ErrReentrancy)
}
