package vaultbank

import (
	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/types"
)

// Re-export common types for convenience so users don't have to import the
// types and id packages.

// Amount is re-exported from the types package.
type Amount = types.Amount

// AccountID is re-exported from the id package.
type AccountID = id.AccountID

// Re-export Amount constructors
var (
	NewAmount       = types.NewAmount
	ParseAmount     = types.ParseAmount
	MustParseAmount = types.MustParseAmount
	ZeroAmount      = types.Zero
	SumAmounts      = types.Sum
)

// Re-export account ID constructors
var (
	NewAccountID   = id.NewAccountID
	ParseAccountID = id.ParseAccountID
)
