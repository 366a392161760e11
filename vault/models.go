// Package vault defines the per-account balance record.
package vault

import (
	"time"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/types"
)

// Vault is a single account's tracked balance within the bank, together
// with its observability counters. The bank's in-memory state is the
// authority; stored vault rows are write-behind copies used for restart
// hydration and reporting.
type Vault struct {
	Account         id.AccountID `json:"account"`
	Balance         types.Amount `json:"balance"`
	DepositCount    uint64       `json:"deposit_count"`
	WithdrawalCount uint64       `json:"withdrawal_count"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Clone returns a copy of the vault record.
func (v *Vault) Clone() *Vault {
	cp := *v
	return &cp
}
