package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/types"
	"github.com/xraph/vaultbank/vault"
)

// Amounts are stored as NUMERIC decimal strings so the full 256-bit range
// survives the round trip through the driver.

// ==================== Vault models ====================

type vaultModel struct {
	grove.BaseModel `grove:"table:vaultbank_vaults"`

	Account         string    `grove:"account,pk"`
	Balance         string    `grove:"balance"`
	DepositCount    uint64    `grove:"deposit_count"`
	WithdrawalCount uint64    `grove:"withdrawal_count"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toVaultModel(v *vault.Vault) *vaultModel {
	return &vaultModel{
		Account:         v.Account.String(),
		Balance:         v.Balance.String(),
		DepositCount:    v.DepositCount,
		WithdrawalCount: v.WithdrawalCount,
		UpdatedAt:       v.UpdatedAt,
	}
}

func fromVaultModel(m *vaultModel) (*vault.Vault, error) {
	account, err := id.ParseAccountID(m.Account)
	if err != nil {
		return nil, err
	}
	balance, err := types.ParseAmount(m.Balance)
	if err != nil {
		return nil, err
	}

	return &vault.Vault{
		Account:         account,
		Balance:         balance,
		DepositCount:    m.DepositCount,
		WithdrawalCount: m.WithdrawalCount,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// ==================== Journal models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:vaultbank_journal"`

	ID        string    `grove:"id,pk"`
	Account   string    `grove:"account"`
	Direction string    `grove:"direction"`
	Amount    string    `grove:"amount"`
	Timestamp time.Time `grove:"timestamp"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	return &entryModel{
		ID:        e.ID.String(),
		Account:   e.Account.String(),
		Direction: string(e.Direction),
		Amount:    e.Amount.String(),
		Timestamp: e.Timestamp,
	}
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	entryID, err := id.ParseEntryID(m.ID)
	if err != nil {
		return nil, err
	}
	account, err := id.ParseAccountID(m.Account)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, err
	}

	return &journal.Entry{
		ID:        entryID,
		Account:   account,
		Direction: journal.Direction(m.Direction),
		Amount:    amount,
		Timestamp: m.Timestamp,
	}, nil
}
