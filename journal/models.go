// Package journal defines the immutable record of completed deposits and
// withdrawals.
package journal

import (
	"time"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/types"
)

// Direction classifies a journal entry.
type Direction string

const (
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

// Entry records one completed balance mutation. Entries are written after
// the mutation commits, in call completion order, and are never updated.
type Entry struct {
	ID        id.EntryID   `json:"id"`
	Account   id.AccountID `json:"account"`
	Direction Direction    `json:"direction"`
	Amount    types.Amount `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
}
