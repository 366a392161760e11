package vault

import (
	"context"

	"github.com/xraph/vaultbank/id"
)

// Store is the persistence sub-interface for vault records.
type Store interface {
	Upsert(ctx context.Context, v *Vault) error
	Get(ctx context.Context, account id.AccountID) (*Vault, error)
	List(ctx context.Context) ([]*Vault, error)
}
