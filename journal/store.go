package journal

import (
	"context"
	"time"

	"github.com/xraph/vaultbank/id"
)

// Store is the persistence sub-interface for journal entries.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, account id.AccountID, opts ListOpts) ([]*Entry, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// ListOpts filters and paginates journal queries.
type ListOpts struct {
	Direction Direction
	Start     time.Time
	End       time.Time
	Limit     int
	Offset    int
}
