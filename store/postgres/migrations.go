package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the vault bank store.
var Migrations = migrate.NewGroup("vaultbank")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_vaultbank_vaults",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS vaultbank_vaults (
    account          TEXT PRIMARY KEY,
    balance          NUMERIC(78, 0) NOT NULL DEFAULT 0,
    deposit_count    BIGINT NOT NULL DEFAULT 0,
    withdrawal_count BIGINT NOT NULL DEFAULT 0,
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS vaultbank_vaults`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_vaultbank_journal",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS vaultbank_journal (
    id        TEXT PRIMARY KEY,
    account   TEXT NOT NULL DEFAULT '',
    direction TEXT NOT NULL DEFAULT '',
    amount    NUMERIC(78, 0) NOT NULL DEFAULT 0,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_vaultbank_journal_account ON vaultbank_journal (account, timestamp);
CREATE INDEX IF NOT EXISTS idx_vaultbank_journal_timestamp ON vaultbank_journal (timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS vaultbank_journal`)
				return err
			},
		},
	)
}
