package extension

import (
	vaultbank "github.com/xraph/vaultbank"
	"github.com/xraph/vaultbank/plugin"
	"github.com/xraph/vaultbank/store"
	"github.com/xraph/vaultbank/transfer"
)

// Option configures the vault bank Forge extension.
type Option func(*Extension)

// WithStore sets the store for the bank engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithTransferor sets the outbound transfer capability.
func WithTransferor(t transfer.Transferor) Option {
	return func(e *Extension) {
		e.transferor = t
	}
}

// WithBankOption passes a vaultbank.Option through to the underlying engine.
func WithBankOption(opt vaultbank.Option) Option {
	return func(e *Extension) {
		e.bankOpts = append(e.bankOpts, opt)
	}
}

// WithPlugin registers a bank plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.bankOpts = append(e.bankOpts, vaultbank.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithLimits sets the withdrawal limit and bank cap as decimal strings.
func WithLimits(withdrawalLimit, bankCap string) Option {
	return func(e *Extension) {
		e.config.WithdrawalLimit = withdrawalLimit
		e.config.BankCap = bankCap
	}
}

// WithInitialDeposit credits an account when the bank starts.
func WithInitialDeposit(account, amount string) Option {
	return func(e *Extension) {
		e.config.InitialDepositAccount = account
		e.config.InitialDeposit = amount
	}
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
