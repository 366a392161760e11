package extension

// Config holds the vault bank extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.vaultbank" or "vaultbank" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// WithdrawalLimit is the per-call withdrawal ceiling as a decimal string.
	WithdrawalLimit string `json:"withdrawal_limit" mapstructure:"withdrawal_limit" yaml:"withdrawal_limit"`

	// BankCap is the aggregate custody ceiling as a decimal string.
	BankCap string `json:"bank_cap" mapstructure:"bank_cap" yaml:"bank_cap"`

	// InitialDepositAccount is the account credited with InitialDeposit when
	// the bank starts. Both fields must be set together.
	InitialDepositAccount string `json:"initial_deposit_account" mapstructure:"initial_deposit_account" yaml:"initial_deposit_account"`

	// InitialDeposit is the amount credited to InitialDepositAccount on start,
	// as a decimal string.
	InitialDeposit string `json:"initial_deposit" mapstructure:"initial_deposit" yaml:"initial_deposit"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults. The zero limits are
// placeholders; real deployments configure both via YAML or options.
func DefaultConfig() Config {
	return Config{
		WithdrawalLimit: "0",
		BankCap:         "0",
	}
}
