// Package extension provides the Forge extension adapter for the vault bank.
//
// It implements the forge.Extension interface to integrate the bank
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.vaultbank" or
// "vaultbank" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	vaultbank "github.com/xraph/vaultbank"
	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/store"
	"github.com/xraph/vaultbank/store/memory"
	"github.com/xraph/vaultbank/transfer"
	"github.com/xraph/vaultbank/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "vaultbank"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Capped custodial vault ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the vault bank as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *vaultbank.Bank
	store      store.Store
	transferor transfer.Transferor
	bankOpts   []vaultbank.Option
}

// New creates a new vault bank Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Bank instance.
// This is nil until Register is called.
func (e *Extension) Engine() *vaultbank.Bank { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the bank engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// A bank without an outbound rail still works for deposits and reads;
	// Discard accepts every send.
	if e.transferor == nil {
		e.transferor = transfer.Discard()
	}

	withdrawalLimit, err := types.ParseAmount(e.config.WithdrawalLimit)
	if err != nil {
		return fmt.Errorf("vaultbank: invalid withdrawal_limit: %w", err)
	}
	bankCap, err := types.ParseAmount(e.config.BankCap)
	if err != nil {
		return fmt.Errorf("vaultbank: invalid bank_cap: %w", err)
	}

	opts, err := e.buildBankOpts()
	if err != nil {
		return err
	}

	eng := vaultbank.New(e.store, e.transferor, withdrawalLimit, bankCap, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*vaultbank.Bank, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("vaultbank: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("vaultbank: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildBankOpts constructs vaultbank.Option values from the resolved config.
func (e *Extension) buildBankOpts() ([]vaultbank.Option, error) {
	opts := make([]vaultbank.Option, 0, len(e.bankOpts)+1)

	if e.config.InitialDepositAccount != "" || e.config.InitialDeposit != "" {
		account, err := id.ParseAccountID(e.config.InitialDepositAccount)
		if err != nil {
			return nil, fmt.Errorf("vaultbank: invalid initial_deposit_account: %w", err)
		}
		amount, err := types.ParseAmount(e.config.InitialDeposit)
		if err != nil {
			return nil, fmt.Errorf("vaultbank: invalid initial_deposit: %w", err)
		}
		opts = append(opts, vaultbank.WithInitialDeposit(account, amount))
	}

	// Append any pass-through bank options.
	opts = append(opts, e.bankOpts...)

	return opts, nil
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("vaultbank: configuration is required but not found in config files; " +
				"ensure 'extensions.vaultbank' or 'vaultbank' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("vaultbank: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("withdrawal_limit", e.config.WithdrawalLimit),
		forge.F("bank_cap", e.config.BankCap),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.vaultbank" first (namespaced pattern).
	if cm.IsSet("extensions.vaultbank") {
		if err := cm.Bind("extensions.vaultbank", &cfg); err == nil {
			e.Logger().Debug("vaultbank: loaded config from file",
				forge.F("key", "extensions.vaultbank"),
			)
			return cfg, true
		}
		e.Logger().Warn("vaultbank: failed to bind extensions.vaultbank config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "vaultbank" key.
	if cm.IsSet("vaultbank") {
		if err := cm.Bind("vaultbank", &cfg); err == nil {
			e.Logger().Debug("vaultbank: loaded config from file",
				forge.F("key", "vaultbank"),
			)
			return cfg, true
		}
		e.Logger().Warn("vaultbank: failed to bind vaultbank config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.WithdrawalLimit == "" {
		cfg.WithdrawalLimit = defaults.WithdrawalLimit
	}
	if cfg.BankCap == "" {
		cfg.BankCap = defaults.BankCap
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.WithdrawalLimit == "" && programmaticConfig.WithdrawalLimit != "" {
		yamlConfig.WithdrawalLimit = programmaticConfig.WithdrawalLimit
	}
	if yamlConfig.BankCap == "" && programmaticConfig.BankCap != "" {
		yamlConfig.BankCap = programmaticConfig.BankCap
	}
	if yamlConfig.InitialDepositAccount == "" && programmaticConfig.InitialDepositAccount != "" {
		yamlConfig.InitialDepositAccount = programmaticConfig.InitialDepositAccount
	}
	if yamlConfig.InitialDeposit == "" && programmaticConfig.InitialDeposit != "" {
		yamlConfig.InitialDeposit = programmaticConfig.InitialDeposit
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
