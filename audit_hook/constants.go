package audithook

// Action constants for audit events.
const (
	// Deposit actions
	ActionDeposited   = "vault.deposited"
	ActionCapExceeded = "bank.cap_exceeded"

	// Withdrawal actions
	ActionWithdrawn      = "vault.withdrawn"
	ActionTransferFailed = "vault.transfer_failed"
)

// Resource constants for audit events.
const (
	ResourceVault = "vault"
	ResourceBank  = "bank"
)

// Category constants for audit events.
const (
	CategoryCustody = "custody"
	CategoryPayout  = "payout"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
