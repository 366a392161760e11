// Package observability provides a metrics extension for the vault bank that
// records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/vaultbank/id"
	"github.com/xraph/vaultbank/journal"
	"github.com/xraph/vaultbank/plugin"
	"github.com/xraph/vaultbank/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin           = (*MetricsExtension)(nil)
	_ plugin.OnInit           = (*MetricsExtension)(nil)
	_ plugin.OnDeposited      = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawn      = (*MetricsExtension)(nil)
	_ plugin.OnCapExceeded    = (*MetricsExtension)(nil)
	_ plugin.OnTransferFailed = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a bank plugin to automatically track ledger metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Deposit metrics
	Deposits      Counter
	DepositAmount Histogram

	// Withdrawal metrics
	Withdrawals      Counter
	WithdrawalAmount Histogram

	// Rejection metrics
	CapRejections    Counter
	TransferFailures Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Deposit metrics
		Deposits:      factory.Counter("vaultbank.deposit.committed"),
		DepositAmount: factory.Histogram("vaultbank.deposit.amount"),

		// Withdrawal metrics
		Withdrawals:      factory.Counter("vaultbank.withdrawal.committed"),
		WithdrawalAmount: factory.Histogram("vaultbank.withdrawal.amount"),

		// Rejection metrics
		CapRejections:    factory.Counter("vaultbank.deposit.cap_rejected"),
		TransferFailures: factory.Counter("vaultbank.withdrawal.transfer_failed"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnDeposited implements plugin.OnDeposited.
func (m *MetricsExtension) OnDeposited(_ context.Context, entry *journal.Entry) error {
	m.Deposits.Inc()
	m.DepositAmount.Observe(amountValue(entry.Amount))
	return nil
}

// OnWithdrawn implements plugin.OnWithdrawn.
func (m *MetricsExtension) OnWithdrawn(_ context.Context, entry *journal.Entry) error {
	m.Withdrawals.Inc()
	m.WithdrawalAmount.Observe(amountValue(entry.Amount))
	return nil
}

// OnCapExceeded implements plugin.OnCapExceeded.
func (m *MetricsExtension) OnCapExceeded(_ context.Context, _ id.AccountID, _, _ types.Amount) error {
	m.CapRejections.Inc()
	return nil
}

// OnTransferFailed implements plugin.OnTransferFailed.
func (m *MetricsExtension) OnTransferFailed(_ context.Context, _ id.AccountID, _ types.Amount) error {
	m.TransferFailures.Inc()
	return nil
}

// amountValue converts an amount to a float64 observation. Amounts past the
// uint64 range saturate rather than wrap.
func amountValue(a types.Amount) float64 {
	v, ok := a.Uint64()
	if !ok {
		return float64(^uint64(0))
	}
	return float64(v)
}
