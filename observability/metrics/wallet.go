package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// WalletMetrics aggregates the counters exported by the wallet core.
type WalletMetrics struct {
	opsValidated  *prometheus.CounterVec
	transfers     prometheus.Counter
	swaps         *prometheus.CounterVec
	feeRejections *prometheus.CounterVec
}

var (
	walletOnce     sync.Once
	walletRegistry *WalletMetrics
)

// Wallet returns the process-wide wallet metrics registry.
func Wallet() *WalletMetrics {
	walletOnce.Do(func() {
		walletRegistry = &WalletMetrics{
			opsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_operations_validated_total",
				Help: "Count of operation validations by outcome.",
			}, []string{"outcome"}),
			transfers: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "wallet_transfers_executed_total",
				Help: "Count of completed fee-deducted token transfers.",
			}),
			swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_swaps_total",
				Help: "Count of swap attempts by result.",
			}, []string{"result"}),
			feeRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_fee_rejections_total",
				Help: "Count of fee computations rejected by reason.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(
			walletRegistry.opsValidated,
			walletRegistry.transfers,
			walletRegistry.swaps,
			walletRegistry.feeRejections,
		)
	})
	return walletRegistry
}

// ObserveValidation records one validation outcome.
func (m *WalletMetrics) ObserveValidation(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.opsValidated.WithLabelValues(outcome).Inc()
}

// ObserveTransfer records one completed transfer.
func (m *WalletMetrics) ObserveTransfer() {
	if m == nil {
		return
	}
	m.transfers.Inc()
}

// ObserveSwap records one swap attempt by result.
func (m *WalletMetrics) ObserveSwap(result string) {
	if m == nil {
		return
	}
	if result == "" {
		result = "unknown"
	}
	m.swaps.WithLabelValues(result).Inc()
}

// ObserveFeeRejection records one rejected fee computation by reason.
func (m *WalletMetrics) ObserveFeeRejection(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.feeRejections.WithLabelValues(reason).Inc()
}
