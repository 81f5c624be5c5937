package application

import (
	"errors"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeRejected     = "rejected"
	outcomeFailed       = "failed"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "royalty_ledger_operations_total",
			Help: "Total number of mutating ledger operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	MovedAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "royalty_ledger_moved_amount_total",
			Help: "Approximate total of base units moved by successful operations",
		},
		[]string{"operation"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "royalty_ledger_operation_duration_seconds",
			Help:    "Duration of mutating ledger operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// observe records the outcome of an operation started at start that moved
// the given amounts.
func observe(
	operation string, start time.Time, err error, amounts ...*uint256.Int,
) {
	OperationDuration.WithLabelValues(operation).Observe(
		time.Since(start).Seconds(),
	)
	OperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
	if err != nil {
		return
	}

	total, _ := domain.SumAmounts(amounts)
	if total == nil || total.IsZero() {
		return
	}
	value, _ := new(big.Float).SetInt(total.ToBig()).Float64()
	MovedAmountTotal.WithLabelValues(operation).Add(value)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, domain.ErrUnauthorized):
		return outcomeUnauthorized
	case errors.Is(err, domain.ErrInsufficientEscrow),
		errors.Is(err, domain.ErrLengthMismatch),
		errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnsupportedToken),
		errors.Is(err, domain.ErrAmbiguousOrderToken),
		errors.Is(err, domain.ErrArithmeticOverflow):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
