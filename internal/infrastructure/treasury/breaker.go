package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
	"github.com/tdex-network/royalty-ledger/pkg/circuitbreaker"
)

// BreakerTreasury guards a treasury with a circuit breaker. Once open, every
// transfer fails fast with domain.ErrTransferFailed without reaching the
// wrapped treasury. Transfers rejected for lack of funds or by the caller's
// context are returned as they are and leave the breaker untouched.
type BreakerTreasury struct {
	treasury ports.Treasury
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerTreasury wraps treasury with a breaker tripping after more than
// maxFailures requests with a failure ratio of at least failingRatio. Zero
// values fall back to the defaults of pkg/circuitbreaker.
func NewBreakerTreasury(
	treasury ports.Treasury, maxFailures int, failingRatio float64,
) (*BreakerTreasury, error) {
	if treasury == nil {
		return nil, fmt.Errorf("missing treasury")
	}
	if maxFailures <= 0 {
		maxFailures = circuitbreaker.MaxNumOfFailingRequests
	}
	if failingRatio <= 0 {
		failingRatio = circuitbreaker.FailingRatio
	}
	if failingRatio > 1 {
		return nil, fmt.Errorf("failing ratio must be in range (0, 1]")
	}

	cb := circuitbreaker.NewCircuitBreakerWithSettings(
		"treasury", maxFailures, failingRatio,
	)
	return &BreakerTreasury{treasury, cb}, nil
}

var _ ports.Treasury = (*BreakerTreasury)(nil)

func (t *BreakerTreasury) TransferIn(
	ctx context.Context, token, from common.Address, amount *uint256.Int,
) error {
	return t.execute(func() error {
		return t.treasury.TransferIn(ctx, token, from, amount)
	})
}

func (t *BreakerTreasury) TransferOut(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) error {
	return t.execute(func() error {
		return t.treasury.TransferOut(ctx, token, to, amount)
	})
}

func (t *BreakerTreasury) State() gobreaker.State {
	return t.cb.State()
}

func (t *BreakerTreasury) execute(transfer func() error) error {
	res, err := t.cb.Execute(func() (interface{}, error) {
		err := transfer()
		if isRejection(err) {
			return err, nil
		}
		return nil, err
	})
	if err == nil {
		if rejection, ok := res.(error); ok {
			return rejection
		}
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	return err
}

// isRejection tells whether the treasury refused a transfer that can't be
// honored, as opposed to failing to serve it. Rejections don't count toward
// opening the breaker.
func isRejection(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
