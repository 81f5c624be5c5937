package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// FeeRepository is the abstraction for any kind of database intended to
// persist the platform fees collected per token and the platform fee rate.
type FeeRepository interface {
	// GetFeeTotal returns the fees collected for a token, zero if none.
	GetFeeTotal(ctx context.Context, token common.Address) (*FeeTotal, error)
	// GetAllFeeTotals returns the fees collected for every token.
	GetAllFeeTotals(ctx context.Context) ([]FeeTotal, error)
	// UpdateFeeTotal updates the fees collected for a token.
	UpdateFeeTotal(
		ctx context.Context, token common.Address,
		updateFn func(f *FeeTotal) (*FeeTotal, error),
	) error
	// GetRate returns the platform fee rate in basis points. The boolean is
	// false if the rate was never set.
	GetRate(ctx context.Context) (uint32, bool, error)
	// UpdateRate stores the platform fee rate.
	UpdateRate(ctx context.Context, rate uint32) error
}
