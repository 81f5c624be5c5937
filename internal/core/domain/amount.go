package domain

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// BasisPoints is the denominator of every rate: 10000 bps = 100%.
	BasisPoints = 10000
	// DefaultTokenDecimals is the precision of ERC20-like tokens.
	DefaultTokenDecimals = 18
)

var basisPoints = uint256.NewInt(BasisPoints)

// ZeroAmount returns a newly allocated zero amount.
func ZeroAmount() *uint256.Int {
	return new(uint256.Int)
}

// IsValidRate returns whether the given rate, expressed in basis points, is
// in range [0, 10000].
func IsValidRate(rate uint32) bool {
	return rate <= BasisPoints
}

// ApplyRate returns floor(amount * rate / 10000). The intermediate product is
// computed on 512 bits so it can never overflow.
func ApplyRate(amount *uint256.Int, rate uint32) (*uint256.Int, error) {
	if amount == nil {
		return nil, ErrInvalidAmount
	}
	if !IsValidRate(rate) {
		return nil, ErrInvalidRate
	}
	fee, overflow := new(uint256.Int).MulDivOverflow(
		amount, uint256.NewInt(uint64(rate)), basisPoints,
	)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return fee, nil
}

// AddAmount returns x + y or ErrArithmeticOverflow.
func AddAmount(x, y *uint256.Int) (*uint256.Int, error) {
	if x == nil || y == nil {
		return nil, ErrInvalidAmount
	}
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return sum, nil
}

// SubAmount returns x - y or ErrArithmeticOverflow if y > x.
func SubAmount(x, y *uint256.Int) (*uint256.Int, error) {
	if x == nil || y == nil {
		return nil, ErrInvalidAmount
	}
	diff, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return diff, nil
}

// SumAmounts returns the sum of all the given amounts.
func SumAmounts(amounts []*uint256.Int) (*uint256.Int, error) {
	total := ZeroAmount()
	for i, a := range amounts {
		sum, err := AddAmount(total, a)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		total = sum
	}
	return total, nil
}

// ParseAmount converts a human readable amount like "8000.5" into base units
// of a token with the given decimals.
func ParseAmount(s string, decimals int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount)
	}
	units := d.Shift(decimals)
	if !units.IsInteger() {
		return nil, fmt.Errorf(
			"%w: amount has more than %d decimals", ErrInvalidAmount, decimals,
		)
	}
	amount, overflow := uint256.FromBig(units.BigInt())
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return amount, nil
}

// FormatAmount is the inverse of ParseAmount.
func FormatAmount(amount *uint256.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount.ToBig(), -decimals).String()
}
