package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Asset references a single item of a collection.
type Asset struct {
	Contract common.Address
	TokenID  uint64
}

func (a Asset) Key() string {
	return fmt.Sprintf("%s:%d", a.Contract.Hex(), a.TokenID)
}

func (a Asset) String() string {
	return a.Key()
}

// RoyaltyInfo is what the asset registry returns for an asset at the time
// of the call.
type RoyaltyInfo struct {
	Receiver common.Address
	// Rate expressed in basis points.
	Rate uint32
}

func (i RoyaltyInfo) Validate() error {
	if !IsValidRate(i.Rate) {
		return ErrInvalidRate
	}
	return nil
}

// RoyaltyQuote is the split of a gross amount between the royalty receiver
// and the rest. RoyaltyFee + Remaining always equals the gross amount.
type RoyaltyQuote struct {
	Receiver   common.Address
	RoyaltyFee *uint256.Int
	Remaining  *uint256.Int
}

// NewRoyaltyQuote rounds the royalty fee down, the remainder goes to
// Remaining.
func NewRoyaltyQuote(info RoyaltyInfo, gross *uint256.Int) (*RoyaltyQuote, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	fee, remaining, err := splitAmount(gross, info.Rate)
	if err != nil {
		return nil, err
	}
	return &RoyaltyQuote{
		Receiver:   info.Receiver,
		RoyaltyFee: fee,
		Remaining:  remaining,
	}, nil
}

// BuyOrderQuote holds, index by index, the royalty fee, the platform fee and
// what's left for each of the bids of a buy order.
type BuyOrderQuote struct {
	Receiver     common.Address
	RoyaltyFees  []*uint256.Int
	PlatformFees []*uint256.Int
	Remaining    []*uint256.Int
}

// NewBuyOrderQuote applies the same royalty info and platform fee rate to
// every amount.
func NewBuyOrderQuote(
	info RoyaltyInfo, platformRate uint32, amounts []*uint256.Int,
) (*BuyOrderQuote, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if !IsValidRate(platformRate) || info.Rate+platformRate > BasisPoints {
		return nil, ErrInvalidRate
	}

	quote := &BuyOrderQuote{
		Receiver:     info.Receiver,
		RoyaltyFees:  make([]*uint256.Int, 0, len(amounts)),
		PlatformFees: make([]*uint256.Int, 0, len(amounts)),
		Remaining:    make([]*uint256.Int, 0, len(amounts)),
	}
	for i, amount := range amounts {
		royaltyFee, afterRoyalty, err := splitAmount(amount, info.Rate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		platformFee, err := ApplyRate(amount, platformRate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		remaining, err := SubAmount(afterRoyalty, platformFee)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		quote.RoyaltyFees = append(quote.RoyaltyFees, royaltyFee)
		quote.PlatformFees = append(quote.PlatformFees, platformFee)
		quote.Remaining = append(quote.Remaining, remaining)
	}
	return quote, nil
}

// SellOrderQuote holds the total royalty owed for a sell order filled by
// many orders, and what's left for each of them.
type SellOrderQuote struct {
	Receiver     common.Address
	RoyaltyTotal *uint256.Int
	Remaining    []*uint256.Int
}

// NewSellOrderQuote computes the royalty of every amount separately, so the
// total is the sum of the floored fees, not the fee of the sum.
func NewSellOrderQuote(
	info RoyaltyInfo, amounts []*uint256.Int,
) (*SellOrderQuote, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	quote := &SellOrderQuote{
		Receiver:     info.Receiver,
		RoyaltyTotal: ZeroAmount(),
		Remaining:    make([]*uint256.Int, 0, len(amounts)),
	}
	for i, amount := range amounts {
		fee, remaining, err := splitAmount(amount, info.Rate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		total, err := AddAmount(quote.RoyaltyTotal, fee)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		quote.RoyaltyTotal = total
		quote.Remaining = append(quote.Remaining, remaining)
	}
	return quote, nil
}

// splitAmount returns floor(amount * rate / 10000) and the remainder.
func splitAmount(amount *uint256.Int, rate uint32) (fee, remaining *uint256.Int, err error) {
	fee, err = ApplyRate(amount, rate)
	if err != nil {
		return nil, nil, err
	}
	remaining, err = SubAmount(amount, fee)
	if err != nil {
		return nil, nil, err
	}
	return fee, remaining, nil
}
