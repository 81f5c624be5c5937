package application

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

// RoyaltyCalculatorService quotes royalties and platform fees. It never
// changes the state of the ledger. Royalty info is looked up on every call.
type RoyaltyCalculatorService interface {
	PayableRoyalty(
		ctx context.Context, asset domain.Asset, gross *uint256.Int,
	) (*domain.RoyaltyQuote, error)
	BuyOrderRoyalties(
		ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
	) (*domain.BuyOrderQuote, error)
	SellOrderRoyalties(
		ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
	) (*domain.SellOrderQuote, error)
	// PlatformFee returns the platform fee due for gross and what's left.
	PlatformFee(
		ctx context.Context, gross *uint256.Int,
	) (fee, remaining *uint256.Int, err error)
}

// FeeRateSource returns the current platform fee rate.
type FeeRateSource interface {
	Rate(ctx context.Context) (uint32, error)
}

type royaltyCalculatorService struct {
	registry ports.AssetRegistry
	rates    FeeRateSource
}

func NewRoyaltyCalculatorService(
	registry ports.AssetRegistry, rates FeeRateSource,
) (RoyaltyCalculatorService, error) {
	if registry == nil {
		return nil, fmt.Errorf("missing asset registry")
	}
	if rates == nil {
		return nil, fmt.Errorf("missing fee rate source")
	}
	return &royaltyCalculatorService{registry, rates}, nil
}

func (s *royaltyCalculatorService) PayableRoyalty(
	ctx context.Context, asset domain.Asset, gross *uint256.Int,
) (*domain.RoyaltyQuote, error) {
	info, err := s.royaltyInfo(ctx, asset)
	if err != nil {
		return nil, err
	}
	return domain.NewRoyaltyQuote(*info, gross)
}

func (s *royaltyCalculatorService) BuyOrderRoyalties(
	ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
) (*domain.BuyOrderQuote, error) {
	info, err := s.royaltyInfo(ctx, asset)
	if err != nil {
		return nil, err
	}
	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewBuyOrderQuote(*info, rate, amounts)
}

func (s *royaltyCalculatorService) SellOrderRoyalties(
	ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
) (*domain.SellOrderQuote, error) {
	info, err := s.royaltyInfo(ctx, asset)
	if err != nil {
		return nil, err
	}
	return domain.NewSellOrderQuote(*info, amounts)
}

func (s *royaltyCalculatorService) PlatformFee(
	ctx context.Context, gross *uint256.Int,
) (*uint256.Int, *uint256.Int, error) {
	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return nil, nil, err
	}
	fee, err := domain.ApplyRate(gross, rate)
	if err != nil {
		return nil, nil, err
	}
	remaining, err := domain.SubAmount(gross, fee)
	if err != nil {
		return nil, nil, err
	}
	return fee, remaining, nil
}

func (s *royaltyCalculatorService) royaltyInfo(
	ctx context.Context, asset domain.Asset,
) (*domain.RoyaltyInfo, error) {
	info, err := s.registry.RoyaltyInfo(ctx, asset)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAsset, asset)
	}
	return info, nil
}
