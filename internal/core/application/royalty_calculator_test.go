package application_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/application"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

func TestPayableRoyalties(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	quote, err := l.manager.PayableRoyalties(ctx, asset, tokens(8000))
	require.NoError(t, err)
	require.Equal(t, creator, quote.Receiver)
	require.Equal(t, tokens(160).Dec(), quote.RoyaltyFee.Dec())
	require.Equal(t, tokens(7840).Dec(), quote.Remaining.Dec())
}

func TestBuyOrderRoyalties(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	quote, err := l.manager.BuyOrderRoyalties(ctx, asset, amounts(10000, 9000))
	require.NoError(t, err)
	require.Equal(t, creator, quote.Receiver)
	require.Equal(t, decs(amounts(200, 180)), decs(quote.RoyaltyFees))
	require.Equal(t, decs(amounts(30, 27)), decs(quote.PlatformFees))
	require.Equal(t, decs(amounts(9770, 8793)), decs(quote.Remaining))
}

func TestSellOrderRoyalties(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	quote, err := l.manager.SellOrderRoyalties(ctx, asset, amounts(10000, 10000))
	require.NoError(t, err)
	require.Equal(t, creator, quote.Receiver)
	require.Equal(t, tokens(400).Dec(), quote.RoyaltyTotal.Dec())
	require.Equal(t, decs(amounts(9800, 9800)), decs(quote.Remaining))
}

func TestFailingQuotes(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	unknown := domain.Asset{Contract: collection, TokenID: 99}

	_, err := l.manager.PayableRoyalties(ctx, unknown, tokens(1))
	require.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = l.manager.BuyOrderRoyalties(ctx, unknown, amounts(1))
	require.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = l.manager.SellOrderRoyalties(ctx, unknown, amounts(1))
	require.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = l.manager.PayableRoyalties(ctx, asset, nil)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRoyaltyInfoLookups(t *testing.T) {
	t.Parallel()

	reg := &mockAssetRegistry{}
	reg.On("RoyaltyInfo", mock.Anything, asset).
		Return(&domain.RoyaltyInfo{Receiver: creator, Rate: royaltyRate}, nil)

	l := newTestLedger(t)
	calculator, err := application.NewRoyaltyCalculatorService(reg, l.feeEscrow)
	require.NoError(t, err)

	// Batches resolve the royalty info once.
	_, err = calculator.BuyOrderRoyalties(ctx, asset, amounts(1, 2, 3))
	require.NoError(t, err)
	reg.AssertNumberOfCalls(t, "RoyaltyInfo", 1)

	_, err = calculator.SellOrderRoyalties(ctx, asset, amounts(1, 2, 3))
	require.NoError(t, err)
	reg.AssertNumberOfCalls(t, "RoyaltyInfo", 2)

	// Nothing is cached between calls.
	_, err = calculator.PayableRoyalty(ctx, asset, tokens(1))
	require.NoError(t, err)
	_, err = calculator.PayableRoyalty(ctx, asset, tokens(1))
	require.NoError(t, err)
	reg.AssertNumberOfCalls(t, "RoyaltyInfo", 4)
}

func TestRegistryChangesApplyProspectively(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	quote, err := l.manager.PayableRoyalties(ctx, asset, tokens(100))
	require.NoError(t, err)
	require.Equal(t, tokens(2).Dec(), quote.RoyaltyFee.Dec())

	require.NoError(t, l.registry.Set(asset, domain.RoyaltyInfo{
		Receiver: player, Rate: 1000,
	}))

	quote, err = l.manager.PayableRoyalties(ctx, asset, tokens(100))
	require.NoError(t, err)
	require.Equal(t, player, quote.Receiver)
	require.Equal(t, tokens(10).Dec(), quote.RoyaltyFee.Dec())
}

func TestPlatformFee(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	calculator, err := application.NewRoyaltyCalculatorService(l.registry, l.feeEscrow)
	require.NoError(t, err)

	fee, remaining, err := calculator.PlatformFee(ctx, tokens(10000))
	require.NoError(t, err)
	require.Equal(t, tokens(30).Dec(), fee.Dec())
	require.Equal(t, tokens(9970).Dec(), remaining.Dec())

	fee, remaining, err = calculator.PlatformFee(ctx, uint256.NewInt(333))
	require.NoError(t, err)
	require.Equal(t, "0", fee.Dec())
	require.Equal(t, "333", remaining.Dec())
}

func TestBuyOrderCombinedRateTooHigh(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.registry.Set(asset, domain.RoyaltyInfo{
		Receiver: creator, Rate: domain.BasisPoints,
	}))

	_, err := l.manager.BuyOrderRoyalties(ctx, asset, amounts(1))
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	// Sell orders don't pay the platform fee.
	quote, err := l.manager.SellOrderRoyalties(ctx, asset, amounts(1))
	require.NoError(t, err)
	require.Equal(t, tokens(1).Dec(), quote.RoyaltyTotal.Dec())
}
