package application_test

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/application"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

func TestOrderRoyaltiesAndFees(t *testing.T) {
	t.Parallel()

	for name, newRepo := range repoManagers {
		newRepo := newRepo
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newTestLedgerOn(t, newRepo, nil, allowAll())
			orderIDs := []uint64{1, 2}

			require.NoError(t, l.orderEscrow.DepositBatch(
				ctx, operator, rawr, orderIDs, player, amounts(5000, 5000),
			))
			require.NoError(t, l.manager.TransferRoyalties(
				ctx, operator, orderIDs, creator, amounts(100, 100),
			))
			require.NoError(t, l.manager.TransferPlatformFees(
				ctx, operator, rawr, orderIDs, amounts(15, 15),
			))

			for _, orderID := range orderIDs {
				balances, err := l.orderEscrow.BalanceByOrder(ctx, orderID)
				require.NoError(t, err)
				require.Equal(t, tokens(4885).Dec(), balances[rawr].Dec())
			}

			claimable, err := l.manager.ClaimableRoyalties(ctx, creator)
			require.NoError(t, err)
			require.Equal(t, tokens(200).Dec(), claimable[rawr].Dec())

			fees, err := l.feeEscrow.TotalFees(ctx, rawr)
			require.NoError(t, err)
			require.Equal(t, tokens(30).Dec(), fees.Dec())

			require.Equal(t, l.vault.CustodyBalance(rawr).Dec(), l.bookedTotal(t, rawr).Dec())
			require.Equal(t, tokens(10000).Dec(), l.bookedTotal(t, rawr).Dec())

			payouts, err := l.manager.ClaimRoyalties(ctx, operator, creator)
			require.NoError(t, err)
			require.Len(t, payouts, 1)
			require.Equal(t, tokens(200).Dec(), l.vault.BalanceOf(rawr, creator).Dec())
			require.Equal(t, l.vault.CustodyBalance(rawr).Dec(), l.bookedTotal(t, rawr).Dec())

			orderID := uint64(1)
			entries, err := l.orderEscrow.Journal(ctx, domain.JournalFilter{OrderID: &orderID})
			require.NoError(t, err)
			require.Len(t, entries, 3)
			require.Equal(t, domain.EntryDeposit, entries[0].Kind)
			require.Equal(t, domain.EntryRoyalty, entries[1].Kind)
			require.Equal(t, creator, entries[1].Owner)
			require.Equal(t, domain.EntryPlatformFee, entries[2].Kind)
		})
	}
}

func TestTransferRoyaltyFromOrder(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.orderEscrow.Deposit(ctx, operator, rawr, 1, player, tokens(8000)))

	quote, err := l.manager.PayableRoyalties(ctx, asset, tokens(8000))
	require.NoError(t, err)

	err = l.manager.TransferRoyaltyFromOrder(
		ctx, operator, 1, quote.Receiver, quote.RoyaltyFee,
	)
	require.NoError(t, err)

	balances, err := l.orderEscrow.BalanceByOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, quote.Remaining.Dec(), balances[rawr].Dec())

	claimable, err := l.manager.ClaimableRoyalties(ctx, creator)
	require.NoError(t, err)
	require.Equal(t, tokens(160).Dec(), claimable[rawr].Dec())
}

func TestFailingTransferRoyaltyFromOrder(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	_, err := l.orderEscrow.AddSupportedTokens(ctx, operator, weth)
	require.NoError(t, err)
	require.NoError(t, l.vault.Credit(weth, player, tokens(10)))

	err = l.manager.TransferRoyaltyFromOrder(ctx, operator, 1, creator, tokens(1))
	require.ErrorIs(t, err, domain.ErrInsufficientEscrow)

	require.NoError(t, l.orderEscrow.Deposit(ctx, operator, rawr, 1, player, tokens(5)))
	err = l.manager.TransferRoyaltyFromOrder(ctx, operator, 1, creator, tokens(6))
	require.ErrorIs(t, err, domain.ErrInsufficientEscrow)

	require.NoError(t, l.orderEscrow.Deposit(ctx, operator, weth, 1, player, tokens(5)))
	err = l.manager.TransferRoyaltyFromOrder(ctx, operator, 1, creator, tokens(1))
	require.ErrorIs(t, err, domain.ErrAmbiguousOrderToken)

	err = l.manager.TransferRoyaltyFromOrder(ctx, operator, 1, creator, nil)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	claimable, err := l.manager.ClaimableRoyalties(ctx, creator)
	require.NoError(t, err)
	require.Empty(t, claimable)
}

func TestTransferRoyaltiesIsAllOrNothing(t *testing.T) {
	t.Parallel()

	for name, newRepo := range repoManagers {
		newRepo := newRepo
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newTestLedgerOn(t, newRepo, nil, allowAll())
			require.NoError(t, l.orderEscrow.DepositBatch(
				ctx, operator, rawr, []uint64{1, 2}, player, amounts(5000, 50),
			))
			numEntries := len(journal(t, l))

			err := l.manager.TransferRoyalties(
				ctx, operator, []uint64{1, 2}, creator, amounts(100, 100),
			)
			require.ErrorIs(t, err, domain.ErrInsufficientEscrow)
			require.Contains(t, err.Error(), "item 1")

			err = l.manager.TransferRoyalties(
				ctx, operator, []uint64{1, 2}, creator, amounts(100),
			)
			require.ErrorIs(t, err, domain.ErrLengthMismatch)

			balances, err := l.orderEscrow.BalanceByOrder(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, tokens(5000).Dec(), balances[rawr].Dec())

			claimable, err := l.manager.ClaimableRoyalties(ctx, creator)
			require.NoError(t, err)
			require.Empty(t, claimable)
			require.Len(t, journal(t, l), numEntries)
		})
	}
}

func TestTransferPlatformFeesIsAllOrNothing(t *testing.T) {
	t.Parallel()

	for name, newRepo := range repoManagers {
		newRepo := newRepo
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newTestLedgerOn(t, newRepo, nil, allowAll())
			require.NoError(t, l.orderEscrow.DepositBatch(
				ctx, operator, rawr, []uint64{1, 2}, player, amounts(5000, 10),
			))

			err := l.manager.TransferPlatformFees(
				ctx, operator, rawr, []uint64{1, 2}, amounts(15, 15),
			)
			require.ErrorIs(t, err, domain.ErrInsufficientEscrow)

			err = l.manager.TransferPlatformFees(
				ctx, operator, rawr, []uint64{1}, amounts(15, 15),
			)
			require.ErrorIs(t, err, domain.ErrLengthMismatch)

			balances, err := l.orderEscrow.BalanceByOrder(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, tokens(5000).Dec(), balances[rawr].Dec())

			fees, err := l.feeEscrow.TotalFees(ctx, rawr)
			require.NoError(t, err)
			require.True(t, fees.IsZero())
		})
	}
}

func TestTransferPlatformFeeFromOrder(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.orderEscrow.Deposit(ctx, operator, rawr, 7, player, tokens(10000)))

	fee, _, err := calculatorOf(t, l).PlatformFee(ctx, tokens(10000))
	require.NoError(t, err)
	require.NoError(t, l.manager.TransferPlatformFeeFromOrder(ctx, operator, rawr, 7, fee))

	balances, err := l.orderEscrow.BalanceByOrder(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, tokens(9970).Dec(), balances[rawr].Dec())

	fees, err := l.feeEscrow.TotalFees(ctx, rawr)
	require.NoError(t, err)
	require.Equal(t, tokens(30).Dec(), fees.Dec())

	err = l.manager.TransferPlatformFeeFromOrder(ctx, operator, rawr, 7, tokens(9971))
	require.ErrorIs(t, err, domain.ErrInsufficientEscrow)
	require.Equal(t, l.vault.CustodyBalance(rawr).Dec(), l.bookedTotal(t, rawr).Dec())
}

func TestDirectTransfers(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	require.NoError(t, l.manager.TransferRoyalty(
		ctx, operator, player, rawr, creator, tokens(160),
	))
	require.NoError(t, l.manager.TransferPlatformFee(
		ctx, operator, player, rawr, tokens(24),
	))

	claimable, err := l.manager.ClaimableRoyalties(ctx, creator)
	require.NoError(t, err)
	require.Equal(t, tokens(160).Dec(), claimable[rawr].Dec())

	fees, err := l.feeEscrow.TotalFees(ctx, rawr)
	require.NoError(t, err)
	require.Equal(t, tokens(24).Dec(), fees.Dec())

	require.Equal(t, tokens(99816).Dec(), l.vault.BalanceOf(rawr, player).Dec())
	require.Equal(t, l.vault.CustodyBalance(rawr).Dec(), l.bookedTotal(t, rawr).Dec())

	err = l.manager.TransferRoyalty(ctx, operator, player, weth, creator, tokens(1))
	require.ErrorIs(t, err, domain.ErrUnsupportedToken)

	err = l.manager.TransferRoyalty(
		ctx, operator, player, rawr, creator, tokens(100000),
	)
	require.ErrorIs(t, err, domain.ErrTransferFailed)

	claimable, err = l.manager.ClaimableRoyalties(ctx, creator)
	require.NoError(t, err)
	require.Equal(t, tokens(160).Dec(), claimable[rawr].Dec())
}

func TestClaimRoyaltiesPaysOutPerToken(t *testing.T) {
	t.Parallel()

	for name, newRepo := range repoManagers {
		newRepo := newRepo
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			errDown := errors.New("weth bridge down")
			l := newTestLedgerOn(t, newRepo, nil, allowAll())
			tr := refusingTreasury{l.vault, weth, errDown}
			manager, err := application.NewRoyaltyManagerService(
				l.repo, tr, allowAll(), l.registry, platformRate,
			)
			require.NoError(t, err)

			require.NoError(t, l.vault.Credit(weth, player, tokens(100)))
			_, err = l.repo.TokenRepository().AddTokens(ctx, []common.Address{weth})
			require.NoError(t, err)

			require.NoError(t, manager.TransferRoyalty(
				ctx, operator, player, rawr, creator, tokens(10),
			))
			require.NoError(t, manager.TransferRoyalty(
				ctx, operator, player, weth, creator, tokens(20),
			))

			// rawr sorts before weth, so it is paid before the failure.
			payouts, err := manager.ClaimRoyalties(ctx, operator, creator)
			require.ErrorIs(t, err, domain.ErrTransferFailed)
			require.ErrorIs(t, err, errDown)
			require.Len(t, payouts, 1)
			require.Equal(t, rawr, payouts[0].Token)
			require.Equal(t, tokens(10).Dec(), payouts[0].Amount.Dec())
			require.Equal(t, tokens(10).Dec(), l.vault.BalanceOf(rawr, creator).Dec())
			require.True(t, l.vault.BalanceOf(weth, creator).IsZero())

			claimable, err := manager.ClaimableRoyalties(ctx, creator)
			require.NoError(t, err)
			require.NotContains(t, claimable, rawr)
			require.Equal(t, tokens(20).Dec(), claimable[weth].Dec())

			for _, token := range []common.Address{rawr, weth} {
				require.Equal(
					t, l.vault.CustodyBalance(token).Dec(), l.bookedTotal(t, token).Dec(),
				)
			}
		})
	}
}
