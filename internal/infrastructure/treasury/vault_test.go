package treasury_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/treasury"
)

var (
	ctx     = context.Background()
	custody = common.HexToAddress("0x000000000000000000000000000000000000c0de")
	token   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
)

func TestVaultTransfers(t *testing.T) {
	t.Parallel()

	vault := treasury.NewVault(custody)
	require.NoError(t, vault.Credit(token, alice, uint256.NewInt(100)))

	require.NoError(t, vault.TransferIn(ctx, token, alice, uint256.NewInt(60)))
	require.Equal(t, "40", vault.BalanceOf(token, alice).Dec())
	require.Equal(t, "60", vault.CustodyBalance(token).Dec())

	err := vault.TransferIn(ctx, token, alice, uint256.NewInt(41))
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	require.ErrorIs(t, err, treasury.ErrInsufficientFunds)
	require.Equal(t, "40", vault.BalanceOf(token, alice).Dec())

	require.NoError(t, vault.TransferOut(ctx, token, alice, uint256.NewInt(60)))
	require.Equal(t, "100", vault.BalanceOf(token, alice).Dec())
	require.True(t, vault.CustodyBalance(token).IsZero())

	err = vault.TransferOut(ctx, token, alice, uint256.NewInt(1))
	require.ErrorIs(t, err, domain.ErrTransferFailed)
}

func TestVaultCancelledContext(t *testing.T) {
	t.Parallel()

	vault := treasury.NewVault(custody)
	require.NoError(t, vault.Credit(token, alice, uint256.NewInt(10)))

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()

	err := vault.TransferIn(cancelledCtx, token, alice, uint256.NewInt(1))
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "10", vault.BalanceOf(token, alice).Dec())
}

func TestVaultSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vault.json")

	vault, err := treasury.LoadVault(path, custody)
	require.NoError(t, err)
	require.NoError(t, vault.Credit(token, alice, uint256.NewInt(100)))
	require.NoError(t, vault.TransferIn(ctx, token, alice, uint256.NewInt(30)))
	require.NoError(t, vault.Save(path))

	restored, err := treasury.LoadVault(path, common.Address{})
	require.NoError(t, err)
	require.Equal(t, custody, restored.Custody())
	require.Equal(t, "70", restored.BalanceOf(token, alice).Dec())
	require.Equal(t, "30", restored.CustodyBalance(token).Dec())
	require.Equal(t, []common.Address{custody, alice}, restored.Accounts(token))
}

type mockTreasury struct {
	mock.Mock
}

func (m *mockTreasury) TransferIn(
	ctx context.Context, token, from common.Address, amount *uint256.Int,
) error {
	args := m.Called(ctx, token, from, amount)
	return args.Error(0)
}

func (m *mockTreasury) TransferOut(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) error {
	args := m.Called(ctx, token, to, amount)
	return args.Error(0)
}

func TestBreakerTreasury(t *testing.T) {
	t.Parallel()

	errDown := errors.New("treasury down")
	inner := &mockTreasury{}
	inner.On("TransferIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errDown)

	breaker, err := treasury.NewBreakerTreasury(inner, 2, 0.5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		err := breaker.TransferIn(ctx, token, alice, uint256.NewInt(1))
		require.ErrorIs(t, err, errDown)
	}
	require.Equal(t, gobreaker.StateOpen, breaker.State())

	err = breaker.TransferIn(ctx, token, alice, uint256.NewInt(1))
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	inner.AssertNumberOfCalls(t, "TransferIn", 3)
}

func TestBreakerIgnoresRejectedTransfers(t *testing.T) {
	t.Parallel()

	vault := treasury.NewVault(custody)
	require.NoError(t, vault.Credit(token, alice, uint256.NewInt(10)))
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	breaker, err := treasury.NewBreakerTreasury(vault, 2, 0.5)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		err := breaker.TransferIn(ctx, token, bob, uint256.NewInt(1))
		require.ErrorIs(t, err, treasury.ErrInsufficientFunds)
		require.ErrorIs(t, err, domain.ErrTransferFailed)
	}

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()
	for i := 0; i < 5; i++ {
		err := breaker.TransferIn(cancelledCtx, token, alice, uint256.NewInt(1))
		require.ErrorIs(t, err, context.Canceled)
	}
	require.Equal(t, gobreaker.StateClosed, breaker.State())

	require.NoError(t, breaker.TransferIn(ctx, token, alice, uint256.NewInt(10)))
	require.Equal(t, "10", vault.CustodyBalance(token).Dec())
}

func TestFailingNewBreakerTreasury(t *testing.T) {
	t.Parallel()

	_, err := treasury.NewBreakerTreasury(nil, 0, 0)
	require.Error(t, err)

	_, err = treasury.NewBreakerTreasury(treasury.NewVault(custody), 1, 1.5)
	require.Error(t, err)
}
