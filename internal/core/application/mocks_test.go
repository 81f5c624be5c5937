package application_test

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

// **** Treasury ****

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

// refusingTreasury is a working treasury that can't pay out one token.
type refusingTreasury struct {
	ports.Treasury
	token common.Address
	err   error
}

func (r refusingTreasury) TransferOut(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) error {
	if token == r.token {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, r.err)
	}
	return r.Treasury.TransferOut(ctx, token, to, amount)
}

// **** AccessControl ****

type mockAccessControl struct {
	mock.Mock
}

func (m *mockAccessControl) Authorize(
	ctx context.Context, caller common.Address, op domain.Operation,
) (bool, error) {
	args := m.Called(ctx, caller, op)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

// **** AssetRegistry ****

type mockAssetRegistry struct {
	mock.Mock
}

func (m *mockAssetRegistry) RoyaltyInfo(
	ctx context.Context, asset domain.Asset,
) (*domain.RoyaltyInfo, error) {
	args := m.Called(ctx, asset)

	var res *domain.RoyaltyInfo
	if a := args.Get(0); a != nil {
		res = a.(*domain.RoyaltyInfo)
	}
	return res, args.Error(1)
}

func allowAll() *mockAccessControl {
	ac := &mockAccessControl{}
	ac.On("Authorize", mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil)
	return ac
}

func denyAll() *mockAccessControl {
	ac := &mockAccessControl{}
	ac.On("Authorize", mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil)
	return ac
}
