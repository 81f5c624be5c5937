package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/registry"
)

const registryFile = `
assets:
  - contract: "0x00000000000000000000000000000000000000c1"
    token_id: 1
    receiver: "0x0000000000000000000000000000000000c0ffee"
    rate: 200
  - contract: "0x00000000000000000000000000000000000000c1"
    receiver: "0x0000000000000000000000000000000000000bad"
    rate: 500
`

var (
	ctx        = context.Background()
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	creator    = common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(registryFile), 0644))

	r, err := registry.LoadFile(path)
	require.NoError(t, err)

	info, err := r.RoyaltyInfo(ctx, domain.Asset{Contract: collection, TokenID: 1})
	require.NoError(t, err)
	require.Equal(t, creator, info.Receiver)
	require.Equal(t, uint32(200), info.Rate)

	info, err = r.RoyaltyInfo(ctx, domain.Asset{Contract: collection, TokenID: 7})
	require.NoError(t, err)
	require.Equal(t, uint32(500), info.Rate)

	_, err = r.RoyaltyInfo(ctx, domain.Asset{TokenID: 1})
	require.ErrorIs(t, err, domain.ErrInvalidAsset)
}

func TestSetAppliesProspectively(t *testing.T) {
	t.Parallel()

	r := registry.NewStaticRegistry()
	asset := domain.Asset{Contract: collection, TokenID: 3}

	_, err := r.RoyaltyInfo(ctx, asset)
	require.ErrorIs(t, err, domain.ErrInvalidAsset)

	require.NoError(t, r.Set(asset, domain.RoyaltyInfo{Receiver: creator, Rate: 100}))
	info, err := r.RoyaltyInfo(ctx, asset)
	require.NoError(t, err)
	require.Equal(t, uint32(100), info.Rate)

	err = r.Set(asset, domain.RoyaltyInfo{Receiver: creator, Rate: 10001})
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	r.Remove(asset)
	_, err = r.RoyaltyInfo(ctx, asset)
	require.ErrorIs(t, err, domain.ErrInvalidAsset)
}

func TestFailingLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets:
  - contract: "nope"
    receiver: "0x0000000000000000000000000000000000c0ffee"
    rate: 200
`), 0644))

	_, err := registry.LoadFile(path)
	require.Error(t, err)

	_, err = registry.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
