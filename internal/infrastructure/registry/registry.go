package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

// AssetEntry is the royalty info of an asset as written in a registry file.
// An entry without token id applies to every token of the collection that
// has no entry of its own.
type AssetEntry struct {
	Contract string  `mapstructure:"contract"`
	TokenID  *uint64 `mapstructure:"token_id"`
	Receiver string  `mapstructure:"receiver"`
	Rate     uint32  `mapstructure:"rate"`
}

// StaticRegistry is an in-memory asset registry.
type StaticRegistry struct {
	assets      map[domain.Asset]domain.RoyaltyInfo
	collections map[common.Address]domain.RoyaltyInfo
	locker      *sync.RWMutex
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		assets:      make(map[domain.Asset]domain.RoyaltyInfo),
		collections: make(map[common.Address]domain.RoyaltyInfo),
		locker:      &sync.RWMutex{},
	}
}

var _ ports.AssetRegistry = (*StaticRegistry)(nil)

// LoadFile reads the registry from a YAML, JSON or TOML file whose root key
// "assets" is a list of AssetEntry.
func LoadFile(path string) (*StaticRegistry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}

	var entries []AssetEntry
	if err := v.UnmarshalKey("assets", &entries); err != nil {
		return nil, fmt.Errorf("parsing registry file: %w", err)
	}

	r := NewStaticRegistry()
	for i, e := range entries {
		if err := r.AddEntry(e); err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
	}
	return r, nil
}

func (r *StaticRegistry) AddEntry(e AssetEntry) error {
	if !common.IsHexAddress(e.Contract) {
		return fmt.Errorf("invalid contract address %q", e.Contract)
	}
	if !common.IsHexAddress(e.Receiver) {
		return fmt.Errorf("invalid receiver address %q", e.Receiver)
	}
	info := domain.RoyaltyInfo{
		Receiver: common.HexToAddress(e.Receiver),
		Rate:     e.Rate,
	}
	contract := common.HexToAddress(e.Contract)

	if e.TokenID == nil {
		return r.SetCollection(contract, info)
	}
	return r.Set(domain.Asset{Contract: contract, TokenID: *e.TokenID}, info)
}

// Set binds royalty info to a single asset. Changes apply to the following
// lookups only.
func (r *StaticRegistry) Set(asset domain.Asset, info domain.RoyaltyInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	r.assets[asset] = info
	return nil
}

// SetCollection binds royalty info to all the tokens of a collection.
func (r *StaticRegistry) SetCollection(
	contract common.Address, info domain.RoyaltyInfo,
) error {
	if err := info.Validate(); err != nil {
		return err
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	r.collections[contract] = info
	return nil
}

func (r *StaticRegistry) Remove(asset domain.Asset) {
	r.locker.Lock()
	defer r.locker.Unlock()

	delete(r.assets, asset)
}

func (r *StaticRegistry) RoyaltyInfo(
	_ context.Context, asset domain.Asset,
) (*domain.RoyaltyInfo, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	if info, ok := r.assets[asset]; ok {
		return &info, nil
	}
	if info, ok := r.collections[asset.Contract]; ok {
		return &info, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAsset, asset)
}
