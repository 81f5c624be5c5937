package ports

import (
	"context"

	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// AssetRegistry maps an asset to its royalty receiver and rate. It must
// return domain.ErrInvalidAsset for unknown assets.
type AssetRegistry interface {
	RoyaltyInfo(ctx context.Context, asset domain.Asset) (*domain.RoyaltyInfo, error)
}
