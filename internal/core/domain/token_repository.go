package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// TokenRepository persists the set of tokens the order escrow accepts.
type TokenRepository interface {
	// AddTokens adds the given tokens. Those already existing won't be
	// re-added. Returns the number of tokens actually added.
	AddTokens(ctx context.Context, tokens []common.Address) (int, error)
	// IsSupported returns whether the token was added.
	IsSupported(ctx context.Context, token common.Address) (bool, error)
	// GetAllTokens returns all the supported tokens.
	GetAllTokens(ctx context.Context) ([]common.Address, error)
}
