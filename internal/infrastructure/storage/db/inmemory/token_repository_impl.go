package inmemory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// TokenRepositoryImpl represents an in memory storage
type TokenRepositoryImpl struct {
	db *DbManager
}

// NewTokenRepositoryImpl returns a new empty TokenRepositoryImpl
func NewTokenRepositoryImpl(db *DbManager) domain.TokenRepository {
	return &TokenRepositoryImpl{db}
}

func (r TokenRepositoryImpl) AddTokens(
	_ context.Context, tokens []common.Address,
) (int, error) {
	r.db.tokenStore.locker.Lock()
	defer r.db.tokenStore.locker.Unlock()

	count := 0
	for _, token := range tokens {
		if _, ok := r.db.tokenStore.tokens[token]; ok {
			continue
		}
		r.db.tokenStore.tokens[token] = struct{}{}
		r.db.tokenStore.order = append(r.db.tokenStore.order, token)
		count++
	}
	return count, nil
}

func (r TokenRepositoryImpl) IsSupported(
	_ context.Context, token common.Address,
) (bool, error) {
	r.db.tokenStore.locker.RLock()
	defer r.db.tokenStore.locker.RUnlock()

	_, ok := r.db.tokenStore.tokens[token]
	return ok, nil
}

func (r TokenRepositoryImpl) GetAllTokens(
	_ context.Context,
) ([]common.Address, error) {
	r.db.tokenStore.locker.RLock()
	defer r.db.tokenStore.locker.RUnlock()

	return append([]common.Address{}, r.db.tokenStore.order...), nil
}
