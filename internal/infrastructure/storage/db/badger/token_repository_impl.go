package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type tokenRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTokenRepositoryImpl initialize a badger implementation of the
// domain.TokenRepository
func NewTokenRepositoryImpl(store *badgerhold.Store) domain.TokenRepository {
	return &tokenRepositoryImpl{store}
}

func (r *tokenRepositoryImpl) AddTokens(
	ctx context.Context, tokens []common.Address,
) (int, error) {
	count := 0
	err := withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		var existing []SupportedToken
		if err := r.store.TxFind(tx, &existing, nil); err != nil {
			return err
		}

		position := len(existing)
		for _, token := range tokens {
			model := SupportedToken{Token: token.Hex(), Position: position}
			if err := r.store.TxInsert(tx, token.Hex(), &model); err != nil {
				if err == badgerhold.ErrKeyExists {
					continue
				}
				return err
			}
			position++
			count++
		}
		return nil
	})
	if err != nil {
		return -1, err
	}
	return count, nil
}

func (r *tokenRepositoryImpl) IsSupported(
	ctx context.Context, token common.Address,
) (bool, error) {
	found := true
	err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		var model SupportedToken
		if err := r.store.TxGet(tx, token.Hex(), &model); err != nil {
			if err == badgerhold.ErrNotFound {
				found = false
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *tokenRepositoryImpl) GetAllTokens(
	ctx context.Context,
) ([]common.Address, error) {
	var models []SupportedToken
	query := badgerhold.Where("Position").Ge(0).SortBy("Position")
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, query)
	}); err != nil {
		return nil, err
	}

	tokens := make([]common.Address, 0, len(models))
	for _, m := range models {
		tokens = append(tokens, common.HexToAddress(m.Token))
	}
	return tokens, nil
}
