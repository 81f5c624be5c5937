package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type feeRepositoryImpl struct {
	store *badgerhold.Store
}

// NewFeeRepositoryImpl initialize a badger implementation of the
// domain.FeeRepository
func NewFeeRepositoryImpl(store *badgerhold.Store) domain.FeeRepository {
	return &feeRepositoryImpl{store}
}

func (r *feeRepositoryImpl) GetFeeTotal(
	ctx context.Context, token common.Address,
) (*domain.FeeTotal, error) {
	var fees *domain.FeeTotal
	err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		var err error
		fees, err = r.getFeeTotal(tx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *feeRepositoryImpl) GetAllFeeTotals(
	ctx context.Context,
) ([]domain.FeeTotal, error) {
	var models []Fee
	query := badgerhold.Where("Token").Ne("").SortBy("Token")
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, query)
	}); err != nil {
		return nil, err
	}

	fees := make([]domain.FeeTotal, 0, len(models))
	for _, m := range models {
		f, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		fees = append(fees, *f)
	}
	return fees, nil
}

func (r *feeRepositoryImpl) UpdateFeeTotal(
	ctx context.Context, token common.Address,
	updateFn func(*domain.FeeTotal) (*domain.FeeTotal, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		fees, err := r.getFeeTotal(tx, token)
		if err != nil {
			return err
		}

		updatedFees, err := updateFn(fees)
		if err != nil {
			return err
		}
		if updatedFees == nil {
			return ErrNilRecord
		}

		amount := updatedFees.Amount
		if amount == nil {
			amount = domain.ZeroAmount()
		}
		model := Fee{Token: token.Hex(), Amount: amount.Dec()}
		return r.store.TxUpsert(tx, token.Hex(), &model)
	})
}

func (r *feeRepositoryImpl) GetRate(ctx context.Context) (uint32, bool, error) {
	var rate Rate
	found := true
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		if err := r.store.TxGet(tx, rateKey, &rate); err != nil {
			if err == badgerhold.ErrNotFound {
				found = false
				return nil
			}
			return err
		}
		return nil
	}); err != nil {
		return 0, false, err
	}
	return rate.Rate, found, nil
}

func (r *feeRepositoryImpl) UpdateRate(ctx context.Context, rate uint32) error {
	if !domain.IsValidRate(rate) {
		return domain.ErrInvalidRate
	}
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		return r.store.TxUpsert(tx, rateKey, &Rate{rate})
	})
}

func (r *feeRepositoryImpl) getFeeTotal(
	tx *badger.Txn, token common.Address,
) (*domain.FeeTotal, error) {
	var model Fee
	if err := r.store.TxGet(tx, token.Hex(), &model); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewFeeTotal(token), nil
		}
		return nil, err
	}
	return model.toDomain()
}
