package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type claimableRepositoryImpl struct {
	store *badgerhold.Store
}

// NewClaimableRepositoryImpl initialize a badger implementation of the
// domain.ClaimableRepository
func NewClaimableRepositoryImpl(
	store *badgerhold.Store,
) domain.ClaimableRepository {
	return &claimableRepositoryImpl{store}
}

func (r *claimableRepositoryImpl) GetClaimable(
	ctx context.Context, owner, token common.Address,
) (*domain.ClaimableRecord, error) {
	var record *domain.ClaimableRecord
	err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		var err error
		record, err = r.getClaimable(tx, owner, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *claimableRepositoryImpl) GetClaimablesByOwner(
	ctx context.Context, owner common.Address,
) ([]domain.ClaimableRecord, error) {
	query := badgerhold.Where("Owner").Eq(owner.Hex()).SortBy("Token")
	return r.findClaimables(ctx, query)
}

func (r *claimableRepositoryImpl) GetAllClaimables(
	ctx context.Context,
) ([]domain.ClaimableRecord, error) {
	query := badgerhold.Where("Owner").Ne("").SortBy("Owner", "Token")
	return r.findClaimables(ctx, query)
}

func (r *claimableRepositoryImpl) UpdateClaimable(
	ctx context.Context, owner, token common.Address,
	updateFn func(*domain.ClaimableRecord) (*domain.ClaimableRecord, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		record, err := r.getClaimable(tx, owner, token)
		if err != nil {
			return err
		}

		updatedRecord, err := updateFn(record)
		if err != nil {
			return err
		}
		if updatedRecord == nil {
			return ErrNilRecord
		}

		key := domain.ClaimableKey(owner, token)
		if updatedRecord.IsEmpty() {
			if err := r.store.TxDelete(tx, key, Claimable{}); err != nil &&
				err != badgerhold.ErrNotFound {
				return err
			}
			return nil
		}

		updatedRecord.Owner = owner
		updatedRecord.Token = token
		model := toClaimableModel(*updatedRecord)
		return r.store.TxUpsert(tx, key, &model)
	})
}

func (r *claimableRepositoryImpl) getClaimable(
	tx *badger.Txn, owner, token common.Address,
) (*domain.ClaimableRecord, error) {
	var model Claimable
	if err := r.store.TxGet(
		tx, domain.ClaimableKey(owner, token), &model,
	); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewClaimableRecord(owner, token), nil
		}
		return nil, err
	}
	return model.toDomain()
}

func (r *claimableRepositoryImpl) findClaimables(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.ClaimableRecord, error) {
	var models []Claimable
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, query)
	}); err != nil {
		return nil, err
	}

	records := make([]domain.ClaimableRecord, 0, len(models))
	for _, m := range models {
		record, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
