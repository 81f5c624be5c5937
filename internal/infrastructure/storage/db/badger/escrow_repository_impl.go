package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type escrowRepositoryImpl struct {
	store *badgerhold.Store
}

// NewEscrowRepositoryImpl initialize a badger implementation of the
// domain.EscrowRepository
func NewEscrowRepositoryImpl(store *badgerhold.Store) domain.EscrowRepository {
	return &escrowRepositoryImpl{store}
}

func (r *escrowRepositoryImpl) GetEscrow(
	ctx context.Context, orderID uint64, token common.Address,
) (*domain.EscrowRecord, error) {
	var record *domain.EscrowRecord
	err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		var err error
		record, err = r.getEscrow(tx, orderID, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *escrowRepositoryImpl) GetEscrowsByOrder(
	ctx context.Context, orderID uint64,
) ([]domain.EscrowRecord, error) {
	query := badgerhold.Where("OrderID").Eq(orderID).SortBy("Token")
	return r.findEscrows(ctx, query)
}

func (r *escrowRepositoryImpl) GetAllEscrows(
	ctx context.Context,
) ([]domain.EscrowRecord, error) {
	query := badgerhold.Where("OrderID").Ge(uint64(0)).SortBy("OrderID", "Token")
	return r.findEscrows(ctx, query)
}

func (r *escrowRepositoryImpl) UpdateEscrow(
	ctx context.Context, orderID uint64, token common.Address,
	updateFn func(*domain.EscrowRecord) (*domain.EscrowRecord, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		record, err := r.getEscrow(tx, orderID, token)
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

		key := domain.EscrowKey(orderID, token)
		if updatedRecord.IsEmpty() {
			if err := r.store.TxDelete(tx, key, Escrow{}); err != nil &&
				err != badgerhold.ErrNotFound {
				return err
			}
			return nil
		}

		updatedRecord.OrderID = orderID
		updatedRecord.Token = token
		model := toEscrowModel(*updatedRecord)
		return r.store.TxUpsert(tx, key, &model)
	})
}

func (r *escrowRepositoryImpl) getEscrow(
	tx *badger.Txn, orderID uint64, token common.Address,
) (*domain.EscrowRecord, error) {
	var model Escrow
	if err := r.store.TxGet(
		tx, domain.EscrowKey(orderID, token), &model,
	); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewEscrowRecord(orderID, token), nil
		}
		return nil, err
	}
	return model.toDomain()
}

func (r *escrowRepositoryImpl) findEscrows(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.EscrowRecord, error) {
	var models []Escrow
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, query)
	}); err != nil {
		return nil, err
	}

	records := make([]domain.EscrowRecord, 0, len(models))
	for _, m := range models {
		record, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
