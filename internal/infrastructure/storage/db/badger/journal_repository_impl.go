package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type journalRepositoryImpl struct {
	store *badgerhold.Store
}

// NewJournalRepositoryImpl initialize a badger implementation of the
// domain.JournalRepository
func NewJournalRepositoryImpl(store *badgerhold.Store) domain.JournalRepository {
	return &journalRepositoryImpl{store}
}

func (r *journalRepositoryImpl) AddEntries(
	ctx context.Context, entries []domain.JournalEntry,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		for _, e := range entries {
			model := toJournalEntryModel(e)
			if err := r.store.TxInsert(tx, e.ID, &model); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *journalRepositoryImpl) GetEntries(
	ctx context.Context, filter domain.JournalFilter,
) ([]domain.JournalEntry, error) {
	query := badgerhold.Where("Timestamp").Ge(int64(0)).SortBy("Timestamp", "Index")
	if filter.OrderID != nil {
		query = query.And("HasOrder").Eq(true).And("OrderID").Eq(*filter.OrderID)
	}
	if filter.Owner != nil {
		query = query.And("Owner").Eq(filter.Owner.Hex())
	}
	if filter.Token != nil {
		query = query.And("Token").Eq(filter.Token.Hex())
	}

	var models []JournalEntry
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, query)
	}); err != nil {
		return nil, err
	}

	if filter.MaxCount > 0 && len(models) > filter.MaxCount {
		models = models[len(models)-filter.MaxCount:]
	}

	entries := make([]domain.JournalEntry, 0, len(models))
	for _, m := range models {
		e, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
