package inmemory

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// JournalRepositoryImpl represents an in memory storage
type JournalRepositoryImpl struct {
	db *DbManager
}

// NewJournalRepositoryImpl returns a new empty JournalRepositoryImpl
func NewJournalRepositoryImpl(db *DbManager) domain.JournalRepository {
	return &JournalRepositoryImpl{db}
}

func (r JournalRepositoryImpl) AddEntries(
	_ context.Context, entries []domain.JournalEntry,
) error {
	r.db.journalStore.locker.Lock()
	defer r.db.journalStore.locker.Unlock()

	for _, e := range entries {
		e.Amount = new(uint256.Int).Set(e.Amount)
		r.db.journalStore.entries = append(r.db.journalStore.entries, e)
	}
	return nil
}

func (r JournalRepositoryImpl) GetEntries(
	_ context.Context, filter domain.JournalFilter,
) ([]domain.JournalEntry, error) {
	r.db.journalStore.locker.RLock()
	defer r.db.journalStore.locker.RUnlock()

	entries := make([]domain.JournalEntry, 0)
	for _, e := range r.db.journalStore.entries {
		if filter.Match(e) {
			e.Amount = new(uint256.Int).Set(e.Amount)
			entries = append(entries, e)
		}
	}
	if filter.MaxCount > 0 && len(entries) > filter.MaxCount {
		entries = entries[len(entries)-filter.MaxCount:]
	}
	return entries, nil
}
