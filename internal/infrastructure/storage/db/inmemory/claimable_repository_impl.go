package inmemory

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// ClaimableRepositoryImpl represents an in memory storage
type ClaimableRepositoryImpl struct {
	db *DbManager
}

// NewClaimableRepositoryImpl returns a new empty ClaimableRepositoryImpl
func NewClaimableRepositoryImpl(db *DbManager) domain.ClaimableRepository {
	return &ClaimableRepositoryImpl{db}
}

func (r ClaimableRepositoryImpl) GetClaimable(
	_ context.Context, owner, token common.Address,
) (*domain.ClaimableRecord, error) {
	r.db.claimableStore.locker.RLock()
	defer r.db.claimableStore.locker.RUnlock()

	return r.getClaimable(owner, token), nil
}

func (r ClaimableRepositoryImpl) GetClaimablesByOwner(
	_ context.Context, owner common.Address,
) ([]domain.ClaimableRecord, error) {
	r.db.claimableStore.locker.RLock()
	defer r.db.claimableStore.locker.RUnlock()

	return r.findClaimables(func(c domain.ClaimableRecord) bool {
		return c.Owner == owner
	}), nil
}

func (r ClaimableRepositoryImpl) GetAllClaimables(
	_ context.Context,
) ([]domain.ClaimableRecord, error) {
	r.db.claimableStore.locker.RLock()
	defer r.db.claimableStore.locker.RUnlock()

	return r.findClaimables(func(domain.ClaimableRecord) bool { return true }), nil
}

// UpdateClaimable updates data of a claimable record passing an update
// function
func (r ClaimableRepositoryImpl) UpdateClaimable(
	_ context.Context, owner, token common.Address,
	updateFn func(*domain.ClaimableRecord) (*domain.ClaimableRecord, error),
) error {
	r.db.claimableStore.locker.Lock()
	defer r.db.claimableStore.locker.Unlock()

	updatedRecord, err := updateFn(r.getClaimable(owner, token))
	if err != nil {
		return err
	}
	if updatedRecord == nil {
		return ErrNilRecord
	}

	key := domain.ClaimableKey(owner, token)
	if updatedRecord.IsEmpty() {
		delete(r.db.claimableStore.claimables, key)
		return nil
	}
	r.db.claimableStore.claimables[key] = domain.ClaimableRecord{
		Owner:  owner,
		Token:  token,
		Amount: new(uint256.Int).Set(updatedRecord.Amount),
	}
	return nil
}

func (r ClaimableRepositoryImpl) getClaimable(
	owner, token common.Address,
) *domain.ClaimableRecord {
	record, ok := r.db.claimableStore.claimables[domain.ClaimableKey(owner, token)]
	if !ok {
		return domain.NewClaimableRecord(owner, token)
	}
	record.Amount = new(uint256.Int).Set(record.Amount)
	return &record
}

func (r ClaimableRepositoryImpl) findClaimables(
	match func(domain.ClaimableRecord) bool,
) []domain.ClaimableRecord {
	records := make([]domain.ClaimableRecord, 0)
	for _, record := range r.db.claimableStore.claimables {
		if !match(record) {
			continue
		}
		record.Amount = new(uint256.Int).Set(record.Amount)
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Key() < records[j].Key()
	})
	return records
}
