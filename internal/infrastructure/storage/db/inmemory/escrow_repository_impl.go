package inmemory

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// EscrowRepositoryImpl represents an in memory storage
type EscrowRepositoryImpl struct {
	db *DbManager
}

// NewEscrowRepositoryImpl returns a new empty EscrowRepositoryImpl
func NewEscrowRepositoryImpl(db *DbManager) domain.EscrowRepository {
	return &EscrowRepositoryImpl{db}
}

func (r EscrowRepositoryImpl) GetEscrow(
	_ context.Context, orderID uint64, token common.Address,
) (*domain.EscrowRecord, error) {
	r.db.escrowStore.locker.RLock()
	defer r.db.escrowStore.locker.RUnlock()

	return r.getEscrow(orderID, token), nil
}

func (r EscrowRepositoryImpl) GetEscrowsByOrder(
	_ context.Context, orderID uint64,
) ([]domain.EscrowRecord, error) {
	r.db.escrowStore.locker.RLock()
	defer r.db.escrowStore.locker.RUnlock()

	return r.findEscrows(func(e domain.EscrowRecord) bool {
		return e.OrderID == orderID
	}), nil
}

func (r EscrowRepositoryImpl) GetAllEscrows(
	_ context.Context,
) ([]domain.EscrowRecord, error) {
	r.db.escrowStore.locker.RLock()
	defer r.db.escrowStore.locker.RUnlock()

	return r.findEscrows(func(domain.EscrowRecord) bool { return true }), nil
}

// UpdateEscrow updates data of an escrow record passing an update function
func (r EscrowRepositoryImpl) UpdateEscrow(
	_ context.Context, orderID uint64, token common.Address,
	updateFn func(*domain.EscrowRecord) (*domain.EscrowRecord, error),
) error {
	r.db.escrowStore.locker.Lock()
	defer r.db.escrowStore.locker.Unlock()

	updatedRecord, err := updateFn(r.getEscrow(orderID, token))
	if err != nil {
		return err
	}
	if updatedRecord == nil {
		return ErrNilRecord
	}

	key := domain.EscrowKey(orderID, token)
	if updatedRecord.IsEmpty() {
		delete(r.db.escrowStore.escrows, key)
		return nil
	}
	r.db.escrowStore.escrows[key] = domain.EscrowRecord{
		OrderID: orderID,
		Token:   token,
		Amount:  new(uint256.Int).Set(updatedRecord.Amount),
	}
	return nil
}

func (r EscrowRepositoryImpl) getEscrow(
	orderID uint64, token common.Address,
) *domain.EscrowRecord {
	record, ok := r.db.escrowStore.escrows[domain.EscrowKey(orderID, token)]
	if !ok {
		return domain.NewEscrowRecord(orderID, token)
	}
	record.Amount = new(uint256.Int).Set(record.Amount)
	return &record
}

func (r EscrowRepositoryImpl) findEscrows(
	match func(domain.EscrowRecord) bool,
) []domain.EscrowRecord {
	records := make([]domain.EscrowRecord, 0)
	for _, record := range r.db.escrowStore.escrows {
		if !match(record) {
			continue
		}
		record.Amount = new(uint256.Int).Set(record.Amount)
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].OrderID != records[j].OrderID {
			return records[i].OrderID < records[j].OrderID
		}
		return records[i].Token.Hex() < records[j].Token.Hex()
	})
	return records
}
