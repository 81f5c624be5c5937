package inmemory

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// FeeRepositoryImpl represents an in memory storage
type FeeRepositoryImpl struct {
	db *DbManager
}

// NewFeeRepositoryImpl returns a new empty FeeRepositoryImpl
func NewFeeRepositoryImpl(db *DbManager) domain.FeeRepository {
	return &FeeRepositoryImpl{db}
}

func (r FeeRepositoryImpl) GetFeeTotal(
	_ context.Context, token common.Address,
) (*domain.FeeTotal, error) {
	r.db.feeStore.locker.RLock()
	defer r.db.feeStore.locker.RUnlock()

	return r.getFeeTotal(token), nil
}

func (r FeeRepositoryImpl) GetAllFeeTotals(
	_ context.Context,
) ([]domain.FeeTotal, error) {
	r.db.feeStore.locker.RLock()
	defer r.db.feeStore.locker.RUnlock()

	fees := make([]domain.FeeTotal, 0, len(r.db.feeStore.fees))
	for _, f := range r.db.feeStore.fees {
		f.Amount = new(uint256.Int).Set(f.Amount)
		fees = append(fees, f)
	}
	sort.SliceStable(fees, func(i, j int) bool {
		return fees[i].Token.Hex() < fees[j].Token.Hex()
	})
	return fees, nil
}

// UpdateFeeTotal updates the fees collected for a token passing an update
// function
func (r FeeRepositoryImpl) UpdateFeeTotal(
	_ context.Context, token common.Address,
	updateFn func(*domain.FeeTotal) (*domain.FeeTotal, error),
) error {
	r.db.feeStore.locker.Lock()
	defer r.db.feeStore.locker.Unlock()

	updatedFees, err := updateFn(r.getFeeTotal(token))
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
	r.db.feeStore.fees[token] = domain.FeeTotal{
		Token:  token,
		Amount: new(uint256.Int).Set(amount),
	}
	return nil
}

func (r FeeRepositoryImpl) GetRate(_ context.Context) (uint32, bool, error) {
	r.db.feeStore.locker.RLock()
	defer r.db.feeStore.locker.RUnlock()

	if r.db.feeStore.rate == nil {
		return 0, false, nil
	}
	return *r.db.feeStore.rate, true, nil
}

func (r FeeRepositoryImpl) UpdateRate(_ context.Context, rate uint32) error {
	if !domain.IsValidRate(rate) {
		return domain.ErrInvalidRate
	}

	r.db.feeStore.locker.Lock()
	defer r.db.feeStore.locker.Unlock()

	r.db.feeStore.rate = &rate
	return nil
}

func (r FeeRepositoryImpl) getFeeTotal(token common.Address) *domain.FeeTotal {
	f, ok := r.db.feeStore.fees[token]
	if !ok {
		return domain.NewFeeTotal(token)
	}
	f.Amount = new(uint256.Int).Set(f.Amount)
	return &f
}
