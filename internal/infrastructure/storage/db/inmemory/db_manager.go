package inmemory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

type txKey struct{}

type escrowInmemoryStore struct {
	escrows map[string]domain.EscrowRecord
	locker  *sync.RWMutex
}

type claimableInmemoryStore struct {
	claimables map[string]domain.ClaimableRecord
	locker     *sync.RWMutex
}

type feeInmemoryStore struct {
	fees   map[common.Address]domain.FeeTotal
	rate   *uint32
	locker *sync.RWMutex
}

type tokenInmemoryStore struct {
	tokens map[common.Address]struct{}
	order  []common.Address
	locker *sync.RWMutex
}

type journalInmemoryStore struct {
	entries []domain.JournalEntry
	locker  *sync.RWMutex
}

// DbManager holds all the in memory stores. Units of work are serialized and
// rolled back by restoring a snapshot taken before running them.
type DbManager struct {
	escrowStore    *escrowInmemoryStore
	claimableStore *claimableInmemoryStore
	feeStore       *feeInmemoryStore
	tokenStore     *tokenInmemoryStore
	journalStore   *journalInmemoryStore

	escrowRepository    domain.EscrowRepository
	claimableRepository domain.ClaimableRepository
	feeRepository       domain.FeeRepository
	tokenRepository     domain.TokenRepository
	journalRepository   domain.JournalRepository

	txLocker *sync.Mutex
}

// NewRepoManager returns a new empty in memory repo manager.
func NewRepoManager() ports.RepoManager {
	return NewDbManager()
}

// NewDbManager creates a new empty DbManager.
func NewDbManager() *DbManager {
	db := &DbManager{
		escrowStore: &escrowInmemoryStore{
			escrows: map[string]domain.EscrowRecord{},
			locker:  &sync.RWMutex{},
		},
		claimableStore: &claimableInmemoryStore{
			claimables: map[string]domain.ClaimableRecord{},
			locker:     &sync.RWMutex{},
		},
		feeStore: &feeInmemoryStore{
			fees:   map[common.Address]domain.FeeTotal{},
			locker: &sync.RWMutex{},
		},
		tokenStore: &tokenInmemoryStore{
			tokens: map[common.Address]struct{}{},
			locker: &sync.RWMutex{},
		},
		journalStore: &journalInmemoryStore{
			locker: &sync.RWMutex{},
		},
		txLocker: &sync.Mutex{},
	}
	db.escrowRepository = NewEscrowRepositoryImpl(db)
	db.claimableRepository = NewClaimableRepositoryImpl(db)
	db.feeRepository = NewFeeRepositoryImpl(db)
	db.tokenRepository = NewTokenRepositoryImpl(db)
	db.journalRepository = NewJournalRepositoryImpl(db)
	return db
}

func (d *DbManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *DbManager) ClaimableRepository() domain.ClaimableRepository {
	return d.claimableRepository
}

func (d *DbManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

func (d *DbManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *DbManager) JournalRepository() domain.JournalRepository {
	return d.journalRepository
}

// RunTransaction implements ports.RepoManager. A handler running within
// another unit of work joins it.
func (d *DbManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value(txKey{}) != nil {
		return handler(ctx)
	}

	d.txLocker.Lock()
	defer d.txLocker.Unlock()

	ctx = context.WithValue(ctx, txKey{}, struct{}{})
	if readOnly {
		return handler(ctx)
	}

	snap := d.snapshot()
	res, err := handler(ctx)
	if err != nil {
		d.restore(snap)
		return nil, err
	}
	return res, nil
}

func (d *DbManager) Close() {}

type snapshot struct {
	escrows    map[string]domain.EscrowRecord
	claimables map[string]domain.ClaimableRecord
	fees       map[common.Address]domain.FeeTotal
	rate       *uint32
	tokens     map[common.Address]struct{}
	tokenOrder []common.Address
	numEntries int
}

// snapshot copies the maps. Stored records are never mutated in place, so
// copying the records by value is enough.
func (d *DbManager) snapshot() snapshot {
	d.escrowStore.locker.RLock()
	escrows := make(map[string]domain.EscrowRecord, len(d.escrowStore.escrows))
	for k, v := range d.escrowStore.escrows {
		escrows[k] = v
	}
	d.escrowStore.locker.RUnlock()

	d.claimableStore.locker.RLock()
	claimables := make(
		map[string]domain.ClaimableRecord, len(d.claimableStore.claimables),
	)
	for k, v := range d.claimableStore.claimables {
		claimables[k] = v
	}
	d.claimableStore.locker.RUnlock()

	d.feeStore.locker.RLock()
	fees := make(map[common.Address]domain.FeeTotal, len(d.feeStore.fees))
	for k, v := range d.feeStore.fees {
		fees[k] = v
	}
	var rate *uint32
	if d.feeStore.rate != nil {
		r := *d.feeStore.rate
		rate = &r
	}
	d.feeStore.locker.RUnlock()

	d.tokenStore.locker.RLock()
	tokens := make(map[common.Address]struct{}, len(d.tokenStore.tokens))
	for k := range d.tokenStore.tokens {
		tokens[k] = struct{}{}
	}
	tokenOrder := append([]common.Address{}, d.tokenStore.order...)
	d.tokenStore.locker.RUnlock()

	d.journalStore.locker.RLock()
	numEntries := len(d.journalStore.entries)
	d.journalStore.locker.RUnlock()

	return snapshot{
		escrows, claimables, fees, rate, tokens, tokenOrder, numEntries,
	}
}

func (d *DbManager) restore(s snapshot) {
	d.escrowStore.locker.Lock()
	d.escrowStore.escrows = s.escrows
	d.escrowStore.locker.Unlock()

	d.claimableStore.locker.Lock()
	d.claimableStore.claimables = s.claimables
	d.claimableStore.locker.Unlock()

	d.feeStore.locker.Lock()
	d.feeStore.fees = s.fees
	d.feeStore.rate = s.rate
	d.feeStore.locker.Unlock()

	d.tokenStore.locker.Lock()
	d.tokenStore.tokens = s.tokens
	d.tokenStore.order = s.tokenOrder
	d.tokenStore.locker.Unlock()

	d.journalStore.locker.Lock()
	d.journalStore.entries = d.journalStore.entries[:s.numEntries]
	d.journalStore.locker.Unlock()
}
