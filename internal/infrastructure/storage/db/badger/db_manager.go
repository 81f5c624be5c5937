package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const maxConflictRetries = 5

type txKey struct{}

type repoManager struct {
	store  *badgerhold.Store
	stopGC chan struct{}
	// txLocker serializes read-write units of work.
	txLocker *sync.Mutex

	escrowRepository    domain.EscrowRepository
	claimableRepository domain.ClaimableRepository
	feeRepository       domain.FeeRepository
	tokenRepository     domain.TokenRepository
	journalRepository   domain.JournalRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty data dir makes
// the store live in memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var ledgerDir string
	if len(baseDbDir) > 0 {
		ledgerDir = filepath.Join(baseDbDir, "ledger")
	}

	store, err := createDb(ledgerDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	stopGC := make(chan struct{})
	if len(ledgerDir) > 0 {
		go runValueLogGC(store, stopGC)
	}

	return &repoManager{
		store:               store,
		stopGC:              stopGC,
		txLocker:            &sync.Mutex{},
		escrowRepository:    NewEscrowRepositoryImpl(store),
		claimableRepository: NewClaimableRepositoryImpl(store),
		feeRepository:       NewFeeRepositoryImpl(store),
		tokenRepository:     NewTokenRepositoryImpl(store),
		journalRepository:   NewJournalRepositoryImpl(store),
	}, nil
}

func (d *repoManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *repoManager) ClaimableRepository() domain.ClaimableRepository {
	return d.claimableRepository
}

func (d *repoManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

func (d *repoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *repoManager) JournalRepository() domain.JournalRepository {
	return d.journalRepository
}

// RunTransaction runs the handler within a badger transaction stored in the
// context, so that every repository joins it. The transaction is committed
// only if the handler succeeds. Read-write units of work run one at a time;
// the handler is run again only if a write made outside of them conflicts.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if _, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return handler(ctx)
	}

	if !readOnly {
		d.txLocker.Lock()
		defer d.txLocker.Unlock()
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tx := d.store.Badger().NewTransaction(!readOnly)

		res, err := handler(context.WithValue(ctx, txKey{}, tx))
		if err != nil {
			tx.Discard()
			return nil, err
		}

		if readOnly {
			tx.Discard()
			return res, nil
		}

		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
				log.Debugf("transaction conflict, retrying (attempt %d)", attempt+1)
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (d *repoManager) Close() {
	close(d.stopGC)
	d.store.Close()
}

// withTx runs fn within the transaction of the context if any, otherwise
// within a new one.
func withTx(
	ctx context.Context, store *badgerhold.Store, update bool,
	fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	if update {
		return store.Badger().Update(fn)
	}
	return store.Badger().View(fn)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func runValueLogGC(db *badgerhold.Store, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := db.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		case <-stop:
			return
		}
	}
}
