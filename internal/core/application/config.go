package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
	dbbadger "github.com/tdex-network/royalty-ledger/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/storage/db/inmemory"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config lazily builds the services of the ledger, all sharing the same repo
// manager and collaborators.
type Config struct {
	DBType   string
	DBConfig interface{}

	Treasury       ports.Treasury
	AccessControl  ports.AccessControl
	AssetRegistry  ports.AssetRegistry
	DefaultFeeRate uint32

	repo        ports.RepoManager
	feeEscrow   FeeEscrowService
	orderEscrow OrderEscrowService
	calculator  RoyaltyCalculatorService
	manager     RoyaltyManagerService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
	}
	if c.Treasury == nil {
		return fmt.Errorf("missing treasury")
	}
	if c.AccessControl == nil {
		return fmt.Errorf("missing access control")
	}
	if c.AssetRegistry == nil {
		return fmt.Errorf("missing asset registry")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.royaltyManagerService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) FeeEscrowService() FeeEscrowService {
	svc, _ := c.feeEscrowService()
	return svc
}

func (c *Config) OrderEscrowService() OrderEscrowService {
	svc, _ := c.orderEscrowService()
	return svc
}

func (c *Config) RoyaltyCalculatorService() RoyaltyCalculatorService {
	svc, _ := c.royaltyCalculatorService()
	return svc
}

func (c *Config) RoyaltyManagerService() RoyaltyManagerService {
	svc, _ := c.royaltyManagerService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) feeEscrowService() (FeeEscrowService, error) {
	if c.feeEscrow == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewFeeEscrowService(
			repo, c.Treasury, c.AccessControl, c.DefaultFeeRate,
		)
		if err != nil {
			return nil, err
		}
		c.feeEscrow = svc
	}
	return c.feeEscrow, nil
}

func (c *Config) orderEscrowService() (OrderEscrowService, error) {
	if c.orderEscrow == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewOrderEscrowService(
			repo, c.Treasury, c.AccessControl, c.DefaultFeeRate,
		)
		if err != nil {
			return nil, err
		}
		c.orderEscrow = svc
	}
	return c.orderEscrow, nil
}

func (c *Config) royaltyCalculatorService() (RoyaltyCalculatorService, error) {
	if c.calculator == nil {
		feeEscrow, err := c.feeEscrowService()
		if err != nil {
			return nil, err
		}
		svc, err := NewRoyaltyCalculatorService(c.AssetRegistry, feeEscrow)
		if err != nil {
			return nil, err
		}
		c.calculator = svc
	}
	return c.calculator, nil
}

func (c *Config) royaltyManagerService() (RoyaltyManagerService, error) {
	if c.manager == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewRoyaltyManagerService(
			repo, c.Treasury, c.AccessControl, c.AssetRegistry, c.DefaultFeeRate,
		)
		if err != nil {
			return nil, err
		}
		c.manager = svc
	}
	return c.manager, nil
}
