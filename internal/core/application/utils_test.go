package application_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/application"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/registry"
	dbbadger "github.com/tdex-network/royalty-ledger/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/treasury"
)

const (
	royaltyRate  = 200
	platformRate = 30
)

var (
	ctx = context.Background()

	operator = common.HexToAddress("0x0000000000000000000000000000000000000a0a")
	custody  = common.HexToAddress("0x000000000000000000000000000000000000c0de")
	creator  = common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
	player   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	rawr     = common.HexToAddress("0x000000000000000000000000000000000000a55e")
	weth     = common.HexToAddress("0x00000000000000000000000000000000000e7e00")

	collection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	asset      = domain.Asset{Contract: collection, TokenID: 1}

	oneToken = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))
)

// repoManagers are the storage backends the ledger tests run against.
var repoManagers = map[string]func(t *testing.T) ports.RepoManager{
	"inmemory": func(*testing.T) ports.RepoManager {
		return inmemory.NewRepoManager()
	},
	"badger": func(t *testing.T) ports.RepoManager {
		repo, err := dbbadger.NewRepoManager("", nil)
		require.NoError(t, err)
		t.Cleanup(repo.Close)
		return repo
	},
}

func tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), oneToken)
}

func amounts(ns ...uint64) []*uint256.Int {
	list := make([]*uint256.Int, 0, len(ns))
	for _, n := range ns {
		list = append(list, tokens(n))
	}
	return list
}

func decs(list []*uint256.Int) []string {
	res := make([]string, 0, len(list))
	for _, a := range list {
		res = append(res, a.Dec())
	}
	return res
}

type testLedger struct {
	repo        ports.RepoManager
	vault       *treasury.Vault
	registry    *registry.StaticRegistry
	feeEscrow   application.FeeEscrowService
	orderEscrow application.OrderEscrowService
	manager     application.RoyaltyManagerService
}

// newTestLedger returns the services of a ledger whose caller is always
// authorized, backed by a vault where player owns 100000 rawr.
func newTestLedger(t *testing.T) *testLedger {
	return newTestLedgerWith(t, nil, allowAll())
}

func newTestLedgerWith(
	t *testing.T, tr ports.Treasury, ac ports.AccessControl,
) *testLedger {
	return newTestLedgerOn(t, repoManagers["inmemory"], tr, ac)
}

// newTestLedgerOn is like newTestLedgerWith but stores the ledger in the repo
// returned by newRepo. A nil tr makes the vault the treasury.
func newTestLedgerOn(
	t *testing.T, newRepo func(*testing.T) ports.RepoManager,
	tr ports.Treasury, ac ports.AccessControl,
) *testLedger {
	vault := treasury.NewVault(custody)
	require.NoError(t, vault.Credit(rawr, player, tokens(100000)))
	if tr == nil {
		tr = vault
	}

	reg := registry.NewStaticRegistry()
	require.NoError(t, reg.Set(asset, domain.RoyaltyInfo{
		Receiver: creator, Rate: royaltyRate,
	}))

	repo := newRepo(t)
	_, err := repo.TokenRepository().AddTokens(ctx, []common.Address{rawr})
	require.NoError(t, err)

	feeEscrow, err := application.NewFeeEscrowService(repo, tr, ac, platformRate)
	require.NoError(t, err)
	orderEscrow, err := application.NewOrderEscrowService(repo, tr, ac, platformRate)
	require.NoError(t, err)
	manager, err := application.NewRoyaltyManagerService(
		repo, tr, ac, reg, platformRate,
	)
	require.NoError(t, err)

	return &testLedger{repo, vault, reg, feeEscrow, orderEscrow, manager}
}

// bookedTotal returns what the ledger records for a token across escrows,
// claimable balances and fees.
func (l *testLedger) bookedTotal(t *testing.T, token common.Address) *uint256.Int {
	total := domain.ZeroAmount()

	escrows, err := l.repo.EscrowRepository().GetAllEscrows(ctx)
	require.NoError(t, err)
	for _, e := range escrows {
		if e.Token == token {
			total.Add(total, e.Amount)
		}
	}

	claimables, err := l.repo.ClaimableRepository().GetAllClaimables(ctx)
	require.NoError(t, err)
	for _, c := range claimables {
		if c.Token == token {
			total.Add(total, c.Amount)
		}
	}

	fees, err := l.repo.FeeRepository().GetFeeTotal(ctx, token)
	require.NoError(t, err)
	total.Add(total, fees.Amount)

	return total
}

func calculatorOf(t *testing.T, l *testLedger) application.RoyaltyCalculatorService {
	calculator, err := application.NewRoyaltyCalculatorService(l.registry, l.feeEscrow)
	require.NoError(t, err)
	return calculator
}
