package treasury

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

var (
	// ErrInsufficientFunds is returned if an account can't cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Vault is an in-process custodial treasury. It keeps a balance for every
// token and account, and moves amounts between the accounts and the custody
// account of the ledger.
type Vault struct {
	custody  common.Address
	balances map[common.Address]map[common.Address]*uint256.Int
	locker   *sync.RWMutex
}

// NewVault returns an empty vault whose custody account is the given one.
func NewVault(custody common.Address) *Vault {
	return &Vault{
		custody:  custody,
		balances: make(map[common.Address]map[common.Address]*uint256.Int),
		locker:   &sync.RWMutex{},
	}
}

var _ ports.Treasury = (*Vault)(nil)

func (v *Vault) Custody() common.Address {
	return v.custody
}

// Credit adds amount of token to the balance of account, out of thin air.
// It's meant to fund accounts of local setups.
func (v *Vault) Credit(
	token, account common.Address, amount *uint256.Int,
) error {
	v.locker.Lock()
	defer v.locker.Unlock()

	balance, err := domain.AddAmount(v.balanceOf(token, account), amount)
	if err != nil {
		return err
	}
	v.setBalance(token, account, balance)
	return nil
}

func (v *Vault) BalanceOf(token, account common.Address) *uint256.Int {
	v.locker.RLock()
	defer v.locker.RUnlock()

	return new(uint256.Int).Set(v.balanceOf(token, account))
}

// CustodyBalance returns the amount of token held in custody.
func (v *Vault) CustodyBalance(token common.Address) *uint256.Int {
	return v.BalanceOf(token, v.custody)
}

func (v *Vault) TransferIn(
	ctx context.Context, token, from common.Address, amount *uint256.Int,
) error {
	return v.move(ctx, token, from, v.custody, amount)
}

func (v *Vault) TransferOut(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) error {
	return v.move(ctx, token, v.custody, to, amount)
}

func (v *Vault) move(
	ctx context.Context, token, from, to common.Address, amount *uint256.Int,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	if amount == nil {
		return domain.ErrInvalidAmount
	}

	v.locker.Lock()
	defer v.locker.Unlock()

	fromBalance := v.balanceOf(token, from)
	if fromBalance.Lt(amount) {
		return fmt.Errorf(
			"%w: %w: %s has %s of token %s, %s required",
			domain.ErrTransferFailed, ErrInsufficientFunds,
			from.Hex(), fromBalance.Dec(), token.Hex(), amount.Dec(),
		)
	}
	if from == to {
		return nil
	}
	toBalance, err := domain.AddAmount(v.balanceOf(token, to), amount)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}

	v.setBalance(token, from, new(uint256.Int).Sub(fromBalance, amount))
	v.setBalance(token, to, toBalance)
	return nil
}

func (v *Vault) balanceOf(token, account common.Address) *uint256.Int {
	if balance, ok := v.balances[token][account]; ok {
		return balance
	}
	return domain.ZeroAmount()
}

func (v *Vault) setBalance(
	token, account common.Address, balance *uint256.Int,
) {
	if _, ok := v.balances[token]; !ok {
		v.balances[token] = make(map[common.Address]*uint256.Int)
	}
	if balance.IsZero() {
		delete(v.balances[token], account)
		return
	}
	v.balances[token][account] = balance
}

type vaultState struct {
	Custody  string                       `json:"custody"`
	Balances map[string]map[string]string `json:"balances"`
}

// LoadVault restores a vault from the file at path. An empty vault with the
// given custody account is returned if the file does not exist.
func LoadVault(path string, custody common.Address) (*Vault, error) {
	vault := NewVault(custody)

	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vault, nil
		}
		return nil, err
	}

	var state vaultState
	if err := json.Unmarshal(buf, &state); err != nil {
		return nil, fmt.Errorf("invalid vault file %s: %w", path, err)
	}
	if len(state.Custody) > 0 {
		if !common.IsHexAddress(state.Custody) {
			return nil, fmt.Errorf("invalid custody address %s", state.Custody)
		}
		vault.custody = common.HexToAddress(state.Custody)
	}

	for token, accounts := range state.Balances {
		for account, amount := range accounts {
			balance, err := uint256.FromDecimal(amount)
			if err != nil {
				return nil, fmt.Errorf(
					"invalid balance of %s for token %s: %w", account, token, err,
				)
			}
			vault.setBalance(
				common.HexToAddress(token), common.HexToAddress(account), balance,
			)
		}
	}
	return vault, nil
}

// Save writes the state of the vault to the file at path.
func (v *Vault) Save(path string) error {
	v.locker.RLock()
	state := vaultState{
		Custody:  v.custody.Hex(),
		Balances: make(map[string]map[string]string, len(v.balances)),
	}
	for token, accounts := range v.balances {
		if len(accounts) <= 0 {
			continue
		}
		balances := make(map[string]string, len(accounts))
		for account, amount := range accounts {
			balances[account.Hex()] = amount.Dec()
		}
		state.Balances[token.Hex()] = balances
	}
	v.locker.RUnlock()

	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// Accounts returns the accounts holding some amount of token, sorted.
func (v *Vault) Accounts(token common.Address) []common.Address {
	v.locker.RLock()
	defer v.locker.RUnlock()

	accounts := make([]common.Address, 0, len(v.balances[token]))
	for account := range v.balances[token] {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Hex() < accounts[j].Hex()
	})
	return accounts
}
