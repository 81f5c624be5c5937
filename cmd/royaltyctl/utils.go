package main

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(name string, list []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(list))
	for _, s := range list {
		address, err := parseAddress(name, s)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

func parseOrderIDs(list []string) ([]uint64, error) {
	orderIDs := make([]uint64, 0, len(list))
	for _, s := range list {
		orderID, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q", s)
		}
		orderIDs = append(orderIDs, orderID)
	}
	return orderIDs, nil
}

func (l *ledger) parseAmount(s string) (*uint256.Int, error) {
	return domain.ParseAmount(s, l.decimals)
}

func (l *ledger) parseAmounts(list []string) ([]*uint256.Int, error) {
	amounts := make([]*uint256.Int, 0, len(list))
	for _, s := range list {
		amount, err := l.parseAmount(s)
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", s, err)
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

func (l *ledger) formatAmount(amount *uint256.Int) string {
	return domain.FormatAmount(amount, l.decimals)
}

func (l *ledger) formatAmounts(amounts []*uint256.Int) []string {
	list := make([]string, 0, len(amounts))
	for _, a := range amounts {
		list = append(list, l.formatAmount(a))
	}
	return list
}

func (l *ledger) formatBalances(
	balances map[common.Address]*uint256.Int,
) map[string]string {
	res := make(map[string]string, len(balances))
	for token, amount := range balances {
		res[token.Hex()] = l.formatAmount(amount)
	}
	return res
}
