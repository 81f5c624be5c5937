package domain_test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	creator = common.HexToAddress("0x00000000000000000000000000000000000c0ffe")
	rawr    = common.HexToAddress("0x000000000000000000000000000000000000a55e")
	player  = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	oneToken = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))
)

// tokens returns n whole tokens with 18 decimals.
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
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Dec())
	}
	return out
}
