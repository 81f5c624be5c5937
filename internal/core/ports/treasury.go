package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Treasury physically moves tokens in and out of the ledger's custody.
type Treasury interface {
	// TransferIn moves amount of token from the given account into custody.
	TransferIn(
		ctx context.Context, token, from common.Address, amount *uint256.Int,
	) error
	// TransferOut moves amount of token from custody to the given account.
	TransferOut(
		ctx context.Context, token, to common.Address, amount *uint256.Int,
	) error
}
