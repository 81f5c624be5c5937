package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// AccessControl decides whether a caller may run a mutating operation.
type AccessControl interface {
	Authorize(
		ctx context.Context, caller common.Address, op domain.Operation,
	) (bool, error)
}
