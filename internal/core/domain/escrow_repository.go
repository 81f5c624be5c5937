package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// EscrowRepository is the abstraction for any kind of database intended to
// persist EscrowRecords.
type EscrowRepository interface {
	// GetEscrow returns the record of the given order for a token. An empty
	// record is returned if nothing is escrowed.
	GetEscrow(
		ctx context.Context, orderID uint64, token common.Address,
	) (*EscrowRecord, error)
	// GetEscrowsByOrder returns all the non-empty records of an order.
	GetEscrowsByOrder(ctx context.Context, orderID uint64) ([]EscrowRecord, error)
	// GetAllEscrows returns all the non-empty records.
	GetAllEscrows(ctx context.Context) ([]EscrowRecord, error)
	// UpdateEscrow updates the record of the given order for a token. The
	// closure function let's to commit multiple changes to a record in a
	// transactional way. Records left empty are removed.
	UpdateEscrow(
		ctx context.Context, orderID uint64, token common.Address,
		updateFn func(r *EscrowRecord) (*EscrowRecord, error),
	) error
}
