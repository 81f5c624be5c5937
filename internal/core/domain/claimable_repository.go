package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimableRepository is the abstraction for any kind of database intended to
// persist ClaimableRecords.
type ClaimableRepository interface {
	// GetClaimable returns the record of the given owner for a token. An
	// empty record is returned if nothing is claimable.
	GetClaimable(
		ctx context.Context, owner, token common.Address,
	) (*ClaimableRecord, error)
	// GetClaimablesByOwner returns all the non-empty records of an owner.
	GetClaimablesByOwner(
		ctx context.Context, owner common.Address,
	) ([]ClaimableRecord, error)
	// GetAllClaimables returns all the non-empty records.
	GetAllClaimables(ctx context.Context) ([]ClaimableRecord, error)
	// UpdateClaimable updates the record of the given owner for a token.
	// Records left empty are removed.
	UpdateClaimable(
		ctx context.Context, owner, token common.Address,
		updateFn func(r *ClaimableRecord) (*ClaimableRecord, error),
	) error
}
