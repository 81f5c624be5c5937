package ports

import (
	"context"

	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

// RepoManager gives access to all the repositories of the ledger and runs
// units of work against them.
type RepoManager interface {
	EscrowRepository() domain.EscrowRepository
	ClaimableRepository() domain.ClaimableRepository
	FeeRepository() domain.FeeRepository
	TokenRepository() domain.TokenRepository
	JournalRepository() domain.JournalRepository

	// RunTransaction runs the handler as a single unit of work: either all
	// the writes made through the repositories with the given context are
	// committed, or none is if the handler returns an error.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
