package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

// FeeEscrowService keeps the platform fees collected for every token and the
// platform fee rate.
type FeeEscrowService interface {
	// Collect transfers amount of token from source into custody and adds it
	// to the fees collected for the token.
	Collect(
		ctx context.Context, caller, token common.Address,
		amount *uint256.Int, source common.Address,
	) error
	SetRate(ctx context.Context, caller common.Address, rate uint32) error
	// Rate returns the platform fee rate in basis points.
	Rate(ctx context.Context) (uint32, error)
	TotalFees(ctx context.Context, token common.Address) (*uint256.Int, error)
	AllFees(ctx context.Context) ([]domain.FeeTotal, error)
}

type feeEscrowService struct {
	*ledger
}

func NewFeeEscrowService(
	repoManager ports.RepoManager, treasury ports.Treasury,
	accessControl ports.AccessControl, defaultFeeRate uint32,
) (FeeEscrowService, error) {
	l, err := newLedger(repoManager, treasury, accessControl, defaultFeeRate)
	if err != nil {
		return nil, err
	}
	return &feeEscrowService{l}, nil
}

func (s *feeEscrowService) Collect(
	ctx context.Context, caller, token common.Address,
	amount *uint256.Int, source common.Address,
) (err error) {
	defer func(start time.Time) {
		observe("collect_fee", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpCollectFee); err != nil {
		return err
	}
	return s.collect(ctx, token, amount, source)
}

func (s *feeEscrowService) SetRate(
	ctx context.Context, caller common.Address, rate uint32,
) (err error) {
	defer func(start time.Time) {
		observe("set_fee_rate", start, err)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpSetFeeRate); err != nil {
		return err
	}
	if !domain.IsValidRate(rate) {
		return fmt.Errorf(
			"%w: %d bps is out of range [0, %d]",
			domain.ErrInvalidRate, rate, domain.BasisPoints,
		)
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.FeeRepository().UpdateRate(ctx, rate)
		},
	); err != nil {
		return err
	}

	log.Infof("platform fee rate set to %d bps", rate)
	return nil
}

func (s *feeEscrowService) Rate(ctx context.Context) (uint32, error) {
	return s.feeRate(ctx)
}

func (s *feeEscrowService) TotalFees(
	ctx context.Context, token common.Address,
) (*uint256.Int, error) {
	fees, err := s.repoManager.FeeRepository().GetFeeTotal(ctx, token)
	if err != nil {
		return nil, err
	}
	return fees.Amount, nil
}

func (s *feeEscrowService) AllFees(ctx context.Context) ([]domain.FeeTotal, error) {
	return s.repoManager.FeeRepository().GetAllFeeTotals(ctx)
}

// collect is shared with the royalty manager that authorizes the caller on
// its own.
func (l *ledger) collect(
	ctx context.Context, token common.Address, amount *uint256.Int,
	source common.Address,
) error {
	if err := checkAmounts(amount); err != nil {
		return err
	}

	if err := l.recordCredit(
		ctx, token, source, amount, func(ctx context.Context) error {
			if err := l.collectFee(ctx, token, amount); err != nil {
				return err
			}
			entry := domain.NewJournalEntry(domain.EntryPlatformFee, token, amount).
				WithOwner(source)
			return l.addJournalEntries(ctx, entry)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"token":  token.Hex(),
		"source": source.Hex(),
		"amount": amount.Dec(),
	}).Debug("platform fee collected")
	return nil
}
