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

// RoyaltyManagerService is the entry point for paying royalties and platform
// fees, either directly from a payer or out of the escrow of orders.
type RoyaltyManagerService interface {
	// TransferRoyalty transfers amount of token from payer into custody and
	// credits it to the claimable balance of receiver.
	TransferRoyalty(
		ctx context.Context, caller, payer, token, receiver common.Address,
		amount *uint256.Int,
	) error
	// TransferRoyaltyFromOrder credits amount to receiver out of the escrow
	// of the order. The order must have exactly one token escrowed.
	TransferRoyaltyFromOrder(
		ctx context.Context, caller common.Address, orderID uint64,
		receiver common.Address, amount *uint256.Int,
	) error
	// TransferRoyalties is like TransferRoyaltyFromOrder for many orders at
	// once. Either all transfers are recorded or none is.
	TransferRoyalties(
		ctx context.Context, caller common.Address, orderIDs []uint64,
		receiver common.Address, amounts []*uint256.Int,
	) error
	TransferPlatformFee(
		ctx context.Context, caller, payer, token common.Address,
		amount *uint256.Int,
	) error
	TransferPlatformFeeFromOrder(
		ctx context.Context, caller, token common.Address, orderID uint64,
		amount *uint256.Int,
	) error
	TransferPlatformFees(
		ctx context.Context, caller, token common.Address, orderIDs []uint64,
		amounts []*uint256.Int,
	) error
	PayableRoyalties(
		ctx context.Context, asset domain.Asset, amount *uint256.Int,
	) (*domain.RoyaltyQuote, error)
	BuyOrderRoyalties(
		ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
	) (*domain.BuyOrderQuote, error)
	SellOrderRoyalties(
		ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
	) (*domain.SellOrderQuote, error)
	// ClaimRoyalties pays out the claimable balances of owner like
	// OrderEscrowService.Claim does, with the same per token guarantees.
	ClaimRoyalties(
		ctx context.Context, caller, owner common.Address,
	) ([]domain.Payout, error)
	ClaimableRoyalties(
		ctx context.Context, owner common.Address,
	) (map[common.Address]*uint256.Int, error)
}

type royaltyManagerService struct {
	*ledger
	calculator RoyaltyCalculatorService
}

func NewRoyaltyManagerService(
	repoManager ports.RepoManager, treasury ports.Treasury,
	accessControl ports.AccessControl, registry ports.AssetRegistry,
	defaultFeeRate uint32,
) (RoyaltyManagerService, error) {
	l, err := newLedger(repoManager, treasury, accessControl, defaultFeeRate)
	if err != nil {
		return nil, err
	}
	calculator, err := NewRoyaltyCalculatorService(registry, &feeEscrowService{l})
	if err != nil {
		return nil, err
	}
	return &royaltyManagerService{l, calculator}, nil
}

func (s *royaltyManagerService) TransferRoyalty(
	ctx context.Context, caller, payer, token, receiver common.Address,
	amount *uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_royalty", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferRoyalty); err != nil {
		return err
	}
	if err := checkAmounts(amount); err != nil {
		return err
	}
	if err := s.checkSupported(ctx, token); err != nil {
		return err
	}

	if err := s.recordCredit(
		ctx, token, payer, amount, func(ctx context.Context) error {
			if err := s.creditClaimable(ctx, receiver, token, amount); err != nil {
				return err
			}
			entry := domain.NewJournalEntry(domain.EntryRoyalty, token, amount).
				WithOwner(receiver)
			return s.addJournalEntries(ctx, entry)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"token":    token.Hex(),
		"receiver": receiver.Hex(),
		"amount":   amount.Dec(),
	}).Debug("royalty credited")
	return nil
}

func (s *royaltyManagerService) TransferRoyaltyFromOrder(
	ctx context.Context, caller common.Address, orderID uint64,
	receiver common.Address, amount *uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_royalty_from_order", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferRoyalty); err != nil {
		return err
	}
	if err := checkAmounts(amount); err != nil {
		return err
	}

	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			entry, err := s.royaltyFromOrder(ctx, orderID, receiver, amount)
			if err != nil {
				return nil, err
			}
			return nil, s.addJournalEntries(ctx, *entry)
		},
	)
	return err
}

func (s *royaltyManagerService) TransferRoyalties(
	ctx context.Context, caller common.Address, orderIDs []uint64,
	receiver common.Address, amounts []*uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_royalties", start, err, amounts...)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferRoyalty); err != nil {
		return err
	}
	if len(orderIDs) != len(amounts) {
		return fmt.Errorf(
			"%w: %d orders, %d amounts",
			domain.ErrLengthMismatch, len(orderIDs), len(amounts),
		)
	}
	if err := checkAmounts(amounts...); err != nil {
		return err
	}

	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			entries := make([]domain.JournalEntry, 0, len(orderIDs))
			for i, orderID := range orderIDs {
				entry, err := s.royaltyFromOrder(ctx, orderID, receiver, amounts[i])
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				entries = append(entries, *entry)
			}
			return nil, s.addJournalEntries(ctx, entries...)
		},
	)
	return err
}

func (s *royaltyManagerService) TransferPlatformFee(
	ctx context.Context, caller, payer, token common.Address,
	amount *uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_platform_fee", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferFee); err != nil {
		return err
	}
	return s.collect(ctx, token, amount, payer)
}

func (s *royaltyManagerService) TransferPlatformFeeFromOrder(
	ctx context.Context, caller, token common.Address, orderID uint64,
	amount *uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_platform_fee_from_order", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferFee); err != nil {
		return err
	}
	if err := checkAmounts(amount); err != nil {
		return err
	}

	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			entry, err := s.moveToFees(ctx, token, orderID, amount)
			if err != nil {
				return nil, err
			}
			return nil, s.addJournalEntries(ctx, *entry)
		},
	)
	return err
}

func (s *royaltyManagerService) TransferPlatformFees(
	ctx context.Context, caller, token common.Address, orderIDs []uint64,
	amounts []*uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("transfer_platform_fees", start, err, amounts...)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpTransferFee); err != nil {
		return err
	}
	if len(orderIDs) != len(amounts) {
		return fmt.Errorf(
			"%w: %d orders, %d amounts",
			domain.ErrLengthMismatch, len(orderIDs), len(amounts),
		)
	}
	if err := checkAmounts(amounts...); err != nil {
		return err
	}

	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			entries := make([]domain.JournalEntry, 0, len(orderIDs))
			for i, orderID := range orderIDs {
				entry, err := s.moveToFees(ctx, token, orderID, amounts[i])
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				entries = append(entries, *entry)
			}
			return nil, s.addJournalEntries(ctx, entries...)
		},
	)
	return err
}

func (s *royaltyManagerService) PayableRoyalties(
	ctx context.Context, asset domain.Asset, amount *uint256.Int,
) (*domain.RoyaltyQuote, error) {
	return s.calculator.PayableRoyalty(ctx, asset, amount)
}

func (s *royaltyManagerService) BuyOrderRoyalties(
	ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
) (*domain.BuyOrderQuote, error) {
	return s.calculator.BuyOrderRoyalties(ctx, asset, amounts)
}

func (s *royaltyManagerService) SellOrderRoyalties(
	ctx context.Context, asset domain.Asset, amounts []*uint256.Int,
) (*domain.SellOrderQuote, error) {
	return s.calculator.SellOrderRoyalties(ctx, asset, amounts)
}

func (s *royaltyManagerService) ClaimRoyalties(
	ctx context.Context, caller, owner common.Address,
) (payouts []domain.Payout, err error) {
	defer func(start time.Time) {
		observe("claim_royalties", start, err, payoutAmounts(payouts)...)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpClaim); err != nil {
		return nil, err
	}
	return s.claim(ctx, owner)
}

func (s *royaltyManagerService) ClaimableRoyalties(
	ctx context.Context, owner common.Address,
) (map[common.Address]*uint256.Int, error) {
	return s.claimableByOwner(ctx, owner)
}

func (s *royaltyManagerService) royaltyFromOrder(
	ctx context.Context, orderID uint64, receiver common.Address,
	amount *uint256.Int,
) (*domain.JournalEntry, error) {
	token, err := s.orderToken(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.moveToClaimable(
		ctx, domain.EntryRoyalty, token, orderID, amount, receiver,
	)
}
