package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/tdex-network/royalty-ledger/internal/core/ports"
)

// ledger holds the primitives shared by all services. Unless they say
// otherwise, methods expect to run within a unit of work started by the
// caller.
type ledger struct {
	repoManager    ports.RepoManager
	treasury       ports.Treasury
	accessControl  ports.AccessControl
	defaultFeeRate uint32
}

func newLedger(
	repoManager ports.RepoManager, treasury ports.Treasury,
	accessControl ports.AccessControl, defaultFeeRate uint32,
) (*ledger, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if treasury == nil {
		return nil, fmt.Errorf("missing treasury")
	}
	if accessControl == nil {
		return nil, fmt.Errorf("missing access control")
	}
	if !domain.IsValidRate(defaultFeeRate) {
		return nil, fmt.Errorf("default fee rate: %w", domain.ErrInvalidRate)
	}
	return &ledger{repoManager, treasury, accessControl, defaultFeeRate}, nil
}

func (l *ledger) authorize(
	ctx context.Context, caller common.Address, op domain.Operation,
) error {
	ok, err := l.accessControl.Authorize(ctx, caller, op)
	if err != nil {
		return fmt.Errorf("authorizing %s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s may not %s", domain.ErrUnauthorized, caller.Hex(), op)
	}
	return nil
}

func (l *ledger) checkSupported(ctx context.Context, token common.Address) error {
	ok, err := l.repoManager.TokenRepository().IsSupported(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedToken, token.Hex())
	}
	return nil
}

func (l *ledger) feeRate(ctx context.Context) (uint32, error) {
	rate, found, err := l.repoManager.FeeRepository().GetRate(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return l.defaultFeeRate, nil
	}
	return rate, nil
}

func (l *ledger) transferIn(
	ctx context.Context, token, from common.Address, amount *uint256.Int,
) error {
	if err := l.treasury.TransferIn(ctx, token, from, amount); err != nil {
		return transferError(err)
	}
	return nil
}

func (l *ledger) transferOut(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) error {
	if err := l.treasury.TransferOut(ctx, token, to, amount); err != nil {
		return transferError(err)
	}
	return nil
}

// refund gives back an amount already transferred in whose recording
// failed.
func (l *ledger) refund(
	ctx context.Context, token, to common.Address, amount *uint256.Int,
) {
	if err := l.treasury.TransferOut(ctx, token, to, amount); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"token":  token.Hex(),
			"to":     to.Hex(),
			"amount": amount.Dec(),
		}).Error("failed to refund amount after recording failure")
	}
}

// recordCredit runs record in a unit of work after amount has been
// transferred in from payer. The amount is refunded if record fails.
func (l *ledger) recordCredit(
	ctx context.Context, token, payer common.Address, amount *uint256.Int,
	record func(ctx context.Context) error,
) error {
	if err := l.transferIn(ctx, token, payer, amount); err != nil {
		return err
	}
	if _, err := l.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, record(ctx)
		},
	); err != nil {
		l.refund(ctx, token, payer, amount)
		return err
	}
	return nil
}

func (l *ledger) creditEscrow(
	ctx context.Context, orderID uint64, token common.Address,
	amount *uint256.Int,
) error {
	return l.repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderID, token,
		func(r *domain.EscrowRecord) (*domain.EscrowRecord, error) {
			if err := r.Deposit(amount); err != nil {
				return nil, err
			}
			return r, nil
		},
	)
}

func (l *ledger) debitEscrow(
	ctx context.Context, orderID uint64, token common.Address,
	amount *uint256.Int,
) error {
	return l.repoManager.EscrowRepository().UpdateEscrow(
		ctx, orderID, token,
		func(r *domain.EscrowRecord) (*domain.EscrowRecord, error) {
			if err := r.Withdraw(amount); err != nil {
				return nil, fmt.Errorf(
					"order %d has %s of token %s: %w",
					orderID, r.Amount.Dec(), token.Hex(), err,
				)
			}
			return r, nil
		},
	)
}

func (l *ledger) creditClaimable(
	ctx context.Context, owner, token common.Address, amount *uint256.Int,
) error {
	return l.repoManager.ClaimableRepository().UpdateClaimable(
		ctx, owner, token,
		func(r *domain.ClaimableRecord) (*domain.ClaimableRecord, error) {
			if err := r.Credit(amount); err != nil {
				return nil, err
			}
			return r, nil
		},
	)
}

func (l *ledger) collectFee(
	ctx context.Context, token common.Address, amount *uint256.Int,
) error {
	return l.repoManager.FeeRepository().UpdateFeeTotal(
		ctx, token, func(f *domain.FeeTotal) (*domain.FeeTotal, error) {
			if err := f.Collect(amount); err != nil {
				return nil, err
			}
			return f, nil
		},
	)
}

// orderToken returns the only token escrowed for the order.
func (l *ledger) orderToken(
	ctx context.Context, orderID uint64,
) (common.Address, error) {
	records, err := l.repoManager.EscrowRepository().GetEscrowsByOrder(
		ctx, orderID,
	)
	if err != nil {
		return common.Address{}, err
	}
	switch len(records) {
	case 0:
		return common.Address{}, fmt.Errorf(
			"%w: nothing escrowed for order %d", domain.ErrInsufficientEscrow, orderID,
		)
	case 1:
		return records[0].Token, nil
	default:
		return common.Address{}, fmt.Errorf(
			"%w: order %d", domain.ErrAmbiguousOrderToken, orderID,
		)
	}
}

// moveToClaimable moves an amount from the escrow of an order to the
// claimable balance of owner.
func (l *ledger) moveToClaimable(
	ctx context.Context, kind domain.EntryKind, token common.Address,
	orderID uint64, amount *uint256.Int, owner common.Address,
) (*domain.JournalEntry, error) {
	if err := l.debitEscrow(ctx, orderID, token, amount); err != nil {
		return nil, err
	}
	if err := l.creditClaimable(ctx, owner, token, amount); err != nil {
		return nil, err
	}
	entry := domain.NewJournalEntry(kind, token, amount).
		WithOrder(orderID).WithOwner(owner)
	return &entry, nil
}

// moveToFees moves an amount from the escrow of an order to the collected
// fees.
func (l *ledger) moveToFees(
	ctx context.Context, token common.Address, orderID uint64,
	amount *uint256.Int,
) (*domain.JournalEntry, error) {
	if err := l.debitEscrow(ctx, orderID, token, amount); err != nil {
		return nil, err
	}
	if err := l.collectFee(ctx, token, amount); err != nil {
		return nil, err
	}
	entry := domain.NewJournalEntry(domain.EntryPlatformFee, token, amount).
		WithOrder(orderID)
	return &entry, nil
}

// addJournalEntries appends the entries of a unit of work with the same
// timestamp, in the given order.
func (l *ledger) addJournalEntries(
	ctx context.Context, entries ...domain.JournalEntry,
) error {
	if len(entries) <= 0 {
		return nil
	}
	now := time.Now().UnixNano()
	for i := range entries {
		entries[i].Timestamp = now
		entries[i].Index = i
	}
	return l.repoManager.JournalRepository().AddEntries(ctx, entries)
}

// claim pays out every claimable balance of owner, one token at a time. The
// record of a token is removed before the payout and restored if the payout
// fails. On error, the returned payouts are those already made.
func (l *ledger) claim(
	ctx context.Context, owner common.Address,
) ([]domain.Payout, error) {
	records, err := l.repoManager.ClaimableRepository().GetClaimablesByOwner(
		ctx, owner,
	)
	if err != nil {
		return nil, err
	}

	payouts := make([]domain.Payout, 0, len(records))
	for _, record := range records {
		token := record.Token
		res, err := l.repoManager.RunTransaction(
			ctx, false, func(ctx context.Context) (interface{}, error) {
				var amount *uint256.Int
				if err := l.repoManager.ClaimableRepository().UpdateClaimable(
					ctx, owner, token,
					func(r *domain.ClaimableRecord) (*domain.ClaimableRecord, error) {
						amount = r.Settle()
						return r, nil
					},
				); err != nil {
					return nil, err
				}
				if amount.IsZero() {
					return amount, nil
				}
				entry := domain.NewJournalEntry(domain.EntryClaim, token, amount).
					WithOwner(owner)
				return amount, l.addJournalEntries(ctx, entry)
			},
		)
		if err != nil {
			return payouts, err
		}

		amount := res.(*uint256.Int)
		if amount.IsZero() {
			continue
		}

		if err := l.transferOut(ctx, token, owner, amount); err != nil {
			l.restoreClaimable(ctx, owner, token, amount)
			return payouts, err
		}
		payouts = append(payouts, domain.Payout{Token: token, Amount: amount})
	}
	return payouts, nil
}

func (l *ledger) restoreClaimable(
	ctx context.Context, owner, token common.Address, amount *uint256.Int,
) {
	if _, err := l.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := l.creditClaimable(ctx, owner, token, amount); err != nil {
				return nil, err
			}
			entry := domain.NewJournalEntry(
				domain.EntryClaimReverted, token, amount,
			).WithOwner(owner)
			return nil, l.addJournalEntries(ctx, entry)
		},
	); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"owner":  owner.Hex(),
			"token":  token.Hex(),
			"amount": amount.Dec(),
		}).Error("failed to restore claimable balance after payout failure")
	}
}

func transferError(err error) error {
	if errors.Is(err, domain.ErrTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
}

func checkAmounts(amounts ...*uint256.Int) error {
	for i, amount := range amounts {
		if amount == nil {
			if len(amounts) == 1 {
				return domain.ErrInvalidAmount
			}
			return fmt.Errorf("item %d: %w", i, domain.ErrInvalidAmount)
		}
	}
	return nil
}
