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

// OrderEscrowService keeps the amounts escrowed for every order and the
// amounts claimable by every owner.
type OrderEscrowService interface {
	// Deposit transfers amount of token from payer into custody and escrows
	// it for the order. Nothing is recorded if the transfer fails.
	Deposit(
		ctx context.Context, caller, token common.Address, orderID uint64,
		payer common.Address, amount *uint256.Int,
	) error
	// DepositBatch is like Deposit for many orders at once. Either all
	// deposits are recorded or none is.
	DepositBatch(
		ctx context.Context, caller, token common.Address, orderIDs []uint64,
		payer common.Address, amounts []*uint256.Int,
	) error
	// WithdrawFromOrder moves amount of token from the escrow of the order to
	// the claimable balance of owner.
	WithdrawFromOrder(
		ctx context.Context, caller, token common.Address, orderID uint64,
		amount *uint256.Int, owner common.Address,
	) error
	// Claim pays out all the claimable balances of owner, one token at a
	// time in token order. Each token is settled and paid on its own: if a
	// payout fails, the balance of that token is restored and the error is
	// returned along with the payouts already made, which are not undone.
	Claim(
		ctx context.Context, caller, owner common.Address,
	) ([]domain.Payout, error)
	BalanceByOrder(
		ctx context.Context, orderID uint64,
	) (map[common.Address]*uint256.Int, error)
	ClaimableByOwner(
		ctx context.Context, owner common.Address,
	) (map[common.Address]*uint256.Int, error)
	AddSupportedTokens(
		ctx context.Context, caller common.Address, tokens ...common.Address,
	) (int, error)
	IsSupportedToken(ctx context.Context, token common.Address) (bool, error)
	SupportedTokens(ctx context.Context) ([]common.Address, error)
	Journal(
		ctx context.Context, filter domain.JournalFilter,
	) ([]domain.JournalEntry, error)
}

type orderEscrowService struct {
	*ledger
}

func NewOrderEscrowService(
	repoManager ports.RepoManager, treasury ports.Treasury,
	accessControl ports.AccessControl, defaultFeeRate uint32,
) (OrderEscrowService, error) {
	l, err := newLedger(repoManager, treasury, accessControl, defaultFeeRate)
	if err != nil {
		return nil, err
	}
	return &orderEscrowService{l}, nil
}

func (s *orderEscrowService) Deposit(
	ctx context.Context, caller, token common.Address, orderID uint64,
	payer common.Address, amount *uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("deposit", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpDeposit); err != nil {
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
			if err := s.creditEscrow(ctx, orderID, token, amount); err != nil {
				return err
			}
			entry := domain.NewJournalEntry(domain.EntryDeposit, token, amount).
				WithOrder(orderID).WithOwner(payer)
			return s.addJournalEntries(ctx, entry)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"order":  orderID,
		"token":  token.Hex(),
		"amount": amount.Dec(),
	}).Debug("deposit escrowed")
	return nil
}

func (s *orderEscrowService) DepositBatch(
	ctx context.Context, caller, token common.Address, orderIDs []uint64,
	payer common.Address, amounts []*uint256.Int,
) (err error) {
	defer func(start time.Time) {
		observe("deposit_batch", start, err, amounts...)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpDepositBatch); err != nil {
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
	total, err := domain.SumAmounts(amounts)
	if err != nil {
		return err
	}
	if err := s.checkSupported(ctx, token); err != nil {
		return err
	}

	if err := s.recordCredit(
		ctx, token, payer, total, func(ctx context.Context) error {
			entries := make([]domain.JournalEntry, 0, len(orderIDs))
			for i, orderID := range orderIDs {
				if err := s.creditEscrow(ctx, orderID, token, amounts[i]); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				entries = append(entries, domain.NewJournalEntry(
					domain.EntryDeposit, token, amounts[i],
				).WithOrder(orderID).WithOwner(payer))
			}
			return s.addJournalEntries(ctx, entries...)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"orders": len(orderIDs),
		"token":  token.Hex(),
		"amount": total.Dec(),
	}).Debug("batch deposit escrowed")
	return nil
}

func (s *orderEscrowService) WithdrawFromOrder(
	ctx context.Context, caller, token common.Address, orderID uint64,
	amount *uint256.Int, owner common.Address,
) (err error) {
	defer func(start time.Time) {
		observe("withdraw_from_order", start, err, amount)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpWithdrawFromOrder); err != nil {
		return err
	}
	if err := checkAmounts(amount); err != nil {
		return err
	}

	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			entry, err := s.moveToClaimable(
				ctx, domain.EntryWithdrawal, token, orderID, amount, owner,
			)
			if err != nil {
				return nil, err
			}
			return nil, s.addJournalEntries(ctx, *entry)
		},
	)
	return err
}

func (s *orderEscrowService) Claim(
	ctx context.Context, caller, owner common.Address,
) (payouts []domain.Payout, err error) {
	defer func(start time.Time) {
		observe("claim", start, err, payoutAmounts(payouts)...)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpClaim); err != nil {
		return nil, err
	}
	return s.claim(ctx, owner)
}

func (s *orderEscrowService) BalanceByOrder(
	ctx context.Context, orderID uint64,
) (map[common.Address]*uint256.Int, error) {
	records, err := s.repoManager.EscrowRepository().GetEscrowsByOrder(
		ctx, orderID,
	)
	if err != nil {
		return nil, err
	}

	balances := make(map[common.Address]*uint256.Int, len(records))
	for _, r := range records {
		balances[r.Token] = r.Amount
	}
	return balances, nil
}

func (s *orderEscrowService) ClaimableByOwner(
	ctx context.Context, owner common.Address,
) (map[common.Address]*uint256.Int, error) {
	return s.claimableByOwner(ctx, owner)
}

func (s *orderEscrowService) AddSupportedTokens(
	ctx context.Context, caller common.Address, tokens ...common.Address,
) (count int, err error) {
	defer func(start time.Time) {
		observe("add_supported_tokens", start, err)
	}(time.Now())

	if err := s.authorize(ctx, caller, domain.OpAddSupportedTokens); err != nil {
		return -1, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.TokenRepository().AddTokens(ctx, tokens)
		},
	)
	if err != nil {
		return -1, err
	}

	count = res.(int)
	if count > 0 {
		log.Infof("added %d supported token(s)", count)
	}
	return count, nil
}

func (s *orderEscrowService) IsSupportedToken(
	ctx context.Context, token common.Address,
) (bool, error) {
	return s.repoManager.TokenRepository().IsSupported(ctx, token)
}

func (s *orderEscrowService) SupportedTokens(
	ctx context.Context,
) ([]common.Address, error) {
	return s.repoManager.TokenRepository().GetAllTokens(ctx)
}

func (s *orderEscrowService) Journal(
	ctx context.Context, filter domain.JournalFilter,
) ([]domain.JournalEntry, error) {
	return s.repoManager.JournalRepository().GetEntries(ctx, filter)
}

func (l *ledger) claimableByOwner(
	ctx context.Context, owner common.Address,
) (map[common.Address]*uint256.Int, error) {
	records, err := l.repoManager.ClaimableRepository().GetClaimablesByOwner(
		ctx, owner,
	)
	if err != nil {
		return nil, err
	}

	balances := make(map[common.Address]*uint256.Int, len(records))
	for _, r := range records {
		balances[r.Token] = r.Amount
	}
	return balances, nil
}

func payoutAmounts(payouts []domain.Payout) []*uint256.Int {
	amounts := make([]*uint256.Int, 0, len(payouts))
	for _, p := range payouts {
		amounts = append(amounts, p.Amount)
	}
	return amounts
}
