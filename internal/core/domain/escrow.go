package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EscrowRecord is the amount of a token held in custody for an order.
type EscrowRecord struct {
	OrderID uint64
	Token   common.Address
	Amount  *uint256.Int
}

// NewEscrowRecord returns an empty record for the given order and token.
func NewEscrowRecord(orderID uint64, token common.Address) *EscrowRecord {
	return &EscrowRecord{
		OrderID: orderID,
		Token:   token,
		Amount:  ZeroAmount(),
	}
}

// EscrowKey identifies the escrow record of an order for a token.
func EscrowKey(orderID uint64, token common.Address) string {
	return fmt.Sprintf("%d:%s", orderID, token.Hex())
}

func (r EscrowRecord) Key() string {
	return EscrowKey(r.OrderID, r.Token)
}

func (r EscrowRecord) IsEmpty() bool {
	return r.Amount == nil || r.Amount.IsZero()
}

// Deposit increases the escrowed amount.
func (r *EscrowRecord) Deposit(amount *uint256.Int) error {
	sum, err := AddAmount(r.balance(), amount)
	if err != nil {
		return err
	}
	r.Amount = sum
	return nil
}

// Withdraw decreases the escrowed amount. The record is left untouched if the
// amount exceeds the balance.
func (r *EscrowRecord) Withdraw(amount *uint256.Int) error {
	if amount == nil {
		return ErrInvalidAmount
	}
	if r.balance().Lt(amount) {
		return ErrInsufficientEscrow
	}
	r.Amount = new(uint256.Int).Sub(r.balance(), amount)
	return nil
}

func (r *EscrowRecord) balance() *uint256.Int {
	if r.Amount == nil {
		return ZeroAmount()
	}
	return r.Amount
}

// ClaimableRecord is the amount of a token credited to an owner and not yet
// paid out.
type ClaimableRecord struct {
	Owner  common.Address
	Token  common.Address
	Amount *uint256.Int
}

// NewClaimableRecord returns an empty record for the given owner and token.
func NewClaimableRecord(owner, token common.Address) *ClaimableRecord {
	return &ClaimableRecord{
		Owner:  owner,
		Token:  token,
		Amount: ZeroAmount(),
	}
}

// ClaimableKey identifies the claimable record of an owner for a token.
func ClaimableKey(owner, token common.Address) string {
	return fmt.Sprintf("%s:%s", owner.Hex(), token.Hex())
}

func (r ClaimableRecord) Key() string {
	return ClaimableKey(r.Owner, r.Token)
}

func (r ClaimableRecord) IsEmpty() bool {
	return r.Amount == nil || r.Amount.IsZero()
}

// Credit increases the claimable amount.
func (r *ClaimableRecord) Credit(amount *uint256.Int) error {
	balance := r.Amount
	if balance == nil {
		balance = ZeroAmount()
	}
	sum, err := AddAmount(balance, amount)
	if err != nil {
		return err
	}
	r.Amount = sum
	return nil
}

// Settle zeroes the record and returns what was claimable.
func (r *ClaimableRecord) Settle() *uint256.Int {
	amount := r.Amount
	if amount == nil {
		amount = ZeroAmount()
	}
	r.Amount = ZeroAmount()
	return amount
}

// FeeTotal is the cumulative amount of platform fees collected for a token.
type FeeTotal struct {
	Token  common.Address
	Amount *uint256.Int
}

// NewFeeTotal returns an empty fee total for the given token.
func NewFeeTotal(token common.Address) *FeeTotal {
	return &FeeTotal{
		Token:  token,
		Amount: ZeroAmount(),
	}
}

// Collect increases the collected amount.
func (f *FeeTotal) Collect(amount *uint256.Int) error {
	balance := f.Amount
	if balance == nil {
		balance = ZeroAmount()
	}
	sum, err := AddAmount(balance, amount)
	if err != nil {
		return err
	}
	f.Amount = sum
	return nil
}

// Payout is an amount of a token sent to an owner by a claim.
type Payout struct {
	Token  common.Address
	Amount *uint256.Int
}
