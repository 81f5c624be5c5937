package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

const (
	EntryDeposit EntryKind = iota
	EntryRoyalty
	EntryPlatformFee
	EntryClaim
	EntryClaimReverted
	EntryWithdrawal
)

// EntryKind tells which balance movement a journal entry describes.
type EntryKind int

func (k EntryKind) String() string {
	switch k {
	case EntryDeposit:
		return "deposit"
	case EntryRoyalty:
		return "royalty"
	case EntryPlatformFee:
		return "platform_fee"
	case EntryClaim:
		return "claim"
	case EntryClaimReverted:
		return "claim_reverted"
	case EntryWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// JournalEntry records a single balance movement of the ledger. Entries are
// appended within the same unit of work of the movement they describe.
type JournalEntry struct {
	ID    string
	Kind  EntryKind
	Token common.Address
	// OrderID is meaningful only if HasOrder is true.
	OrderID  uint64
	HasOrder bool
	// Owner is the zero address for movements not involving an owner.
	Owner     common.Address
	Amount    *uint256.Int
	Timestamp int64
	// Index is the position of the entry among those of the same unit of work.
	Index int
}

// NewJournalEntry returns an entry with a fresh id and the current time.
func NewJournalEntry(
	kind EntryKind, token common.Address, amount *uint256.Int,
) JournalEntry {
	return JournalEntry{
		ID:        uuid.New().String(),
		Kind:      kind,
		Token:     token,
		Amount:    new(uint256.Int).Set(amount),
		Timestamp: time.Now().UnixNano(),
	}
}

// WithOrder binds the entry to an order.
func (e JournalEntry) WithOrder(orderID uint64) JournalEntry {
	e.OrderID = orderID
	e.HasOrder = true
	return e
}

// WithOwner binds the entry to an owner.
func (e JournalEntry) WithOwner(owner common.Address) JournalEntry {
	e.Owner = owner
	return e
}

// JournalFilter selects the entries returned by a journal query. The zero
// value selects all entries.
type JournalFilter struct {
	OrderID  *uint64
	Owner    *common.Address
	Token    *common.Address
	MaxCount int
}

// Match returns whether the entry is selected by the filter, MaxCount aside.
func (f JournalFilter) Match(e JournalEntry) bool {
	if f.OrderID != nil && (!e.HasOrder || e.OrderID != *f.OrderID) {
		return false
	}
	if f.Owner != nil && e.Owner != *f.Owner {
		return false
	}
	if f.Token != nil && e.Token != *f.Token {
		return false
	}
	return true
}
