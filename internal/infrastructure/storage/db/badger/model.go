package dbbadger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

const rateKey = "platform_fee_rate"

// Amounts and addresses are stored as strings so that records can be
// queried by field and are independent of the in-memory representation.

type Escrow struct {
	OrderID uint64
	Token   string
	Amount  string
}

type Claimable struct {
	Owner  string
	Token  string
	Amount string
}

type Fee struct {
	Token  string
	Amount string
}

type Rate struct {
	Rate uint32
}

type SupportedToken struct {
	Token    string
	Position int
}

type JournalEntry struct {
	ID        string
	Kind      int
	Token     string
	OrderID   uint64
	HasOrder  bool
	Owner     string
	Amount    string
	Timestamp int64
	Index     int
}

func parseAmount(s string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("malformed stored amount %q: %w", s, err)
	}
	return amount, nil
}

func toEscrowModel(r domain.EscrowRecord) Escrow {
	return Escrow{
		OrderID: r.OrderID,
		Token:   r.Token.Hex(),
		Amount:  r.Amount.Dec(),
	}
}

func (e Escrow) toDomain() (*domain.EscrowRecord, error) {
	amount, err := parseAmount(e.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.EscrowRecord{
		OrderID: e.OrderID,
		Token:   common.HexToAddress(e.Token),
		Amount:  amount,
	}, nil
}

func toClaimableModel(r domain.ClaimableRecord) Claimable {
	return Claimable{
		Owner:  r.Owner.Hex(),
		Token:  r.Token.Hex(),
		Amount: r.Amount.Dec(),
	}
}

func (c Claimable) toDomain() (*domain.ClaimableRecord, error) {
	amount, err := parseAmount(c.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.ClaimableRecord{
		Owner:  common.HexToAddress(c.Owner),
		Token:  common.HexToAddress(c.Token),
		Amount: amount,
	}, nil
}

func (f Fee) toDomain() (*domain.FeeTotal, error) {
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.FeeTotal{
		Token:  common.HexToAddress(f.Token),
		Amount: amount,
	}, nil
}

func toJournalEntryModel(e domain.JournalEntry) JournalEntry {
	return JournalEntry{
		ID:        e.ID,
		Kind:      int(e.Kind),
		Token:     e.Token.Hex(),
		OrderID:   e.OrderID,
		HasOrder:  e.HasOrder,
		Owner:     e.Owner.Hex(),
		Amount:    e.Amount.Dec(),
		Timestamp: e.Timestamp,
		Index:     e.Index,
	}
}

func (e JournalEntry) toDomain() (*domain.JournalEntry, error) {
	amount, err := parseAmount(e.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.JournalEntry{
		ID:        e.ID,
		Kind:      domain.EntryKind(e.Kind),
		Token:     common.HexToAddress(e.Token),
		OrderID:   e.OrderID,
		HasOrder:  e.HasOrder,
		Owner:     common.HexToAddress(e.Owner),
		Amount:    amount,
		Timestamp: e.Timestamp,
		Index:     e.Index,
	}, nil
}
