package main

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var journal = cli.Command{
	Name:  "journal",
	Usage: "list the balance movements recorded by the ledger, oldest first",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "order",
			Usage: "only movements of the given order",
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "only movements involving the given owner",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "only movements of the given token",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "return only the last n movements",
		},
	},
	Action: journalAction,
}

type journalEntry struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Token   string  `json:"token"`
	OrderID *uint64 `json:"order_id,omitempty"`
	Owner   string  `json:"owner,omitempty"`
	Amount  string  `json:"amount"`
	Time    string  `json:"time"`
}

func journalAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	filter := domain.JournalFilter{MaxCount: ctx.Int("limit")}
	if ctx.IsSet("order") {
		orderID := ctx.Uint64("order")
		filter.OrderID = &orderID
	}
	if s := ctx.String("owner"); s != "" {
		owner, err := parseAddress("owner", s)
		if err != nil {
			return err
		}
		filter.Owner = &owner
	}
	if s := ctx.String("token"); s != "" {
		token, err := parseAddress("token", s)
		if err != nil {
			return err
		}
		filter.Token = &token
	}

	entries, err := l.OrderEscrowService().Journal(ctx.Context, filter)
	if err != nil {
		return err
	}

	resp := make([]journalEntry, 0, len(entries))
	for _, e := range entries {
		entry := journalEntry{
			ID:     e.ID,
			Kind:   e.Kind.String(),
			Token:  e.Token.Hex(),
			Amount: l.formatAmount(e.Amount),
			Time:   time.Unix(0, e.Timestamp).UTC().Format(time.RFC3339Nano),
		}
		if e.HasOrder {
			orderID := e.OrderID
			entry.OrderID = &orderID
		}
		if e.Owner != (common.Address{}) {
			entry.Owner = e.Owner.Hex()
		}
		resp = append(resp, entry)
	}
	return printJSON(ctx, resp)
}
