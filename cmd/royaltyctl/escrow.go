package main

import (
	"strconv"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	deposit = cli.Command{
		Name:  "deposit",
		Usage: "escrow tokens of a payer for one or more orders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Usage:    "the escrowed token",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "from",
				Usage:    "the payer account",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "order",
				Usage:    "the order id, repeat for a batch deposit",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "amount",
				Usage:    "the amount to escrow for the order at the same position",
				Required: true,
			},
		},
		Action: depositAction,
	}

	withdraw = cli.Command{
		Name:  "withdraw",
		Usage: "move tokens from the escrow of an order to the claimable balance of an owner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Usage:    "the escrowed token",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:     "order",
				Usage:    "the order id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "the owner that can later claim the amount",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "the amount to withdraw",
				Required: true,
			},
		},
		Action: withdrawAction,
	}

	balance = cli.Command{
		Name:  "balance",
		Usage: "get the escrowed balances of one or more orders",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "order",
				Usage:    "the order id, can be repeated",
				Required: true,
			},
		},
		Action: balanceAction,
	}

	claim = cli.Command{
		Name:  "claim",
		Usage: "pay out all the claimable balances of an owner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "the owner of the claimable balances",
				Required: true,
			},
		},
		Action: claimAction,
	}
)

func depositAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := parseAddress("token", ctx.String("token"))
	if err != nil {
		return err
	}
	payer, err := parseAddress("from", ctx.String("from"))
	if err != nil {
		return err
	}
	orderIDs, err := parseOrderIDs(ctx.StringSlice("order"))
	if err != nil {
		return err
	}
	amounts, err := l.parseAmounts(ctx.StringSlice("amount"))
	if err != nil {
		return err
	}

	svc := l.OrderEscrowService()
	if len(orderIDs) == 1 && len(amounts) == 1 {
		err = svc.Deposit(
			ctx.Context, l.caller, token, orderIDs[0], payer, amounts[0],
		)
	} else {
		err = svc.DepositBatch(ctx.Context, l.caller, token, orderIDs, payer, amounts)
	}
	if err != nil {
		return err
	}

	return printJSON(ctx, map[string]interface{}{
		"orders":  orderIDs,
		"amounts": l.formatAmounts(amounts),
	})
}

func withdrawAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := parseAddress("token", ctx.String("token"))
	if err != nil {
		return err
	}
	owner, err := parseAddress("to", ctx.String("to"))
	if err != nil {
		return err
	}
	amount, err := l.parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	return l.OrderEscrowService().WithdrawFromOrder(
		ctx.Context, l.caller, token, ctx.Uint64("order"), amount, owner,
	)
}

func balanceAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	orderIDs, err := parseOrderIDs(ctx.StringSlice("order"))
	if err != nil {
		return err
	}

	svc := l.OrderEscrowService()
	balances := make([]map[string]string, len(orderIDs))
	eg, egCtx := errgroup.WithContext(ctx.Context)
	for i, orderID := range orderIDs {
		i, orderID := i, orderID
		eg.Go(func() error {
			b, err := svc.BalanceByOrder(egCtx, orderID)
			if err != nil {
				return err
			}
			balances[i] = l.formatBalances(b)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	resp := make(map[string]map[string]string, len(orderIDs))
	for i, orderID := range orderIDs {
		resp[strconv.FormatUint(orderID, 10)] = balances[i]
	}
	return printJSON(ctx, resp)
}

func claimAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	owner, err := parseAddress("owner", ctx.String("owner"))
	if err != nil {
		return err
	}

	payouts, err := l.RoyaltyManagerService().ClaimRoyalties(
		ctx.Context, l.caller, owner,
	)
	if err != nil {
		return err
	}

	resp := make(map[string]string, len(payouts))
	for _, p := range payouts {
		resp[p.Token.Hex()] = l.formatAmount(p.Amount)
	}
	return printJSON(ctx, resp)
}
