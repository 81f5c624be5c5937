package main

import (
	"github.com/urfave/cli/v2"
)

var (
	royalty = cli.Command{
		Name: "royalty",
		Usage: "credit royalties to a receiver, either out of the escrow of " +
			"orders or directly from a payer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "receiver",
				Usage:    "the royalty receiver",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "amount",
				Usage:    "the royalty amount, one per order",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "order",
				Usage: "the order paying the royalty, can be repeated",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "the payer of a direct royalty transfer",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "the token of a direct royalty transfer",
			},
		},
		Action: royaltyAction,
	}

	platformFee = cli.Command{
		Name: "platformfee",
		Usage: "collect platform fees, either out of the escrow of orders or " +
			"directly from a payer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Usage:    "the fee token",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "amount",
				Usage:    "the fee amount, one per order",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "order",
				Usage: "the order paying the fee, can be repeated",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "the payer of a direct fee transfer",
			},
		},
		Action: platformFeeAction,
	}

	claimable = cli.Command{
		Name:  "claimable",
		Usage: "get the claimable balances of an owner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "the owner of the claimable balances",
				Required: true,
			},
		},
		Action: claimableAction,
	}
)

func royaltyAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	receiver, err := parseAddress("receiver", ctx.String("receiver"))
	if err != nil {
		return err
	}
	amounts, err := l.parseAmounts(ctx.StringSlice("amount"))
	if err != nil {
		return err
	}

	svc := l.RoyaltyManagerService()
	if from := ctx.String("from"); from != "" {
		if len(amounts) != 1 || len(ctx.StringSlice("order")) > 0 {
			return &invalidUsageError{ctx, ctx.Command.Name}
		}
		payer, err := parseAddress("from", from)
		if err != nil {
			return err
		}
		token, err := parseAddress("token", ctx.String("token"))
		if err != nil {
			return err
		}
		return svc.TransferRoyalty(
			ctx.Context, l.caller, payer, token, receiver, amounts[0],
		)
	}

	orderIDs, err := parseOrderIDs(ctx.StringSlice("order"))
	if err != nil {
		return err
	}
	if len(orderIDs) == 1 && len(amounts) == 1 {
		return svc.TransferRoyaltyFromOrder(
			ctx.Context, l.caller, orderIDs[0], receiver, amounts[0],
		)
	}
	return svc.TransferRoyalties(ctx.Context, l.caller, orderIDs, receiver, amounts)
}

func platformFeeAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := parseAddress("token", ctx.String("token"))
	if err != nil {
		return err
	}
	amounts, err := l.parseAmounts(ctx.StringSlice("amount"))
	if err != nil {
		return err
	}

	svc := l.RoyaltyManagerService()
	if from := ctx.String("from"); from != "" {
		if len(amounts) != 1 || len(ctx.StringSlice("order")) > 0 {
			return &invalidUsageError{ctx, ctx.Command.Name}
		}
		payer, err := parseAddress("from", from)
		if err != nil {
			return err
		}
		return svc.TransferPlatformFee(ctx.Context, l.caller, payer, token, amounts[0])
	}

	orderIDs, err := parseOrderIDs(ctx.StringSlice("order"))
	if err != nil {
		return err
	}
	if len(orderIDs) == 1 && len(amounts) == 1 {
		return svc.TransferPlatformFeeFromOrder(
			ctx.Context, l.caller, token, orderIDs[0], amounts[0],
		)
	}
	return svc.TransferPlatformFees(ctx.Context, l.caller, token, orderIDs, amounts)
}

func claimableAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	owner, err := parseAddress("owner", ctx.String("owner"))
	if err != nil {
		return err
	}

	balances, err := l.RoyaltyManagerService().ClaimableRoyalties(ctx.Context, owner)
	if err != nil {
		return err
	}
	return printJSON(ctx, l.formatBalances(balances))
}
