package main

import (
	"github.com/holiman/uint256"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var assetFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "contract",
		Usage:    "the collection contract of the asset",
		Required: true,
	},
	&cli.Uint64Flag{
		Name:  "token-id",
		Usage: "the id of the asset within the collection",
	},
	&cli.StringSliceFlag{
		Name:     "amount",
		Usage:    "the gross amount, can be repeated for buy and sell orders",
		Required: true,
	},
}

var (
	quote = cli.Command{
		Name:  "quote",
		Usage: "compute royalties and fees owed for an asset without moving funds",
		Subcommands: []*cli.Command{
			quotePayableCmd, quoteBuyCmd, quoteSellCmd,
		},
	}

	quotePayableCmd = &cli.Command{
		Name:   "payable",
		Usage:  "split a single amount between royalty receiver and seller",
		Flags:  assetFlags,
		Action: quotePayableAction,
	}
	quoteBuyCmd = &cli.Command{
		Name:   "buy",
		Usage:  "royalty and platform fee for every bid of a buy order",
		Flags:  assetFlags,
		Action: quoteBuyAction,
	}
	quoteSellCmd = &cli.Command{
		Name:   "sell",
		Usage:  "total royalty for a sell order filled by many orders",
		Flags:  assetFlags,
		Action: quoteSellAction,
	}
)

func quotePayableAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	asset, amounts, err := l.parseQuoteRequest(ctx)
	if err != nil {
		return err
	}
	if len(amounts) != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	q, err := l.RoyaltyCalculatorService().PayableRoyalty(ctx.Context, asset, amounts[0])
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]string{
		"receiver":    q.Receiver.Hex(),
		"royalty_fee": l.formatAmount(q.RoyaltyFee),
		"remaining":   l.formatAmount(q.Remaining),
	})
}

func quoteBuyAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	asset, amounts, err := l.parseQuoteRequest(ctx)
	if err != nil {
		return err
	}

	q, err := l.RoyaltyCalculatorService().BuyOrderRoyalties(ctx.Context, asset, amounts)
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]interface{}{
		"receiver":      q.Receiver.Hex(),
		"royalty_fees":  l.formatAmounts(q.RoyaltyFees),
		"platform_fees": l.formatAmounts(q.PlatformFees),
		"remaining":     l.formatAmounts(q.Remaining),
	})
}

func quoteSellAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	asset, amounts, err := l.parseQuoteRequest(ctx)
	if err != nil {
		return err
	}

	q, err := l.RoyaltyCalculatorService().SellOrderRoyalties(ctx.Context, asset, amounts)
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]interface{}{
		"receiver":      q.Receiver.Hex(),
		"royalty_total": l.formatAmount(q.RoyaltyTotal),
		"remaining":     l.formatAmounts(q.Remaining),
	})
}

func (l *ledger) parseQuoteRequest(
	ctx *cli.Context,
) (domain.Asset, []*uint256.Int, error) {
	contract, err := parseAddress("contract", ctx.String("contract"))
	if err != nil {
		return domain.Asset{}, nil, err
	}
	amounts, err := l.parseAmounts(ctx.StringSlice("amount"))
	if err != nil {
		return domain.Asset{}, nil, err
	}
	return domain.Asset{Contract: contract, TokenID: ctx.Uint64("token-id")}, amounts, nil
}
