package main

import (
	"fmt"

	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var (
	fees = cli.Command{
		Name:   "fees",
		Usage:  "get the platform fee rate and the fees collected for every token",
		Action: feesAction,
	}

	setRate = cli.Command{
		Name:  "setrate",
		Usage: "update the platform fee rate",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:     "rate",
				Usage:    "the new rate in basis points",
				Required: true,
			},
		},
		Action: setRateAction,
	}
)

func feesAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := l.FeeEscrowService()
	rate, err := svc.Rate(ctx.Context)
	if err != nil {
		return err
	}
	totals, err := svc.AllFees(ctx.Context)
	if err != nil {
		return err
	}

	collected := make(map[string]string, len(totals))
	for _, t := range totals {
		collected[t.Token.Hex()] = l.formatAmount(t.Amount)
	}
	return printJSON(ctx, map[string]interface{}{
		"rate": rate,
		"fees": collected,
	})
}

func setRateAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	rate := ctx.Uint("rate")
	if rate > domain.BasisPoints {
		return fmt.Errorf("%w: %d", domain.ErrInvalidRate, rate)
	}
	return l.FeeEscrowService().SetRate(ctx.Context, l.caller, uint32(rate))
}
