package main

import (
	"github.com/urfave/cli/v2"
)

var (
	tokens = cli.Command{
		Name:  "tokens",
		Usage: "manage the tokens accepted by the order escrow",
		Subcommands: []*cli.Command{
			tokensAddCmd, tokensListCmd,
		},
	}

	tokensAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add one or more tokens to the supported ones",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "token",
				Usage:    "the token to add, can be repeated",
				Required: true,
			},
		},
		Action: tokensAddAction,
	}
	tokensListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the supported tokens in the order they were added",
		Action: tokensListAction,
	}
)

func tokensAddAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := parseAddresses("token", ctx.StringSlice("token"))
	if err != nil {
		return err
	}

	count, err := l.OrderEscrowService().AddSupportedTokens(ctx.Context, l.caller, list...)
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]int{"added": count})
}

func tokensListAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := l.OrderEscrowService().SupportedTokens(ctx.Context)
	if err != nil {
		return err
	}

	resp := make([]string, 0, len(list))
	for _, token := range list {
		resp = append(resp, token.Hex())
	}
	return printJSON(ctx, resp)
}
