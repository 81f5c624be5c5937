package main

import (
	"github.com/urfave/cli/v2"
)

var fund = cli.Command{
	Name:  "fund",
	Usage: "credit tokens to an account of the local vault",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token",
			Usage:    "the token to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to credit, in token units",
			Required: true,
		},
	},
	Action: fundAction,
}

func fundAction(ctx *cli.Context) error {
	l, cleanup, err := getLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := parseAddress("token", ctx.String("token"))
	if err != nil {
		return err
	}
	account, err := parseAddress("account", ctx.String("account"))
	if err != nil {
		return err
	}
	amount, err := l.parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	if err := l.vault.Credit(token, account, amount); err != nil {
		return err
	}

	return printJSON(ctx, map[string]string{
		"account": account.Hex(),
		"balance": l.formatAmount(l.vault.BalanceOf(token, account)),
	})
}
