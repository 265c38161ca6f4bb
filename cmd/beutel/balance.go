package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var balanceCmd = cli.Command{
	Name:   "balance",
	Usage:  "print the balance of the wallet",
	Action: balanceAction,
}

var transactionsCmd = cli.Command{
	Name:   "transactions",
	Usage:  "list the transactions of the wallet address",
	Action: transactionsAction,
}

var txCmd = cli.Command{
	Name:      "tx",
	Usage:     "decode a transaction fetched from the explorer",
	ArgsUsage: "<txid>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "hex",
			Usage: "print only the raw transaction",
		},
	},
	Action: txAction,
}

var feesCmd = cli.Command{
	Name:   "fees",
	Usage:  "print the current fee rate schedule in sat/vB",
	Action: feesAction,
}

func balanceAction(ctx *cli.Context) error {
	res := struct {
		ConfirmedBTC   string `json:"confirmed_btc"`
		UnconfirmedBTC string `json:"unconfirmed_btc"`
		TotalBTC       string `json:"total_btc"`
	}{}
	if err := get("/v1/wallet/balance", &res); err != nil {
		return err
	}

	fmt.Printf("confirmed:   %s BTC\n", res.ConfirmedBTC)
	fmt.Printf("unconfirmed: %s BTC\n", res.UnconfirmedBTC)
	fmt.Printf("total:       %s BTC\n", res.TotalBTC)
	return nil
}

func transactionsAction(ctx *cli.Context) error {
	var res []map[string]interface{}
	if err := get("/v1/wallet/transactions", &res); err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

func txAction(ctx *cli.Context) error {
	txid := ctx.Args().First()
	if txid == "" || ctx.Args().Len() > 1 {
		return &invalidUsageError{ctx, "tx"}
	}

	var res map[string]interface{}
	if err := get("/v1/wallet/tx/"+url.PathEscape(txid), &res); err != nil {
		return err
	}
	if ctx.Bool("hex") {
		fmt.Println(res["hex"])
		return nil
	}
	delete(res, "hex")
	printRespJSON(res)
	return nil
}

func feesAction(ctx *cli.Context) error {
	var res map[string]interface{}
	if err := get("/v1/wallet/fees", &res); err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}
