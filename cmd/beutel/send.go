package main

import (
	"fmt"
	"net/url"

	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var sendCmd = cli.Command{
	Name:  "send",
	Usage: "send bitcoin to an address, after confirming a preview",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient address",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the amount to send in BTC, like 0.001",
		},
		&cli.Uint64Flag{
			Name:  "sats",
			Usage: "the amount to send in sats, alternative to --amount",
		},
		&cli.StringFlag{
			Name:  "fee_speed",
			Usage: "one of fastest, halfhour, hour, economy, minimum",
		},
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "broadcast without asking for confirmation",
		},
	},
	Action: sendAction,
}

var sendsCmd = cli.Command{
	Name:  "sends",
	Usage: "list the sends broadcasted by the daemon",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "the page number",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "the page size",
		},
		&cli.StringFlag{
			Name:  "txid",
			Usage: "show a single send",
		},
	},
	Action: sendsAction,
}

type previewReply struct {
	Recipient  string  `json:"recipient"`
	Amount     uint64  `json:"amount"`
	Fee        uint64  `json:"fee"`
	Total      uint64  `json:"total"`
	FeeRate    float64 `json:"fee_rate"`
	FeeSpeed   string  `json:"fee_speed"`
	InputCount int     `json:"input_count"`
	Change     uint64  `json:"change"`
}

func sendAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx)
	if err != nil {
		return err
	}

	var preview previewReply
	if err := post("/v1/wallet/send/preview", map[string]interface{}{
		"recipient": ctx.String("to"),
		"amount":    amount,
		"fee_speed": ctx.String("fee_speed"),
	}, &preview); err != nil {
		return err
	}

	fmt.Printf("recipient: %s\n", preview.Recipient)
	fmt.Printf("amount:    %s BTC\n", wallet.SatsToBTC(int64(preview.Amount)))
	fmt.Printf(
		"fee:       %s BTC (%v sat/vB, %s)\n",
		wallet.SatsToBTC(int64(preview.Fee)), preview.FeeRate, preview.FeeSpeed,
	)
	fmt.Printf("total:     %s BTC\n", wallet.SatsToBTC(int64(preview.Total)))
	fmt.Printf("inputs:    %d\n", preview.InputCount)
	if preview.Change > 0 {
		fmt.Printf("change:    %s BTC\n", wallet.SatsToBTC(int64(preview.Change)))
	}
	fmt.Println()

	if !ctx.Bool("yes") {
		ok, err := confirm("Broadcast this transaction?")
		if err != nil {
			return err
		}
		if !ok {
			if err := post("/v1/wallet/send/clear", nil, nil); err != nil {
				return err
			}
			fmt.Println("Send discarded")
			return nil
		}
	}

	res := struct {
		TxID string `json:"txid"`
	}{}
	if err := post("/v1/wallet/send/confirm", nil, &res); err != nil {
		return err
	}

	fmt.Printf("Transaction broadcasted: %s\n", res.TxID)
	return nil
}

func sendsAction(ctx *cli.Context) error {
	if txid := ctx.String("txid"); txid != "" {
		var res map[string]interface{}
		if err := get("/v1/wallet/sends/"+url.PathEscape(txid), &res); err != nil {
			return err
		}
		printRespJSON(res)
		return nil
	}

	query := url.Values{}
	if page := ctx.Int("page"); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if size := ctx.Int("size"); size > 0 {
		query.Set("size", fmt.Sprint(size))
	}
	path := "/v1/wallet/sends"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var res []map[string]interface{}
	if err := get(path, &res); err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

func parseAmount(ctx *cli.Context) (uint64, error) {
	btc, sats := ctx.String("amount"), ctx.Uint64("sats")
	if btc != "" && sats > 0 {
		return 0, fmt.Errorf("--amount and --sats are mutually exclusive")
	}
	if btc == "" {
		if sats == 0 {
			return 0, &invalidUsageError{ctx, "send"}
		}
		return sats, nil
	}
	return wallet.BTCToSats(btc)
}
