package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const defaultRPCServer = "localhost:9950"

var rpcFlag = cli.StringFlag{
	Name:  "rpcserver",
	Usage: "beuteld daemon address host:port",
	Value: defaultRPCServer,
}

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the beutel CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:      "set",
			Usage:     "set a <key> <value> in the local state",
			ArgsUsage: "<key> <value>",
			Action:    configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags:  []cli.Flag{&rpcFlag},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}
	return nil
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return &invalidUsageError{ctx, "set"}
	}
	return setState(map[string]string{
		ctx.Args().Get(0): ctx.Args().Get(1),
	})
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		"rpcserver": ctx.String("rpcserver"),
	})
}
