package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var passwordFlag = cli.StringFlag{
	Name:  "password",
	Usage: "the password used to encrypt the mnemonic, prompted if missing",
}

var statusCmd = cli.Command{
	Name:   "status",
	Usage:  "show whether the wallet exists and is unlocked",
	Action: statusAction,
}

var createCmd = cli.Command{
	Name:  "create",
	Usage: "create a new wallet and print its mnemonic",
	Flags: []cli.Flag{
		&passwordFlag,
		&cli.IntFlag{
			Name:  "entropy",
			Usage: "entropy size in bits: 128 for 12 words, 256 for 24 words",
			Value: 256,
		},
	},
	Action: createAction,
}

var importCmd = cli.Command{
	Name:  "import",
	Usage: "import an existing wallet from its mnemonic",
	Flags: []cli.Flag{
		&passwordFlag,
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the space separated mnemonic, prompted if missing",
		},
	},
	Action: importAction,
}

var unlockCmd = cli.Command{
	Name:   "unlock",
	Usage:  "unlock the daemon wallet with the given password",
	Flags:  []cli.Flag{&passwordFlag},
	Action: unlockAction,
}

var lockCmd = cli.Command{
	Name:   "lock",
	Usage:  "lock the daemon wallet",
	Action: lockAction,
}

var changePasswordCmd = cli.Command{
	Name:  "changepassword",
	Usage: "change the password of the wallet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "current_password",
			Usage: "the current password, prompted if missing",
		},
		&cli.StringFlag{
			Name:  "new_password",
			Usage: "the new password, prompted if missing",
		},
	},
	Action: changePasswordAction,
}

var deleteCmd = cli.Command{
	Name:  "delete",
	Usage: "delete the wallet and its send journal",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "skip the confirmation prompt",
		},
	},
	Action: deleteAction,
}

var addressCmd = cli.Command{
	Name:   "address",
	Usage:  "print the receive address of the wallet",
	Action: addressAction,
}

var infoCmd = cli.Command{
	Name:   "info",
	Usage:  "print public info about the wallet account",
	Action: infoAction,
}

func statusAction(ctx *cli.Context) error {
	var res map[string]interface{}
	if err := get("/v1/wallet/status", &res); err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

func createAction(ctx *cli.Context) error {
	password, err := readPassword(ctx.String("password"), "password", true)
	if err != nil {
		return err
	}

	res := struct {
		Mnemonic string `json:"mnemonic"`
	}{}
	if err := post("/v1/wallet/create", map[string]interface{}{
		"password":     password,
		"entropy_size": ctx.Int("entropy"),
	}, &res); err != nil {
		return err
	}

	fmt.Println("Write down the following words and keep them safe:")
	fmt.Println()
	for i, word := range strings.Fields(res.Mnemonic) {
		fmt.Printf("%2d. %s\n", i+1, word)
	}
	fmt.Println()
	fmt.Println("Wallet is created and unlocked")
	return nil
}

func importAction(ctx *cli.Context) error {
	mnemonic := ctx.String("mnemonic")
	if mnemonic == "" {
		var err error
		if mnemonic, err = prompt("mnemonic"); err != nil {
			return err
		}
	}
	password, err := readPassword(ctx.String("password"), "password", true)
	if err != nil {
		return err
	}

	if err := post("/v1/wallet/import", map[string]string{
		"mnemonic": mnemonic,
		"password": password,
	}, nil); err != nil {
		return err
	}

	fmt.Println("Wallet is imported and unlocked")
	return nil
}

func unlockAction(ctx *cli.Context) error {
	password, err := readPassword(ctx.String("password"), "password", false)
	if err != nil {
		return err
	}

	if err := post("/v1/wallet/unlock", map[string]string{
		"password": password,
	}, nil); err != nil {
		return err
	}

	fmt.Println("Wallet is unlocked")
	return nil
}

func lockAction(ctx *cli.Context) error {
	if err := post("/v1/wallet/lock", nil, nil); err != nil {
		return err
	}

	fmt.Println("Wallet is locked")
	return nil
}

func changePasswordAction(ctx *cli.Context) error {
	current, err := readPassword(
		ctx.String("current_password"), "current password", false,
	)
	if err != nil {
		return err
	}
	newPassword, err := readPassword(
		ctx.String("new_password"), "new password", true,
	)
	if err != nil {
		return err
	}

	if err := post("/v1/wallet/password", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	}, nil); err != nil {
		return err
	}

	fmt.Println("Password changed")
	return nil
}

func deleteAction(ctx *cli.Context) error {
	if !ctx.Bool("yes") {
		ok, err := confirm(
			"This removes the wallet from the daemon. Make sure the mnemonic " +
				"is backed up. Continue?",
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := post("/v1/wallet/delete", nil, nil); err != nil {
		return err
	}

	fmt.Println("Wallet is deleted")
	return nil
}

func addressAction(ctx *cli.Context) error {
	res := struct {
		Address string `json:"address"`
	}{}
	if err := get("/v1/wallet/address", &res); err != nil {
		return err
	}

	fmt.Println(res.Address)
	return nil
}

func infoAction(ctx *cli.Context) error {
	var res map[string]interface{}
	if err := get("/v1/wallet/info", &res); err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

// readPassword returns the given password or prompts for it without echo.
func readPassword(password, name string, repeat bool) (string, error) {
	if password != "" {
		return password, nil
	}

	fmt.Printf("Enter %s: ", name)
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(first) == 0 {
		return "", fmt.Errorf("%s must not be empty", name)
	}

	if repeat {
		fmt.Printf("Confirm %s: ", name)
		second, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			return "", fmt.Errorf("%s does not match", name)
		}
	}
	return string(first), nil
}
