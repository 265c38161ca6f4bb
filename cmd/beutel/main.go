package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beutel-network/beutel-daemon/pkg/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

var (
	beutelDataDir = btcutil.AppDataDir("beutel-cli", false)
	statePath     = filepath.Join(beutelDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "beutel"
	app.Usage = "Command line interface for the beutel wallet daemon"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&statusCmd,
		&createCmd,
		&importCmd,
		&unlockCmd,
		&lockCmd,
		&changePasswordCmd,
		&deleteCmd,
		&addressCmd,
		&infoCmd,
		&balanceCmd,
		&transactionsCmd,
		&txCmd,
		&feesCmd,
		&sendCmd,
		&sendsCmd,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("get config state error: %w", err)
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}
	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(beutelDataDir, 0700); err != nil {
		return err
	}

	currentData, err := getState()
	if err != nil {
		return err
	}
	for k, v := range data {
		currentData[k] = v
	}

	jsonString, err := json.Marshal(currentData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}

func rpcServer() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	address, ok := state["rpcserver"]
	if !ok || address == "" {
		address = defaultRPCServer
	}
	if !strings.HasPrefix(address, "http") {
		address = "http://" + address
	}
	return strings.TrimSuffix(address, "/"), nil
}

// call sends a JSON request to the daemon and decodes the response into res
// if not nil.
func call(method, path string, req, res interface{}) error {
	address, err := rpcServer()
	if err != nil {
		return err
	}

	body := ""
	if req != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req); err != nil {
			return err
		}
		body = buf.String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	status, resp, err := util.NewHTTPClient(requestTimeout).NewHTTPRequest(
		ctx, method, address+path, body,
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %w", err)
	}

	if status != http.StatusOK {
		errResp := struct {
			Error string `json:"error"`
		}{}
		if err := json.Unmarshal([]byte(resp), &errResp); err != nil ||
			errResp.Error == "" {
			return fmt.Errorf("daemon replied with status %d", status)
		}
		return errors.New(errResp.Error)
	}

	if res == nil {
		return nil
	}
	return json.Unmarshal([]byte(resp), res)
}

func get(path string, res interface{}) error {
	return call(http.MethodGet, path, nil, res)
}

func post(path string, req, res interface{}) error {
	return call(http.MethodPost, path, req, res)
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(jsonBytes))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[beutel] %v\n", err)
	}
	os.Exit(1)
}
