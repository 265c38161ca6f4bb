package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

func (e *esplora) GetTransactionsForAddress(
	ctx context.Context, addr string,
) ([]explorer.Transaction, error) {
	path := fmt.Sprintf("/address/%s/txs", url.PathEscape(addr))
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(path, status, resp)
	}

	txs := make([]explorer.Transaction, 0)
	if err := json.Unmarshal([]byte(resp), &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

func (e *esplora) GetTransactionHex(ctx context.Context, txid string) (string, error) {
	path := fmt.Sprintf("/tx/%s/hex", url.PathEscape(txid))
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", explorer.ErrTransactionNotFound, txid)
	}
	if status != http.StatusOK {
		return "", unexpectedStatus(path, status, resp)
	}
	return strings.TrimSpace(resp), nil
}

// BroadcastTransaction posts the raw tx. Any non-200 answer is a rejection
// and the backend message is returned as is in a *explorer.BroadcastError.
func (e *esplora) BroadcastTransaction(ctx context.Context, txHex string) (string, error) {
	headers := map[string]string{
		"Content-Type": "text/plain",
	}

	status, resp, err := e.request(ctx, http.MethodPost, "/tx", txHex, headers)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &explorer.BroadcastError{
			StatusCode: status,
			Message:    strings.TrimSpace(resp),
		}
	}

	return strings.TrimSpace(resp), nil
}
