package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

func (e *esplora) GetUnspents(ctx context.Context, addr string) ([]explorer.Utxo, error) {
	path := fmt.Sprintf("/address/%s/utxo", url.PathEscape(addr))
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(path, status, resp)
	}

	utxos := make([]explorer.Utxo, 0)
	if err := json.Unmarshal([]byte(resp), &utxos); err != nil {
		return nil, fmt.Errorf("failed to decode utxos: %w", err)
	}
	return utxos, nil
}
