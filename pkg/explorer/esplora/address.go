package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

type addressStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
	TxCount      int   `json:"tx_count"`
}

func (s addressStats) balance() int64 {
	return s.FundedTxoSum - s.SpentTxoSum
}

type addressInfo struct {
	Address      string       `json:"address"`
	ChainStats   addressStats `json:"chain_stats"`
	MempoolStats addressStats `json:"mempool_stats"`
}

func (e *esplora) GetBalance(ctx context.Context, addr string) (*explorer.Balance, error) {
	path := fmt.Sprintf("/address/%s", url.PathEscape(addr))
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(path, status, resp)
	}

	var info addressInfo
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return nil, fmt.Errorf("failed to decode address info: %w", err)
	}
	return &explorer.Balance{
		Confirmed:   info.ChainStats.balance(),
		Unconfirmed: info.MempoolStats.balance(),
	}, nil
}
