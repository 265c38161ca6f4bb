package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

// Confirmation targets, in blocks, used when the backend only exposes the
// plain esplora /fee-estimates endpoint.
const (
	fastestTarget  = "1"
	halfHourTarget = "3"
	hourTarget     = "6"
	economyTarget  = "144"
	minimumTarget  = "1008"

	minRelayFeeRate = 1.0
)

// GetFeeRates uses the mempool.space recommended fees and falls back to
// esplora fee estimates if the backend doesn't support them.
func (e *esplora) GetFeeRates(ctx context.Context) (*explorer.FeeRates, error) {
	path := "/v1/fees/recommended"
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return e.getFeeEstimates(ctx)
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(path, status, resp)
	}

	rates := &explorer.FeeRates{}
	if err := json.Unmarshal([]byte(resp), rates); err != nil {
		return nil, fmt.Errorf("failed to decode fee rates: %w", err)
	}
	return rates, nil
}

func (e *esplora) getFeeEstimates(ctx context.Context) (*explorer.FeeRates, error) {
	path := "/fee-estimates"
	status, resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedStatus(path, status, resp)
	}

	estimates := make(map[string]float64)
	if err := json.Unmarshal([]byte(resp), &estimates); err != nil {
		return nil, fmt.Errorf("failed to decode fee estimates: %w", err)
	}

	rate := func(target string) float64 {
		if r, ok := estimates[target]; ok && r >= minRelayFeeRate {
			return r
		}
		return minRelayFeeRate
	}
	return &explorer.FeeRates{
		FastestFee:  rate(fastestTarget),
		HalfHourFee: rate(halfHourTarget),
		HourFee:     rate(hourTarget),
		EconomyFee:  rate(economyTarget),
		MinimumFee:  rate(minimumTarget),
	}, nil
}
