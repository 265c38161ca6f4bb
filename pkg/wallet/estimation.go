package wallet

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

const (
	// DustThreshold is the smallest output value, in sats, the wallet
	// creates. Change at or below it is left to miners.
	DustThreshold uint64 = 546
	// MaxAmount is the max value, in sats, of a single payment.
	MaxAmount uint64 = btcutil.MaxSatoshi

	// DefaultOutputs is the number of outputs assumed when estimating the
	// fee of a payment (recipient + change).
	DefaultOutputs = 2
)

var (
	// Fixed part of a segwit tx: version, locktime, counters, marker/flag.
	txOverheadVBytes = decimal.RequireFromString("10.5")
	// Taproot key path input: outpoint, sequence, empty script sig and a
	// 64-byte signature witness.
	p2trInputVBytes = decimal.NewFromInt(58)
	// Taproot output: value and 34-byte script.
	p2trOutputVBytes = decimal.NewFromInt(43)
)

// EstimateVirtualBytes returns the virtual size of a transaction with the
// given number of taproot key path inputs and taproot outputs, rounded up.
func EstimateVirtualBytes(numInputs, numOutputs int) uint64 {
	if numInputs < 0 {
		numInputs = 0
	}
	if numOutputs < 0 {
		numOutputs = 0
	}
	vbytes := txOverheadVBytes.
		Add(p2trInputVBytes.Mul(decimal.NewFromInt(int64(numInputs)))).
		Add(p2trOutputVBytes.Mul(decimal.NewFromInt(int64(numOutputs))))
	return uint64(vbytes.Ceil().IntPart())
}

// CalcFee returns the fee in sats for the given virtual size at the given
// sat/vB rate, rounded up to the next sat.
func CalcFee(vbytes uint64, feeRate float64) uint64 {
	if feeRate <= 0 {
		return 0
	}
	fee := decimal.NewFromInt(int64(vbytes)).Mul(decimal.NewFromFloat(feeRate))
	return uint64(fee.Ceil().IntPart())
}

// EstimateFee returns the fee for a transaction with the given number of
// inputs and outputs.
func EstimateFee(numInputs, numOutputs int, feeRate float64) uint64 {
	return CalcFee(EstimateVirtualBytes(numInputs, numOutputs), feeRate)
}

var satsPerBitcoin = decimal.NewFromInt(100_000_000)

// SatsToBTC converts an amount of sats into its BTC string representation.
func SatsToBTC(sats int64) string {
	return decimal.NewFromInt(sats).Div(satsPerBitcoin).StringFixed(8)
}

// BTCToSats parses a BTC amount and returns it in sats. More than 8 decimal
// places are rejected.
func BTCToSats(btc string) (uint64, error) {
	amount, err := decimal.NewFromString(btc)
	if err != nil {
		return 0, err
	}
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	sats := amount.Mul(satsPerBitcoin)
	if !sats.Equal(sats.Truncate(0)) {
		return 0, ErrAmountPrecision
	}
	if sats.GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, ErrInvalidAmount
	}
	return uint64(sats.IntPart()), nil
}
