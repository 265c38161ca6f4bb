package wallet

import (
	"math"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

// TransactionPreview summarizes a payment before it's signed.
type TransactionPreview struct {
	RecipientAddress string
	AmountSats       uint64
	FeeSats          uint64
	TotalSats        uint64
	FeeRate          float64
	InputCount       int
	ChangeAmount     uint64
}

// PrepareTransactionPreviewOpts is the struct given to
// PrepareTransactionPreview method
type PrepareTransactionPreviewOpts struct {
	Utxos            []explorer.Utxo
	RecipientAddress string
	AmountSats       uint64
	FeeRate          float64
	// CoinSelector defaults to SelectUtxos.
	CoinSelector CoinSelector
}

// PrepareTransactionPreview runs coin selection and returns what the payment
// would look like. It doesn't fail on insufficient funds: the preview total
// then exceeds the selected value and the change is zero. The total saturates
// at math.MaxUint64.
func PrepareTransactionPreview(opts PrepareTransactionPreviewOpts) TransactionPreview {
	selector := opts.CoinSelector
	if selector == nil {
		selector = SelectUtxos
	}

	selection := selector(opts.Utxos, opts.AmountSats, opts.FeeRate)
	total := addSats(opts.AmountSats, selection.Fee)

	return TransactionPreview{
		RecipientAddress: opts.RecipientAddress,
		AmountSats:       opts.AmountSats,
		FeeSats:          selection.Fee,
		TotalSats:        total,
		FeeRate:          opts.FeeRate,
		InputCount:       len(selection.Selected),
		ChangeAmount:     changeAmount(selection.TotalValue, total),
	}
}

// addSats returns a+b, saturated at math.MaxUint64.
func addSats(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// changeAmount returns what's left after paying total out of available,
// zero when that is dust or negative.
func changeAmount(available, total uint64) uint64 {
	if available <= total {
		return 0
	}
	change := available - total
	if change <= DustThreshold {
		return 0
	}
	return change
}
