package wallet

import (
	"math"
	"testing"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPrepareTransactionPreview(t *testing.T) {
	tests := []struct {
		name     string
		values   []uint64
		amount   uint64
		feeRate  float64
		expected TransactionPreview
	}{
		{
			name:    "with change",
			values:  []uint64{100_000},
			amount:  50_000,
			feeRate: 10,
			expected: TransactionPreview{
				AmountSats:   50_000,
				FeeSats:      1550,
				TotalSats:    51_550,
				FeeRate:      10,
				InputCount:   1,
				ChangeAmount: 48_450,
			},
		},
		{
			name:    "dust change is dropped",
			values:  []uint64{50_800},
			amount:  50_000,
			feeRate: 2,
			expected: TransactionPreview{
				AmountSats:   50_000,
				FeeSats:      310,
				TotalSats:    50_310,
				FeeRate:      2,
				InputCount:   1,
				ChangeAmount: 0,
			},
		},
		{
			name:    "change at dust threshold is dropped",
			values:  []uint64{50_856},
			amount:  50_000,
			feeRate: 2,
			expected: TransactionPreview{
				AmountSats:   50_000,
				FeeSats:      310,
				TotalSats:    50_310,
				FeeRate:      2,
				InputCount:   1,
				ChangeAmount: 0,
			},
		},
		{
			name:    "insufficient funds",
			values:  []uint64{1_000},
			amount:  5_000,
			feeRate: 1,
			expected: TransactionPreview{
				AmountSats:   5_000,
				FeeSats:      155,
				TotalSats:    5_155,
				FeeRate:      1,
				InputCount:   1,
				ChangeAmount: 0,
			},
		},
		{
			name:    "total saturates",
			values:  []uint64{100_000},
			amount:  math.MaxUint64 - 100,
			feeRate: 2,
			expected: TransactionPreview{
				AmountSats:   math.MaxUint64 - 100,
				FeeSats:      310,
				TotalSats:    math.MaxUint64,
				FeeRate:      2,
				InputCount:   1,
				ChangeAmount: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected.RecipientAddress = firstReceiveAddress
			preview := PrepareTransactionPreview(PrepareTransactionPreviewOpts{
				Utxos:            newTestUtxos(tt.values...),
				RecipientAddress: firstReceiveAddress,
				AmountSats:       tt.amount,
				FeeRate:          tt.feeRate,
			})
			require.Equal(t, tt.expected, preview)
		})
	}
}

func TestPrepareTransactionPreviewCustomSelector(t *testing.T) {
	var called bool
	selector := func(utxos []explorer.Utxo, target uint64, feeRate float64) CoinSelection {
		called = true
		return CoinSelection{Selected: utxos, TotalValue: 20_000, Fee: 100}
	}

	preview := PrepareTransactionPreview(PrepareTransactionPreviewOpts{
		Utxos:        newTestUtxos(10_000, 10_000),
		AmountSats:   5_000,
		FeeRate:      1,
		CoinSelector: selector,
	})
	require.True(t, called)
	require.Equal(t, 2, preview.InputCount)
	require.Equal(t, uint64(14_900), preview.ChangeAmount)
}

func TestPrepareTransactionPreviewProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Uint64Range(1, 5_000_000), 1, 20).
			Draw(t, "values")
		amount := rapid.Uint64Range(DustThreshold, 20_000_000).Draw(t, "amount")
		feeRate := float64(rapid.IntRange(1, 200).Draw(t, "feeRate"))

		opts := PrepareTransactionPreviewOpts{
			Utxos:            newTestUtxos(values...),
			RecipientAddress: firstReceiveAddress,
			AmountSats:       amount,
			FeeRate:          feeRate,
		}
		preview := PrepareTransactionPreview(opts)

		require.Equal(t, preview.AmountSats+preview.FeeSats, preview.TotalSats)
		require.True(t, preview.ChangeAmount == 0 || preview.ChangeAmount > DustThreshold)

		selection := SelectUtxos(opts.Utxos, amount, feeRate)
		require.Equal(t, len(selection.Selected), preview.InputCount)
		if preview.ChangeAmount > 0 {
			require.Equal(t, selection.TotalValue-preview.TotalSats, preview.ChangeAmount)
		}

		// Same inputs, same preview.
		require.Equal(t, preview, PrepareTransactionPreview(opts))
	})
}
