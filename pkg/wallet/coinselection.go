package wallet

import (
	"sort"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

// CoinSelection is the result of a coin selection round.
type CoinSelection struct {
	Selected   []explorer.Utxo
	TotalValue uint64
	Fee        uint64
}

// IsSufficient returns whether the selected utxos cover the target amount
// plus the fee.
func (c CoinSelection) IsSufficient(target uint64) bool {
	return c.TotalValue >= c.Fee && c.TotalValue-c.Fee >= target
}

// CoinSelector selects the utxos to spend for paying the target amount at the
// given fee rate.
type CoinSelector func(utxos []explorer.Utxo, target uint64, feeRate float64) CoinSelection

// SelectUtxos is the default CoinSelector. It spends the largest utxos first
// and stops as soon as the selected value covers the target plus the fee of
// a transaction with the selected inputs and two outputs. If all utxos are
// not enough, the whole set is returned and the caller is expected to check
// IsSufficient.
func SelectUtxos(utxos []explorer.Utxo, target uint64, feeRate float64) CoinSelection {
	sorted := make([]explorer.Utxo, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	selection := CoinSelection{Selected: make([]explorer.Utxo, 0, len(sorted))}
	for _, u := range sorted {
		selection.Selected = append(selection.Selected, u)
		selection.TotalValue += u.Value
		selection.Fee = EstimateFee(len(selection.Selected), DefaultOutputs, feeRate)

		if selection.IsSufficient(target) {
			break
		}
	}
	return selection
}
