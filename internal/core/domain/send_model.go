package domain

import "github.com/beutel-network/beutel-daemon/pkg/wallet"

// Send is the journal entry of a payment broadcasted by the wallet.
type Send struct {
	TxID             string
	Network          Network
	RecipientAddress string
	AmountSats       uint64
	FeeSats          uint64
	FeeRate          float64
	InputCount       int
	ChangeAmount     uint64
	Timestamp        int64
}

// NewSend ...
func NewSend(
	txid string, network Network, preview wallet.TransactionPreview, timestamp int64,
) Send {
	return Send{
		TxID:             txid,
		Network:          network,
		RecipientAddress: preview.RecipientAddress,
		AmountSats:       preview.AmountSats,
		FeeSats:          preview.FeeSats,
		FeeRate:          preview.FeeRate,
		InputCount:       preview.InputCount,
		ChangeAmount:     preview.ChangeAmount,
		Timestamp:        timestamp,
	}
}
