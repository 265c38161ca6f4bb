package domain

import (
	"sort"
	"time"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
)

// TxType ...
type TxType string

// TxStatus ...
type TxStatus string

const (
	TxTypeSend    TxType = "send"
	TxTypeReceive TxType = "receive"

	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
)

// Transaction is an entry of the wallet history, seen from the wallet
// address point of view.
type Transaction struct {
	TxID        string
	Type        TxType
	AmountSats  uint64
	FeeSats     uint64
	Address     string
	Status      TxStatus
	BlockHeight int64
	// Confirmations is zero for pending txs.
	Confirmations int64
	// Timestamp is zero for pending txs.
	Timestamp time.Time
}

// IsConfirmed ...
func (t Transaction) IsConfirmed() bool {
	return t.Status == TxStatusConfirmed
}

// NewTransaction classifies the tx relative to the given address. A tx
// spending any output of the address is a send of everything that didn't go
// back to the address, the fee excluded. Otherwise it's a receive of what
// the address got.
func NewTransaction(tx explorer.Transaction, address string) Transaction {
	var spent, received uint64
	var sender, recipient string

	for _, in := range tx.Inputs {
		if in.Prevout == nil {
			continue
		}
		if in.Prevout.Address == address {
			spent += in.Prevout.Value
		} else if sender == "" {
			sender = in.Prevout.Address
		}
	}
	for _, out := range tx.Outputs {
		if out.Address == address {
			received += out.Value
		} else if recipient == "" {
			recipient = out.Address
		}
	}

	t := Transaction{
		TxID:    tx.TxID,
		FeeSats: tx.Fee,
		Status:  TxStatusPending,
	}
	if tx.Status.Confirmed {
		t.Status = TxStatusConfirmed
		t.BlockHeight = tx.Status.BlockHeight
		if tx.Status.BlockTime > 0 {
			t.Timestamp = time.Unix(tx.Status.BlockTime, 0).UTC()
		}
	}

	if spent > 0 {
		t.Type = TxTypeSend
		t.Address = recipient
		if out := spent - tx.Fee; spent > tx.Fee && out > received {
			t.AmountSats = out - received
		}
		return t
	}

	t.Type = TxTypeReceive
	t.Address = sender
	t.AmountSats = received
	return t
}

// NewTransactionHistory converts the txs of an address into its history,
// pending txs first, then newest first. Confirmations are counted from the
// given chain tip height.
func NewTransactionHistory(
	txs []explorer.Transaction, address string, tipHeight int64,
) []Transaction {
	history := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		t := NewTransaction(tx, address)
		t.Confirmations = confirmations(t, tipHeight)
		history = append(history, t)
	}

	sort.SliceStable(history, func(i, j int) bool {
		a, b := history[i], history[j]
		if a.IsConfirmed() != b.IsConfirmed() {
			return !a.IsConfirmed()
		}
		if a.BlockHeight != b.BlockHeight {
			return a.BlockHeight > b.BlockHeight
		}
		return a.Timestamp.After(b.Timestamp)
	})
	return history
}

func confirmations(tx Transaction, tipHeight int64) int64 {
	if !tx.IsConfirmed() || tipHeight < tx.BlockHeight {
		return 0
	}
	return tipHeight - tx.BlockHeight + 1
}
