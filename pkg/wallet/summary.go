package wallet

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TransactionSummary is the decoded form of a raw tx.
type TransactionSummary struct {
	TxID     string
	Version  int32
	LockTime uint32
	Size     int
	VSize    int
	Weight   int
	Inputs   []TransactionInput
	Outputs  []TransactionOutput
}

type TransactionInput struct {
	TxID     string
	Vout     uint32
	Sequence uint32
}

// TransactionOutput has an empty Address if the script isn't a standard
// single address one.
type TransactionOutput struct {
	Index   int
	Value   int64
	Address string
}

// ValueTo returns the sum of the outputs paying the given address.
func (s TransactionSummary) ValueTo(addr string) uint64 {
	var value uint64
	for _, out := range s.Outputs {
		if out.Address == addr && out.Value > 0 {
			value += uint64(out.Value)
		}
	}
	return value
}

// SummarizeTransaction decodes the tx in hex format. Output addresses are
// encoded for the given network.
func SummarizeTransaction(txHex string, params *chaincfg.Params) (*TransactionSummary, error) {
	if params == nil {
		return nil, ErrNullNetwork
	}
	tx, err := DecodeTransaction(txHex)
	if err != nil {
		return nil, err
	}

	weight := tx.SerializeSizeStripped()*3 + tx.SerializeSize()
	summary := &TransactionSummary{
		TxID:     tx.TxHash().String(),
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Size:     tx.SerializeSize(),
		VSize:    (weight + 3) / 4,
		Weight:   weight,
		Inputs:   make([]TransactionInput, 0, len(tx.TxIn)),
		Outputs:  make([]TransactionOutput, 0, len(tx.TxOut)),
	}
	for _, in := range tx.TxIn {
		summary.Inputs = append(summary.Inputs, TransactionInput{
			TxID:     in.PreviousOutPoint.Hash.String(),
			Vout:     in.PreviousOutPoint.Index,
			Sequence: in.Sequence,
		})
	}
	for i, out := range tx.TxOut {
		summary.Outputs = append(summary.Outputs, TransactionOutput{
			Index:   i,
			Value:   out.Value,
			Address: outputAddress(out, params),
		})
	}
	return summary, nil
}

func outputAddress(out *wire.TxOut, params *chaincfg.Params) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, params)
	if err != nil || len(addrs) != 1 {
		return ""
	}
	return addrs[0].EncodeAddress()
}
