package explorer

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Utxo represents an unspent transaction output as returned by the explorer.
type Utxo struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  uint64 `json:"value"`
	Status Status `json:"status"`
}

// Status holds the confirmation info of a tx or of one of its outputs.
type Status struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight int64  `json:"block_height,omitempty"`
	BlockHash   string `json:"block_hash,omitempty"`
	BlockTime   int64  `json:"block_time,omitempty"`
}

// Key returns the "txid:vout" representation of the outpoint.
func (u Utxo) Key() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.Vout)
}

// OutPoint parses the utxo's tx hash and returns the related wire outpoint.
func (u Utxo) OutPoint() (*wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(u.TxID)
	if err != nil {
		return nil, fmt.Errorf("invalid utxo txid %s: %w", u.TxID, err)
	}
	return wire.NewOutPoint(hash, u.Vout), nil
}

// Balance of an address, in sats. Unconfirmed can be negative when the
// mempool spends more than it funds.
type Balance struct {
	Confirmed   int64
	Unconfirmed int64
}

// Total returns the sum of confirmed and unconfirmed balance.
func (b Balance) Total() int64 {
	return b.Confirmed + b.Unconfirmed
}
