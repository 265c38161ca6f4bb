package explorer

// Transaction is the explorer's view of a transaction relative to an
// address history.
type Transaction struct {
	TxID     string     `json:"txid"`
	Version  int32      `json:"version"`
	Locktime uint32     `json:"locktime"`
	Inputs   []TxInput  `json:"vin"`
	Outputs  []TxOutput `json:"vout"`
	Size     int        `json:"size"`
	Weight   int        `json:"weight"`
	Fee      uint64     `json:"fee"`
	Status   Status     `json:"status"`
}

// TxInput is a transaction input together with the output it spends.
type TxInput struct {
	TxID    string    `json:"txid"`
	Vout    uint32    `json:"vout"`
	Prevout *TxOutput `json:"prevout"`
}

// TxOutput is a transaction output. Address is empty for non-standard
// scripts.
type TxOutput struct {
	ScriptPubKey string `json:"scriptpubkey"`
	Address      string `json:"scriptpubkey_address"`
	Value        uint64 `json:"value"`
}

// Confirmed returns whether the tx has been included in a block.
func (t Transaction) Confirmed() bool {
	return t.Status.Confirmed
}
