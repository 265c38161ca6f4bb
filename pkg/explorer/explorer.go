package explorer

import "context"

// Service is representation of an explorer that allows to fetch data from the
// blockchain and to broadcast transactions.
type Service interface {
	// GetUnspents returns the list of unspent outputs owned by the given
	// address, in the order returned by the backend.
	GetUnspents(ctx context.Context, addr string) ([]Utxo, error)
	// GetFeeRates returns the currently recommended fee rates in sat/vB.
	GetFeeRates(ctx context.Context) (*FeeRates, error)
	// GetBalance returns the confirmed and mempool balance of the address.
	GetBalance(ctx context.Context, addr string) (*Balance, error)
	// GetTransactionsForAddress returns the list of all txs relative to the
	// given address.
	GetTransactionsForAddress(ctx context.Context, addr string) ([]Transaction, error)
	// GetTransactionHex fetches the transaction in hex format given its hash.
	GetTransactionHex(ctx context.Context, txid string) (string, error)
	// BroadcastTransaction attempts to add the given tx in hex format to the
	// mempool and returns its tx hash.
	BroadcastTransaction(ctx context.Context, txhex string) (string, error)
	// GetBlockHeight returns the number of blocks of the blockchain.
	GetBlockHeight(ctx context.Context) (int64, error)
}
