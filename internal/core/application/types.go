package application

import (
	"time"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
)

// WalletStatus tells what the wallet is ready for.
type WalletStatus struct {
	Network     domain.Network
	Initialized bool
	Unlocked    bool
	HasWallet   bool
}

// WalletInfo describes the wallet account. Never carries secrets.
type WalletInfo struct {
	Network              domain.Network
	Address              string
	InternalKey          string
	OutputKey            string
	DerivationPath       string
	MasterKeyFingerprint uint32
}

// SendPreview is a preview waiting for confirmation.
type SendPreview struct {
	ID string
	wallet.TransactionPreview
	FeeSpeed  string
	CreatedAt time.Time
}

// TransactionDetails is a decoded tx fetched from the explorer.
type TransactionDetails struct {
	wallet.TransactionSummary
	Hex           string
	WalletAddress string
	// ReceivedSats is the value of the outputs paying the wallet address.
	ReceivedSats uint64
}

// SendResult is returned once a send has been broadcasted.
type SendResult struct {
	TxID string
	Send domain.Send
}

type pendingSend struct {
	preview SendPreview
	utxos   []explorer.Utxo
}
