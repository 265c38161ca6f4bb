package domain

import "errors"

var (
	// ErrWalletNotFound is returned when no seed phrase is stored.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletAlreadyExists is returned when creating or importing a wallet
	// while another one is stored.
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	// ErrWalletLocked is returned when the seed store must be unlocked first.
	ErrWalletLocked = errors.New("wallet is locked")
	// ErrInvalidPassword is returned when the password can't unlock the
	// seed store.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNoPendingSend is returned when confirming a send without a preview.
	ErrNoPendingSend = errors.New("no pending send to confirm")
	// ErrNoUtxos is returned when the wallet address has nothing to spend.
	ErrNoUtxos = errors.New("no spendable utxos for the wallet address")
	// ErrNullAmount ...
	ErrNullAmount = errors.New("amount must be greater than zero")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrInvalidTxID is returned for txids that aren't 32 bytes in hex.
	ErrInvalidTxID = errors.New("invalid txid")
	// ErrSendNotFound ...
	ErrSendNotFound = errors.New("send not found")
)
