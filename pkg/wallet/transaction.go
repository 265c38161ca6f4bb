package wallet

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const txVersion = 2

// BuildTransactionOpts is the struct given to BuildAndSignTransaction method.
// All utxos must be owned by the receive address at Account/Index.
type BuildTransactionOpts struct {
	Network          *chaincfg.Params
	Account          uint32
	Index            uint32
	Utxos            []explorer.Utxo
	RecipientAddress string
	AmountSats       uint64
	FeeRate          float64
	// ChangeAddress defaults to the address owning the utxos.
	ChangeAddress string
	// CoinSelector defaults to SelectUtxos.
	CoinSelector CoinSelector
}

func (o BuildTransactionOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	if !IsValidAddress(o.RecipientAddress, o.Network) {
		return ErrInvalidAddress
	}
	if o.ChangeAddress != "" && !IsValidAddress(o.ChangeAddress, o.Network) {
		return ErrInvalidChangeAddress
	}
	if o.AmountSats < DustThreshold {
		return ErrDustAmount
	}
	if o.AmountSats > MaxAmount {
		return ErrInvalidAmount
	}
	if o.FeeRate <= 0 {
		return ErrInvalidFeeRate
	}
	for _, u := range o.Utxos {
		if _, err := u.OutPoint(); err != nil {
			return err
		}
	}
	return nil
}

// BuildAndSignTransaction selects the utxos needed to pay the recipient,
// signs every input with a taproot key path spend and returns the final
// transaction in hex format, ready to be broadcasted.
func (w *Wallet) BuildAndSignTransaction(opts BuildTransactionOpts) (string, error) {
	tx, err := w.BuildTransaction(opts)
	if err != nil {
		return "", err
	}
	return EncodeTransaction(tx)
}

// BuildTransaction is like BuildAndSignTransaction but returns the signed
// transaction instead of its serialization.
func (w *Wallet) BuildTransaction(opts BuildTransactionOpts) (*wire.MsgTx, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}

	keyOpts := DeriveSigningKeyPairOpts{
		Network: opts.Network,
		Account: opts.Account,
		Change:  ExternalChain,
		Index:   opts.Index,
	}
	_, pubkey, err := w.DeriveSigningKeyPair(keyOpts)
	if err != nil {
		return nil, err
	}
	ownScript, err := taprootScriptFromKey(pubkey)
	if err != nil {
		return nil, err
	}
	fingerprint, err := w.MasterKeyFingerprint(opts.Network)
	if err != nil {
		return nil, err
	}

	selector := opts.CoinSelector
	if selector == nil {
		selector = SelectUtxos
	}
	selection := selector(opts.Utxos, opts.AmountSats, opts.FeeRate)
	if !selection.IsSufficient(opts.AmountSats) {
		return nil, &InsufficientFundsError{
			Required:  opts.AmountSats + selection.Fee,
			Available: selection.TotalValue,
		}
	}

	recipientScript, err := PayToAddrScript(opts.RecipientAddress, opts.Network)
	if err != nil {
		return nil, err
	}
	outputs := []*wire.TxOut{wire.NewTxOut(int64(opts.AmountSats), recipientScript)}

	change := changeAmount(selection.TotalValue, opts.AmountSats+selection.Fee)
	if change > 0 {
		changeScript := ownScript
		if opts.ChangeAddress != "" {
			if changeScript, err = PayToAddrScript(opts.ChangeAddress, opts.Network); err != nil {
				return nil, err
			}
		}
		outputs = append(outputs, wire.NewTxOut(int64(change), changeScript))
	}

	inputs := make([]*wire.OutPoint, 0, len(selection.Selected))
	sequences := make([]uint32, 0, len(selection.Selected))
	for _, u := range selection.Selected {
		outpoint, _ := u.OutPoint()
		inputs = append(inputs, outpoint)
		sequences = append(sequences, wire.MaxTxInSequenceNum)
	}

	ptx, err := psbt.New(inputs, outputs, txVersion, 0, sequences)
	if err != nil {
		return nil, err
	}

	xOnlyPubkey := schnorr.SerializePubKey(pubkey)
	path := keyOpts.path()
	for i, u := range selection.Selected {
		in := &ptx.Inputs[i]
		in.WitnessUtxo = wire.NewTxOut(int64(u.Value), ownScript)
		in.SighashType = txscript.SigHashDefault
		in.TaprootInternalKey = xOnlyPubkey
		in.TaprootBip32Derivation = []*psbt.TaprootBip32Derivation{{
			XOnlyPubKey:          xOnlyPubkey,
			MasterKeyFingerprint: fingerprint,
			Bip32Path:            path,
		}}
	}

	if err := w.SignPsbt(SignPsbtOpts{Packet: ptx, Network: opts.Network}); err != nil {
		return nil, err
	}
	if err := psbt.MaybeFinalizeAll(ptx); err != nil {
		return nil, fmt.Errorf("failed to finalize transaction: %w", err)
	}
	return psbt.Extract(ptx)
}

// EncodeTransaction serializes the tx with witness data in hex format.
func EncodeTransaction(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// DecodeTransaction parses a tx in hex format.
func DecodeTransaction(txHex string) (*wire.MsgTx, error) {
	buf, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hex: %w", err)
	}
	tx := wire.NewMsgTx(txVersion)
	if err := tx.Deserialize(bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("invalid tx: %w", err)
	}
	return tx, nil
}
