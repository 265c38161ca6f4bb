package wallet

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// SignSchnorr produces a BIP340 signature of the 32-byte message hash, using
// fresh auxiliary randomness. The signature is verified against the public
// key before being returned.
func SignSchnorr(msgHash []byte, privKey *btcec.PrivateKey) (*schnorr.Signature, error) {
	if len(msgHash) != 32 {
		return nil, fmt.Errorf("message hash must be 32 bytes, got %d", len(msgHash))
	}
	if privKey == nil {
		return nil, fmt.Errorf("private key must not be null")
	}

	var aux [32]byte
	if _, err := rand.Read(aux[:]); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntropySource, err)
	}

	sig, err := schnorr.Sign(privKey, msgHash, schnorr.CustomNonce(aux))
	if err != nil {
		return nil, err
	}
	if !sig.Verify(msgHash, privKey.PubKey()) {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

// SignPsbtOpts is the struct given to SignPsbt method
type SignPsbtOpts struct {
	Packet  *psbt.Packet
	Network *chaincfg.Params
}

func (o SignPsbtOpts) validate() error {
	if o.Packet == nil || o.Packet.UnsignedTx == nil {
		return fmt.Errorf("psbt must not be null")
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	if len(o.Packet.Inputs) <= 0 {
		return ErrNullUtxos
	}
	for i, in := range o.Packet.Inputs {
		if in.WitnessUtxo == nil {
			return fmt.Errorf("input %d: witness utxo must not be null", i)
		}
		if len(in.TaprootBip32Derivation) != 1 {
			return fmt.Errorf("input %d: expected exactly one taproot key origin", i)
		}
	}
	return nil
}

// SignPsbt adds a taproot key spend signature to every input of the packet.
// The key of each input is derived from its taproot BIP32 origin, which must
// match the wallet fingerprint.
func (w *Wallet) SignPsbt(opts SignPsbtOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if err := w.validate(); err != nil {
		return err
	}

	fingerprint, err := w.MasterKeyFingerprint(opts.Network)
	if err != nil {
		return err
	}

	ptx := opts.Packet
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(
		make(map[wire.OutPoint]*wire.TxOut),
	)
	for i, txIn := range ptx.UnsignedTx.TxIn {
		prevOutFetcher.AddPrevOut(txIn.PreviousOutPoint, ptx.Inputs[i].WitnessUtxo)
	}
	sigHashes := txscript.NewTxSigHashes(ptx.UnsignedTx, prevOutFetcher)

	for i := range ptx.Inputs {
		if err := w.signInput(
			ptx, i, fingerprint, opts.Network, sigHashes, prevOutFetcher,
		); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	return nil
}

func (w *Wallet) signInput(
	ptx *psbt.Packet, inIndex int, fingerprint uint32, params *chaincfg.Params,
	sigHashes *txscript.TxSigHashes, prevOutFetcher txscript.PrevOutputFetcher,
) error {
	in := &ptx.Inputs[inIndex]
	origin := in.TaprootBip32Derivation[0]
	if origin.MasterKeyFingerprint != fingerprint {
		return fmt.Errorf("key origin does not belong to this wallet")
	}

	privkey, err := w.derivePrivateKey(params, origin.Bip32Path)
	if err != nil {
		return err
	}
	if !bytes.Equal(schnorr.SerializePubKey(privkey.PubKey()), origin.XOnlyPubKey) {
		return fmt.Errorf("derived key does not match the input key origin")
	}

	script, err := taprootScriptFromKey(privkey.PubKey())
	if err != nil {
		return err
	}
	if !bytes.Equal(script, in.WitnessUtxo.PkScript) {
		return fmt.Errorf("derived key does not match the input prevout script")
	}

	sigHash, err := txscript.CalcTaprootSignatureHash(
		sigHashes, txscript.SigHashDefault, ptx.UnsignedTx, inIndex, prevOutFetcher,
	)
	if err != nil {
		return err
	}

	tweakedKey := txscript.TweakTaprootPrivKey(*privkey, nil)
	sig, err := SignSchnorr(sigHash, tweakedKey)
	if err != nil {
		return err
	}

	// SigHashDefault is implied by a 64-byte signature.
	in.TaprootKeySpendSig = sig.Serialize()
	return nil
}

func (w *Wallet) derivePrivateKey(
	params *chaincfg.Params, path []uint32,
) (*btcec.PrivateKey, error) {
	key, err := w.deriveExtendedKey(params, path)
	if err != nil {
		return nil, err
	}
	privkey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	return privkey, nil
}

func taprootScriptFromKey(internalKey *btcec.PublicKey) ([]byte, error) {
	outputKey, err := TaprootOutputKey(internalKey)
	if err != nil {
		return nil, err
	}
	return txscript.PayToTaprootScript(outputKey)
}

// VerifyTaprootKeySpend checks the key spend witness of the given input
// against the BIP341 sighash and the output key of the spent script.
func VerifyTaprootKeySpend(
	tx *wire.MsgTx, inIndex int, prevOutFetcher txscript.PrevOutputFetcher,
) error {
	if inIndex < 0 || inIndex >= len(tx.TxIn) {
		return fmt.Errorf("input index out of range")
	}
	txIn := tx.TxIn[inIndex]
	if len(txIn.Witness) != 1 || len(txIn.Witness[0]) != schnorr.SignatureSize {
		return fmt.Errorf("input %d: not a default sighash key spend witness", inIndex)
	}

	prevOut := prevOutFetcher.FetchPrevOutput(txIn.PreviousOutPoint)
	if prevOut == nil {
		return fmt.Errorf("input %d: missing prevout", inIndex)
	}
	if !txscript.IsPayToTaproot(prevOut.PkScript) {
		return fmt.Errorf("input %d: prevout is not a taproot output", inIndex)
	}
	outputKey, err := schnorr.ParsePubKey(prevOut.PkScript[2:])
	if err != nil {
		return err
	}
	sig, err := schnorr.ParseSignature(txIn.Witness[0])
	if err != nil {
		return err
	}

	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)
	sigHash, err := txscript.CalcTaprootSignatureHash(
		sigHashes, txscript.SigHashDefault, tx, inIndex, prevOutFetcher,
	)
	if err != nil {
		return err
	}
	if !sig.Verify(sigHash, outputKey) {
		return ErrInvalidSignature
	}
	return nil
}
