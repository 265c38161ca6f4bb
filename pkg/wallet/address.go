package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// TaprootOutputKey returns the BIP86 output key for the given internal key,
// that is the key tweaked with no script root.
func TaprootOutputKey(internalKey *btcec.PublicKey) (*btcec.PublicKey, error) {
	if internalKey == nil {
		return nil, ErrAddressEncoding
	}
	outputKey := txscript.ComputeTaprootKeyNoScript(internalKey)

	x, y := outputKey.X(), outputKey.Y()
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, ErrAddressEncoding
	}
	// Round trip through the x-only encoding so that any point not on the
	// curve is rejected here rather than by the encoder.
	if _, err := schnorr.ParsePubKey(schnorr.SerializePubKey(outputKey)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAddressEncoding, err)
	}
	return outputKey, nil
}

// TaprootAddress returns the bech32m P2TR address committing to the given
// internal key with no script path.
func TaprootAddress(
	internalKey *btcec.PublicKey, params *chaincfg.Params,
) (*btcutil.AddressTaproot, error) {
	if params == nil {
		return nil, ErrNullNetwork
	}
	outputKey, err := TaprootOutputKey(internalKey)
	if err != nil {
		return nil, err
	}
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAddressEncoding, err)
	}
	return addr, nil
}

// DeriveTaprootAddress derives the key pair at the given coordinates and
// returns its P2TR address.
func (w *Wallet) DeriveTaprootAddress(opts DeriveSigningKeyPairOpts) (string, error) {
	_, pubkey, err := w.DeriveSigningKeyPair(opts)
	if err != nil {
		return "", err
	}
	addr, err := TaprootAddress(pubkey, opts.Network)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// AccountInfo describes a single derived taproot address.
type AccountInfo struct {
	Address        string
	InternalKey    string
	OutputKey      string
	DerivationPath string
}

// DescribeAccount returns the address together with the x-only internal and
// output keys and the derivation path they come from.
func (w *Wallet) DescribeAccount(opts DeriveSigningKeyPairOpts) (*AccountInfo, error) {
	_, pubkey, err := w.DeriveSigningKeyPair(opts)
	if err != nil {
		return nil, err
	}
	outputKey, err := TaprootOutputKey(pubkey)
	if err != nil {
		return nil, err
	}
	addr, err := TaprootAddress(pubkey, opts.Network)
	if err != nil {
		return nil, err
	}

	return &AccountInfo{
		Address:        addr.EncodeAddress(),
		InternalKey:    hex.EncodeToString(schnorr.SerializePubKey(pubkey)),
		OutputKey:      hex.EncodeToString(schnorr.SerializePubKey(outputKey)),
		DerivationPath: opts.path().String(),
	}, nil
}

// IsValidAddress returns whether the address is a well formed legacy,
// segwit v0 or taproot address of the given network. It never panics.
func IsValidAddress(address string, params *chaincfg.Params) bool {
	if address == "" || params == nil {
		return false
	}
	addr, err := decodeAddress(address, params)
	return err == nil && addr != nil
}

// PayToAddrScript decodes the address for the network and returns its
// output script.
func PayToAddrScript(address string, params *chaincfg.Params) ([]byte, error) {
	addr, err := decodeAddress(address, params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

func decodeAddress(address string, params *chaincfg.Params) (addr btcutil.Address, err error) {
	defer func() {
		if r := recover(); r != nil {
			addr, err = nil, ErrInvalidAddress
		}
	}()

	addr, err = btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if !addr.IsForNet(params) {
		return nil, ErrInvalidAddress
	}

	switch addr.(type) {
	case *btcutil.AddressPubKeyHash, *btcutil.AddressScriptHash,
		*btcutil.AddressWitnessPubKeyHash, *btcutil.AddressWitnessScriptHash,
		*btcutil.AddressTaproot:
		return addr, nil
	default:
		return nil, ErrInvalidAddress
	}
}
