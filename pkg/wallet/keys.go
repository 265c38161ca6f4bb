package wallet

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// DeriveSigningKeyPairOpts is the struct given to DeriveSigningKeyPair method
type DeriveSigningKeyPairOpts struct {
	Network *chaincfg.Params
	Account uint32
	Change  uint32
	Index   uint32
}

func (o DeriveSigningKeyPairOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	if o.Account > MaxHardenedValue {
		return fmt.Errorf("%w: account must be in range [0, %d]",
			ErrInvalidDerivationPath, MaxHardenedValue)
	}
	if o.Change != ExternalChain && o.Change != InternalChain {
		return fmt.Errorf("%w: change must be either %d or %d",
			ErrInvalidDerivationPath, ExternalChain, InternalChain)
	}
	if o.Index >= hdkeychain.HardenedKeyStart {
		return fmt.Errorf("%w: index must not be hardened", ErrInvalidDerivationPath)
	}
	return nil
}

func (o DeriveSigningKeyPairOpts) path() DerivationPath {
	return DerivationPathForNetwork(o.Network, o.Account, o.Change, o.Index)
}

// DeriveSigningKeyPair derives the BIP86 key pair at
// m/86'/coin'/account'/change/index for the given network.
func (w *Wallet) DeriveSigningKeyPair(opts DeriveSigningKeyPairOpts) (
	*btcec.PrivateKey, *btcec.PublicKey, error,
) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	key, err := w.deriveExtendedKey(opts.Network, opts.path())
	if err != nil {
		return nil, nil, err
	}

	privkey, err := key.ECPrivKey()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	return privkey, privkey.PubKey(), nil
}

// MasterKeyFingerprint returns the fingerprint of the master public key as
// used in PSBT key origins.
func (w *Wallet) MasterKeyFingerprint(params *chaincfg.Params) (uint32, error) {
	master, err := w.masterKey(params)
	if err != nil {
		return 0, err
	}
	pubkey, err := master.ECPubKey()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	fingerprint := btcutil.Hash160(pubkey.SerializeCompressed())[:4]
	return binary.LittleEndian.Uint32(fingerprint), nil
}

func (w *Wallet) deriveExtendedKey(
	params *chaincfg.Params, path DerivationPath,
) (*hdkeychain.ExtendedKey, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}

	key, err := w.masterKey(params)
	if err != nil {
		return nil, err
	}
	for i, step := range path {
		key, err = key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: step %d of %s: %s", ErrDerivation, i, path, err,
			)
		}
	}
	return key, nil
}
