package wallet

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullUtxos ...
	ErrNullUtxos = errors.New("utxo list must not be empty")

	// ErrInvalidSeedPhrase is returned for a phrase with the wrong number of
	// words, unknown words or a bad checksum.
	ErrInvalidSeedPhrase = errors.New("seed phrase is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New("entropy size must be either 128 or 256")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidAddress is returned when an address doesn't decode or belongs
	// to another network.
	ErrInvalidAddress = errors.New("address is not valid for the network")
	// ErrInvalidChangeAddress ...
	ErrInvalidChangeAddress = fmt.Errorf("change %w", ErrInvalidAddress)
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = errors.New("fee rate must be greater than zero")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("produced signature does not verify")

	// ErrDerivation is returned when a child key can't be derived.
	ErrDerivation = errors.New("key derivation failed")
	// ErrAddressEncoding is returned when the tweaked output key is not
	// a valid point.
	ErrAddressEncoding = errors.New("taproot output key is invalid")
	// ErrEntropySource is returned when the system random source fails.
	ErrEntropySource = errors.New("entropy source unavailable")
	// ErrDustAmount ...
	ErrDustAmount = fmt.Errorf(
		"amount must be greater than or equal to dust threshold of %d sats",
		DustThreshold,
	)
	// ErrInvalidAmount is returned for amounts above the max bitcoin supply.
	ErrInvalidAmount = fmt.Errorf(
		"amount must not exceed %d sats", MaxAmount,
	)
	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountPrecision ...
	ErrAmountPrecision = errors.New("amount must have at most 8 decimal places")
	// ErrInsufficientFunds is matched by any *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError reports how much a payment needs against what the
// available utxos provide.
type InsufficientFundsError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"%s: need %d sats, have %d sats (short by %d sats)",
		ErrInsufficientFunds, e.Required, e.Available, e.Shortfall(),
	)
}

// Is makes errors.Is(err, ErrInsufficientFunds) hold.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Shortfall returns the missing amount of sats.
func (e *InsufficientFundsError) Shortfall() uint64 {
	if e.Available >= e.Required {
		return 0
	}
	return e.Required - e.Available
}

// Wallet data structure allows to derive taproot key pairs and addresses
// from a BIP39 seed and to sign transactions spending from them.
// The master key is recomputed for every operation and never cached.
type Wallet struct {
	seed []byte
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic   []string
	Passphrase string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if !IsMnemonicValid(o.Mnemonic) {
		return ErrInvalidSeedPhrase
	}
	return nil
}

// NewWalletFromMnemonic stretches the given seed phrase into the BIP39 seed
// used as root of every derivation.
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed, err := NewSeedFromMnemonic(opts.Mnemonic, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	return &Wallet{seed}, nil
}

// NewWalletFromSeed returns a wallet for an already stretched BIP39 seed.
func NewWalletFromSeed(seed []byte) (*Wallet, error) {
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, ErrNullSeed
	}
	s := make([]byte, len(seed))
	copy(s, seed)
	return &Wallet{s}, nil
}

// Zero wipes the seed from memory. The wallet is unusable afterwards.
func (w *Wallet) Zero() {
	for i := range w.seed {
		w.seed[i] = 0
	}
	w.seed = nil
}

func (w *Wallet) validate() error {
	if len(w.seed) <= 0 {
		return ErrNullSeed
	}
	return nil
}

func (w *Wallet) masterKey(params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, ErrNullNetwork
	}
	key, err := hdkeychain.NewMaster(w.seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: master key: %s", ErrDerivation, err)
	}
	return key, nil
}
