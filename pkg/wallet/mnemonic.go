package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var validWordCounts = map[int]bool{12: true, 24: true}

type NewMnemonicOpts struct {
	EntropySize int
}

func (o NewMnemonicOpts) validate() error {
	switch o.EntropySize {
	case 0, 128, 256:
		return nil
	default:
		return ErrInvalidEntropySize
	}
}

// NewMnemonic returns a new mnemonic as a list of words. An EntropySize of 128
// bits produces 12 words, 256 bits produce 24.
func NewMnemonic(opts NewMnemonicOpts) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 128
	}

	return generateMnemonic(opts.EntropySize)
}

// IsMnemonicValid returns whether the given list of words is a 12 or 24
// words BIP39 english mnemonic with a valid checksum.
func IsMnemonicValid(mnemonic []string) bool {
	if !validWordCounts[len(mnemonic)] {
		return false
	}
	for _, w := range mnemonic {
		if w == "" || strings.TrimSpace(w) != w {
			return false
		}
	}
	return bip39.IsMnemonicValid(strings.Join(mnemonic, " "))
}

// NewSeedFromMnemonic returns the 64-byte BIP39 seed for the given mnemonic
// and optional passphrase.
func NewSeedFromMnemonic(mnemonic []string, passphrase string) ([]byte, error) {
	if !IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidSeedPhrase
	}
	return bip39.NewSeed(strings.Join(mnemonic, " "), passphrase), nil
}

func generateMnemonic(entropySize int) ([]string, error) {
	entropy, err := bip39.NewEntropy(entropySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntropySource, err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return strings.Fields(mnemonic), nil
}
