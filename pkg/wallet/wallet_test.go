package wallet

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMnemonicStr = "abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon about"
	testSeedHex = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc1" +
		"9a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
)

var testMnemonic = strings.Fields(testMnemonicStr)

func newTestWallet(t *testing.T) *Wallet {
	w, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: testMnemonic,
	})
	require.NoError(t, err)
	return w
}

func TestNewMnemonic(t *testing.T) {
	tests := []struct {
		entropySize   int
		expectedWords int
	}{
		{0, 12},
		{128, 12},
		{256, 24},
	}

	for _, tt := range tests {
		mnemonic, err := NewMnemonic(NewMnemonicOpts{EntropySize: tt.entropySize})
		require.NoError(t, err)
		require.Len(t, mnemonic, tt.expectedWords)
		require.True(t, IsMnemonicValid(mnemonic))
	}

	first, err := NewMnemonic(NewMnemonicOpts{})
	require.NoError(t, err)
	second, err := NewMnemonic(NewMnemonicOpts{})
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestFailingNewMnemonic(t *testing.T) {
	tests := []int{-1, 127, 160, 192, 224, 257, 130}
	for _, tt := range tests {
		_, err := NewMnemonic(NewMnemonicOpts{EntropySize: tt})
		require.ErrorIs(t, err, ErrInvalidEntropySize)
	}
}

func TestIsMnemonicValid(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic []string
		valid    bool
	}{
		{"12 words", testMnemonic, true},
		{
			"24 words",
			strings.Fields(strings.Repeat("abandon ", 23) + "art"),
			true,
		},
		{"empty", nil, false},
		{"11 words", testMnemonic[:11], false},
		{
			"bad checksum",
			append(append([]string{}, testMnemonic[:11]...), "abandon"),
			false,
		},
		{
			"unknown word",
			append(append([]string{}, testMnemonic[:11]...), "bitcoinz"),
			false,
		},
		{
			// 18 words with a valid checksum are still refused.
			"18 words",
			strings.Fields(strings.Repeat("abandon ", 17) + "agent"),
			false,
		},
		{
			"padded word",
			append(append([]string{}, testMnemonic[:11]...), " about"),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, IsMnemonicValid(tt.mnemonic))
		})
	}
}

func TestNewSeedFromMnemonic(t *testing.T) {
	seed, err := NewSeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	require.Equal(t, testSeedHex, hex.EncodeToString(seed))

	otherSeed, err := NewSeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	require.Equal(t, seed, otherSeed)

	withPassphrase, err := NewSeedFromMnemonic(testMnemonic, "TREZOR")
	require.NoError(t, err)
	require.NotEqual(t, seed, withPassphrase)

	_, err = NewSeedFromMnemonic(testMnemonic[:11], "")
	require.ErrorIs(t, err, ErrInvalidSeedPhrase)
}

func TestFailingNewWalletFromMnemonic(t *testing.T) {
	tests := [][]string{
		nil,
		{},
		testMnemonic[:6],
		append(append([]string{}, testMnemonic[:11]...), "zoo"),
	}

	for _, tt := range tests {
		_, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{Mnemonic: tt})
		require.ErrorIs(t, err, ErrInvalidSeedPhrase)
	}
}

func TestWalletZero(t *testing.T) {
	w := newTestWallet(t)
	seed := w.seed
	w.Zero()

	for _, b := range seed {
		require.Zero(t, b)
	}
	_, err := w.DeriveTaprootAddress(DeriveSigningKeyPairOpts{Network: mainnet})
	require.True(t, errors.Is(err, ErrNullSeed))
}

func TestNewWalletFromSeed(t *testing.T) {
	seed, _ := hex.DecodeString(testSeedHex)
	w, err := NewWalletFromSeed(seed)
	require.NoError(t, err)

	addr, err := w.DeriveTaprootAddress(DeriveSigningKeyPairOpts{Network: mainnet})
	require.NoError(t, err)
	require.Equal(t, firstReceiveAddress, addr)

	_, err = NewWalletFromSeed(seed[:8])
	require.ErrorIs(t, err, ErrNullSeed)
}
