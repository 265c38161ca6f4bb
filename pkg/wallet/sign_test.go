package wallet

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/require"
)

func TestSignSchnorr(t *testing.T) {
	w := newTestWallet(t)
	privkey, pubkey, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairOpts{
		Network: mainnet,
	})
	require.NoError(t, err)

	msg := sha256.Sum256([]byte("beutel"))
	sig, err := SignSchnorr(msg[:], privkey)
	require.NoError(t, err)
	require.Len(t, sig.Serialize(), schnorr.SignatureSize)
	require.True(t, sig.Verify(msg[:], pubkey))

	// Fresh auxiliary randomness makes every signature different.
	otherSig, err := SignSchnorr(msg[:], privkey)
	require.NoError(t, err)
	require.NotEqual(t, sig.Serialize(), otherSig.Serialize())
	require.True(t, otherSig.Verify(msg[:], pubkey))

	otherMsg := sha256.Sum256([]byte("other"))
	require.False(t, sig.Verify(otherMsg[:], pubkey))
}

func TestFailingSignSchnorr(t *testing.T) {
	w := newTestWallet(t)
	privkey, _, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairOpts{
		Network: mainnet,
	})
	require.NoError(t, err)

	_, err = SignSchnorr([]byte("short"), privkey)
	require.Error(t, err)

	msg := sha256.Sum256([]byte("beutel"))
	_, err = SignSchnorr(msg[:], nil)
	require.Error(t, err)
}
