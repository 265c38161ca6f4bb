package application

import (
	"context"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/btcsuite/btcd/chaincfg"
)

// addressIndex is the only receive index used, there's no address rotation.
const addressIndex = 0

// WalletSession is the wallet an operation works with, built from the seed
// phrase loaded from the seed store. It must be closed once done to wipe the
// seed from memory.
type WalletSession struct {
	Network domain.Network
	Params  *chaincfg.Params
	Account uint32
	Address string

	wallet *wallet.Wallet
}

func newWalletSession(
	ctx context.Context, seedStore ports.SeedStore,
	network domain.Network, account uint32,
) (*WalletSession, error) {
	if seedStore.IsLocked() {
		return nil, domain.ErrWalletLocked
	}
	params, err := network.Params()
	if err != nil {
		return nil, err
	}

	mnemonic, found, err := seedStore.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrWalletNotFound
	}

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	zeroMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	session := &WalletSession{
		Network: network,
		Params:  params,
		Account: account,
		wallet:  w,
	}
	addr, err := w.DeriveTaprootAddress(session.keyOpts())
	if err != nil {
		session.Close()
		return nil, err
	}
	session.Address = addr

	return session, nil
}

func (s *WalletSession) keyOpts() wallet.DeriveSigningKeyPairOpts {
	return wallet.DeriveSigningKeyPairOpts{
		Network: s.Params,
		Account: s.Account,
		Change:  wallet.ExternalChain,
		Index:   addressIndex,
	}
}

// Describe returns the account info of the session.
func (s *WalletSession) Describe() (*WalletInfo, error) {
	info, err := s.wallet.DescribeAccount(s.keyOpts())
	if err != nil {
		return nil, err
	}
	fingerprint, err := s.wallet.MasterKeyFingerprint(s.Params)
	if err != nil {
		return nil, err
	}

	return &WalletInfo{
		Network:              s.Network,
		Address:              info.Address,
		InternalKey:          info.InternalKey,
		OutputKey:            info.OutputKey,
		DerivationPath:       info.DerivationPath,
		MasterKeyFingerprint: fingerprint,
	}, nil
}

// SignSend builds and signs the transaction paying the given preview with
// the given utxos, all owned by the session address.
func (s *WalletSession) SignSend(
	preview wallet.TransactionPreview, utxos []explorer.Utxo,
) (string, error) {
	return s.wallet.BuildAndSignTransaction(wallet.BuildTransactionOpts{
		Network:          s.Params,
		Account:          s.Account,
		Index:            addressIndex,
		Utxos:            utxos,
		RecipientAddress: preview.RecipientAddress,
		AmountSats:       preview.AmountSats,
		FeeRate:          preview.FeeRate,
	})
}

func (s *WalletSession) Close() {
	if s.wallet != nil {
		s.wallet.Zero()
		s.wallet = nil
	}
}

func zeroMnemonic(mnemonic []string) {
	for i := range mnemonic {
		mnemonic[i] = ""
	}
}
