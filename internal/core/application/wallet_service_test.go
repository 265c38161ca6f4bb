package application_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/beutel-network/beutel-daemon/internal/core/application"
	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/stats"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	password = "password"
	// first BIP86 receive address of the abandon...about phrase.
	walletAddress = "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr"
	recipient     = "bc1p4qhjn9zdvkux4e44uhx8tc55attvtyu358kutcqkudyccelu0was9fqzwh"
	txid          = "f0e1d2c3b4a5968778695a4b3c2d1e0ff0e1d2c3b4a5968778695a4b3c2d1e0f"
)

var (
	ctx      = context.Background()
	mnemonic = strings.Fields(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
	)
	feeRates = &explorer.FeeRates{
		FastestFee: 10, HalfHourFee: 5, HourFee: 3, EconomyFee: 2, MinimumFee: 1,
	}
)

func TestWalletLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)

	status := svc.Status(ctx)
	require.False(t, status.Initialized)
	require.False(t, status.Unlocked)

	err := svc.Unlock(ctx, password)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	err = svc.ImportWallet(ctx, mnemonic[:11], password)
	require.ErrorIs(t, err, wallet.ErrInvalidSeedPhrase)

	err = svc.ImportWallet(ctx, mnemonic, password)
	require.NoError(t, err)

	status = svc.Status(ctx)
	require.True(t, status.Initialized)
	require.True(t, status.Unlocked)
	require.True(t, status.HasWallet)
	require.Equal(t, domain.MainNet, status.Network)

	_, err = svc.CreateWallet(ctx, password, 128)
	require.ErrorIs(t, err, domain.ErrWalletAlreadyExists)

	addr, err := svc.GetReceiveAddress(ctx)
	require.NoError(t, err)
	require.Equal(t, walletAddress, addr)

	info, err := svc.GetWalletInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, walletAddress, info.Address)
	require.Equal(t, "m/86'/0'/0'/0/0", info.DerivationPath)
	require.Equal(t, uint32(0x0adac573), info.MasterKeyFingerprint)

	err = svc.Lock(ctx)
	require.NoError(t, err)

	_, err = svc.GetReceiveAddress(ctx)
	require.ErrorIs(t, err, domain.ErrWalletLocked)

	err = svc.Unlock(ctx, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidPassword)

	err = svc.Unlock(ctx, password)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "wrong", "newpassword")
	require.ErrorIs(t, err, domain.ErrInvalidPassword)
	err = svc.ChangePassword(ctx, password, "newpassword")
	require.NoError(t, err)

	err = svc.DeleteWallet(ctx)
	require.NoError(t, err)

	_, err = svc.GetReceiveAddress(ctx)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	err = svc.DeleteWallet(ctx)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	words, err := svc.CreateWallet(ctx, "newpassword", 256)
	require.NoError(t, err)
	require.Len(t, words, 24)
	require.True(t, wallet.IsMnemonicValid(words))

	_, err = svc.CreateWallet(ctx, "newpassword", 64)
	require.ErrorIs(t, err, wallet.ErrInvalidEntropySize)
}

func TestGetBalanceAndHistory(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)
	importWallet(t, svc)

	explorerSvc.On("GetBalance", mock.Anything, walletAddress).Return(
		&explorer.Balance{Confirmed: 100_000, Unconfirmed: -20_000}, nil,
	)
	explorerSvc.On("GetTransactionsForAddress", mock.Anything, walletAddress).Return(
		[]explorer.Transaction{
			{
				TxID:    "confirmed",
				Inputs:  []explorer.TxInput{{Prevout: &explorer.TxOutput{Address: recipient, Value: 150_000}}},
				Outputs: []explorer.TxOutput{{Address: walletAddress, Value: 100_000}},
				Fee:     50_000,
				Status:  explorer.Status{Confirmed: true, BlockHeight: 10, BlockTime: 1700000000},
			},
			{
				TxID:    "pending",
				Inputs:  []explorer.TxInput{{Prevout: &explorer.TxOutput{Address: walletAddress, Value: 100_000}}},
				Outputs: []explorer.TxOutput{{Address: recipient, Value: 19_000}, {Address: walletAddress, Value: 80_000}},
				Fee:     1_000,
			},
		}, nil,
	)
	explorerSvc.On("GetBlockHeight", mock.Anything).Return(int64(15), nil)

	balance, err := svc.GetBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Balance{
		Confirmed: 100_000, Unconfirmed: -20_000, Total: 80_000,
	}, *balance)

	history, err := svc.GetTransactionHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "pending", history[0].TxID)
	require.Equal(t, domain.TxTypeSend, history[0].Type)
	require.Equal(t, uint64(19_000), history[0].AmountSats)
	require.Zero(t, history[0].Confirmations)
	require.Equal(t, domain.TxTypeReceive, history[1].Type)
	require.Equal(t, uint64(100_000), history[1].AmountSats)
	require.Equal(t, int64(6), history[1].Confirmations)
}

func TestGetTransaction(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: append([]string(nil), mnemonic...),
	})
	require.NoError(t, err)
	txHex, err := w.BuildAndSignTransaction(wallet.BuildTransactionOpts{
		Network:          &chaincfg.MainNetParams,
		Utxos:            []explorer.Utxo{{TxID: strings.Repeat("ab", 32), Value: 100_000}},
		RecipientAddress: recipient,
		AmountSats:       60_000,
		FeeRate:          10,
	})
	require.NoError(t, err)
	w.Zero()
	tx, err := wallet.DecodeTransaction(txHex)
	require.NoError(t, err)
	signedTxid := tx.TxHash().String()

	_, err = svc.GetTransaction(ctx, signedTxid)
	require.ErrorIs(t, err, domain.ErrWalletLocked)

	importWallet(t, svc)

	explorerSvc.On("GetTransactionHex", mock.Anything, signedTxid).Return(txHex, nil)
	explorerSvc.On("GetTransactionHex", mock.Anything, txid).Return(txHex, nil)
	explorerSvc.On("GetTransactionHex", mock.Anything, strings.Repeat("00", 32)).Return(
		"", explorer.ErrTransactionNotFound,
	)

	details, err := svc.GetTransaction(ctx, strings.ToUpper(signedTxid))
	require.NoError(t, err)
	require.Equal(t, signedTxid, details.TxID)
	require.Equal(t, txHex, details.Hex)
	require.Len(t, details.Inputs, 1)
	require.Len(t, details.Outputs, 2)
	require.Equal(t, recipient, details.Outputs[0].Address)
	require.Equal(t, walletAddress, details.Outputs[1].Address)
	require.Equal(t, walletAddress, details.WalletAddress)
	require.Equal(t, uint64(38_450), details.ReceivedSats)

	t.Run("invalid txid", func(t *testing.T) {
		for _, id := range []string{"", "abcd", strings.Repeat("zz", 32), strings.Repeat("ab", 33)} {
			_, err := svc.GetTransaction(ctx, id)
			require.ErrorIs(t, err, domain.ErrInvalidTxID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetTransaction(ctx, strings.Repeat("00", 32))
		require.ErrorIs(t, err, explorer.ErrTransactionNotFound)
	})

	t.Run("explorer returns another tx", func(t *testing.T) {
		_, err := svc.GetTransaction(ctx, txid)
		require.Error(t, err)
		require.Contains(t, err.Error(), signedTxid)
	})
}

func TestExplorerFailures(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)
	importWallet(t, svc)

	explorerSvc.On("GetBalance", mock.Anything, walletAddress).Return(
		nil, explorer.ErrServiceUnavailable,
	)
	explorerSvc.On("GetFeeRates", mock.Anything).Return(
		nil, explorer.ErrServiceUnavailable,
	)

	_, err := svc.GetBalance(ctx)
	require.ErrorIs(t, err, explorer.ErrServiceUnavailable)

	_, err = svc.GetFeeRates(ctx)
	require.ErrorIs(t, err, explorer.ErrServiceUnavailable)

	explorerSvc.On("GetTransactionsForAddress", mock.Anything, walletAddress).Return(
		[]explorer.Transaction{}, nil,
	)
	explorerSvc.On("GetBlockHeight", mock.Anything).Return(
		nil, explorer.ErrServiceUnavailable,
	)
	_, err = svc.GetTransactionHistory(ctx)
	require.ErrorIs(t, err, explorer.ErrServiceUnavailable)
}

func TestPreviewAndConfirmSend(t *testing.T) {
	svc, explorerSvc, repoManager := newTestService(t)
	importWallet(t, svc)

	utxos := []explorer.Utxo{
		{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 50_000},
		{TxID: strings.Repeat("cd", 32), Vout: 1, Value: 100_000},
	}
	explorerSvc.On("GetUnspents", mock.Anything, walletAddress).Return(utxos, nil)
	explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)

	var broadcasted string
	explorerSvc.On("BroadcastTransaction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			broadcasted = args.String(1)
		}).
		Return(txid, nil)

	_, err := svc.ConfirmSend(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingSend)

	preview, err := svc.PreviewSend(ctx, recipient, 60_000, "")
	require.NoError(t, err)
	require.NotEmpty(t, preview.ID)
	require.Equal(t, explorer.FeeSpeedFastest, preview.FeeSpeed)
	require.Equal(t, uint64(60_000), preview.AmountSats)
	require.Equal(t, uint64(1_550), preview.FeeSats)
	require.Equal(t, uint64(61_550), preview.TotalSats)
	require.Equal(t, uint64(38_450), preview.ChangeAmount)
	require.Equal(t, 1, preview.InputCount)

	pending, err := svc.GetPendingSend(ctx)
	require.NoError(t, err)
	require.Equal(t, preview.ID, pending.ID)

	res, err := svc.ConfirmSend(ctx)
	require.NoError(t, err)
	require.Equal(t, txid, res.TxID)

	tx, err := wallet.DecodeTransaction(broadcasted)
	require.NoError(t, err)
	require.Len(t, tx.TxIn, 1)
	require.Len(t, tx.TxOut, 2)
	require.Equal(t, int64(60_000), tx.TxOut[0].Value)
	require.Equal(t, int64(38_450), tx.TxOut[1].Value)

	_, err = svc.GetPendingSend(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingSend)
	_, err = svc.ConfirmSend(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingSend)

	sends, err := svc.ListSends(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sends, 1)
	require.Equal(t, txid, sends[0].TxID)
	require.Equal(t, recipient, sends[0].RecipientAddress)
	require.Equal(t, uint64(1_550), sends[0].FeeSats)

	send, err := svc.GetSend(ctx, txid)
	require.NoError(t, err)
	require.Equal(t, sends[0], *send)

	// Deleting the wallet clears its journal.
	err = svc.DeleteWallet(ctx)
	require.NoError(t, err)
	sends, err = repoManager.SendRepository().ListSends(ctx, domain.MainNet, nil)
	require.NoError(t, err)
	require.Empty(t, sends)
}

func TestPreviewSendWithSpeed(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)
	importWallet(t, svc)

	explorerSvc.On("GetUnspents", mock.Anything, walletAddress).Return(
		[]explorer.Utxo{{TxID: strings.Repeat("ab", 32), Value: 100_000}}, nil,
	)
	explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)

	preview, err := svc.PreviewSend(ctx, recipient, 10_000, explorer.FeeSpeedEconomy)
	require.NoError(t, err)
	require.Equal(t, float64(2), preview.FeeRate)
	require.Equal(t, uint64(310), preview.FeeSats)

	err = svc.ClearSend(ctx)
	require.NoError(t, err)
	_, err = svc.ConfirmSend(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingSend)
}

func TestPreviewSendFailures(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)

	_, err := svc.PreviewSend(ctx, recipient, 10_000, "")
	require.ErrorIs(t, err, domain.ErrWalletLocked)

	importWallet(t, svc)

	explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)

	tests := []struct {
		name      string
		recipient string
		amount    uint64
		speed     string
		err       error
	}{
		{"null amount", recipient, 0, "", domain.ErrNullAmount},
		{"dust amount", recipient, 545, "", wallet.ErrDustAmount},
		{"amount above max supply", recipient, math.MaxUint64 - 100, "", wallet.ErrInvalidAmount},
		{"invalid address", "bc1qinvalid", 10_000, "", wallet.ErrInvalidAddress},
		{"testnet address", "tb1pqqqqp399et2xygdj5xreqhjjvcmzhxw4aywxecjdzew6hylgvsesf3hn0c", 10_000, "", wallet.ErrInvalidAddress},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PreviewSend(ctx, tt.recipient, tt.amount, tt.speed)
			require.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("unknown speed", func(t *testing.T) {
		_, err := svc.PreviewSend(ctx, recipient, 10_000, "warp")
		require.ErrorIs(t, err, explorer.ErrUnknownFeeSpeed)
	})
}

func TestPreviewSendFunds(t *testing.T) {
	t.Run("no utxos", func(t *testing.T) {
		svc, explorerSvc, _ := newTestService(t)
		importWallet(t, svc)

		explorerSvc.On("GetUnspents", mock.Anything, walletAddress).Return(
			[]explorer.Utxo{}, nil,
		)
		explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)

		_, err := svc.PreviewSend(ctx, recipient, 10_000, "")
		require.ErrorIs(t, err, domain.ErrNoUtxos)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		svc, explorerSvc, _ := newTestService(t)
		importWallet(t, svc)

		explorerSvc.On("GetUnspents", mock.Anything, walletAddress).Return(
			[]explorer.Utxo{{TxID: strings.Repeat("ab", 32), Value: 10_000}}, nil,
		)
		explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)

		_, err := svc.PreviewSend(ctx, recipient, 20_000, "")
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		var fundsErr *wallet.InsufficientFundsError
		require.True(t, errors.As(err, &fundsErr))
		require.Equal(t, uint64(21_550), fundsErr.Required)
		require.Equal(t, uint64(10_000), fundsErr.Available)
		require.Equal(t, uint64(11_550), fundsErr.Shortfall())

		_, err = svc.GetPendingSend(ctx)
		require.ErrorIs(t, err, domain.ErrNoPendingSend)
	})
}

func TestConfirmSendRejected(t *testing.T) {
	svc, explorerSvc, _ := newTestService(t)
	importWallet(t, svc)

	explorerSvc.On("GetUnspents", mock.Anything, walletAddress).Return(
		[]explorer.Utxo{{TxID: strings.Repeat("ab", 32), Value: 100_000}}, nil,
	)
	explorerSvc.On("GetFeeRates", mock.Anything).Return(feeRates, nil)
	explorerSvc.On("BroadcastTransaction", mock.Anything, mock.Anything).Return(
		"", &explorer.BroadcastError{StatusCode: 400, Message: "min relay fee not met"},
	)

	_, err := svc.PreviewSend(ctx, recipient, 10_000, "")
	require.NoError(t, err)

	_, err = svc.ConfirmSend(ctx)
	require.ErrorIs(t, err, explorer.ErrBroadcastRejected)
	require.Contains(t, err.Error(), "min relay fee not met")

	// The preview is kept so that it can be retried or cleared.
	_, err = svc.GetPendingSend(ctx)
	require.NoError(t, err)

	sends, err := svc.ListSends(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, sends)
}

func TestConfig(t *testing.T) {
	cfg := &application.Config{
		DBType:    application.DBInMemory,
		SeedStore: newMockSeedStore(),
		Explorer:  &mockExplorer{},
		Network:   domain.TestNet4,
	}
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.WalletService())
	require.NotNil(t, cfg.RepoManager())

	cfg = &application.Config{
		DBType:    "postgres",
		SeedStore: newMockSeedStore(),
		Explorer:  &mockExplorer{},
		Network:   domain.TestNet4,
	}
	require.Error(t, cfg.Validate())

	cfg = &application.Config{
		DBType:    application.DBInMemory,
		SeedStore: newMockSeedStore(),
		Explorer:  &mockExplorer{},
		Network:   "regtest",
	}
	require.ErrorIs(t, cfg.Validate(), domain.ErrUnknownNetwork)
}

func newTestService(
	t *testing.T,
) (application.WalletService, *mockExplorer, *inmemory.RepoManager) {
	explorerSvc := &mockExplorer{}
	repoManager := inmemory.NewRepoManager()

	svc, err := application.NewWalletService(
		newMockSeedStore(), explorerSvc, repoManager, stats.NewMetrics(),
		domain.MainNet, 0, explorer.FeeSpeedFastest,
	)
	require.NoError(t, err)

	return svc, explorerSvc, repoManager.(*inmemory.RepoManager)
}

func importWallet(t *testing.T, svc application.WalletService) {
	err := svc.ImportWallet(ctx, mnemonic, password)
	require.NoError(t, err)
}
