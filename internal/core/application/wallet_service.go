package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/stats"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type WalletService interface {
	Status(ctx context.Context) WalletStatus
	CreateWallet(
		ctx context.Context, password string, entropySize int,
	) ([]string, error)
	ImportWallet(ctx context.Context, mnemonic []string, password string) error
	DeleteWallet(ctx context.Context) error
	Unlock(ctx context.Context, password string) error
	Lock(ctx context.Context) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	GetReceiveAddress(ctx context.Context) (string, error)
	GetWalletInfo(ctx context.Context) (*WalletInfo, error)
	GetBalance(ctx context.Context) (*domain.Balance, error)
	GetTransactionHistory(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, txid string) (*TransactionDetails, error)
	GetFeeRates(ctx context.Context) (*explorer.FeeRates, error)

	PreviewSend(
		ctx context.Context, recipient string, amount uint64, feeSpeed string,
	) (*SendPreview, error)
	GetPendingSend(ctx context.Context) (*SendPreview, error)
	ConfirmSend(ctx context.Context) (*SendResult, error)
	ClearSend(ctx context.Context) error
	ListSends(ctx context.Context, page *domain.Page) ([]domain.Send, error)
	GetSend(ctx context.Context, txid string) (*domain.Send, error)
}

type walletService struct {
	seedStore       ports.SeedStore
	explorerService explorer.Service
	repoManager     ports.RepoManager
	metrics         *stats.Metrics
	network         domain.Network
	account         uint32
	feeSpeed        string

	lock        *sync.Mutex
	pendingSend *pendingSend
}

func NewWalletService(
	seedStore ports.SeedStore,
	explorerService explorer.Service,
	repoManager ports.RepoManager,
	metrics *stats.Metrics,
	network domain.Network,
	account uint32,
	feeSpeed string,
) (WalletService, error) {
	if seedStore == nil {
		return nil, fmt.Errorf("missing seed store")
	}
	if explorerService == nil {
		return nil, fmt.Errorf("missing explorer service")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if !network.IsValid() {
		return nil, domain.ErrUnknownNetwork
	}
	if _, err := (explorer.FeeRates{}).ForSpeed(feeSpeed); err != nil {
		return nil, err
	}

	return &walletService{
		seedStore:       seedStore,
		explorerService: explorerService,
		repoManager:     repoManager,
		metrics:         metrics,
		network:         network,
		account:         account,
		feeSpeed:        feeSpeed,
		lock:            &sync.Mutex{},
	}, nil
}

func (w *walletService) Status(ctx context.Context) WalletStatus {
	status := WalletStatus{
		Network:     w.network,
		Initialized: w.seedStore.IsInitialized(),
		Unlocked:    !w.seedStore.IsLocked(),
	}
	if status.Unlocked {
		exists, err := w.seedStore.Exists(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to check if wallet exists")
		}
		status.HasWallet = exists
	}
	return status
}

func (w *walletService) CreateWallet(
	ctx context.Context, password string, entropySize int,
) ([]string, error) {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: entropySize,
	})
	if err != nil {
		return nil, err
	}

	if err := w.storeMnemonic(ctx, mnemonic, password); err != nil {
		return nil, err
	}

	log.Info("created new wallet")
	return mnemonic, nil
}

func (w *walletService) ImportWallet(
	ctx context.Context, mnemonic []string, password string,
) error {
	if !wallet.IsMnemonicValid(mnemonic) {
		return wallet.ErrInvalidSeedPhrase
	}

	if err := w.storeMnemonic(ctx, mnemonic, password); err != nil {
		return err
	}

	log.Info("imported wallet")
	return nil
}

func (w *walletService) DeleteWallet(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.seedStore.IsLocked() {
		return domain.ErrWalletLocked
	}
	exists, err := w.seedStore.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrWalletNotFound
	}

	if err := w.seedStore.Delete(ctx); err != nil {
		return err
	}
	w.pendingSend = nil

	count, err := w.repoManager.SendRepository().DeleteSends(ctx, w.network)
	if err != nil {
		log.WithError(err).Warn("failed to clear sends journal")
	} else {
		log.Debugf("removed %d sends from journal", count)
	}

	log.Info("deleted wallet")
	return nil
}

func (w *walletService) Unlock(ctx context.Context, password string) error {
	if !w.seedStore.IsInitialized() {
		return domain.ErrWalletNotFound
	}
	if err := w.seedStore.Unlock(password); err != nil {
		return err
	}
	log.Debug("wallet unlocked")
	return nil
}

func (w *walletService) Lock(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.seedStore.IsInitialized() {
		return domain.ErrWalletNotFound
	}
	w.pendingSend = nil
	w.seedStore.Lock()
	log.Debug("wallet locked")
	return nil
}

func (w *walletService) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
) error {
	if !w.seedStore.IsInitialized() {
		return domain.ErrWalletNotFound
	}
	if w.seedStore.IsLocked() {
		return domain.ErrWalletLocked
	}
	if err := w.seedStore.ChangePassword(currentPassword, newPassword); err != nil {
		return err
	}
	log.Info("wallet password changed")
	return nil
}

func (w *walletService) GetReceiveAddress(ctx context.Context) (string, error) {
	session, err := w.newSession(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	return session.Address, nil
}

func (w *walletService) GetWalletInfo(ctx context.Context) (*WalletInfo, error) {
	session, err := w.newSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.Describe()
}

func (w *walletService) GetBalance(ctx context.Context) (*domain.Balance, error) {
	addr, err := w.GetReceiveAddress(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := w.explorerService.GetBalance(ctx, addr)
	if err != nil {
		w.metrics.ObserveExplorerError("balance")
		return nil, err
	}

	b := domain.NewBalance(*balance)
	return &b, nil
}

func (w *walletService) GetTransactionHistory(
	ctx context.Context,
) ([]domain.Transaction, error) {
	addr, err := w.GetReceiveAddress(ctx)
	if err != nil {
		return nil, err
	}

	var txs []explorer.Transaction
	var tipHeight int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if txs, err = w.explorerService.GetTransactionsForAddress(gctx, addr); err != nil {
			w.metrics.ObserveExplorerError("transactions")
		}
		return err
	})
	g.Go(func() error {
		var err error
		if tipHeight, err = w.explorerService.GetBlockHeight(gctx); err != nil {
			w.metrics.ObserveExplorerError("height")
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewTransactionHistory(txs, addr, tipHeight), nil
}

func (w *walletService) GetTransaction(
	ctx context.Context, txid string,
) (*TransactionDetails, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil || len(txid) != 2*chainhash.HashSize {
		return nil, domain.ErrInvalidTxID
	}
	txid = hash.String()

	params, err := w.network.Params()
	if err != nil {
		return nil, err
	}
	addr, err := w.GetReceiveAddress(ctx)
	if err != nil {
		return nil, err
	}

	txHex, err := w.explorerService.GetTransactionHex(ctx, txid)
	if err != nil {
		if !errors.Is(err, explorer.ErrTransactionNotFound) {
			w.metrics.ObserveExplorerError("tx")
		}
		return nil, err
	}
	summary, err := wallet.SummarizeTransaction(txHex, params)
	if err != nil {
		return nil, err
	}
	if summary.TxID != txid {
		return nil, fmt.Errorf("explorer returned tx %s for %s", summary.TxID, txid)
	}

	return &TransactionDetails{
		TransactionSummary: *summary,
		Hex:                txHex,
		WalletAddress:      addr,
		ReceivedSats:       summary.ValueTo(addr),
	}, nil
}

func (w *walletService) GetFeeRates(ctx context.Context) (*explorer.FeeRates, error) {
	rates, err := w.explorerService.GetFeeRates(ctx)
	if err != nil {
		w.metrics.ObserveExplorerError("fees")
		return nil, err
	}
	return rates, nil
}

func (w *walletService) PreviewSend(
	ctx context.Context, recipient string, amount uint64, feeSpeed string,
) (*SendPreview, error) {
	if amount == 0 {
		return nil, domain.ErrNullAmount
	}
	if amount < wallet.DustThreshold {
		return nil, wallet.ErrDustAmount
	}
	if amount > wallet.MaxAmount {
		return nil, wallet.ErrInvalidAmount
	}
	params, err := w.network.Params()
	if err != nil {
		return nil, err
	}
	if !wallet.IsValidAddress(recipient, params) {
		return nil, wallet.ErrInvalidAddress
	}
	if feeSpeed == "" {
		feeSpeed = w.feeSpeed
	}
	if _, err := (explorer.FeeRates{}).ForSpeed(feeSpeed); err != nil {
		return nil, err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	addr, err := w.GetReceiveAddress(ctx)
	if err != nil {
		return nil, err
	}

	var utxos []explorer.Utxo
	var rates *explorer.FeeRates
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if utxos, err = w.explorerService.GetUnspents(gctx, addr); err != nil {
			w.metrics.ObserveExplorerError("utxos")
		}
		return err
	})
	g.Go(func() error {
		var err error
		if rates, err = w.explorerService.GetFeeRates(gctx); err != nil {
			w.metrics.ObserveExplorerError("fees")
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(utxos) <= 0 {
		return nil, domain.ErrNoUtxos
	}
	feeRate, _ := rates.ForSpeed(feeSpeed)
	if feeRate <= 0 {
		return nil, wallet.ErrInvalidFeeRate
	}

	preview := wallet.PrepareTransactionPreview(wallet.PrepareTransactionPreviewOpts{
		Utxos:            utxos,
		RecipientAddress: recipient,
		AmountSats:       amount,
		FeeRate:          feeRate,
	})
	if available := totalValue(utxos); available < preview.TotalSats {
		return nil, &wallet.InsufficientFundsError{
			Required:  preview.TotalSats,
			Available: available,
		}
	}

	sendPreview := SendPreview{
		ID:                 uuid.New().String(),
		TransactionPreview: preview,
		FeeSpeed:           feeSpeed,
		CreatedAt:          time.Now(),
	}
	w.pendingSend = &pendingSend{sendPreview, utxos}
	w.metrics.ObservePreview()

	log.WithFields(log.Fields{
		"preview": sendPreview.ID,
		"amount":  preview.AmountSats,
		"fee":     preview.FeeSats,
		"inputs":  preview.InputCount,
	}).Debug("prepared send preview")

	return &sendPreview, nil
}

func (w *walletService) GetPendingSend(ctx context.Context) (*SendPreview, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.pendingSend == nil {
		return nil, domain.ErrNoPendingSend
	}
	preview := w.pendingSend.preview
	return &preview, nil
}

func (w *walletService) ConfirmSend(ctx context.Context) (*SendResult, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	pending := w.pendingSend
	if pending == nil {
		return nil, domain.ErrNoPendingSend
	}

	session, err := w.newSession(ctx)
	if err != nil {
		return nil, err
	}
	txHex, err := session.SignSend(pending.preview.TransactionPreview, pending.utxos)
	session.Close()
	if err != nil {
		w.metrics.ObserveSendFailure(stats.SendFailed)
		return nil, err
	}

	txid, err := w.explorerService.BroadcastTransaction(ctx, txHex)
	if err != nil {
		if errors.Is(err, explorer.ErrBroadcastRejected) {
			w.metrics.ObserveSendFailure(stats.SendRejected)
		} else {
			w.metrics.ObserveSendFailure(stats.SendFailed)
			w.metrics.ObserveExplorerError("broadcast")
		}
		log.WithError(err).WithField("preview", pending.preview.ID).Warn(
			"failed to broadcast transaction",
		)
		return nil, err
	}
	w.pendingSend = nil

	preview := pending.preview.TransactionPreview
	send := domain.NewSend(txid, w.network, preview, time.Now().Unix())
	if err := w.repoManager.SendRepository().AddSend(ctx, send); err != nil {
		log.WithError(err).WithField("txid", txid).Warn(
			"failed to add send to journal",
		)
	}
	w.metrics.ObserveSend(preview.AmountSats, preview.FeeSats)

	log.WithFields(log.Fields{
		"txid":   txid,
		"amount": preview.AmountSats,
		"fee":    preview.FeeSats,
	}).Info("transaction broadcasted")

	return &SendResult{TxID: txid, Send: send}, nil
}

func (w *walletService) ClearSend(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.pendingSend = nil
	return nil
}

func (w *walletService) ListSends(
	ctx context.Context, page *domain.Page,
) ([]domain.Send, error) {
	return w.repoManager.SendRepository().ListSends(ctx, w.network, page)
}

func (w *walletService) GetSend(ctx context.Context, txid string) (*domain.Send, error) {
	return w.repoManager.SendRepository().GetSend(ctx, txid)
}

func (w *walletService) newSession(ctx context.Context) (*WalletSession, error) {
	return newWalletSession(ctx, w.seedStore, w.network, w.account)
}

func (w *walletService) storeMnemonic(
	ctx context.Context, mnemonic []string, password string,
) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err := w.seedStore.Unlock(password); err != nil {
		return err
	}
	exists, err := w.seedStore.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrWalletAlreadyExists
	}
	return w.seedStore.Store(ctx, mnemonic)
}

func totalValue(utxos []explorer.Utxo) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Value
	}
	return total
}
