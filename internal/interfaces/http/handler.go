package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/beutel-network/beutel-daemon/internal/core/application"
	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxBodySize = 1 << 16

type handler struct {
	walletSvc application.WalletService
}

func newHandler(walletSvc application.WalletService) *handler {
	return &handler{walletSvc}
}

type statusResponse struct {
	Network     string `json:"network"`
	Initialized bool   `json:"initialized"`
	Unlocked    bool   `json:"unlocked"`
	HasWallet   bool   `json:"has_wallet"`
}

type createRequest struct {
	Password    string `json:"password"`
	EntropySize int    `json:"entropy_size"`
}

type createResponse struct {
	Mnemonic string `json:"mnemonic"`
}

type importRequest struct {
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type addressResponse struct {
	Address string `json:"address"`
}

type infoResponse struct {
	Network              string `json:"network"`
	Address              string `json:"address"`
	InternalKey          string `json:"internal_key"`
	OutputKey            string `json:"output_key"`
	DerivationPath       string `json:"derivation_path"`
	MasterKeyFingerprint string `json:"master_key_fingerprint"`
}

type balanceResponse struct {
	Confirmed      int64  `json:"confirmed"`
	Unconfirmed    int64  `json:"unconfirmed"`
	Total          int64  `json:"total"`
	ConfirmedBTC   string `json:"confirmed_btc"`
	UnconfirmedBTC string `json:"unconfirmed_btc"`
	TotalBTC       string `json:"total_btc"`
}

type transactionResponse struct {
	TxID          string `json:"txid"`
	Type          string `json:"type"`
	Amount        uint64 `json:"amount"`
	Fee           uint64 `json:"fee"`
	Address       string `json:"address,omitempty"`
	Status        string `json:"status"`
	BlockHeight   int64  `json:"block_height,omitempty"`
	Confirmations int64  `json:"confirmations"`
	Timestamp     int64  `json:"timestamp,omitempty"`
}

type txInputResponse struct {
	TxID     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Sequence uint32 `json:"sequence"`
}

type txOutputResponse struct {
	Index   int    `json:"n"`
	Value   int64  `json:"value"`
	Address string `json:"address,omitempty"`
	IsMine  bool   `json:"is_mine"`
}

type txDetailsResponse struct {
	TxID     string             `json:"txid"`
	Version  int32              `json:"version"`
	LockTime uint32             `json:"locktime"`
	Size     int                `json:"size"`
	VSize    int                `json:"vsize"`
	Weight   int                `json:"weight"`
	Received uint64             `json:"received"`
	Inputs   []txInputResponse  `json:"inputs"`
	Outputs  []txOutputResponse `json:"outputs"`
	Hex      string             `json:"hex"`
}

type previewRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	FeeSpeed  string `json:"fee_speed"`
}

type previewResponse struct {
	ID         string  `json:"id"`
	Recipient  string  `json:"recipient"`
	Amount     uint64  `json:"amount"`
	Fee        uint64  `json:"fee"`
	Total      uint64  `json:"total"`
	TotalBTC   string  `json:"total_btc"`
	FeeRate    float64 `json:"fee_rate"`
	FeeSpeed   string  `json:"fee_speed"`
	InputCount int     `json:"input_count"`
	Change     uint64  `json:"change"`
	CreatedAt  int64   `json:"created_at"`
}

type sendResponse struct {
	TxID       string  `json:"txid"`
	Network    string  `json:"network"`
	Recipient  string  `json:"recipient"`
	Amount     uint64  `json:"amount"`
	Fee        uint64  `json:"fee"`
	FeeRate    float64 `json:"fee_rate"`
	InputCount int     `json:"input_count"`
	Change     uint64  `json:"change"`
	Timestamp  int64   `json:"timestamp"`
}

func (h *handler) handleGETStatus(w http.ResponseWriter, r *http.Request) {
	status := h.walletSvc.Status(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{
		Network:     status.Network.String(),
		Initialized: status.Initialized,
		Unlocked:    status.Unlocked,
		HasWallet:   status.HasWallet,
	})
}

func (h *handler) handlePOSTCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	mnemonic, err := h.walletSvc.CreateWallet(r.Context(), req.Password, req.EntropySize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createResponse{strings.Join(mnemonic, " ")})
}

func (h *handler) handlePOSTImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.walletSvc.ImportWallet(
		r.Context(), strings.Fields(req.Mnemonic), req.Password,
	); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handlePOSTDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.walletSvc.DeleteWallet(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handlePOSTUnlock(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.walletSvc.Unlock(r.Context(), req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handlePOSTLock(w http.ResponseWriter, r *http.Request) {
	if err := h.walletSvc.Lock(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handlePOSTChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.walletSvc.ChangePassword(
		r.Context(), req.CurrentPassword, req.NewPassword,
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handleGETAddress(w http.ResponseWriter, r *http.Request) {
	addr, err := h.walletSvc.GetReceiveAddress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addressResponse{addr})
}

func (h *handler) handleGETInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.walletSvc.GetWalletInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, infoResponse{
		Network:              info.Network.String(),
		Address:              info.Address,
		InternalKey:          info.InternalKey,
		OutputKey:            info.OutputKey,
		DerivationPath:       info.DerivationPath,
		MasterKeyFingerprint: fmt.Sprintf("%08x", info.MasterKeyFingerprint),
	})
}

func (h *handler) handleGETBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.walletSvc.GetBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Confirmed:      balance.Confirmed,
		Unconfirmed:    balance.Unconfirmed,
		Total:          balance.Total,
		ConfirmedBTC:   wallet.SatsToBTC(balance.Confirmed),
		UnconfirmedBTC: wallet.SatsToBTC(balance.Unconfirmed),
		TotalBTC:       wallet.SatsToBTC(balance.Total),
	})
}

func (h *handler) handleGETTransactions(w http.ResponseWriter, r *http.Request) {
	history, err := h.walletSvc.GetTransactionHistory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	txs := make([]transactionResponse, 0, len(history))
	for _, tx := range history {
		var timestamp int64
		if !tx.Timestamp.IsZero() {
			timestamp = tx.Timestamp.Unix()
		}
		txs = append(txs, transactionResponse{
			TxID:          tx.TxID,
			Type:          string(tx.Type),
			Amount:        tx.AmountSats,
			Fee:           tx.FeeSats,
			Address:       tx.Address,
			Status:        string(tx.Status),
			BlockHeight:   tx.BlockHeight,
			Confirmations: tx.Confirmations,
			Timestamp:     timestamp,
		})
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *handler) handleGETTransaction(w http.ResponseWriter, r *http.Request) {
	txid := mux.Vars(r)["txid"]

	details, err := h.walletSvc.GetTransaction(r.Context(), txid)
	if err != nil {
		writeError(w, err)
		return
	}

	res := txDetailsResponse{
		TxID:     details.TxID,
		Version:  details.Version,
		LockTime: details.LockTime,
		Size:     details.Size,
		VSize:    details.VSize,
		Weight:   details.Weight,
		Received: details.ReceivedSats,
		Inputs:   make([]txInputResponse, 0, len(details.Inputs)),
		Outputs:  make([]txOutputResponse, 0, len(details.Outputs)),
		Hex:      details.Hex,
	}
	for _, in := range details.Inputs {
		res.Inputs = append(res.Inputs, txInputResponse(in))
	}
	for _, out := range details.Outputs {
		res.Outputs = append(res.Outputs, txOutputResponse{
			Index:   out.Index,
			Value:   out.Value,
			Address: out.Address,
			IsMine:  out.Address == details.WalletAddress,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) handleGETFees(w http.ResponseWriter, r *http.Request) {
	rates, err := h.walletSvc.GetFeeRates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (h *handler) handlePOSTPreviewSend(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	preview, err := h.walletSvc.PreviewSend(
		r.Context(), req.Recipient, req.Amount, req.FeeSpeed,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewResponse(*preview))
}

func (h *handler) handleGETPendingSend(w http.ResponseWriter, r *http.Request) {
	preview, err := h.walletSvc.GetPendingSend(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewResponse(*preview))
}

func (h *handler) handlePOSTConfirmSend(w http.ResponseWriter, r *http.Request) {
	res, err := h.walletSvc.ConfirmSend(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSendResponse(res.Send))
}

func (h *handler) handlePOSTClearSend(w http.ResponseWriter, r *http.Request) {
	if err := h.walletSvc.ClearSend(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handler) handleGETSends(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sends, err := h.walletSvc.ListSends(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	res := make([]sendResponse, 0, len(sends))
	for _, s := range sends {
		res = append(res, toSendResponse(s))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) handleGETSend(w http.ResponseWriter, r *http.Request) {
	txid := mux.Vars(r)["txid"]

	send, err := h.walletSvc.GetSend(r.Context(), txid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSendResponse(*send))
}

func toPreviewResponse(p application.SendPreview) previewResponse {
	return previewResponse{
		ID:         p.ID,
		Recipient:  p.RecipientAddress,
		Amount:     p.AmountSats,
		Fee:        p.FeeSats,
		Total:      p.TotalSats,
		TotalBTC:   wallet.SatsToBTC(int64(p.TotalSats)),
		FeeRate:    p.FeeRate,
		FeeSpeed:   p.FeeSpeed,
		InputCount: p.InputCount,
		Change:     p.ChangeAmount,
		CreatedAt:  p.CreatedAt.Unix(),
	}
}

func toSendResponse(s domain.Send) sendResponse {
	return sendResponse{
		TxID:       s.TxID,
		Network:    s.Network.String(),
		Recipient:  s.RecipientAddress,
		Amount:     s.AmountSats,
		Fee:        s.FeeSats,
		FeeRate:    s.FeeRate,
		InputCount: s.InputCount,
		Change:     s.ChangeAmount,
		Timestamp:  s.Timestamp,
	}
}

// parsePage returns nil if no page is requested.
func parsePage(r *http.Request) (*domain.Page, error) {
	query := r.URL.Query()
	number, size := query.Get("page"), query.Get("size")
	if number == "" && size == "" {
		return nil, nil
	}

	var n, s int
	var err error
	if number != "" {
		if n, err = strconv.Atoi(number); err != nil {
			return nil, fmt.Errorf("%w: invalid page number", errBadRequest)
		}
	}
	if size != "" {
		if s, err = strconv.Atoi(size); err != nil {
			return nil, fmt.Errorf("%w: invalid page size", errBadRequest)
		}
	}
	page := domain.NewPage(n, s)
	return &page, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
