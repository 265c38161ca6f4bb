package httpinterface

import (
	"errors"
	"net/http"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

var errBadRequest = errors.New("malformed request")

var errorStatusCodes = []struct {
	err    error
	status int
}{
	{errBadRequest, http.StatusBadRequest},
	{wallet.ErrInvalidSeedPhrase, http.StatusBadRequest},
	{wallet.ErrInvalidEntropySize, http.StatusBadRequest},
	{wallet.ErrInvalidAddress, http.StatusBadRequest},
	{wallet.ErrDustAmount, http.StatusBadRequest},
	{wallet.ErrInvalidAmount, http.StatusBadRequest},
	{wallet.ErrInvalidFeeRate, http.StatusBadRequest},
	{domain.ErrNullAmount, http.StatusBadRequest},
	{explorer.ErrUnknownFeeSpeed, http.StatusBadRequest},
	{domain.ErrInvalidTxID, http.StatusBadRequest},
	{domain.ErrInvalidPassword, http.StatusUnauthorized},
	{domain.ErrWalletLocked, http.StatusLocked},
	{domain.ErrWalletNotFound, http.StatusNotFound},
	{domain.ErrSendNotFound, http.StatusNotFound},
	{explorer.ErrTransactionNotFound, http.StatusNotFound},
	{domain.ErrWalletAlreadyExists, http.StatusConflict},
	{domain.ErrNoPendingSend, http.StatusConflict},
	{domain.ErrNoUtxos, http.StatusUnprocessableEntity},
	{wallet.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{explorer.ErrBroadcastRejected, http.StatusUnprocessableEntity},
	{explorer.ErrServiceUnavailable, http.StatusServiceUnavailable},
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusCode(err error) int {
	for _, e := range errorStatusCodes {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Warn("internal error")
	}
	writeJSON(w, status, errorResponse{err.Error()})
}
