package httpinterface

import (
	"net/http"

	"github.com/beutel-network/beutel-daemon/pkg/stats"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func (h *handler) router(metrics *stats.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(logger)

	r.HandleFunc("/v1/wallet/status", h.handleGETStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/create", h.handlePOSTCreate).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/import", h.handlePOSTImport).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/delete", h.handlePOSTDelete).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/unlock", h.handlePOSTUnlock).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/lock", h.handlePOSTLock).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/password", h.handlePOSTChangePassword).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/address", h.handleGETAddress).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/info", h.handleGETInfo).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/balance", h.handleGETBalance).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/transactions", h.handleGETTransactions).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/tx/{txid}", h.handleGETTransaction).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/fees", h.handleGETFees).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/send/preview", h.handlePOSTPreviewSend).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/send/pending", h.handleGETPendingSend).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/send/confirm", h.handlePOSTConfirmSend).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/send/clear", h.handlePOSTClearSend).Methods(http.MethodPost)
	r.HandleFunc("/v1/wallet/sends", h.handleGETSends).Methods(http.MethodGet)
	r.HandleFunc("/v1/wallet/sends/{txid}", h.handleGETSend).Methods(http.MethodGet)

	if registry := metrics.Registry(); registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	return r
}

func logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
