package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/beutel-network/beutel-daemon/internal/core/application"
	interfaces "github.com/beutel-network/beutel-daemon/internal/interfaces"
	"github.com/beutel-network/beutel-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type ServiceOpts struct {
	Port      int
	WalletSvc application.WalletService
	Metrics   *stats.Metrics
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid listening port %d", o.Port)
	}
	if o.WalletSvc == nil {
		return fmt.Errorf("missing wallet service")
	}
	return nil
}

func (o ServiceOpts) address() string {
	return fmt.Sprintf(":%d", o.Port)
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the HTTP interface of the daemon exposing the wallet
// service as a JSON API.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	h := newHandler(opts.WalletSvc)
	server := &http.Server{
		Addr:              opts.address(),
		Handler:           h.router(opts.Metrics),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return &service{opts, server}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.address())
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.opts.address())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http server")
	}
	log.Debug("stopped http interface")
}
