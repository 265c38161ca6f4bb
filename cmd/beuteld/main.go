package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beutel-network/beutel-daemon/internal/config"
	"github.com/beutel-network/beutel-daemon/internal/core/application"
	"github.com/beutel-network/beutel-daemon/internal/infrastructure/seedstore"
	httpinterface "github.com/beutel-network/beutel-daemon/internal/interfaces/http"
	"github.com/beutel-network/beutel-daemon/pkg/explorer/esplora"
	"github.com/beutel-network/beutel-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const memStatsInterval = 5 * time.Minute

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	network := config.GetNetwork()

	seedStore, err := seedstore.NewSeedStore(
		filepath.Join(datadir, config.SeedLocation),
	)
	if err != nil {
		log.WithError(err).Fatal("error while opening seed store")
	}
	defer seedStore.Close()

	explorerSvc, err := esplora.NewService(config.GetExplorerConfig())
	if err != nil {
		log.WithError(err).Fatal("error while setting up explorer service")
	}

	var metrics *stats.Metrics
	if config.GetBool(config.EnableMetricsKey) {
		metrics = stats.NewMetrics()
	}

	appConfig := &application.Config{
		DBType:       config.GetString(config.DBTypeKey),
		DBConfig:     filepath.Join(datadir, config.DbLocation),
		SeedStore:    seedStore,
		Explorer:     explorerSvc,
		Metrics:      metrics,
		Network:      network,
		AccountIndex: uint32(config.GetInt(config.AccountIndexKey)),
		FeeSpeed:     config.GetString(config.FeeSpeedKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid application config")
	}
	defer appConfig.RepoManager().Close()

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:      config.GetInt(config.ListeningPortKey),
		WalletSvc: appConfig.WalletService(),
		Metrics:   metrics,
	})
	if err != nil {
		log.WithError(err).Fatal("error while setting up http interface")
	}

	log.Infof("starting daemon on %s", network)
	log.Debugf("datadir: %s", datadir)
	log.Debugf("explorer: %s", config.GetExplorerURL())

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("error while starting daemon")
	}
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if log.GetLevel() >= log.DebugLevel {
		stats.EnableMemoryStatistics(ctx, memStatsInterval)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
}
