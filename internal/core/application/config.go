package application

import (
	"fmt"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
	dbbadger "github.com/beutel-network/beutel-daemon/internal/infrastructure/storage/db/badger"
	"github.com/beutel-network/beutel-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType   string
	DBConfig interface{}

	SeedStore    ports.SeedStore
	Explorer     explorer.Service
	Metrics      *stats.Metrics
	Network      domain.Network
	AccountIndex uint32
	FeeSpeed     string

	repo   ports.RepoManager
	wallet WalletService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.SeedStore == nil {
		return fmt.Errorf("missing seed store")
	}
	if c.Explorer == nil {
		return fmt.Errorf("missing explorer service")
	}
	if !c.Network.IsValid() {
		return domain.ErrUnknownNetwork
	}
	if _, err := (explorer.FeeRates{}).ForSpeed(c.FeeSpeed); err != nil {
		return err
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.walletService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) WalletService() WalletService {
	svc, _ := c.walletService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, ok := c.DBConfig.(string)
			if !ok {
				return nil, fmt.Errorf("badger db requires a datadir")
			}
			repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) walletService() (WalletService, error) {
	if c.wallet == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		wallet, err := NewWalletService(
			c.SeedStore, c.Explorer, repo, c.Metrics,
			c.Network, c.AccountIndex, c.FeeSpeed,
		)
		if err != nil {
			return nil, err
		}
		c.wallet = wallet
	}
	return c.wallet, nil
}
