package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/explorer/esplora"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// NetworkKey is the bitcoin network the wallet operates on. One of mainnet,
	// testnet3, testnet4 or signet
	NetworkKey = "NETWORK"
	// ExplorerURLKey is the endpoint of the Esplora REST API. Defaults to the
	// mempool.space one for the configured network
	ExplorerURLKey = "EXPLORER_URL"
	// ExplorerRequestTimeoutKey are the milliseconds to wait for HTTP responses before timeouts
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerRateLimitKey is the max number of requests per second made to the explorer
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// AccountIndexKey is the BIP86 account of the wallet
	AccountIndexKey = "ACCOUNT_INDEX"
	// FeeSpeedKey is the default speed used to pick a rate from the fee schedule
	FeeSpeedKey = "FEE_SPEED"
	// EnableMetricsKey exposes prometheus metrics at /metrics
	EnableMetricsKey = "ENABLE_METRICS"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"

	DbLocation   = "db"
	SeedLocation = "seed"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("beutel-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("BEUTEL")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, domain.MainNet.String())
	vip.SetDefault(ExplorerRequestTimeoutKey, 15000)
	vip.SetDefault(ExplorerRateLimitKey, esplora.DefaultRateLimit)
	vip.SetDefault(ListeningPortKey, 9950)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(AccountIndexKey, 0)
	vip.SetDefault(FeeSpeedKey, explorer.FeeSpeedFastest)
	vip.SetDefault(EnableMetricsKey, true)
	vip.SetDefault(DBTypeKey, DBBadger)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetNetwork() domain.Network {
	return domain.Network(GetString(NetworkKey))
}

// GetExplorerURL returns the configured explorer endpoint, or the default
// one for the network.
func GetExplorerURL() string {
	if url := GetString(ExplorerURLKey); url != "" {
		return url
	}
	return esplora.DefaultURLs[GetNetwork().String()]
}

func GetExplorerConfig() esplora.Config {
	return esplora.Config{
		URL:            GetExplorerURL(),
		RequestTimeout: time.Duration(GetInt(ExplorerRequestTimeoutKey)) * time.Millisecond,
		RateLimit:      GetInt(ExplorerRateLimitKey),
	}
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if !GetNetwork().IsValid() {
		return fmt.Errorf(
			"network must be one of %s, %s, %s, %s",
			domain.MainNet, domain.TestNet3, domain.TestNet4, domain.SigNet,
		)
	}

	if GetExplorerURL() == "" {
		return fmt.Errorf("missing explorer url")
	}
	if GetInt(ExplorerRequestTimeoutKey) < 0 {
		return fmt.Errorf("%s must not be negative", ExplorerRequestTimeoutKey)
	}
	if GetInt(ExplorerRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", ExplorerRateLimitKey)
	}

	port := GetInt(ListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be a valid port number", ListeningPortKey)
	}

	if GetInt(AccountIndexKey) < 0 {
		return fmt.Errorf("%s must not be negative", AccountIndexKey)
	}

	if _, err := (explorer.FeeRates{}).ForSpeed(GetString(FeeSpeedKey)); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf("%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, SeedLocation)); err != nil {
		return err
	}
	if GetString(DBTypeKey) == DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
