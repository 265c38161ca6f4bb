package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

const sendsDir = "sends"

type repoManager struct {
	store          *badgerhold.Store
	sendRepository domain.SendRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk
// under the given base dir. Logger is optional.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	sendDb, err := createDb(filepath.Join(baseDbDir, sendsDir), logger)
	if err != nil {
		return nil, fmt.Errorf("opening sends db: %w", err)
	}

	return &repoManager{
		store:          sendDb,
		sendRepository: NewSendRepositoryImpl(sendDb),
	}, nil
}

func (r *repoManager) SendRepository() domain.SendRepository {
	return r.sendRepository
}

func (r *repoManager) Close() {
	r.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
