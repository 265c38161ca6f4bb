package seedstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
	"github.com/beutel-network/beutel-daemon/pkg/securestore"
	boltsecurestore "github.com/beutel-network/beutel-daemon/pkg/securestore/bolt"
	log "github.com/sirupsen/logrus"
)

const (
	dbFile = "seed.db"
	// mnemonicKey is where the seed phrase lives in the root bucket.
	mnemonicKey = "beutel_wallet_mnemonic"
)

type seedStore struct {
	store securestore.SecureStorage
}

// NewSeedStore opens the encrypted seed store in the given datadir.
func NewSeedStore(datadir string) (ports.SeedStore, error) {
	store, err := boltsecurestore.NewSecureStorage(datadir, dbFile)
	if err != nil {
		return nil, fmt.Errorf("opening seed store: %w", err)
	}
	return NewSeedStoreFromSecureStorage(store), nil
}

// NewSeedStoreFromSecureStorage wraps an already opened secure storage.
func NewSeedStoreFromSecureStorage(store securestore.SecureStorage) ports.SeedStore {
	return &seedStore{store}
}

func (s *seedStore) IsInitialized() bool {
	initialized, err := s.store.IsInitialized()
	if err != nil {
		log.WithError(err).Warn("seed store: failed to check initialization")
		return false
	}
	return initialized
}

func (s *seedStore) IsLocked() bool {
	return s.store.IsLocked()
}

func (s *seedStore) Unlock(password string) error {
	pwd := []byte(password)
	defer zero(pwd)

	if err := s.store.CreateUnlock(&pwd); err != nil {
		return parseError(err)
	}
	return nil
}

func (s *seedStore) Lock() {
	s.store.Lock()
}

func (s *seedStore) ChangePassword(currentPassword, newPassword string) error {
	oldPwd, newPwd := []byte(currentPassword), []byte(newPassword)
	defer zero(oldPwd)
	defer zero(newPwd)

	if err := s.store.ChangePassword(oldPwd, newPwd); err != nil {
		return parseError(err)
	}
	return nil
}

func (s *seedStore) Store(_ context.Context, mnemonic []string) error {
	value := []byte(strings.Join(mnemonic, " "))
	defer zero(value)

	if err := s.store.AddToBucket(nil, []byte(mnemonicKey), value); err != nil {
		return parseError(err)
	}
	return nil
}

func (s *seedStore) Load(_ context.Context) ([]string, bool, error) {
	value, err := s.store.GetFromBucket(nil, []byte(mnemonicKey))
	if err != nil {
		return nil, false, parseError(err)
	}
	if len(value) <= 0 {
		return nil, false, nil
	}
	defer zero(value)

	return strings.Fields(string(value)), true, nil
}

func (s *seedStore) Delete(_ context.Context) error {
	if err := s.store.RemoveFromBucket(nil, []byte(mnemonicKey)); err != nil {
		return parseError(err)
	}
	return nil
}

func (s *seedStore) Exists(ctx context.Context) (bool, error) {
	_, found, err := s.Load(ctx)
	return found, err
}

func (s *seedStore) Close() error {
	return s.store.Close()
}

func parseError(err error) error {
	switch {
	case errors.Is(err, boltsecurestore.ErrStoreLocked):
		return domain.ErrWalletLocked
	case errors.Is(err, boltsecurestore.ErrInvalidPassword),
		errors.Is(err, boltsecurestore.ErrPasswordRequired):
		return domain.ErrInvalidPassword
	default:
		return err
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
