package application_test

import (
	"context"
	"sync"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/stretchr/testify/mock"
)

// **** Explorer ****

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetUnspents(
	ctx context.Context, addr string,
) ([]explorer.Utxo, error) {
	args := m.Called(ctx, addr)

	var res []explorer.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetFeeRates(ctx context.Context) (*explorer.FeeRates, error) {
	args := m.Called(ctx)

	var res *explorer.FeeRates
	if a := args.Get(0); a != nil {
		res = a.(*explorer.FeeRates)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetBalance(
	ctx context.Context, addr string,
) (*explorer.Balance, error) {
	args := m.Called(ctx, addr)

	var res *explorer.Balance
	if a := args.Get(0); a != nil {
		res = a.(*explorer.Balance)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTransactionsForAddress(
	ctx context.Context, addr string,
) ([]explorer.Transaction, error) {
	args := m.Called(ctx, addr)

	var res []explorer.Transaction
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Transaction)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTransactionHex(
	ctx context.Context, txid string,
) (string, error) {
	args := m.Called(ctx, txid)
	return args.String(0), args.Error(1)
}

func (m *mockExplorer) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	args := m.Called(ctx, txhex)
	return args.String(0), args.Error(1)
}

func (m *mockExplorer) GetBlockHeight(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

// **** SeedStore ****

type mockSeedStore struct {
	lock     *sync.Mutex
	password string
	unlocked bool
	mnemonic []string
}

func newMockSeedStore() *mockSeedStore {
	return &mockSeedStore{lock: &sync.Mutex{}}
}

func (m *mockSeedStore) IsInitialized() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.password != ""
}

func (m *mockSeedStore) IsLocked() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return !m.unlocked
}

func (m *mockSeedStore) Unlock(password string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if password == "" {
		return domain.ErrInvalidPassword
	}
	if m.password == "" {
		m.password = password
	}
	if m.password != password {
		return domain.ErrInvalidPassword
	}
	m.unlocked = true
	return nil
}

func (m *mockSeedStore) Lock() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.unlocked = false
}

func (m *mockSeedStore) ChangePassword(currentPassword, newPassword string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.unlocked {
		return domain.ErrWalletLocked
	}
	if currentPassword != m.password || newPassword == "" {
		return domain.ErrInvalidPassword
	}
	m.password = newPassword
	return nil
}

func (m *mockSeedStore) Store(_ context.Context, mnemonic []string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.unlocked {
		return domain.ErrWalletLocked
	}
	m.mnemonic = append([]string{}, mnemonic...)
	return nil
}

func (m *mockSeedStore) Load(_ context.Context) ([]string, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.unlocked {
		return nil, false, domain.ErrWalletLocked
	}
	if m.mnemonic == nil {
		return nil, false, nil
	}
	return append([]string{}, m.mnemonic...), true, nil
}

func (m *mockSeedStore) Delete(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.unlocked {
		return domain.ErrWalletLocked
	}
	m.mnemonic = nil
	return nil
}

func (m *mockSeedStore) Exists(ctx context.Context) (bool, error) {
	_, found, err := m.Load(ctx)
	return found, err
}

func (m *mockSeedStore) Close() error {
	return nil
}
