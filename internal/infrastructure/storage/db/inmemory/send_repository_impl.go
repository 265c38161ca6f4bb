package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
)

type sendInmemoryStore struct {
	sends  map[string]domain.Send
	locker *sync.RWMutex
}

type SendRepositoryImpl struct {
	store *sendInmemoryStore
}

// NewSendRepositoryImpl returns a new empty SendRepositoryImpl
func NewSendRepositoryImpl() domain.SendRepository {
	return &SendRepositoryImpl{&sendInmemoryStore{
		sends:  map[string]domain.Send{},
		locker: &sync.RWMutex{},
	}}
}

func (s SendRepositoryImpl) AddSend(ctx context.Context, send domain.Send) error {
	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	if _, ok := s.store.sends[send.TxID]; !ok {
		s.store.sends[send.TxID] = send
	}
	return nil
}

func (s SendRepositoryImpl) GetSend(
	ctx context.Context, txid string,
) (*domain.Send, error) {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	send, ok := s.store.sends[txid]
	if !ok {
		return nil, domain.ErrSendNotFound
	}
	return &send, nil
}

func (s SendRepositoryImpl) ListSends(
	ctx context.Context, network domain.Network, page *domain.Page,
) ([]domain.Send, error) {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	sends := make([]domain.Send, 0)
	for _, v := range s.store.sends {
		if v.Network == network {
			sends = append(sends, v)
		}
	}
	sort.SliceStable(sends, func(i, j int) bool {
		if sends[i].Timestamp == sends[j].Timestamp {
			return sends[i].TxID < sends[j].TxID
		}
		return sends[i].Timestamp > sends[j].Timestamp
	})

	if page == nil {
		return sends, nil
	}

	from := page.Number*page.Size - page.Size
	if from >= len(sends) {
		return []domain.Send{}, nil
	}
	to := from + page.Size
	if to > len(sends) {
		to = len(sends)
	}
	return sends[from:to], nil
}

func (s SendRepositoryImpl) DeleteSends(
	ctx context.Context, network domain.Network,
) (int, error) {
	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	count := 0
	for txid, v := range s.store.sends {
		if v.Network == network {
			delete(s.store.sends, txid)
			count++
		}
	}
	return count, nil
}
