package dbbadger

import (
	"context"
	"errors"

	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

type sendRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSendRepositoryImpl initialize a badger implementation of the
// domain.SendRepository.
func NewSendRepositoryImpl(store *badgerhold.Store) domain.SendRepository {
	return sendRepositoryImpl{store}
}

func (s sendRepositoryImpl) AddSend(ctx context.Context, send domain.Send) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = s.store.TxInsert(tx, send.TxID, &send)
	} else {
		err = s.store.Insert(send.TxID, &send)
	}
	if err != nil && !errors.Is(err, badgerhold.ErrKeyExists) {
		return err
	}
	return nil
}

func (s sendRepositoryImpl) GetSend(
	ctx context.Context, txid string,
) (*domain.Send, error) {
	var send domain.Send
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = s.store.TxGet(tx, txid, &send)
	} else {
		err = s.store.Get(txid, &send)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSendNotFound
		}
		return nil, err
	}
	return &send, nil
}

func (s sendRepositoryImpl) ListSends(
	ctx context.Context, network domain.Network, page *domain.Page,
) ([]domain.Send, error) {
	query := badgerhold.Where("Network").Eq(network)
	if page != nil {
		from := page.Number*page.Size - page.Size
		query.Skip(from).Limit(page.Size)
	}

	return s.findSends(ctx, query)
}

func (s sendRepositoryImpl) DeleteSends(
	ctx context.Context, network domain.Network,
) (int, error) {
	query := badgerhold.Where("Network").Eq(network)

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		count, err := s.store.TxCount(tx, &domain.Send{}, query)
		if err != nil {
			return -1, err
		}
		if err := s.store.TxDeleteMatching(tx, &domain.Send{}, query); err != nil {
			return -1, err
		}
		return int(count), nil
	}

	count, err := s.store.Count(&domain.Send{}, query)
	if err != nil {
		return -1, err
	}
	if err := s.store.DeleteMatching(&domain.Send{}, query); err != nil {
		return -1, err
	}
	return int(count), nil
}

func (s sendRepositoryImpl) findSends(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Send, error) {
	var sends []domain.Send
	var err error

	query.SortBy("Timestamp").Reverse()
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = s.store.TxFind(tx, &sends, query)
	} else {
		err = s.store.Find(&sends, query)
	}
	if err != nil {
		return nil, err
	}

	return sends, nil
}
