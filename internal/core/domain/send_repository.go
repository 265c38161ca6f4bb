package domain

import "context"

// SendRepository is the journal of broadcasted payments.
type SendRepository interface {
	// AddSend adds the send to the journal, if not already there.
	AddSend(ctx context.Context, send Send) error
	// GetSend returns the send with the given txid or ErrSendNotFound.
	GetSend(ctx context.Context, txid string) (*Send, error)
	// ListSends returns the sends of the network, newest first. A nil page
	// returns all of them.
	ListSends(ctx context.Context, network Network, page *Page) ([]Send, error)
	// DeleteSends removes every send of the network and returns how many.
	DeleteSends(ctx context.Context, network Network) (int, error)
}
