package domain

import "github.com/beutel-network/beutel-daemon/pkg/explorer"

// Balance of the wallet address in sats.
type Balance struct {
	Confirmed   int64
	Unconfirmed int64
	Total       int64
}

// NewBalance ...
func NewBalance(b explorer.Balance) Balance {
	return Balance{
		Confirmed:   b.Confirmed,
		Unconfirmed: b.Unconfirmed,
		Total:       b.Total(),
	}
}
