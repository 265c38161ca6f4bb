package domain

import (
	"github.com/beutel-network/beutel-daemon/pkg/wallet"
	"github.com/btcsuite/btcd/chaincfg"
)

// Network is the name of a bitcoin network the wallet can operate on.
type Network string

const (
	MainNet  Network = wallet.MainNet
	TestNet3 Network = wallet.TestNet3
	TestNet4 Network = wallet.TestNet4
	SigNet   Network = wallet.SigNet
)

// IsValid returns whether the network is supported.
func (n Network) IsValid() bool {
	_, err := wallet.NetworkParams(string(n))
	return err == nil
}

// Params returns the chain params of the network.
func (n Network) Params() (*chaincfg.Params, error) {
	params, err := wallet.NetworkParams(string(n))
	if err != nil {
		return nil, ErrUnknownNetwork
	}
	return params, nil
}

// IsMainnet ...
func (n Network) IsMainnet() bool {
	return n == MainNet
}

func (n Network) String() string {
	return string(n)
}
