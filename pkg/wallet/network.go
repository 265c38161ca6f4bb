package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

const (
	// MainNet ...
	MainNet = "mainnet"
	// TestNet3 ...
	TestNet3 = "testnet3"
	// TestNet4 ...
	TestNet4 = "testnet4"
	// SigNet ...
	SigNet = "signet"
)

// testNet4Net is the magic of the testnet4 (BIP94) p2p network.
const testNet4Net wire.BitcoinNet = 0x283f161c

// TestNet4Params shares addresses and extended key versions with testnet3,
// only the network magic and the default port differ.
var TestNet4Params = newTestNet4Params()

func newTestNet4Params() chaincfg.Params {
	params := chaincfg.TestNet3Params
	params.Name = TestNet4
	params.Net = testNet4Net
	params.DefaultPort = "48333"
	params.DNSSeeds = nil
	params.Checkpoints = nil
	return params
}

// NetworkParams returns the chain params for the given network name.
func NetworkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case MainNet:
		return &chaincfg.MainNetParams, nil
	case TestNet3:
		return &chaincfg.TestNet3Params, nil
	case TestNet4:
		return &TestNet4Params, nil
	case SigNet:
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

// SupportedNetworks returns the names of all networks the wallet works with.
func SupportedNetworks() []string {
	return []string{MainNet, TestNet3, TestNet4, SigNet}
}

// CoinType returns the BIP44 coin type for the network, 0 for mainnet and 1
// for every test network.
func CoinType(params *chaincfg.Params) uint32 {
	if params.Net == wire.MainNet {
		return 0
	}
	return 1
}
