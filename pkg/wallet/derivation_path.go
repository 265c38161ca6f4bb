package wallet

import (
	"fmt"
	"math"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	// TaprootPurpose is the BIP86 purpose of single key taproot outputs.
	TaprootPurpose = 86

	// ExternalChain is the branch of receive addresses.
	ExternalChain = 0
	// InternalChain is the branch of change addresses.
	InternalChain = 1

	// MaxHardenedValue is the max value for hardened indexes of BIP32
	// derivation paths
	MaxHardenedValue = math.MaxUint32 - hdkeychain.HardenedKeyStart
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet account
type DerivationPath []uint32

// DerivationPathForNetwork returns the BIP86 path
// m/86'/coin'/account'/change/index for the given network.
func DerivationPathForNetwork(
	params *chaincfg.Params, account, change, index uint32,
) DerivationPath {
	return DerivationPath{
		hdkeychain.HardenedKeyStart + TaprootPurpose,
		hdkeychain.HardenedKeyStart + CoinType(params),
		hdkeychain.HardenedKeyStart + account,
		change,
		index,
	}
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("m")
	for _, component := range path {
		hardened := component >= hdkeychain.HardenedKeyStart
		if hardened {
			component -= hdkeychain.HardenedKeyStart
		}
		fmt.Fprintf(&sb, "/%d", component)
		if hardened {
			sb.WriteString("'")
		}
	}
	return sb.String()
}
