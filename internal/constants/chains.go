package constants

import "sort"

// Chain IDs (EIP-155) referenced by default configuration
const (
	ChainIDEthereum  uint64 = 1
	ChainIDOptimism  uint64 = 10
	ChainIDBSC       uint64 = 56
	ChainIDGnosis    uint64 = 100
	ChainIDPolygon   uint64 = 137
	ChainIDBase      uint64 = 8453
	ChainIDArbitrum  uint64 = 42161
	ChainIDLinea     uint64 = 59144
	ChainIDSepolia   uint64 = 11155111
	ChainIDBaseSep   uint64 = 84532
	ChainIDLineaSep  uint64 = 59141
	ChainIDUnichain  uint64 = 130
	ChainIDBerachain uint64 = 80094
)

// AccountsAPIChains lists the chains the centralized accounts API reports balances for.
var AccountsAPIChains = []uint64{
	ChainIDEthereum, ChainIDOptimism, ChainIDBSC, ChainIDGnosis, ChainIDPolygon,
	ChainIDBase, ChainIDArbitrum, ChainIDLinea, ChainIDSepolia, ChainIDLineaSep,
}

// DelegationFrameworkChains lists the chains the delegation framework contracts are deployed to.
var DelegationFrameworkChains = []uint64{
	ChainIDEthereum, ChainIDOptimism, ChainIDBSC, ChainIDGnosis, ChainIDPolygon,
	ChainIDBase, ChainIDArbitrum, ChainIDLinea, ChainIDSepolia, ChainIDBaseSep,
	ChainIDLineaSep, ChainIDUnichain, ChainIDBerachain,
}

// NativeTokenSymbols maps chain IDs to the symbol of their native currency.
// Chains not listed default to ETH.
var NativeTokenSymbols = map[uint64]string{
	ChainIDBSC:       "BNB",
	ChainIDGnosis:    "XDAI",
	ChainIDPolygon:   "POL",
	ChainIDBerachain: "BERA",
}

// NativeTokenSymbol returns the native currency symbol for a chain
func NativeTokenSymbol(chainID uint64) string {
	if symbol, ok := NativeTokenSymbols[chainID]; ok {
		return symbol
	}
	return "ETH"
}

// DefaultSupportedChains returns the chains supported by both the accounts API and the
// delegation framework, sorted ascending.
func DefaultSupportedChains() []uint64 {
	deployed := make(map[uint64]struct{}, len(DelegationFrameworkChains))
	for _, id := range DelegationFrameworkChains {
		deployed[id] = struct{}{}
	}

	var out []uint64
	for _, id := range AccountsAPIChains {
		if _, ok := deployed[id]; ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
