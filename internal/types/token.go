package types

import "math/big"

// TokenQuery identifies a balance to resolve. An empty AssetAddress is the native token.
type TokenQuery struct {
	ChainID      uint64
	Account      string
	AssetAddress string
}

// TokenBalanceAndMetadata is a balance with enough metadata to display it
type TokenBalanceAndMetadata struct {
	Balance  *big.Int
	Decimals int
	Symbol   string
	IconURL  string
}

// GrantContextParams describes what the confirmation step needs to know
type GrantContextParams struct {
	ChainID           uint64
	Account           string
	AssetAddress      string
	NonceEnforcer     string
	DelegationManager string
	VsCurrency        string
}

// GrantContext is the account, balance, price and nonce context shown before a grant
type GrantContext struct {
	ChainID     uint64
	Account     string
	Token       *TokenBalanceAndMetadata
	Price       *float64
	VsCurrency  string
	CaveatNonce *big.Int
}
