package interfaces

//go:generate mockgen -source=clients.go -destination=../mocks/mock_clients.go -package=mocks

import (
	"context"
	"math/big"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/types"
)

// DataAPIClient reads balances, token metadata and prices from the centralized data APIs
type DataAPIClient interface {
	GetTokenBalance(ctx context.Context, params dataapi.TokenBalanceParams) (*dataapi.TokenBalance, error)
	GetTokenMetadata(ctx context.Context, params dataapi.TokenMetadataParams) (*dataapi.TokenMetadata, error)
	GetSpotPrice(ctx context.Context, params dataapi.SpotPriceParams) (float64, error)
	GetSupportedNetworks(ctx context.Context) (*dataapi.SupportedNetworks, error)
}

// ChainReader performs the chain-aware contract reads the permission workflow needs
type ChainReader interface {
	EnsureChain(ctx context.Context, provider chain.Provider, chainID uint64) error
	IsDelegationDisabled(ctx context.Context, params chain.DelegationDisabledParams) (bool, error)
	GetCaveatNonce(ctx context.Context, params chain.CaveatNonceParams) (*big.Int, error)
	GetTokenBalanceAndMetadata(ctx context.Context, params chain.TokenParams) (*chain.TokenInfo, error)
	GetTransactionReceipt(ctx context.Context, params chain.ReceiptParams) (*chain.Receipt, error)
}

// ProviderSource hands out provider sessions
type ProviderSource interface {
	NewProvider() chain.Provider
}

// BalanceSource is one backend the token metadata resolver can ask
type BalanceSource interface {
	Name() string
	FetchBalanceAndMetadata(ctx context.Context, query types.TokenQuery) (*types.TokenBalanceAndMetadata, error)
}

// ServiceMetrics is the telemetry side channel of the services
type ServiceMetrics interface {
	ObserveStore(phase string, duration time.Duration)
	RecordGrants(outcome string, count int)
	RecordRevocation(outcome string)
}
