package services

import (
	"context"

	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const (
	// AccountsAPISourceName names the centralized accounts API source in logs
	AccountsAPISourceName = "accounts_api"
	// ChainSourceName names the direct on-chain source in logs
	ChainSourceName = "chain"
)

// APIBalanceSource reads balances and token metadata from the data APIs
type APIBalanceSource struct {
	client interfaces.DataAPIClient
	retry  *retry.Options
}

// NewAPIBalanceSource creates a source backed by the data APIs. A nil retry uses the client default.
func NewAPIBalanceSource(client interfaces.DataAPIClient, retryOptions *retry.Options) *APIBalanceSource {
	return &APIBalanceSource{client: client, retry: retryOptions}
}

func (s *APIBalanceSource) Name() string {
	return AccountsAPISourceName
}

// FetchBalanceAndMetadata reads the balance and, for ERC-20 tokens, the token metadata concurrently
func (s *APIBalanceSource) FetchBalanceAndMetadata(ctx context.Context, query types.TokenQuery) (*types.TokenBalanceAndMetadata, error) {
	asset := assetPointer(query.AssetAddress)

	var (
		balance  *dataapi.TokenBalance
		metadata *dataapi.TokenMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.client.GetTokenBalance(gctx, dataapi.TokenBalanceParams{
			ChainID:      query.ChainID,
			Account:      common.HexToAddress(query.Account),
			AssetAddress: asset,
			Retry:        s.retry,
		})
		return err
	})
	if asset != nil {
		g.Go(func() error {
			var err error
			metadata, err = s.client.GetTokenMetadata(gctx, dataapi.TokenMetadataParams{
				ChainID:      query.ChainID,
				AssetAddress: *asset,
				Retry:        s.retry,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &types.TokenBalanceAndMetadata{
		Balance:  balance.Balance,
		Decimals: balance.Decimals,
		Symbol:   balance.Symbol,
	}
	if metadata != nil {
		result.Decimals = metadata.Decimals
		result.Symbol = metadata.Symbol
		result.IconURL = metadata.IconURL
	}
	return result, nil
}

// ChainBalanceSource reads balances directly from the chain
type ChainBalanceSource struct {
	providers interfaces.ProviderSource
	reader    interfaces.ChainReader
	retry     *retry.Options
}

// NewChainBalanceSource creates a source that opens a provider session per query
func NewChainBalanceSource(providers interfaces.ProviderSource, reader interfaces.ChainReader, retryOptions *retry.Options) *ChainBalanceSource {
	return &ChainBalanceSource{providers: providers, reader: reader, retry: retryOptions}
}

func (s *ChainBalanceSource) Name() string {
	return ChainSourceName
}

func (s *ChainBalanceSource) FetchBalanceAndMetadata(ctx context.Context, query types.TokenQuery) (*types.TokenBalanceAndMetadata, error) {
	info, err := s.reader.GetTokenBalanceAndMetadata(ctx, chain.TokenParams{
		Provider:     s.providers.NewProvider(),
		ChainID:      query.ChainID,
		Account:      common.HexToAddress(query.Account),
		AssetAddress: assetPointer(query.AssetAddress),
		Retry:        s.retry,
	})
	if err != nil {
		return nil, err
	}
	return &types.TokenBalanceAndMetadata{
		Balance:  info.Balance,
		Decimals: info.Decimals,
		Symbol:   info.Symbol,
	}, nil
}
