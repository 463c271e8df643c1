package services

import (
	"context"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// GrantContextService gathers the balance, price and caveat nonce shown before a grant
type GrantContextService struct {
	tokens    interfaces.TokenMetadataService
	prices    interfaces.DataAPIClient
	reader    interfaces.ChainReader
	providers interfaces.ProviderSource
	retry     *retry.Options
	logger    *zap.Logger
}

// NewGrantContextService creates a new grant context service
func NewGrantContextService(tokens interfaces.TokenMetadataService, prices interfaces.DataAPIClient, reader interfaces.ChainReader, providers interfaces.ProviderSource, retryOptions *retry.Options) *GrantContextService {
	return &GrantContextService{
		tokens:    tokens,
		prices:    prices,
		reader:    reader,
		providers: providers,
		retry:     retryOptions,
		logger:    logger.Component("grant_context_service"),
	}
}

// GetGrantContext resolves the balance first, then the spot price and the caveat nonce.
// A price the API does not know is left nil; the nonce is only read when both the
// enforcer and the manager are given.
func (s *GrantContextService) GetGrantContext(ctx context.Context, params types.GrantContextParams) (*types.GrantContext, error) {
	if params.NonceEnforcer != "" && !common.IsHexAddress(params.NonceEnforcer) {
		return nil, apperror.InvalidInput("invalid nonce enforcer address %q", params.NonceEnforcer)
	}
	if params.DelegationManager != "" && !common.IsHexAddress(params.DelegationManager) {
		return nil, apperror.InvalidInput("invalid delegation manager address %q", params.DelegationManager)
	}

	token, err := s.tokens.GetTokenBalanceAndMetadata(ctx, types.TokenQuery{
		ChainID:      params.ChainID,
		Account:      params.Account,
		AssetAddress: params.AssetAddress,
	})
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(params.VsCurrency)
	if currency == "" {
		currency = constants.USDCurrency
	}

	result := &types.GrantContext{
		ChainID:    params.ChainID,
		Account:    params.Account,
		Token:      token,
		VsCurrency: currency,
	}

	price, err := s.prices.GetSpotPrice(ctx, dataapi.SpotPriceParams{
		ChainID:      params.ChainID,
		AssetAddress: assetPointer(params.AssetAddress),
		VsCurrency:   currency,
		Retry:        s.retry,
	})
	switch {
	case err == nil:
		result.Price = &price
	case apperror.Is(err, apperror.KindResourceNotFound):
		s.logger.Warn("No spot price for asset",
			zap.Uint64("chain_id", params.ChainID),
			zap.String("asset", params.AssetAddress),
			zap.String("currency", currency))
	default:
		return nil, err
	}

	if params.NonceEnforcer != "" && params.DelegationManager != "" {
		nonce, err := s.reader.GetCaveatNonce(ctx, chain.CaveatNonceParams{
			Provider:          s.providers.NewProvider(),
			ChainID:           params.ChainID,
			NonceEnforcer:     common.HexToAddress(params.NonceEnforcer),
			DelegationManager: common.HexToAddress(params.DelegationManager),
			Account:           common.HexToAddress(params.Account),
			Retry:             s.retry,
		})
		if err != nil {
			return nil, err
		}
		result.CaveatNonce = nonce
	}

	return result, nil
}
