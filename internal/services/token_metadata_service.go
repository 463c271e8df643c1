package services

import (
	"context"
	"sort"
	"sync"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SupportedChains is the set of chains the centralized accounts API is asked about
type SupportedChains map[uint64]struct{}

// NewSupportedChains builds a set from a list of chain IDs
func NewSupportedChains(chainIDs []uint64) SupportedChains {
	set := make(SupportedChains, len(chainIDs))
	for _, id := range chainIDs {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether chainID is in the set
func (s SupportedChains) Contains(chainID uint64) bool {
	_, ok := s[chainID]
	return ok
}

// IDs returns the chain IDs in ascending order
func (s SupportedChains) IDs() []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var (
	defaultSupportedOnce   sync.Once
	defaultSupportedChains SupportedChains
)

// DefaultSupportedChains returns the process-wide default set, built on first use
func DefaultSupportedChains() SupportedChains {
	defaultSupportedOnce.Do(func() {
		defaultSupportedChains = NewSupportedChains(constants.DefaultSupportedChains())
	})
	return defaultSupportedChains
}

// TokenMetadataService resolves a balance by asking each candidate source in turn
type TokenMetadataService struct {
	apiSource   interfaces.BalanceSource
	chainSource interfaces.BalanceSource
	supported   SupportedChains
	logger      *zap.Logger
}

// NewTokenMetadataService creates a new resolver. A nil supported set falls back to
// DefaultSupportedChains. apiSource may be nil, in which case only the chain is asked.
func NewTokenMetadataService(apiSource, chainSource interfaces.BalanceSource, supported SupportedChains) *TokenMetadataService {
	if supported == nil {
		supported = DefaultSupportedChains()
	}
	return &TokenMetadataService{
		apiSource:   apiSource,
		chainSource: chainSource,
		supported:   supported,
		logger:      logger.Component("token_metadata_service"),
	}
}

// candidates lists the sources to try for a chain, cheapest first
func (s *TokenMetadataService) candidates(chainID uint64) []interfaces.BalanceSource {
	out := make([]interfaces.BalanceSource, 0, 2)
	if s.apiSource != nil && s.supported.Contains(chainID) {
		out = append(out, s.apiSource)
	}
	if s.chainSource != nil {
		out = append(out, s.chainSource)
	}
	return out
}

// GetTokenBalanceAndMetadata returns the first successful answer. When every source
// fails the error of the last one is returned.
func (s *TokenMetadataService) GetTokenBalanceAndMetadata(ctx context.Context, query types.TokenQuery) (*types.TokenBalanceAndMetadata, error) {
	if err := validateTokenQuery(query); err != nil {
		return nil, err
	}

	candidates := s.candidates(query.ChainID)
	if len(candidates) == 0 {
		return nil, apperror.Internal("no balance source configured for chain %d", query.ChainID)
	}

	var lastErr error
	for _, source := range candidates {
		result, err := source.FetchBalanceAndMetadata(ctx, query)
		if err == nil {
			return result, nil
		}
		s.logger.Warn("Balance source failed",
			zap.String("source", source.Name()),
			zap.Uint64("chain_id", query.ChainID),
			zap.String("account", query.Account),
			zap.String("asset", query.AssetAddress),
			zap.Error(err))
		lastErr = err
	}
	return nil, lastErr
}

func validateTokenQuery(query types.TokenQuery) error {
	if query.ChainID == 0 {
		return apperror.InvalidInput("chain id is required")
	}
	if !common.IsHexAddress(query.Account) {
		return apperror.InvalidInput("invalid account address %q", query.Account)
	}
	if query.AssetAddress != "" && !common.IsHexAddress(query.AssetAddress) {
		return apperror.InvalidInput("invalid asset address %q", query.AssetAddress)
	}
	return nil
}

// assetPointer converts an optional asset address, treating the zero address as native
func assetPointer(asset string) *common.Address {
	if asset == "" {
		return nil
	}
	address := common.HexToAddress(asset)
	if address == (common.Address{}) {
		return nil
	}
	return &address
}
