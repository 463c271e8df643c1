package handlers

import (
	"net/http"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// TokenHandler serves balances, prices and the grant confirmation context
type TokenHandler struct {
	tokens       interfaces.TokenMetadataService
	prices       interfaces.DataAPIClient
	grantContext interfaces.GrantContextService
}

// TokenBalanceResponse is a balance with its display metadata. Balance is a base-10 integer string.
type TokenBalanceResponse struct {
	Balance  string `json:"balance"`
	Decimals int    `json:"decimals"`
	Symbol   string `json:"symbol"`
	IconURL  string `json:"iconUrl,omitempty"`
}

// SpotPriceResponse is the price of one unit of an asset
type SpotPriceResponse struct {
	ChainID    uint64  `json:"chainId"`
	Asset      string  `json:"asset,omitempty"`
	VsCurrency string  `json:"vsCurrency"`
	Price      float64 `json:"price"`
}

// GrantContextResponse is what a user sees before approving a grant
type GrantContextResponse struct {
	ChainID     uint64                `json:"chainId"`
	Account     string                `json:"account"`
	Token       *TokenBalanceResponse `json:"token"`
	Price       *float64              `json:"price"`
	VsCurrency  string                `json:"vsCurrency"`
	CaveatNonce string                `json:"caveatNonce,omitempty"`
}

// NewTokenHandler creates a handler with interface dependencies
func NewTokenHandler(tokens interfaces.TokenMetadataService, prices interfaces.DataAPIClient, grantContext interfaces.GrantContextService) *TokenHandler {
	return &TokenHandler{
		tokens:       tokens,
		prices:       prices,
		grantContext: grantContext,
	}
}

// GetBalance resolves ?chainId&account&asset through the fallback sources
func (h *TokenHandler) GetBalance(c *gin.Context) {
	chainID, ok := queryChainID(c)
	if !ok {
		return
	}

	result, err := h.tokens.GetTokenBalanceAndMetadata(c.Request.Context(), types.TokenQuery{
		ChainID:      chainID,
		Account:      c.Query("account"),
		AssetAddress: c.Query("asset"),
	})
	if err != nil {
		handleServiceError(c, err, "Failed to resolve token balance")
		return
	}
	sendSuccess(c, http.StatusOK, toTokenBalanceResponse(result))
}

// GetSpotPrice returns the price of ?asset on ?chainId in ?vsCurrency (default usd)
func (h *TokenHandler) GetSpotPrice(c *gin.Context) {
	chainID, ok := queryChainID(c)
	if !ok {
		return
	}

	asset := c.Query("asset")
	var assetAddress *common.Address
	if asset != "" {
		if !common.IsHexAddress(asset) {
			sendError(c, http.StatusBadRequest, "Invalid asset address", apperror.InvalidInput("invalid asset address %q", asset))
			return
		}
		address := common.HexToAddress(asset)
		assetAddress = &address
	}

	currency := strings.ToLower(c.DefaultQuery("vsCurrency", constants.USDCurrency))
	price, err := h.prices.GetSpotPrice(c.Request.Context(), dataapi.SpotPriceParams{
		ChainID:      chainID,
		AssetAddress: assetAddress,
		VsCurrency:   currency,
	})
	if err != nil {
		handleServiceError(c, err, "Failed to fetch spot price")
		return
	}

	sendSuccess(c, http.StatusOK, SpotPriceResponse{
		ChainID:    chainID,
		Asset:      asset,
		VsCurrency: currency,
		Price:      price,
	})
}

// GetGrantContext gathers balance, price and caveat nonce for the confirmation step
func (h *TokenHandler) GetGrantContext(c *gin.Context) {
	chainID, ok := queryChainID(c)
	if !ok {
		return
	}

	result, err := h.grantContext.GetGrantContext(c.Request.Context(), types.GrantContextParams{
		ChainID:           chainID,
		Account:           c.Query("account"),
		AssetAddress:      c.Query("asset"),
		NonceEnforcer:     c.Query("nonceEnforcer"),
		DelegationManager: c.Query("delegationManager"),
		VsCurrency:        c.Query("vsCurrency"),
	})
	if err != nil {
		handleServiceError(c, err, "Failed to build grant context")
		return
	}

	response := GrantContextResponse{
		ChainID:    result.ChainID,
		Account:    result.Account,
		Token:      toTokenBalanceResponse(result.Token),
		Price:      result.Price,
		VsCurrency: result.VsCurrency,
	}
	if result.CaveatNonce != nil {
		response.CaveatNonce = result.CaveatNonce.String()
	}
	sendSuccess(c, http.StatusOK, response)
}

// queryChainID parses ?chainId as hex or decimal, writing a 400 when it is missing or malformed
func queryChainID(c *gin.Context) (uint64, bool) {
	raw := c.Query("chainId")
	if raw == "" {
		sendError(c, http.StatusBadRequest, "chainId is required", apperror.InvalidInput("chain id is required"))
		return 0, false
	}
	chainID, err := chain.ParseChainID(raw)
	if err != nil || chainID == 0 {
		sendError(c, http.StatusBadRequest, "Invalid chainId", apperror.InvalidInput("invalid chain id %q", raw))
		return 0, false
	}
	return chainID, true
}

func toTokenBalanceResponse(result *types.TokenBalanceAndMetadata) *TokenBalanceResponse {
	if result == nil {
		return nil
	}
	balance := "0"
	if result.Balance != nil {
		balance = result.Balance.String()
	}
	return &TokenBalanceResponse{
		Balance:  balance,
		Decimals: result.Decimals,
		Symbol:   result.Symbol,
		IconURL:  result.IconURL,
	}
}
