package dataapi

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cyphera/gator-permissions/internal/apperror"
	httpClient "github.com/cyphera/gator-permissions/internal/client/http"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/logger"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const (
	DefaultAccountsAPIBaseURL = "https://accounts.api.cx.metamask.io"
	DefaultTokensAPIBaseURL   = "https://token.api.cx.metamask.io"
	DefaultPriceAPIBaseURL    = "https://price.api.cx.metamask.io"

	defaultTimeout              = 10 * time.Second
	defaultMaxResponseSizeBytes = 1 << 20
)

// Config configures the data API endpoints and their bounds
type Config struct {
	AccountsAPIBaseURL   string
	TokensAPIBaseURL     string
	PriceAPIBaseURL      string
	Timeout              time.Duration
	MaxResponseSizeBytes int64
	Retry                *retry.Options
}

// Client reads token balances, token metadata and spot prices from the centralized data APIs.
type Client struct {
	httpClient *httpClient.HTTPClient
	config     Config
	logger     *zap.Logger
}

// NewClient creates a new data API client. Zero config values fall back to defaults.
func NewClient(config Config, opts ...httpClient.ClientOption) *Client {
	if config.AccountsAPIBaseURL == "" {
		config.AccountsAPIBaseURL = DefaultAccountsAPIBaseURL
	}
	if config.TokensAPIBaseURL == "" {
		config.TokensAPIBaseURL = DefaultTokensAPIBaseURL
	}
	if config.PriceAPIBaseURL == "" {
		config.PriceAPIBaseURL = DefaultPriceAPIBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxResponseSizeBytes <= 0 {
		config.MaxResponseSizeBytes = defaultMaxResponseSizeBytes
	}

	return &Client{
		httpClient: httpClient.NewHTTPClient(opts...),
		config:     config,
		logger:     logger.Component("dataapi"),
	}
}

// TokenBalanceParams identifies the balance to read
type TokenBalanceParams struct {
	ChainID uint64
	Account common.Address
	// AssetAddress is nil for the chain's native token
	AssetAddress *common.Address
	Retry        *retry.Options
}

// TokenBalance is a balance as reported by the accounts API
type TokenBalance struct {
	Balance  *big.Int
	Decimals int
	Symbol   string
}

// TokenMetadataParams identifies the token to describe
type TokenMetadataParams struct {
	ChainID      uint64
	AssetAddress common.Address
	Retry        *retry.Options
}

// TokenMetadata describes an ERC-20 token
type TokenMetadata struct {
	Symbol   string
	Decimals int
	Name     string
	IconURL  string
}

// SpotPriceParams identifies the asset to price
type SpotPriceParams struct {
	ChainID uint64
	// AssetAddress is nil for the chain's native token
	AssetAddress *common.Address
	VsCurrency   string
	Retry        *retry.Options
}

// --- API response structs ---

type accountBalance struct {
	Object   string `json:"object" validate:"required"`
	Address  string `json:"address" validate:"required,eth_addr"`
	Symbol   string `json:"symbol" validate:"required"`
	Name     string `json:"name"`
	Decimals *int   `json:"decimals" validate:"required,gte=0,lte=77"`
	Balance  string `json:"balance" validate:"required,numeric"`
	ChainID  uint64 `json:"chainId" validate:"required"`
}

type accountBalancesResponse struct {
	Count               int              `json:"count"`
	Balances            []accountBalance `json:"balances" validate:"required,dive"`
	UnprocessedNetworks []uint64         `json:"unprocessedNetworks"`
}

type tokenMetadataResponse struct {
	Address  string `json:"address" validate:"required,eth_addr"`
	Symbol   string `json:"symbol" validate:"required"`
	Decimals *int   `json:"decimals" validate:"required,gte=0,lte=77"`
	Name     string `json:"name"`
	IconURL  string `json:"iconUrl" validate:"omitempty,url"`
}

// spotPricesResponse maps CAIP-19 asset ids to currency -> price
type spotPricesResponse map[string]map[string]float64

func (r spotPricesResponse) Validate() error {
	for assetID, prices := range r {
		if !strings.HasPrefix(assetID, "eip155:") {
			return fmt.Errorf("unexpected asset id %q", assetID)
		}
		for currency, price := range prices {
			if price < 0 {
				return fmt.Errorf("negative %s price for %s", currency, assetID)
			}
		}
	}
	return nil
}

// SupportedNetworks lists the chains the accounts API serves
type SupportedNetworks struct {
	FullSupport    []uint64 `json:"fullSupport" validate:"required"`
	PartialSupport struct {
		Balances []uint64 `json:"balances"`
	} `json:"partialSupport"`
}

// GetTokenBalance fetches the balance of a token held by an account
func (c *Client) GetTokenBalance(ctx context.Context, params TokenBalanceParams) (*TokenBalance, error) {
	if params.ChainID == 0 {
		return nil, apperror.InvalidInput("chain id is required")
	}

	asset := common.Address{}
	if params.AssetAddress != nil {
		asset = *params.AssetAddress
	}

	query := url.Values{}
	query.Set("networks", strconv.FormatUint(params.ChainID, 10))
	query.Set("filterSupportedTokens", "false")
	query.Set("includeTokenAddresses", strings.ToLower(asset.Hex()))
	query.Set("includeStakedAssets", "false")

	endpoint := fmt.Sprintf("%s/v2/accounts/%s/balances?%s",
		strings.TrimSuffix(c.config.AccountsAPIBaseURL, "/"), params.Account.Hex(), query.Encode())

	resp, err := httpClient.FetchValidated[accountBalancesResponse](ctx, c.httpClient, endpoint, c.fetchOptions(params.Retry))
	if err != nil {
		c.logger.Warn("Accounts API balance request failed",
			zap.Uint64("chain_id", params.ChainID),
			zap.String("account", params.Account.Hex()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch token balance: %w", err)
	}

	for _, unprocessed := range resp.UnprocessedNetworks {
		if unprocessed == params.ChainID {
			return nil, apperror.ResourceUnavailable("accounts API did not process chain %d", params.ChainID)
		}
	}

	for _, b := range resp.Balances {
		if b.ChainID != params.ChainID || !common.IsHexAddress(b.Address) || common.HexToAddress(b.Address) != asset {
			continue
		}
		amount, err := ParseUnits(b.Balance, *b.Decimals)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindParseError, err, "invalid balance in response")
		}
		return &TokenBalance{
			Balance:  amount,
			Decimals: *b.Decimals,
			Symbol:   b.Symbol,
		}, nil
	}

	return nil, apperror.ResourceNotFound("no balance reported for %s on chain %d", asset.Hex(), params.ChainID)
}

// GetTokenMetadata fetches symbol, decimals and icon for an ERC-20 token
func (c *Client) GetTokenMetadata(ctx context.Context, params TokenMetadataParams) (*TokenMetadata, error) {
	if params.ChainID == 0 {
		return nil, apperror.InvalidInput("chain id is required")
	}

	query := url.Values{}
	query.Set("address", strings.ToLower(params.AssetAddress.Hex()))

	endpoint := fmt.Sprintf("%s/token/%d?%s",
		strings.TrimSuffix(c.config.TokensAPIBaseURL, "/"), params.ChainID, query.Encode())

	resp, err := httpClient.FetchValidated[tokenMetadataResponse](ctx, c.httpClient, endpoint, c.fetchOptions(params.Retry))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}

	return &TokenMetadata{
		Symbol:   resp.Symbol,
		Decimals: *resp.Decimals,
		Name:     resp.Name,
		IconURL:  resp.IconURL,
	}, nil
}

// GetSpotPrice fetches the price of an asset in the requested currency
func (c *Client) GetSpotPrice(ctx context.Context, params SpotPriceParams) (float64, error) {
	if params.ChainID == 0 {
		return 0, apperror.InvalidInput("chain id is required")
	}
	currency := strings.ToLower(params.VsCurrency)
	if currency == "" {
		currency = "usd"
	}

	assetID := AssetID(params.ChainID, params.AssetAddress)

	query := url.Values{}
	query.Set("assetIds", assetID)
	query.Set("vsCurrency", currency)
	query.Set("includeMarketData", "false")

	endpoint := fmt.Sprintf("%s/v3/spot-prices?%s", strings.TrimSuffix(c.config.PriceAPIBaseURL, "/"), query.Encode())

	resp, err := httpClient.FetchValidated[spotPricesResponse](ctx, c.httpClient, endpoint, c.fetchOptions(params.Retry))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch spot price: %w", err)
	}

	for id, prices := range resp {
		if !strings.EqualFold(id, assetID) {
			continue
		}
		if price, ok := prices[currency]; ok {
			return price, nil
		}
	}

	return 0, apperror.ResourceNotFound("no %s price for %s", currency, assetID)
}

// GetSupportedNetworks fetches the chains the accounts API serves
func (c *Client) GetSupportedNetworks(ctx context.Context) (*SupportedNetworks, error) {
	endpoint := strings.TrimSuffix(c.config.AccountsAPIBaseURL, "/") + "/v1/supportedNetworks"

	resp, err := httpClient.FetchValidated[SupportedNetworks](ctx, c.httpClient, endpoint, c.fetchOptions(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supported networks: %w", err)
	}
	return &resp, nil
}

func (c *Client) fetchOptions(override *retry.Options) httpClient.FetchOptions {
	opts := c.config.Retry
	if override != nil {
		opts = override
	}
	return httpClient.FetchOptions{
		Timeout:              c.config.Timeout,
		MaxResponseSizeBytes: c.config.MaxResponseSizeBytes,
		Retry:                opts,
	}
}

// AssetID returns the CAIP-19 identifier of an asset. A nil address is the native token.
func AssetID(chainID uint64, asset *common.Address) string {
	if asset == nil || *asset == (common.Address{}) {
		return fmt.Sprintf("eip155:%d/slip44:60", chainID)
	}
	return fmt.Sprintf("eip155:%d/erc20:%s", chainID, strings.ToLower(asset.Hex()))
}

// ParseUnits converts a decimal amount string into its integer base-unit value.
// Fractional digits beyond decimals are truncated.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return new(big.Int), nil
	}

	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return value, nil
}
