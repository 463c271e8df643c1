package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/constants"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	delegationManagerABIJSON = `[{"type":"function","name":"disabledDelegations","stateMutability":"view","inputs":[{"name":"delegationHash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]}]`

	nonceEnforcerABIJSON = `[{"type":"function","name":"currentNonce","stateMutability":"view","inputs":[{"name":"delegationManager","type":"address"},{"name":"delegator","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}]`

	erc20ABIJSON = `[
		{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
		{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
	]`

	nativeDecimals = 18
	maxDecimals    = 77
)

var (
	delegationManagerABI = mustParseABI(delegationManagerABIJSON)
	nonceEnforcerABI     = mustParseABI(nonceEnforcerABIJSON)
	erc20ABI             = mustParseABI(erc20ABIJSON)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DelegationDisabledParams identifies a delegation on a DelegationManager
type DelegationDisabledParams struct {
	Provider          Provider
	ChainID           uint64
	DelegationManager common.Address
	DelegationHash    common.Hash
	Retry             *retry.Options
}

// CaveatNonceParams identifies a nonce held by a NonceEnforcer
type CaveatNonceParams struct {
	Provider          Provider
	ChainID           uint64
	NonceEnforcer     common.Address
	DelegationManager common.Address
	Account           common.Address
	Retry             *retry.Options
}

// TokenParams identifies an account balance. A nil AssetAddress is the native token.
type TokenParams struct {
	Provider     Provider
	ChainID      uint64
	Account      common.Address
	AssetAddress *common.Address
	Retry        *retry.Options
}

// TokenInfo is a balance read directly from the chain
type TokenInfo struct {
	Balance  *big.Int
	Decimals int
	Symbol   string
}

// IsDelegationDisabled reports whether the DelegationManager has disabled the delegation
func (c *Client) IsDelegationDisabled(ctx context.Context, params DelegationDisabledParams) (bool, error) {
	if err := c.EnsureChain(ctx, params.Provider, params.ChainID); err != nil {
		return false, err
	}

	data, err := delegationManagerABI.Pack("disabledDelegations", params.DelegationHash)
	if err != nil {
		return false, apperror.Wrap(apperror.KindInternal, err, "failed to encode disabledDelegations call")
	}

	out, err := c.CallContract(ctx, CallParams{
		Provider: params.Provider,
		To:       params.DelegationManager,
		Data:     data,
		Retry:    params.Retry,
	})
	if err != nil {
		return false, err
	}
	if len(out) < common.HashLength {
		return false, apperror.ParseError("disabledDelegations returned %d bytes", len(out))
	}

	return common.BytesToHash(out[len(out)-common.HashLength:]) != (common.Hash{}), nil
}

// GetCaveatNonce reads the current nonce a NonceEnforcer holds for an account
func (c *Client) GetCaveatNonce(ctx context.Context, params CaveatNonceParams) (*big.Int, error) {
	if err := c.EnsureChain(ctx, params.Provider, params.ChainID); err != nil {
		return nil, err
	}

	data, err := nonceEnforcerABI.Pack("currentNonce", params.DelegationManager, params.Account)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to encode currentNonce call")
	}

	out, err := c.CallContract(ctx, CallParams{
		Provider: params.Provider,
		To:       params.NonceEnforcer,
		Data:     data,
		Retry:    params.Retry,
	})
	if err != nil {
		return nil, err
	}

	values, err := nonceEnforcerABI.Unpack("currentNonce", out)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindParseError, err, "failed to decode currentNonce result")
	}
	nonce, ok := values[0].(*big.Int)
	if !ok {
		return nil, apperror.ParseError("unexpected currentNonce result type %T", values[0])
	}
	return nonce, nil
}

// GetTokenBalanceAndMetadata reads balance, decimals and symbol straight from the chain.
// ERC-20 fields are read concurrently; an address answering none of them is not a token.
func (c *Client) GetTokenBalanceAndMetadata(ctx context.Context, params TokenParams) (*TokenInfo, error) {
	if err := c.EnsureChain(ctx, params.Provider, params.ChainID); err != nil {
		return nil, err
	}

	if params.AssetAddress == nil || *params.AssetAddress == (common.Address{}) {
		return c.nativeBalance(ctx, params)
	}
	token := *params.AssetAddress

	var (
		balanceOut, decimalsOut, symbolOut []byte
	)

	balanceData, err := erc20ABI.Pack("balanceOf", params.Account)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to encode balanceOf call")
	}
	decimalsData, _ := erc20ABI.Pack("decimals")
	symbolData, _ := erc20ABI.Pack("symbol")

	g, gctx := errgroup.WithContext(ctx)
	read := func(data []byte, dst *[]byte) func() error {
		return func() error {
			out, err := c.CallContract(gctx, CallParams{
				Provider: params.Provider,
				To:       token,
				Data:     data,
				Retry:    params.Retry,
			})
			if apperror.Is(err, apperror.KindResourceNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			*dst = out
			return nil
		}
	}
	g.Go(read(balanceData, &balanceOut))
	g.Go(read(decimalsData, &decimalsOut))
	g.Go(read(symbolData, &symbolOut))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(balanceOut) == 0 && len(decimalsOut) == 0 && len(symbolOut) == 0 {
		return nil, apperror.InvalidInput("%s is not an ERC-20 contract on chain %d", token.Hex(), params.ChainID)
	}
	if len(balanceOut) == 0 || len(decimalsOut) == 0 {
		return nil, apperror.ResourceNotFound("incomplete ERC-20 response from %s", token.Hex())
	}

	values, err := erc20ABI.Unpack("balanceOf", balanceOut)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindParseError, err, "failed to decode balanceOf result")
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, apperror.ParseError("unexpected balanceOf result type %T", values[0])
	}

	decimals, err := decodeDecimals(decimalsOut)
	if err != nil {
		return nil, err
	}

	symbol := decodeSymbol(symbolOut)
	if symbol == "" {
		c.logger.Warn("Token symbol unavailable",
			zap.String("token", token.Hex()),
			zap.Uint64("chain_id", params.ChainID))
	}

	return &TokenInfo{
		Balance:  balance,
		Decimals: decimals,
		Symbol:   symbol,
	}, nil
}

func (c *Client) nativeBalance(ctx context.Context, params TokenParams) (*TokenInfo, error) {
	balance, err := retry.Execute(ctx, func(ctx context.Context) (*big.Int, error) {
		raw, err := params.Provider.Request(ctx, "eth_getBalance", params.Account, "latest")
		if err != nil {
			return nil, err
		}
		var value hexutil.Big
		if err := value.UnmarshalJSON(raw); err != nil {
			return nil, apperror.Wrap(apperror.KindParseError, err, "invalid eth_getBalance result")
		}
		return value.ToInt(), nil
	}, params.Retry, retry.ExceptChainDisconnected)
	if err != nil {
		return nil, err
	}

	return &TokenInfo{
		Balance:  balance,
		Decimals: nativeDecimals,
		Symbol:   constants.NativeTokenSymbol(params.ChainID),
	}, nil
}

func decodeDecimals(out []byte) (int, error) {
	if len(out) < common.HashLength {
		return 0, apperror.ParseError("decimals returned %d bytes", len(out))
	}
	value := new(big.Int).SetBytes(out[:common.HashLength])
	if !value.IsUint64() || value.Uint64() > maxDecimals {
		return 0, apperror.ParseError("decimals %s out of range", value.String())
	}
	return int(value.Uint64()), nil
}

// decodeSymbol accepts both the standard string return and the bytes32 form used by
// some older tokens.
func decodeSymbol(out []byte) string {
	if len(out) == 0 {
		return ""
	}
	if values, err := erc20ABI.Unpack("symbol", out); err == nil {
		if symbol, ok := values[0].(string); ok && symbol != "" {
			return symbol
		}
	}
	if len(out) == common.HashLength {
		return strings.TrimRight(string(out), "\x00")
	}
	return ""
}
