package chain

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Provider is an EIP-1193 style request interface to a wallet or node.
type Provider interface {
	Request(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
}

// errEmptyResult marks a call that returned no data. It is retryable until the
// retry budget runs out, after which callers see ResourceNotFound.
var errEmptyResult = stderrors.New("empty result")

// Client performs chain-aware contract calls against a Provider.
type Client struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// NewClient creates a new on-chain call client
func NewClient() *Client {
	return &Client{
		logger:   logger.Component("chain"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CallParams describes a single eth_call
type CallParams struct {
	Provider Provider
	To       common.Address
	Data     []byte
	Retry    *retry.Options
	// IsRetryable overrides the predicate; nil retries everything except ChainDisconnected
	IsRetryable retry.Predicate
}

// ReceiptParams identifies the receipt to fetch
type ReceiptParams struct {
	Provider Provider
	TxHash   common.Hash
	Retry    *retry.Options
}

// Receipt holds the significant fields of a transaction receipt
type Receipt struct {
	Status          string            `json:"status" validate:"required,oneof=0x0 0x1"`
	Logs            []json.RawMessage `json:"logs" validate:"required"`
	BlockHash       string            `json:"blockHash" validate:"required,len=66,startswith=0x,hexadecimal"`
	BlockNumber     string            `json:"blockNumber" validate:"required,startswith=0x"`
	TransactionHash string            `json:"transactionHash" validate:"required,len=66,startswith=0x,hexadecimal"`
	From            string            `json:"from,omitempty"`
	To              string            `json:"to,omitempty"`
	GasUsed         string            `json:"gasUsed,omitempty"`
}

// Succeeded reports whether the transaction executed without reverting
func (r *Receipt) Succeeded() bool {
	return r.Status == "0x1"
}

type callArgs struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

type switchChainArgs struct {
	ChainID string `json:"chainId"`
}

// EnsureChain steers the provider to chainID. If the provider still reports another chain
// after a switch request, ChainDisconnected is returned. It is never retried.
func (c *Client) EnsureChain(ctx context.Context, provider Provider, chainID uint64) error {
	if provider == nil {
		return apperror.InvalidInput("provider is required")
	}
	if chainID == 0 {
		return apperror.InvalidInput("chain id is required")
	}

	current, err := readChainID(ctx, provider)
	if err != nil {
		return err
	}
	if current == chainID {
		return nil
	}

	c.logger.Info("Switching provider chain",
		zap.Uint64("from_chain_id", current),
		zap.Uint64("to_chain_id", chainID))

	if _, err := provider.Request(ctx, "wallet_switchEthereumChain", switchChainArgs{ChainID: hexutil.EncodeUint64(chainID)}); err != nil {
		return apperror.Wrap(apperror.KindChainDisconnected, err, "failed to switch to chain "+hexutil.EncodeUint64(chainID))
	}

	current, err = readChainID(ctx, provider)
	if err != nil {
		return err
	}
	if current != chainID {
		return apperror.ChainDisconnected("provider is on chain %s, expected %s",
			hexutil.EncodeUint64(current), hexutil.EncodeUint64(chainID))
	}
	return nil
}

// CallContract executes eth_call under the retry policy and returns the raw result.
// The provider must already be on the right chain.
func (c *Client) CallContract(ctx context.Context, params CallParams) ([]byte, error) {
	if params.Provider == nil {
		return nil, apperror.InvalidInput("provider is required")
	}
	isRetryable := params.IsRetryable
	if isRetryable == nil {
		isRetryable = retry.ExceptChainDisconnected
	}

	result, err := retry.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		raw, err := params.Provider.Request(ctx, "eth_call", callArgs{To: params.To, Data: params.Data}, "latest")
		if err != nil {
			return nil, errors.Wrapf(err, "eth_call to %s failed", params.To.Hex())
		}
		out, err := decodeHexResult(raw)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, errEmptyResult
		}
		return out, nil
	}, params.Retry, isRetryable)
	if err != nil {
		if stderrors.Is(err, errEmptyResult) {
			return nil, apperror.Wrap(apperror.KindResourceNotFound, err, "no data returned by "+params.To.Hex())
		}
		return nil, err
	}
	return result, nil
}

// GetTransactionReceipt fetches and validates a receipt. A receipt that is still missing
// once retries are exhausted is ResourceNotFound.
func (c *Client) GetTransactionReceipt(ctx context.Context, params ReceiptParams) (*Receipt, error) {
	if params.Provider == nil {
		return nil, apperror.InvalidInput("provider is required")
	}

	receipt, err := retry.Execute(ctx, func(ctx context.Context) (*Receipt, error) {
		raw, err := params.Provider.Request(ctx, "eth_getTransactionReceipt", params.TxHash)
		if err != nil {
			return nil, errors.Wrap(err, "eth_getTransactionReceipt failed")
		}
		if isNullResult(raw) {
			return nil, errEmptyResult
		}
		var receipt Receipt
		if err := json.Unmarshal(raw, &receipt); err != nil {
			return nil, apperror.Wrap(apperror.KindParseError, err, "failed to parse receipt")
		}
		if err := c.validate.Struct(&receipt); err != nil {
			return nil, apperror.Wrap(apperror.KindParseError, err, "invalid receipt structure")
		}
		return &receipt, nil
	}, params.Retry, retry.ExceptChainDisconnected)
	if err != nil {
		if stderrors.Is(err, errEmptyResult) {
			return nil, apperror.Wrap(apperror.KindResourceNotFound, err, "receipt not found for "+params.TxHash.Hex())
		}
		return nil, err
	}
	return receipt, nil
}

func readChainID(ctx context.Context, provider Provider) (uint64, error) {
	raw, err := provider.Request(ctx, "eth_chainId")
	if err != nil {
		return 0, apperror.Wrap(apperror.KindResourceUnavailable, err, "failed to read chain id")
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, apperror.Wrap(apperror.KindParseError, err, "invalid chain id response")
	}
	id, err := ParseChainID(value)
	if err != nil {
		return 0, apperror.Wrap(apperror.KindParseError, err, "invalid chain id response")
	}
	return id, nil
}

// ParseChainID parses a hex ("0xaa36a7", any case) or decimal chain id
func ParseChainID(value string) (uint64, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(value, "0x") {
		return strconv.ParseUint(value[2:], 16, 64)
	}
	return strconv.ParseUint(value, 10, 64)
}

func decodeHexResult(raw json.RawMessage) ([]byte, error) {
	if isNullResult(raw) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, apperror.Wrap(apperror.KindParseError, err, "call result is not a string")
	}
	if value == "" || value == "0x" {
		return nil, nil
	}
	out, err := hexutil.Decode(value)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindParseError, err, "call result is not hex")
	}
	return out, nil
}

func isNullResult(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
