package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cyphera/gator-permissions/internal/logger"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// ErrCodeUnrecognizedChain is the EIP-3326 error code for a chain the wallet does not know
const ErrCodeUnrecognizedChain = 4902

// ProviderError is a JSON-RPC style error raised locally by the pool provider
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// ErrorCode implements rpc.Error
func (e *ProviderError) ErrorCode() int {
	return e.Code
}

// Pool holds one RPC connection per configured chain
type Pool struct {
	clients      map[uint64]*rpc.Client
	defaultChain uint64
	logger       *zap.Logger
}

// NewPool wraps already connected clients keyed by chain id
func NewPool(clients map[uint64]*rpc.Client) *Pool {
	pool := &Pool{
		clients: clients,
		logger:  logger.Component("rpc_pool"),
	}
	if pool.clients == nil {
		pool.clients = make(map[uint64]*rpc.Client)
	}
	pool.defaultChain = lowestChain(pool.clients)
	return pool
}

// DialPool connects to every configured RPC endpoint and checks that each one serves the
// chain it is configured for. Endpoints that fail are logged and skipped.
func DialPool(ctx context.Context, urls map[uint64]string, timeout time.Duration) (*Pool, error) {
	pool := NewPool(nil)

	for chainID, url := range urls {
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		client, err := rpc.DialContext(dialCtx, url)
		if err != nil {
			cancel()
			pool.logger.Error("Failed to connect to chain RPC",
				zap.Uint64("chain_id", chainID),
				zap.Error(err))
			continue
		}

		var reported hexutil.Uint64
		err = client.CallContext(dialCtx, &reported, "eth_chainId")
		cancel()
		if err != nil || uint64(reported) != chainID {
			pool.logger.Error("Chain RPC failed chain id check",
				zap.Uint64("chain_id", chainID),
				zap.Uint64("reported_chain_id", uint64(reported)),
				zap.Error(err))
			client.Close()
			continue
		}

		pool.clients[chainID] = client
		pool.logger.Info("Connected to chain RPC", zap.Uint64("chain_id", chainID))
	}

	if len(urls) > 0 && len(pool.clients) == 0 {
		return nil, fmt.Errorf("no RPC connections established")
	}
	pool.defaultChain = lowestChain(pool.clients)
	return pool, nil
}

// Chains returns the configured chain ids in ascending order
func (p *Pool) Chains() []uint64 {
	out := make([]uint64, 0, len(p.clients))
	for id := range p.clients {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewProvider returns a provider session positioned on the pool's default chain.
// Sessions are independent; switching one does not affect another.
func (p *Pool) NewProvider() Provider {
	return &poolProvider{pool: p, active: p.defaultChain}
}

// Close closes all RPC connections
func (p *Pool) Close() {
	for _, client := range p.clients {
		client.Close()
	}
}

type poolProvider struct {
	pool   *Pool
	mu     sync.Mutex
	active uint64
}

func (s *poolProvider) Request(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	switch method {
	case "eth_chainId":
		s.mu.Lock()
		active := s.active
		s.mu.Unlock()
		if _, ok := s.pool.clients[active]; !ok {
			return nil, &ProviderError{Code: -32603, Message: "no chain configured"}
		}
		return json.Marshal(hexutil.EncodeUint64(active))
	case "wallet_switchEthereumChain":
		return s.switchChain(params)
	}

	s.mu.Lock()
	client, ok := s.pool.clients[s.active]
	s.mu.Unlock()
	if !ok {
		return nil, &ProviderError{Code: -32603, Message: "no chain configured"}
	}

	var result json.RawMessage
	if err := client.CallContext(ctx, &result, method, params...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *poolProvider) switchChain(params []interface{}) (json.RawMessage, error) {
	if len(params) != 1 {
		return nil, &ProviderError{Code: -32602, Message: "expected a single chain parameter"}
	}

	var requested uint64
	switch arg := params[0].(type) {
	case switchChainArgs:
		id, err := ParseChainID(arg.ChainID)
		if err != nil {
			return nil, &ProviderError{Code: -32602, Message: "invalid chain id"}
		}
		requested = id
	case map[string]string:
		id, err := ParseChainID(arg["chainId"])
		if err != nil {
			return nil, &ProviderError{Code: -32602, Message: "invalid chain id"}
		}
		requested = id
	default:
		return nil, &ProviderError{Code: -32602, Message: fmt.Sprintf("unsupported parameter %T", arg)}
	}

	if _, ok := s.pool.clients[requested]; !ok {
		return nil, &ProviderError{
			Code:    ErrCodeUnrecognizedChain,
			Message: fmt.Sprintf("unrecognized chain id %s", hexutil.EncodeUint64(requested)),
		}
	}

	s.mu.Lock()
	s.active = requested
	s.mu.Unlock()
	return json.RawMessage("null"), nil
}

func lowestChain(clients map[uint64]*rpc.Client) uint64 {
	var lowest uint64
	for id := range clients {
		if lowest == 0 || id < lowest {
			lowest = id
		}
	}
	return lowest
}

var _ rpc.Error = (*ProviderError)(nil)
