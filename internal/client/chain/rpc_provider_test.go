package chain_test

import (
	"context"
	"testing"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ethService is served in-process under the "eth" namespace
type ethService struct {
	chainID hexutil.Uint64
	result  hexutil.Bytes
}

func (s *ethService) ChainId() hexutil.Uint64 {
	return s.chainID
}

func (s *ethService) Call(args map[string]interface{}, block string) hexutil.Bytes {
	return s.result
}

func inProcClient(t *testing.T, chainID uint64, result []byte) *rpc.Client {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethService{chainID: hexutil.Uint64(chainID), result: result}))
	t.Cleanup(server.Stop)
	return rpc.DialInProc(server)
}

func TestPool_SwitchAndCall(t *testing.T) {
	pool := chain.NewPool(map[uint64]*rpc.Client{
		1:       inProcClient(t, 1, []byte{0x01}),
		sepolia: inProcClient(t, sepolia, []byte{0xaa}),
	})
	t.Cleanup(pool.Close)

	assert.Equal(t, []uint64{1, sepolia}, pool.Chains())

	client := chain.NewClient()
	provider := pool.NewProvider()

	require.NoError(t, client.EnsureChain(context.Background(), provider, sepolia))

	out, err := client.CallContract(context.Background(), chain.CallParams{Provider: provider, Data: []byte{1, 2, 3, 4}, Retry: fastRetry(0)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, out)

	t.Run("sessions are independent", func(t *testing.T) {
		other := pool.NewProvider()
		out, err := client.CallContract(context.Background(), chain.CallParams{Provider: other, Data: []byte{1, 2, 3, 4}, Retry: fastRetry(0)})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, out)
	})
}

func TestPool_UnknownChain(t *testing.T) {
	pool := chain.NewPool(map[uint64]*rpc.Client{
		1: inProcClient(t, 1, nil),
	})
	t.Cleanup(pool.Close)

	err := chain.NewClient().EnsureChain(context.Background(), pool.NewProvider(), 137)

	require.Error(t, err)
	assert.Equal(t, apperror.KindChainDisconnected, apperror.KindOf(err))

	var providerErr *chain.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, chain.ErrCodeUnrecognizedChain, providerErr.ErrorCode())
}

func TestPool_Empty(t *testing.T) {
	pool := chain.NewPool(nil)

	err := chain.NewClient().EnsureChain(context.Background(), pool.NewProvider(), 1)

	require.Error(t, err)
	assert.Equal(t, apperror.KindResourceUnavailable, apperror.KindOf(err))
}
