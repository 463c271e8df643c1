package delegation_test

import (
	"math/big"
	"testing"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDelegation(salt int64) delegation.Delegation {
	return delegation.Delegation{
		Delegate:  common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Delegator: common.HexToAddress("0x3333333333333333333333333333333333333333"),
		Authority: delegation.RootAuthority,
		Caveats: []delegation.Caveat{
			{
				Enforcer: common.HexToAddress("0x4444444444444444444444444444444444444444"),
				Terms:    hexutil.MustDecode("0x00000000000000000000000000000000000000000000000000000000000003e8"),
				Args:     hexutil.Bytes{},
			},
			{
				Enforcer: common.HexToAddress("0x5555555555555555555555555555555555555555"),
				Terms:    hexutil.MustDecode("0x01"),
				Args:     hexutil.MustDecode("0xbeef"),
			},
		},
		Salt:      big.NewInt(salt),
		Signature: hexutil.MustDecode("0x" + "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff" + "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff" + "1b"),
	}
}

func TestHash_MatchesEIP712StructHash(t *testing.T) {
	d := sampleDelegation(42)

	caveats := make([]interface{}, 0, len(d.Caveats))
	for _, c := range d.Caveats {
		caveats = append(caveats, map[string]interface{}{
			"enforcer": c.Enforcer.Hex(),
			"terms":    hexutil.Encode(c.Terms),
		})
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
			},
			"Delegation": {
				{Name: "delegate", Type: "address"},
				{Name: "delegator", Type: "address"},
				{Name: "authority", Type: "bytes32"},
				{Name: "caveats", Type: "Caveat[]"},
				{Name: "salt", Type: "uint256"},
			},
			"Caveat": {
				{Name: "enforcer", Type: "address"},
				{Name: "terms", Type: "bytes"},
			},
		},
		PrimaryType: "Delegation",
		Domain:      apitypes.TypedDataDomain{Name: "DelegationManager"},
	}

	want, err := typedData.HashStruct("Delegation", apitypes.TypedDataMessage{
		"delegate":  d.Delegate.Hex(),
		"delegator": d.Delegator.Hex(),
		"authority": d.Authority.Hex(),
		"caveats":   caveats,
		"salt":      d.Salt,
	})
	require.NoError(t, err)

	assert.Equal(t, common.BytesToHash(want), delegation.Hash(d))
}

func TestHash_IgnoresSignatureAndArgs(t *testing.T) {
	a := sampleDelegation(1)
	b := sampleDelegation(1)
	b.Signature = hexutil.MustDecode("0x01")
	b.Caveats[1].Args = hexutil.MustDecode("0xcafe")

	assert.Equal(t, delegation.Hash(a), delegation.Hash(b))

	c := sampleDelegation(2)
	assert.NotEqual(t, delegation.Hash(a), delegation.Hash(c))
}

func TestContext_RoundTrip(t *testing.T) {
	original := []delegation.Delegation{sampleDelegation(7)}

	encoded, err := delegation.EncodeContext(original)
	require.NoError(t, err)
	assert.True(t, len(encoded) > 2 && encoded[:2] == "0x")

	decoded, err := delegation.DecodeContext(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	got := decoded[0]
	assert.Equal(t, original[0].Delegate, got.Delegate)
	assert.Equal(t, original[0].Delegator, got.Delegator)
	assert.Equal(t, original[0].Authority, got.Authority)
	assert.Equal(t, 0, original[0].Salt.Cmp(got.Salt))
	assert.Equal(t, []byte(original[0].Signature), []byte(got.Signature))
	require.Len(t, got.Caveats, 2)
	assert.Equal(t, []byte(original[0].Caveats[1].Args), []byte(got.Caveats[1].Args))
	assert.True(t, got.IsSigned())
	assert.True(t, got.IsRoot())
	assert.Equal(t, delegation.Hash(original[0]), delegation.Hash(got))
}

func TestEncodeContext_RejectsUnsigned(t *testing.T) {
	d := sampleDelegation(1)
	d.Signature = nil

	_, err := delegation.EncodeContext([]delegation.Delegation{d})

	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestObjectKey(t *testing.T) {
	single, err := delegation.EncodeContext([]delegation.Delegation{sampleDelegation(1)})
	require.NoError(t, err)
	chained, err := delegation.EncodeContext([]delegation.Delegation{sampleDelegation(1), sampleDelegation(2)})
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		first, err := delegation.ObjectKey(single)
		require.NoError(t, err)
		second, err := delegation.ObjectKey(single)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, delegation.Hash(sampleDelegation(1)).Hex(), first)
	})

	t.Run("concatenates hashes in order", func(t *testing.T) {
		key, err := delegation.ObjectKey(chained)
		require.NoError(t, err)
		want := hexutil.Encode(append(delegation.Hash(sampleDelegation(1)).Bytes(), delegation.Hash(sampleDelegation(2)).Bytes()...))
		assert.Equal(t, want, key)
	})

	t.Run("different contexts differ", func(t *testing.T) {
		a, _ := delegation.ObjectKey(single)
		b, _ := delegation.ObjectKey(chained)
		assert.NotEqual(t, a, b)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, input := range []string{"", "0x", "0xAB", "not-hex", "0x1234"} {
			_, err := delegation.ObjectKey(input)
			assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err), input)
		}
	})

	t.Run("empty delegation list", func(t *testing.T) {
		empty, err := delegation.EncodeContext(nil)
		require.NoError(t, err)
		_, err = delegation.ObjectKey(empty)
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})
}

func TestSingle(t *testing.T) {
	single, _ := delegation.EncodeContext([]delegation.Delegation{sampleDelegation(1)})
	chained, _ := delegation.EncodeContext([]delegation.Delegation{sampleDelegation(1), sampleDelegation(2)})
	empty, _ := delegation.EncodeContext(nil)

	got, err := delegation.Single(single)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Salt.Cmp(big.NewInt(1)))

	_, err = delegation.Single(chained)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	_, err = delegation.Single(empty)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}
