package services_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

const (
	testAccount  = "0x3333333333333333333333333333333333333333"
	testSigner   = "0x2222222222222222222222222222222222222222"
	testManager  = "0xdb9B1e94B5b69Df7e401DDbedE43491141047dB3"
	testEnforcer = "0x4444444444444444444444444444444444444444"
	testToken    = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	testTxHash   = "0x9f1c2b3a4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8"
)

func testDelegation(salt int64) delegation.Delegation {
	return delegation.Delegation{
		Delegate:  common.HexToAddress(testSigner),
		Delegator: common.HexToAddress(testAccount),
		Authority: delegation.RootAuthority,
		Caveats: []delegation.Caveat{{
			Enforcer: common.HexToAddress(testEnforcer),
			Terms:    hexutil.MustDecode("0x01"),
			Args:     hexutil.Bytes{},
		}},
		Salt:      big.NewInt(salt),
		Signature: hexutil.MustDecode("0x1b1b1b"),
	}
}

func encodeContext(t *testing.T, delegations ...delegation.Delegation) string {
	t.Helper()
	encoded, err := delegation.EncodeContext(delegations)
	require.NoError(t, err)
	return encoded
}

func testResponse(permissionContext string) types.PermissionResponse {
	return types.PermissionResponse{
		ChainID: "0x1",
		Address: testAccount,
		Signer: &types.Signer{
			Type: "account",
			Data: types.SignerData{Address: testSigner},
		},
		Permission: types.Permission{
			Type: "native-token-stream",
			Data: json.RawMessage(`{"amountPerSecond":"0x1","startTime":1700000000}`),
		},
		Context:        permissionContext,
		DependencyInfo: []types.DependencyInfo{},
		SignerMeta:     types.SignerMeta{DelegationManager: testManager},
	}
}

func testRecord(permissionContext string) types.StoredGrantedPermission {
	return types.StoredGrantedPermission{
		PermissionResponse: testResponse(permissionContext),
		SiteOrigin:         "https://x.test",
	}
}

func identityKey(permissionContext string) (string, error) {
	return permissionContext, nil
}
