package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/mocks"
	"github.com/cyphera/gator-permissions/internal/services"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testRequest(permissionContext string) types.PermissionRequest {
	response := testResponse(permissionContext)
	return types.PermissionRequest{
		ChainID:    response.ChainID,
		Address:    response.Address,
		Signer:     response.Signer,
		Permission: response.Permission,
		Rules: []types.Rule{{
			Type: services.RuleExpiry,
			Data: json.RawMessage(`{"timestamp":1900000000}`),
		}},
		Context:    permissionContext,
		SignerMeta: &types.SignerMeta{DelegationManager: testManager},
	}
}

func TestGrantService_GrantPermissions(t *testing.T) {
	ctx := context.Background()
	origin := "https://dapp.test"

	t.Run("stores every response in one batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := mocks.NewMockPermissionStore(ctrl)
		handler := mocks.NewMockPermissionHandler(ctrl)
		serviceMetrics := mocks.NewMockServiceMetrics(ctrl)
		service := services.NewGrantService(store, map[string]interfaces.PermissionHandler{
			services.PermissionNativeTokenStream: handler,
		}, serviceMetrics)

		requests := []types.PermissionRequest{testRequest("0xAB"), testRequest("0xCD")}
		gomock.InOrder(
			handler.EXPECT().HandlePermissionRequest(ctx, origin, requests[0]).Return(&types.PermissionResponse{Context: "0xAB"}, nil),
			handler.EXPECT().HandlePermissionRequest(ctx, origin, requests[1]).Return(&types.PermissionResponse{Context: "0xCD"}, nil),
		)
		store.EXPECT().
			StoreBatch(ctx, gomock.Len(2)).
			DoAndReturn(func(_ context.Context, records []types.StoredGrantedPermission) error {
				assert.Equal(t, origin, records[0].SiteOrigin)
				assert.Equal(t, "0xCD", records[1].PermissionResponse.Context)
				return nil
			})
		serviceMetrics.EXPECT().RecordGrants(services.GrantOutcomeStored, 2)

		responses, err := service.GrantPermissions(ctx, origin, requests)
		require.NoError(t, err)
		assert.Len(t, responses, 2)
	})

	t.Run("a rejected request stores nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := mocks.NewMockPermissionStore(ctrl)
		handler := mocks.NewMockPermissionHandler(ctrl)
		service := services.NewGrantService(store, map[string]interfaces.PermissionHandler{
			services.PermissionNativeTokenStream: handler,
		}, nil)

		handler.EXPECT().HandlePermissionRequest(ctx, origin, gomock.Any()).Return(&types.PermissionResponse{Context: "0xAB"}, nil)
		handler.EXPECT().HandlePermissionRequest(ctx, origin, gomock.Any()).Return(nil, apperror.InvalidInput("user rejected"))
		store.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.GrantPermissions(ctx, origin, []types.PermissionRequest{testRequest("0xAB"), testRequest("0xCD")})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := mocks.NewMockPermissionStore(ctrl)
		handler := mocks.NewMockPermissionHandler(ctrl)
		service := services.NewGrantService(store, map[string]interfaces.PermissionHandler{
			services.PermissionNativeTokenStream: handler,
		}, nil)

		handler.EXPECT().HandlePermissionRequest(ctx, origin, gomock.Any()).Return(&types.PermissionResponse{Context: "0xAB"}, nil)
		store.EXPECT().StoreBatch(ctx, gomock.Any()).Return(apperror.Internal("write verification failed"))

		_, err := service.GrantPermissions(ctx, origin, []types.PermissionRequest{testRequest("0xAB")})
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		service := services.NewGrantService(mocks.NewMockPermissionStoreForTest(t), map[string]interfaces.PermissionHandler{}, nil)

		unsupported := testRequest("0xAB")
		unsupported.Permission.Type = "subscription"
		badChain := testRequest("0xAB")
		badChain.ChainID = "1"

		tests := []struct {
			name     string
			origin   string
			requests []types.PermissionRequest
		}{
			{name: "missing origin", origin: "", requests: []types.PermissionRequest{testRequest("0xAB")}},
			{name: "empty batch", origin: origin},
			{name: "unsupported type", origin: origin, requests: []types.PermissionRequest{unsupported}},
			{name: "chain id not hex", origin: origin, requests: []types.PermissionRequest{badChain}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.GrantPermissions(ctx, tt.origin, tt.requests)
				assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
			})
		}
	})
}

func TestPresignedPermissionHandler(t *testing.T) {
	ctx := context.Background()
	handler := services.NewPresignedPermissionHandler()
	signed := encodeContext(t, testDelegation(1))

	t.Run("valid request", func(t *testing.T) {
		response, err := handler.HandlePermissionRequest(ctx, "https://dapp.test", testRequest(signed))
		require.NoError(t, err)
		assert.Equal(t, signed, response.Context)
		assert.Equal(t, testManager, response.SignerMeta.DelegationManager)
		assert.NotNil(t, response.DependencyInfo)
	})

	otherDelegator := testDelegation(1)
	otherDelegator.Delegator[0] = 0x99
	otherDelegate := testDelegation(1)
	otherDelegate.Delegate[0] = 0x99

	tests := []struct {
		name   string
		mutate func(r *types.PermissionRequest)
	}{
		{name: "missing context", mutate: func(r *types.PermissionRequest) { r.Context = "" }},
		{name: "undecodable context", mutate: func(r *types.PermissionRequest) { r.Context = "0xAB" }},
		{name: "missing manager", mutate: func(r *types.PermissionRequest) { r.SignerMeta = nil }},
		{name: "missing signer", mutate: func(r *types.PermissionRequest) { r.Signer = nil }},
		{name: "delegator is not the account", mutate: func(r *types.PermissionRequest) {
			r.Context = encodeContext(t, otherDelegator)
		}},
		{name: "delegate is not the signer", mutate: func(r *types.PermissionRequest) {
			r.Context = encodeContext(t, otherDelegate)
		}},
		{name: "stream without rate", mutate: func(r *types.PermissionRequest) {
			r.Permission.Data = json.RawMessage(`{"startTime":1700000000}`)
		}},
		{name: "erc20 stream without token", mutate: func(r *types.PermissionRequest) {
			r.Permission.Type = services.PermissionERC20TokenStream
		}},
		{name: "expiry in the wrong shape", mutate: func(r *types.PermissionRequest) {
			r.Rules[0].Data = json.RawMessage(`{"timestamp":"soon"}`)
		}},
		{name: "unknown rule", mutate: func(r *types.PermissionRequest) { r.Rules[0].Type = "gas-limit" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := testRequest(signed)
			tt.mutate(&request)
			_, err := handler.HandlePermissionRequest(ctx, "https://dapp.test", request)
			assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
		})
	}

	t.Run("erc20 periodic", func(t *testing.T) {
		request := testRequest(signed)
		request.Permission = types.Permission{
			Type: services.PermissionERC20TokenPeriodic,
			Data: json.RawMessage(`{"periodAmount":"0x64","periodDuration":86400,"startTime":1700000000,"tokenAddress":"` + testToken + `"}`),
		}
		_, err := handler.HandlePermissionRequest(ctx, "https://dapp.test", request)
		assert.NoError(t, err)
	})
}
