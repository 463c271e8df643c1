package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/handlers"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/mocks"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

const testAccount = "0x3333333333333333333333333333333333333333"

type fixture struct {
	store        *mocks.MockPermissionStore
	grants       *mocks.MockGrantService
	revocations  *mocks.MockRevocationService
	tokens       *mocks.MockTokenMetadataService
	prices       *mocks.MockDataAPIClient
	grantContext *mocks.MockGrantContextService
	router       *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		store:        mocks.NewMockPermissionStore(ctrl),
		grants:       mocks.NewMockGrantService(ctrl),
		revocations:  mocks.NewMockRevocationService(ctrl),
		tokens:       mocks.NewMockTokenMetadataService(ctrl),
		prices:       mocks.NewMockDataAPIClient(ctrl),
		grantContext: mocks.NewMockGrantContextService(ctrl),
	}

	permissions := handlers.NewPermissionsHandler(f.store, f.grants, f.revocations)
	tokens := handlers.NewTokenHandler(f.tokens, f.prices, f.grantContext)

	f.router = gin.New()
	f.router.GET("/healthz", handlers.NewHealthHandler().Health)
	f.router.GET("/v1/permissions", permissions.ListPermissions)
	f.router.GET("/v1/permissions/:context", permissions.GetPermission)
	f.router.POST("/v1/permissions/grant", permissions.GrantPermissions)
	f.router.POST("/v1/permissions/revoke", permissions.RevokePermission)
	f.router.GET("/v1/tokens/balance", tokens.GetBalance)
	f.router.GET("/v1/prices/spot", tokens.GetSpotPrice)
	f.router.GET("/v1/grant-context", tokens.GetGrantContext)
	return f
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.InvalidInput("bad"), http.StatusBadRequest},
		{apperror.ResourceNotFound("missing"), http.StatusNotFound},
		{apperror.LimitExceeded("too big"), http.StatusRequestEntityTooLarge},
		{apperror.ResourceUnavailable("down"), http.StatusServiceUnavailable},
		{apperror.ChainDisconnected("wrong chain"), http.StatusConflict},
		{apperror.ParseError("garbled"), http.StatusBadGateway},
		{apperror.Internal("broken"), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, handlers.StatusForError(tt.err), tt.err.Error())
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPermissionsHandler(t *testing.T) {
	t.Run("list applies query filters", func(t *testing.T) {
		f := newFixture(t)
		revoked := false
		f.store.EXPECT().
			GetAll(gomock.Any(), types.PermissionFilter{SiteOrigin: "https://x.test", ChainID: "0x1", Revoked: &revoked}).
			Return([]types.StoredGrantedPermission{{SiteOrigin: "https://x.test"}}, nil)

		w := f.do(http.MethodGet, "/v1/permissions?siteOrigin=https://x.test&chainId=0x1&revoked=false", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Object string                          `json:"object"`
			Data   []types.StoredGrantedPermission `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "list", body.Object)
		assert.Len(t, body.Data, 1)
	})

	t.Run("list rejects a malformed revoked filter", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodGet, "/v1/permissions?revoked=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get missing permission", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Get(gomock.Any(), "0xab").Return(nil, nil)

		w := f.do(http.MethodGet, "/v1/permissions/0xab", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get undecodable context", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Get(gomock.Any(), "0xab").Return(nil, apperror.InvalidInput("context is not a delegation list"))

		w := f.do(http.MethodGet, "/v1/permissions/0xab", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body handlers.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, string(apperror.KindInvalidInput), body.Kind)
	})

	t.Run("grant", func(t *testing.T) {
		f := newFixture(t)
		f.grants.EXPECT().
			GrantPermissions(gomock.Any(), "https://x.test", gomock.Len(1)).
			Return([]types.PermissionResponse{{Context: "0xab"}}, nil)

		w := f.do(http.MethodPost, "/v1/permissions/grant", handlers.GrantRequest{
			SiteOrigin:  "https://x.test",
			Permissions: []types.PermissionRequest{{ChainID: "0x1"}},
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("grant without permissions", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/v1/permissions/grant", handlers.GrantRequest{SiteOrigin: "https://x.test"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("revoke maps chain errors", func(t *testing.T) {
		f := newFixture(t)
		params := types.RevocationParams{PermissionContext: "0xab"}
		f.revocations.EXPECT().SubmitRevocation(gomock.Any(), params).Return(apperror.ChainDisconnected("provider stuck"))

		w := f.do(http.MethodPost, "/v1/permissions/revoke", params)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("revoke", func(t *testing.T) {
		f := newFixture(t)
		f.revocations.EXPECT().SubmitRevocation(gomock.Any(), gomock.Any()).Return(nil)

		w := f.do(http.MethodPost, "/v1/permissions/revoke", types.RevocationParams{PermissionContext: "0xab"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Permission revoked"}`, w.Body.String())
	})
}

func TestTokenHandler(t *testing.T) {
	t.Run("balance", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().
			GetTokenBalanceAndMetadata(gomock.Any(), types.TokenQuery{ChainID: 11155111, Account: testAccount}).
			Return(&types.TokenBalanceAndMetadata{Balance: big.NewInt(1500), Decimals: 18, Symbol: "ETH"}, nil)

		w := f.do(http.MethodGet, "/v1/tokens/balance?chainId=0xaa36a7&account="+testAccount, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"balance":"1500","decimals":18,"symbol":"ETH"}`, w.Body.String())
	})

	t.Run("balance requires a chain", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodGet, "/v1/tokens/balance?account="+testAccount, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("balance sources exhausted", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().GetTokenBalanceAndMetadata(gomock.Any(), gomock.Any()).Return(nil, apperror.ResourceUnavailable("rpc down"))

		w := f.do(http.MethodGet, "/v1/tokens/balance?chainId=1&account="+testAccount, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("spot price", func(t *testing.T) {
		f := newFixture(t)
		f.prices.EXPECT().
			GetSpotPrice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p dataapi.SpotPriceParams) (float64, error) {
				assert.Nil(t, p.AssetAddress)
				assert.Equal(t, "usd", p.VsCurrency)
				return 3120.5, nil
			})

		w := f.do(http.MethodGet, "/v1/prices/spot?chainId=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"chainId":1,"vsCurrency":"usd","price":3120.5}`, w.Body.String())
	})

	t.Run("spot price with malformed asset", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodGet, "/v1/prices/spot?chainId=1&asset=usdc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("grant context", func(t *testing.T) {
		f := newFixture(t)
		price := 1.0
		f.grantContext.EXPECT().
			GetGrantContext(gomock.Any(), gomock.Any()).
			Return(&types.GrantContext{
				ChainID:     1,
				Account:     testAccount,
				Token:       &types.TokenBalanceAndMetadata{Balance: big.NewInt(7), Decimals: 6, Symbol: "USDC"},
				Price:       &price,
				VsCurrency:  "usd",
				CaveatNonce: big.NewInt(2),
			}, nil)

		w := f.do(http.MethodGet, "/v1/grant-context?chainId=1&account="+testAccount, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body handlers.GrantContextResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "2", body.CaveatNonce)
		assert.Equal(t, "7", body.Token.Balance)
	})
}
