package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/mocks"
	"github.com/cyphera/gator-permissions/internal/services"
	"github.com/cyphera/gator-permissions/internal/storage"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var revokedAt = time.Unix(1700000000, 0)

type revocationFixture struct {
	store     *mocks.MockPermissionStore
	reader    *mocks.MockChainReader
	providers *mocks.MockProviderSource
	metrics   *mocks.MockServiceMetrics
	service   *services.RevocationService
}

func newRevocationFixture(t *testing.T, opts ...services.RevocationOption) *revocationFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &revocationFixture{
		store:     mocks.NewMockPermissionStore(ctrl),
		reader:    mocks.NewMockChainReader(ctrl),
		providers: mocks.NewMockProviderSource(ctrl),
		metrics:   mocks.NewMockServiceMetrics(ctrl),
	}
	f.providers.EXPECT().NewProvider().Return(nil).AnyTimes()
	f.metrics.EXPECT().RecordRevocation(gomock.Any()).AnyTimes()

	opts = append([]services.RevocationOption{
		services.WithRevocationClock(func() time.Time { return revokedAt }),
		services.WithRevocationMetrics(f.metrics),
	}, opts...)
	f.service = services.NewRevocationService(f.store, f.reader, f.providers, opts...)
	return f
}

func TestRevocationService_SubmitRevocation(t *testing.T) {
	ctx := context.Background()
	d := testDelegation(1)
	permissionContext := encodeContext(t, d)
	chained := encodeContext(t, testDelegation(1), testDelegation(2))

	t.Run("commits once the delegation is disabled", func(t *testing.T) {
		f := newRevocationFixture(t)
		record := testRecord(permissionContext)

		f.store.EXPECT().Get(ctx, permissionContext).Return(&record, nil)
		f.reader.EXPECT().
			IsDelegationDisabled(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params chain.DelegationDisabledParams) (bool, error) {
				assert.Equal(t, uint64(1), params.ChainID)
				assert.Equal(t, common.HexToAddress(testManager), params.DelegationManager)
				assert.Equal(t, delegation.Hash(d), params.DelegationHash)
				return true, nil
			})
		f.store.EXPECT().
			MarkRevoked(ctx, permissionContext, types.RevocationMetadata{TxHash: testTxHash, RecordedAt: revokedAt.Unix()}).
			Return(nil)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext, TxHash: testTxHash})
		assert.NoError(t, err)
	})

	t.Run("refuses when the chain does not show the delegation disabled", func(t *testing.T) {
		f := newRevocationFixture(t)
		record := testRecord(permissionContext)

		f.store.EXPECT().Get(ctx, permissionContext).Return(&record, nil)
		f.reader.EXPECT().IsDelegationDisabled(ctx, gomock.Any()).Return(false, nil)
		f.store.EXPECT().MarkRevoked(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "not disabled on-chain")
	})

	t.Run("chain errors propagate unchanged", func(t *testing.T) {
		f := newRevocationFixture(t)
		record := testRecord(permissionContext)
		chainErr := apperror.ChainDisconnected("provider stuck on chain 10")

		f.store.EXPECT().Get(ctx, permissionContext).Return(&record, nil)
		f.reader.EXPECT().IsDelegationDisabled(ctx, gomock.Any()).Return(false, chainErr)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext})
		assert.Equal(t, chainErr, err)
	})

	t.Run("unknown permission", func(t *testing.T) {
		f := newRevocationFixture(t)
		f.store.EXPECT().Get(ctx, permissionContext).Return(nil, nil)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})

	t.Run("missing delegation manager", func(t *testing.T) {
		f := newRevocationFixture(t)
		record := testRecord(permissionContext)
		record.PermissionResponse.SignerMeta.DelegationManager = ""
		f.store.EXPECT().Get(ctx, permissionContext).Return(&record, nil)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})

	t.Run("multi-delegation contexts are refused", func(t *testing.T) {
		f := newRevocationFixture(t)
		record := testRecord(chained)
		f.store.EXPECT().Get(ctx, chained).Return(&record, nil)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: chained})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})

	t.Run("malformed transaction hash", func(t *testing.T) {
		f := newRevocationFixture(t)

		err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext, TxHash: "0x1234"})
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	})
}

func TestRevocationService_ReceiptVerification(t *testing.T) {
	ctx := context.Background()
	permissionContext := encodeContext(t, testDelegation(1))

	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{name: "successful transaction", status: "0x1"},
		{name: "reverted transaction", status: "0x0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRevocationFixture(t, services.WithReceiptVerification(true))
			record := testRecord(permissionContext)

			f.store.EXPECT().Get(ctx, permissionContext).Return(&record, nil)
			f.reader.EXPECT().IsDelegationDisabled(ctx, gomock.Any()).Return(true, nil)
			f.reader.EXPECT().
				GetTransactionReceipt(ctx, gomock.Any()).
				Return(&chain.Receipt{Status: tt.status}, nil)
			if !tt.wantErr {
				f.store.EXPECT().MarkRevoked(ctx, permissionContext, gomock.Any()).Return(nil)
			}

			err := f.service.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext, TxHash: testTxHash})
			if tt.wantErr {
				assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevocationService_Idempotence(t *testing.T) {
	ctx := context.Background()
	permissionContext := encodeContext(t, testDelegation(1))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reader := mocks.NewMockChainReaderForTest(t)
	providers := mocks.NewMockProviderSource(ctrl)
	providers.EXPECT().NewProvider().Return(nil).AnyTimes()
	reader.EXPECT().IsDelegationDisabled(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)

	store := services.NewPermissionStore(storage.NewMemoryStore())
	require.NoError(t, store.Store(ctx, testRecord(permissionContext)))

	first := services.NewRevocationService(store, reader, providers,
		services.WithRevocationClock(func() time.Time { return revokedAt }))
	require.NoError(t, first.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext, TxHash: testTxHash}))

	second := services.NewRevocationService(store, reader, providers,
		services.WithRevocationClock(func() time.Time { return revokedAt.Add(time.Hour) }))
	err := second.SubmitRevocation(ctx, types.RevocationParams{PermissionContext: permissionContext})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	got, err := store.Get(ctx, permissionContext)
	require.NoError(t, err)
	require.NotNil(t, got.RevocationMetadata)
	assert.Equal(t, types.RevocationMetadata{TxHash: testTxHash, RecordedAt: revokedAt.Unix()}, *got.RevocationMetadata)
}
