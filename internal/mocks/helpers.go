package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockStateStoreForTest creates a new mock StateStore for testing
func NewMockStateStoreForTest(t *testing.T) *MockStateStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockStateStore(ctrl)
}

// NewMockChainReaderForTest creates a new mock ChainReader for testing
func NewMockChainReaderForTest(t *testing.T) *MockChainReader {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockChainReader(ctrl)
}

// NewMockDataAPIClientForTest creates a new mock DataAPIClient for testing
func NewMockDataAPIClientForTest(t *testing.T) *MockDataAPIClient {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDataAPIClient(ctrl)
}

// NewMockPermissionStoreForTest creates a new mock PermissionStore for testing
func NewMockPermissionStoreForTest(t *testing.T) *MockPermissionStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockPermissionStore(ctrl)
}
