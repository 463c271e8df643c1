package interfaces

//go:generate mockgen -source=services.go -destination=../mocks/mock_services.go -package=mocks

import (
	"context"

	"github.com/cyphera/gator-permissions/internal/types"
)

// PermissionStore persists granted permissions keyed by their context
type PermissionStore interface {
	GetAll(ctx context.Context, filter types.PermissionFilter) ([]types.StoredGrantedPermission, error)
	Get(ctx context.Context, permissionContext string) (*types.StoredGrantedPermission, error)
	Store(ctx context.Context, record types.StoredGrantedPermission) error
	StoreBatch(ctx context.Context, records []types.StoredGrantedPermission) error
	MarkRevoked(ctx context.Context, permissionContext string, metadata types.RevocationMetadata) error
}

// RevocationService verifies revocation claims against the chain before recording them
type RevocationService interface {
	SubmitRevocation(ctx context.Context, params types.RevocationParams) error
}

// PermissionHandler turns an approved request of one permission type into a granted response
type PermissionHandler interface {
	HandlePermissionRequest(ctx context.Context, siteOrigin string, request types.PermissionRequest) (*types.PermissionResponse, error)
}

// GrantService grants a batch of permission requests and persists the result
type GrantService interface {
	GrantPermissions(ctx context.Context, siteOrigin string, requests []types.PermissionRequest) ([]types.PermissionResponse, error)
}

// TokenMetadataService resolves a balance from the best available backend
type TokenMetadataService interface {
	GetTokenBalanceAndMetadata(ctx context.Context, query types.TokenQuery) (*types.TokenBalanceAndMetadata, error)
}

// GrantContextService gathers what a user needs to see before approving a grant
type GrantContextService interface {
	GetGrantContext(ctx context.Context, params types.GrantContextParams) (*types.GrantContext, error)
}
