package services

import (
	"context"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Grant outcomes recorded to metrics
const (
	GrantOutcomeStored   = "stored"
	GrantOutcomeRejected = "rejected"
)

// GrantService dispatches permission requests to their handlers and stores the whole
// batch once every request has been granted
type GrantService struct {
	store    interfaces.PermissionStore
	handlers map[string]interfaces.PermissionHandler
	metrics  interfaces.ServiceMetrics
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGrantService creates a new grant service. handlers is keyed by permission type.
func NewGrantService(store interfaces.PermissionStore, handlers map[string]interfaces.PermissionHandler, m interfaces.ServiceMetrics) *GrantService {
	return &GrantService{
		store:    store,
		handlers: handlers,
		metrics:  m,
		validate: validator.New(),
		logger:   logger.Component("grant_service"),
	}
}

// GrantPermissions handles each request in order. A single failure aborts the batch
// before anything is stored.
func (s *GrantService) GrantPermissions(ctx context.Context, siteOrigin string, requests []types.PermissionRequest) ([]types.PermissionResponse, error) {
	if strings.TrimSpace(siteOrigin) == "" {
		return nil, apperror.InvalidInput("site origin is required")
	}
	if len(requests) == 0 {
		return nil, apperror.InvalidInput("at least one permission request is required")
	}

	responses := make([]types.PermissionResponse, 0, len(requests))
	for i, request := range requests {
		if err := s.validate.Struct(request); err != nil {
			s.recordGrants(GrantOutcomeRejected, len(requests))
			return nil, apperror.Wrap(apperror.KindInvalidInput, err, "invalid permission request")
		}

		handler, ok := s.handlers[request.Permission.Type]
		if !ok {
			s.recordGrants(GrantOutcomeRejected, len(requests))
			return nil, apperror.InvalidInput("unsupported permission type %q", request.Permission.Type)
		}

		response, err := handler.HandlePermissionRequest(ctx, siteOrigin, request)
		if err != nil {
			s.logger.Warn("Permission request rejected",
				zap.Int("index", i),
				zap.String("permission_type", request.Permission.Type),
				zap.String("site_origin", siteOrigin),
				zap.Error(err))
			s.recordGrants(GrantOutcomeRejected, len(requests))
			return nil, err
		}
		responses = append(responses, *response)
	}

	records := make([]types.StoredGrantedPermission, 0, len(responses))
	for _, response := range responses {
		records = append(records, types.StoredGrantedPermission{
			PermissionResponse: response,
			SiteOrigin:         siteOrigin,
		})
	}
	if err := s.store.StoreBatch(ctx, records); err != nil {
		s.recordGrants(GrantOutcomeRejected, len(requests))
		return nil, err
	}

	s.recordGrants(GrantOutcomeStored, len(records))
	s.logger.Info("Granted permissions stored",
		zap.String("site_origin", siteOrigin),
		zap.Int("count", len(records)))
	return responses, nil
}

func (s *GrantService) recordGrants(outcome string, count int) {
	if s.metrics != nil {
		s.metrics.RecordGrants(outcome, count)
	}
}

// PresignedPermissionHandler grants requests whose delegation context was already signed
// by the account holder
type PresignedPermissionHandler struct {
	validate *validator.Validate
}

// NewPresignedPermissionHandler creates a new handler
func NewPresignedPermissionHandler() *PresignedPermissionHandler {
	return &PresignedPermissionHandler{validate: validator.New()}
}

// HandlePermissionRequest checks that the signed context matches the request and echoes it
// back as the granted response
func (h *PresignedPermissionHandler) HandlePermissionRequest(ctx context.Context, siteOrigin string, request types.PermissionRequest) (*types.PermissionResponse, error) {
	if err := validatePermissionData(h.validate, request.Permission, request.Rules); err != nil {
		return nil, err
	}
	if request.Context == "" {
		return nil, apperror.InvalidInput("permission request carries no signed context")
	}
	if request.Address == "" {
		return nil, apperror.InvalidInput("permission request has no account address")
	}
	if request.Signer == nil {
		return nil, apperror.InvalidInput("permission request has no signer")
	}
	if request.SignerMeta == nil || request.SignerMeta.DelegationManager == "" {
		return nil, apperror.InvalidInput("permission request has no delegation manager")
	}

	delegations, err := delegation.DecodeContext(request.Context)
	if err != nil {
		return nil, err
	}
	if len(delegations) == 0 {
		return nil, apperror.InvalidInput("context holds no delegations")
	}
	for i, d := range delegations {
		if !d.IsSigned() {
			return nil, apperror.InvalidInput("delegation %d is not signed", i)
		}
	}

	// The first delegation is the leaf: it is granted to the signer and issued by the account
	leaf := delegations[0]
	if leaf.Delegator != common.HexToAddress(request.Address) {
		return nil, apperror.InvalidInput("delegation is not issued by %s", request.Address)
	}
	if leaf.Delegate != common.HexToAddress(request.Signer.Data.Address) {
		return nil, apperror.InvalidInput("delegation is not granted to %s", request.Signer.Data.Address)
	}

	dependencies := request.DependencyInfo
	if dependencies == nil {
		dependencies = []types.DependencyInfo{}
	}

	return &types.PermissionResponse{
		ChainID:        request.ChainID,
		Address:        request.Address,
		Signer:         request.Signer,
		Permission:     request.Permission,
		Rules:          request.Rules,
		Context:        request.Context,
		DependencyInfo: dependencies,
		SignerMeta:     *request.SignerMeta,
	}, nil
}
