package handlers

import (
	"net/http"
	"strconv"

	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/gin-gonic/gin"
)

// PermissionsHandler serves granted permissions
type PermissionsHandler struct {
	store       interfaces.PermissionStore
	grants      interfaces.GrantService
	revocations interfaces.RevocationService
}

// GrantRequest is the body of a grant call
type GrantRequest struct {
	SiteOrigin  string                    `json:"siteOrigin" binding:"required"`
	Permissions []types.PermissionRequest `json:"permissions" binding:"required,min=1"`
}

// NewPermissionsHandler creates a handler with interface dependencies
func NewPermissionsHandler(store interfaces.PermissionStore, grants interfaces.GrantService, revocations interfaces.RevocationService) *PermissionsHandler {
	return &PermissionsHandler{
		store:       store,
		grants:      grants,
		revocations: revocations,
	}
}

// ListPermissions lists granted permissions, optionally filtered by
// siteOrigin, chainId, type and revoked
func (h *PermissionsHandler) ListPermissions(c *gin.Context) {
	filter := types.PermissionFilter{
		SiteOrigin:     c.Query("siteOrigin"),
		ChainID:        c.Query("chainId"),
		PermissionType: c.Query("type"),
	}
	if revokedStr := c.Query("revoked"); revokedStr != "" {
		revoked, err := strconv.ParseBool(revokedStr)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid revoked filter", err)
			return
		}
		filter.Revoked = &revoked
	}

	permissions, err := h.store.GetAll(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err, "Failed to list permissions")
		return
	}
	sendList(c, permissions)
}

// GetPermission returns the permission stored for a context
func (h *PermissionsHandler) GetPermission(c *gin.Context) {
	permission, err := h.store.Get(c.Request.Context(), c.Param("context"))
	if err != nil {
		handleServiceError(c, err, "Failed to read permission")
		return
	}
	if permission == nil {
		sendError(c, http.StatusNotFound, "Permission not found", nil)
		return
	}
	sendSuccess(c, http.StatusOK, permission)
}

// GrantPermissions grants and stores a batch of presigned permission requests
func (h *PermissionsHandler) GrantPermissions(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	responses, err := h.grants.GrantPermissions(c.Request.Context(), req.SiteOrigin, req.Permissions)
	if err != nil {
		handleServiceError(c, err, "Failed to grant permissions")
		return
	}
	sendSuccess(c, http.StatusCreated, gin.H{
		"object": "list",
		"data":   responses,
	})
}

// RevokePermission records a revocation once the chain confirms it
func (h *PermissionsHandler) RevokePermission(c *gin.Context) {
	var params types.RevocationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.revocations.SubmitRevocation(c.Request.Context(), params); err != nil {
		handleServiceError(c, err, "Failed to revoke permission")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Permission revoked")
}
