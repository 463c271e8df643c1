package types

import (
	"encoding/json"
	"strings"
)

// Permission is the capability a site asked for, e.g. a native token stream
type Permission struct {
	Type                string          `json:"type" validate:"required"`
	IsAdjustmentAllowed bool            `json:"isAdjustmentAllowed"`
	Data                json.RawMessage `json:"data" validate:"required"`
}

// Rule further constrains a permission, e.g. an expiry
type Rule struct {
	Type                string          `json:"type" validate:"required"`
	IsAdjustmentAllowed bool            `json:"isAdjustmentAllowed"`
	Data                json.RawMessage `json:"data" validate:"required"`
}

// SignerData identifies the account that will redeem the permission
type SignerData struct {
	Address string `json:"address" validate:"required,eth_addr"`
}

// Signer describes who receives the permission
type Signer struct {
	Type string     `json:"type" validate:"required"`
	Data SignerData `json:"data"`
}

// SignerMeta carries the contracts needed to redeem or revoke the permission
type SignerMeta struct {
	DelegationManager string `json:"delegationManager,omitempty" validate:"omitempty,eth_addr"`
	UserOpBuilder     string `json:"userOpBuilder,omitempty" validate:"omitempty,eth_addr"`
}

// DependencyInfo describes a contract that must be deployed before redemption
type DependencyInfo struct {
	Factory     string `json:"factory" validate:"required,eth_addr"`
	FactoryData string `json:"factoryData" validate:"required,startswith=0x,hexadecimal"`
}

// PermissionRequest is a single permission a site asks to be granted.
// Context, SignerMeta and DependencyInfo are only present for requests signed upstream.
type PermissionRequest struct {
	ChainID        string           `json:"chainId" validate:"required,startswith=0x,hexadecimal"`
	Address        string           `json:"address,omitempty" validate:"omitempty,eth_addr"`
	Signer         *Signer          `json:"signer,omitempty" validate:"omitempty"`
	Permission     Permission       `json:"permission" validate:"required"`
	Rules          []Rule           `json:"rules,omitempty" validate:"omitempty,dive"`
	Context        string           `json:"context,omitempty" validate:"omitempty,startswith=0x,hexadecimal"`
	SignerMeta     *SignerMeta      `json:"signerMeta,omitempty" validate:"omitempty"`
	DependencyInfo []DependencyInfo `json:"dependencyInfo,omitempty" validate:"omitempty,dive"`
}

// PermissionResponse is a granted permission together with its encoded delegation context
type PermissionResponse struct {
	ChainID        string           `json:"chainId" validate:"required,startswith=0x,hexadecimal"`
	Address        string           `json:"address,omitempty" validate:"omitempty,eth_addr"`
	Signer         *Signer          `json:"signer,omitempty" validate:"omitempty"`
	Permission     Permission       `json:"permission" validate:"required"`
	Rules          []Rule           `json:"rules,omitempty" validate:"omitempty,dive"`
	Context        string           `json:"context" validate:"required,startswith=0x,hexadecimal"`
	DependencyInfo []DependencyInfo `json:"dependencyInfo" validate:"dive"`
	SignerMeta     SignerMeta       `json:"signerMeta"`
}

// RevocationMetadata records when, and optionally by which transaction, a permission was revoked
type RevocationMetadata struct {
	TxHash     string `json:"txHash,omitempty" validate:"omitempty,len=66,startswith=0x,hexadecimal"`
	RecordedAt int64  `json:"recordedAt" validate:"required,gt=0"`
}

// StoredGrantedPermission is the persisted record of a granted permission.
// IsRevoked is the legacy revocation flag; it is read but never written.
type StoredGrantedPermission struct {
	PermissionResponse PermissionResponse  `json:"permissionResponse" validate:"required"`
	SiteOrigin         string              `json:"siteOrigin" validate:"required"`
	RevocationMetadata *RevocationMetadata `json:"revocationMetadata,omitempty" validate:"omitempty"`
	IsRevoked          *bool               `json:"isRevoked,omitempty"`
}

// Revoked reports whether the permission carries revocation metadata
func (p *StoredGrantedPermission) Revoked() bool {
	return p.RevocationMetadata != nil
}

// PermissionFilter narrows GetAll results. Zero values match everything.
type PermissionFilter struct {
	SiteOrigin     string
	ChainID        string
	PermissionType string
	Revoked        *bool
}

// Matches reports whether a record passes the filter
func (f PermissionFilter) Matches(p StoredGrantedPermission) bool {
	if f.SiteOrigin != "" && f.SiteOrigin != p.SiteOrigin {
		return false
	}
	if f.ChainID != "" && !strings.EqualFold(f.ChainID, p.PermissionResponse.ChainID) {
		return false
	}
	if f.PermissionType != "" && f.PermissionType != p.PermissionResponse.Permission.Type {
		return false
	}
	if f.Revoked != nil && *f.Revoked != p.Revoked() {
		return false
	}
	return true
}

// RevocationParams is a request to mark a permission revoked
type RevocationParams struct {
	PermissionContext string `json:"permissionContext" validate:"required,startswith=0x,hexadecimal"`
	TxHash            string `json:"txHash,omitempty" validate:"omitempty,len=66,startswith=0x,hexadecimal"`
}
