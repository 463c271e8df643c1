package services

import (
	"encoding/json"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/go-playground/validator/v10"
)

// Permission types understood by the grant flow
const (
	PermissionNativeTokenStream   = "native-token-stream"
	PermissionNativeTokenPeriodic = "native-token-periodic"
	PermissionERC20TokenStream    = "erc20-token-stream"
	PermissionERC20TokenPeriodic  = "erc20-token-periodic"

	RuleExpiry = "expiry"
)

// Amounts are hex encoded uint256 values
type nativeTokenStreamData struct {
	InitialAmount   string `json:"initialAmount,omitempty" validate:"omitempty,startswith=0x,hexadecimal"`
	MaxAmount       string `json:"maxAmount,omitempty" validate:"omitempty,startswith=0x,hexadecimal"`
	AmountPerSecond string `json:"amountPerSecond" validate:"required,startswith=0x,hexadecimal"`
	StartTime       int64  `json:"startTime" validate:"required,gt=0"`
	Justification   string `json:"justification,omitempty"`
}

type nativeTokenPeriodicData struct {
	PeriodAmount   string `json:"periodAmount" validate:"required,startswith=0x,hexadecimal"`
	PeriodDuration int64  `json:"periodDuration" validate:"required,gt=0"`
	StartTime      int64  `json:"startTime" validate:"required,gt=0"`
	Justification  string `json:"justification,omitempty"`
}

type erc20TokenStreamData struct {
	nativeTokenStreamData
	TokenAddress string `json:"tokenAddress" validate:"required,eth_addr"`
}

type erc20TokenPeriodicData struct {
	nativeTokenPeriodicData
	TokenAddress string `json:"tokenAddress" validate:"required,eth_addr"`
}

type expiryRuleData struct {
	Timestamp int64 `json:"timestamp" validate:"required,gt=0"`
}

func permissionDataFor(permissionType string) (interface{}, bool) {
	switch permissionType {
	case PermissionNativeTokenStream:
		return &nativeTokenStreamData{}, true
	case PermissionNativeTokenPeriodic:
		return &nativeTokenPeriodicData{}, true
	case PermissionERC20TokenStream:
		return &erc20TokenStreamData{}, true
	case PermissionERC20TokenPeriodic:
		return &erc20TokenPeriodicData{}, true
	}
	return nil, false
}

// validatePermissionData decodes the permission and rule payloads into their typed
// shapes and validates them
func validatePermissionData(validate *validator.Validate, permission types.Permission, rules []types.Rule) error {
	data, ok := permissionDataFor(permission.Type)
	if !ok {
		return apperror.InvalidInput("unsupported permission type %q", permission.Type)
	}
	if err := json.Unmarshal(permission.Data, data); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "malformed "+permission.Type+" data")
	}
	if err := validate.Struct(data); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "invalid "+permission.Type+" data")
	}

	for _, rule := range rules {
		if rule.Type != RuleExpiry {
			return apperror.InvalidInput("unsupported rule type %q", rule.Type)
		}
		var expiry expiryRuleData
		if err := json.Unmarshal(rule.Data, &expiry); err != nil {
			return apperror.Wrap(apperror.KindInvalidInput, err, "malformed expiry rule")
		}
		if err := validate.Struct(expiry); err != nil {
			return apperror.Wrap(apperror.KindInvalidInput, err, "invalid expiry rule")
		}
	}
	return nil
}
