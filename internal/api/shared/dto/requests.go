package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/formlane/template-billing/internal/api/shared/constants"
	apierrors "github.com/formlane/template-billing/internal/api/shared/errors"
	"github.com/formlane/template-billing/internal/pricing"
)

// TopupRequest represents the request body for adding funds to a wallet.
// Amount is a decimal string so money never passes through a float.
type TopupRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// Validate validates the request body and returns the parsed amount
func (r *TopupRequest) Validate() (decimal.Decimal, error) {
	if r.Amount == "" {
		return decimal.Zero, apierrors.NewValidationError("amount is required")
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, apierrors.NewValidationError(fmt.Sprintf("invalid amount: %s", r.Amount))
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, apierrors.NewValidationError("amount must be greater than zero")
	}

	return amount, nil
}

// CreateTemplateRequest represents the request body for creating a template
type CreateTemplateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	PageCount   int             `json:"page_count"`
	Config      json.RawMessage `json:"config,omitempty"`
	IsDefault   bool            `json:"is_default,omitempty"`
}

// Validate validates the request body
func (r *CreateTemplateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apierrors.NewValidationError("name is required")
	}
	if len(r.Name) > constants.MAX_TEMPLATE_NAME_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("name cannot exceed %d characters", constants.MAX_TEMPLATE_NAME_LENGTH))
	}
	if len(r.Description) > constants.MAX_TEMPLATE_DESCRIPTION_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("description cannot exceed %d characters", constants.MAX_TEMPLATE_DESCRIPTION_LENGTH))
	}
	if err := pricing.ValidatePageCount(r.PageCount); err != nil {
		return apierrors.NewValidationError(err.Error())
	}

	return nil
}

// UpdateTemplateRequest represents the request body for editing a template.
// Absent fields are left unchanged.
type UpdateTemplateRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	PageCount   *int            `json:"page_count,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	IsDefault   *bool           `json:"is_default,omitempty"`
}

// Validate validates the request body
func (r *UpdateTemplateRequest) Validate() error {
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return apierrors.NewValidationError("name cannot be empty")
		}
		if len(*r.Name) > constants.MAX_TEMPLATE_NAME_LENGTH {
			return apierrors.NewValidationError(fmt.Sprintf("name cannot exceed %d characters", constants.MAX_TEMPLATE_NAME_LENGTH))
		}
	}
	if r.Description != nil && len(*r.Description) > constants.MAX_TEMPLATE_DESCRIPTION_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("description cannot exceed %d characters", constants.MAX_TEMPLATE_DESCRIPTION_LENGTH))
	}
	if r.PageCount != nil {
		if err := pricing.ValidatePageCount(*r.PageCount); err != nil {
			return apierrors.NewValidationError(err.Error())
		}
	}

	return nil
}
