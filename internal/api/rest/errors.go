package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/formlane/template-billing/internal/api/shared/errors"
	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apierrors.NewValidationError(message))
}

// respondInternalError responds with an internal server error and logs it
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// respondError maps a failure from the executor to its HTTP shape. Domain
// errors carry their own status; anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var fundsErr *domain.InsufficientFundsError
	var apiErr *apierrors.APIError

	switch {
	case errors.As(err, &validationErr):
		respondValidationError(c, validationErr.Error())

	case errors.As(err, &fundsErr):
		c.JSON(http.StatusBadRequest, apierrors.NewInsufficientFundsError(fundsErr.Error()))

	case errors.Is(err, domain.ErrTemplateInactive):
		respondBadRequest(c, "Template is not active")

	case errors.Is(err, domain.ErrWalletNotFound):
		respondNotFound(c, "Wallet not found")

	case errors.Is(err, domain.ErrTemplateNotFound):
		respondNotFound(c, "Template not found")

	case errors.Is(err, domain.ErrPriceChangeNotFound):
		respondNotFound(c, "Price change not found")

	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, apierrors.NewForbiddenError("Access denied"))

	case errors.Is(err, domain.ErrStorageConflict):
		c.JSON(http.StatusConflict, apierrors.NewConflictError("Storage conflict, try again"))

	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case apierrors.ErrCodeValidationFailed, apierrors.ErrCodeBadRequest:
			c.JSON(http.StatusBadRequest, apiErr)
		case apierrors.ErrCodeNotFound:
			c.JSON(http.StatusNotFound, apiErr)
		case apierrors.ErrCodeForbidden:
			c.JSON(http.StatusForbidden, apiErr)
		case apierrors.ErrCodeUnauthorized:
			c.JSON(http.StatusUnauthorized, apiErr)
		default:
			logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusInternalServerError, apiErr)
		}

	default:
		respondInternalError(c, err, "Internal server error")
	}
}
