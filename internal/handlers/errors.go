package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/gateway"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

const gatewayRetryAfter = "30"

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrAlreadyProcessed):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyFinalized),
		errors.Is(err, apperrors.ErrIllegalTransition),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrLockNotObtained):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for a failed service call.
// Client errors carry their reason, gateway and server failures never leak their cause.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	status := statusForError(err)
	switch {
	case status == http.StatusBadGateway:
		logger.Error(failureMsg, slog.String("error", err.Error()), slog.Bool("retryable", gateway.IsRetryable(err)))
		if gateway.IsRetryable(err) {
			c.Header("Retry-After", gatewayRetryAfter)
		}
		c.JSON(status, gin.H{"error": "Payment gateway unavailable, try again later"})
	case status >= http.StatusInternalServerError:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
	default:
		logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// identity returns the tenant and actor bound by AuthMiddleware, aborting with 401 when absent.
func identity(c *gin.Context, logger *slog.Logger) (tenantID, actorID string, ok bool) {
	tenantID, tenantOK := middleware.GetTenantIDFromContext(c)
	actorID, actorOK := middleware.GetActorIDFromContext(c)
	if !tenantOK || !actorOK {
		logger.Error("Tenant or actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return tenantID, actorID, true
}
