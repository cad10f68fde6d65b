package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/logger"
)

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.JSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}

// HandleAPIError maps a service error onto its HTTP status and error envelope
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		if errors.As(err, &customErr) {
			if field, ok := customErr.Details["field"].(string); ok {
				detail.WithField(field)
			}
		}
		respondError(c, http.StatusBadRequest, detail)
	case errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, err.Error()))

	case errors.Is(err, apperrors.ErrAlreadyInCart):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeAlreadyInCart, "This course is already in your cart").
				WithSeverity(dto.ErrorSeverityInfo))
	case errors.Is(err, apperrors.ErrCartEmpty):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeCartEmpty, "Your cart is empty").
				WithDetails(map[string]string{"redirect": "/cart"}))
	case errors.Is(err, apperrors.ErrCheckoutInProgress):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeCheckoutInProgress, "A checkout for this cart is already in progress").
				WithSeverity(dto.ErrorSeverityWarning))
	case errors.Is(err, apperrors.ErrPaymentDeclined):
		logger.Warn().Err(err).Str("path", c.FullPath()).Msg("Checkout failed")
		respondError(c, http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodePaymentFailed, "Payment Failed").
				WithDetails("Your card was not charged. Please try again."))
	case errors.Is(err, apperrors.ErrOrderNotRefundable):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeOrderNotRefundable, "Only completed orders can be refunded"))

	case apperrors.Is(err, apperrors.ErrCourseNotFound,
		apperrors.ErrCartItemNotFound,
		apperrors.ErrOrderNotFound,
		apperrors.ErrProfileNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, notFoundMessage(err)))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "An account with this email already exists").
				WithField("email"))
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"))
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"))
	case errors.Is(err, apperrors.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access Denied"))

	default:
		logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled error")
		respondError(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return "Course not found"
	case errors.Is(err, apperrors.ErrCartItemNotFound):
		return "Cart item not found"
	case errors.Is(err, apperrors.ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, apperrors.ErrProfileNotFound):
		return "Profile not found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "User not found"
	}
	return "Resource not found"
}

// HandleBindingError answers a request whose body or params failed to bind
func HandleBindingError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, dto.HandleValidationError(err))
}
