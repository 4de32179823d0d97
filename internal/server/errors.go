package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/auth/password"
	"github.com/smallbiznis/gardenwatch/internal/authorization"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	profiledomain "github.com/smallbiznis/gardenwatch/internal/profile/domain"
	subscriptiondomain "github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var limitErr *subscriptiondomain.LimitExceededError
	if errors.As(err, &limitErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "limit_exceeded",
			Message: userMessage(err),
			Errors: []ValidationError{
				{
					Field:   "keyword_ids",
					Code:    "limit_exceeded",
					Message: fmt.Sprintf("at most %d keywords allowed", limitErr.Limit),
				},
			},
		}
	}

	var partial *subscriptiondomain.PartialSaveError
	if errors.As(err, &partial) {
		return http.StatusInternalServerError, errorPayload{
			Type:    "store_error",
			Message: userMessage(err),
			Errors: []ValidationError{
				{
					Field:   "keyword_ids",
					Code:    "partial_save",
					Message: fmt.Sprintf("%d keywords added, removals failed", len(partial.Added)),
				},
			},
		}
	}

	if field, code, ok := validationErrorField(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    code,
					Message: userMessage(err),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrEmailNotVerified),
		isSessionError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: userMessage(err),
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, keyworddomain.ErrDuplicateKeyword):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: userMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: userMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationErrorField maps domain validation sentinels to the offending field and code.
func validationErrorField(err error) (string, string, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "request", "invalid_request", true
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return "email", "invalid_email", true
	case errors.Is(err, authdomain.ErrWeakPassword):
		return "password", "weak_password", true
	case errors.Is(err, authdomain.ErrInvalidVerification):
		return "token", "invalid_token", true
	case errors.Is(err, profiledomain.ErrInvalidNotificationID):
		return "notification_id", profiledomain.ErrInvalidNotificationID.Error(), true
	case errors.Is(err, keyworddomain.ErrUnknownKeyword):
		return "keyword_ids", keyworddomain.ErrUnknownKeyword.Error(), true
	case errors.Is(err, keyworddomain.ErrInvalidName):
		return "keyword", keyworddomain.ErrInvalidName.Error(), true
	case errors.Is(err, keyworddomain.ErrInvalidID):
		return "id", keyworddomain.ErrInvalidID.Error(), true
	case errors.Is(err, milestonedomain.ErrInvalidThreshold):
		return "target_user_count", milestonedomain.ErrInvalidThreshold.Error(), true
	case errors.Is(err, milestonedomain.ErrInvalidLimit):
		return "max_keywords_allowed", milestonedomain.ErrInvalidLimit.Error(), true
	default:
		return "", "", false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, keyworddomain.ErrNotFound),
		errors.Is(err, milestonedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// userMessage renders err as text safe to show on the dashboard.
func userMessage(err error) string {
	var (
		limitErr *subscriptiondomain.LimitExceededError
		partial  *subscriptiondomain.PartialSaveError
	)
	switch {
	case errors.As(err, &limitErr):
		return fmt.Sprintf("You can select at most %d keywords. You selected %d.", limitErr.Limit, limitErr.Requested)
	case errors.As(err, &partial):
		return fmt.Sprintf("Your subscriptions were only partly saved: %d keywords were added, but removing the others failed. Please review your selection and save again.", len(partial.Added))
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, authdomain.ErrEmailNotVerified):
		return "Please confirm your email address before signing in."
	case errors.Is(err, authdomain.ErrUserExists):
		return "An account with this email already exists."
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, authdomain.ErrWeakPassword):
		return fmt.Sprintf("Password must be at least %d characters.", password.MinLength)
	case errors.Is(err, authdomain.ErrInvalidVerification):
		return "This confirmation link is invalid or has expired."
	case isSessionError(err), errors.Is(err, ErrUnauthorized):
		return "Your session has ended. Please sign in again."
	case errors.Is(err, profiledomain.ErrInvalidNotificationID):
		return "Notification ID must be a whole number."
	case errors.Is(err, keyworddomain.ErrUnknownKeyword):
		return "One or more selected keywords are no longer available."
	case errors.Is(err, keyworddomain.ErrDuplicateKeyword):
		return "That keyword already exists."
	case errors.Is(err, ErrTooManyRequests):
		return "Too many attempts. Please wait a moment and try again."
	case errors.Is(err, ErrInvalidRequest):
		return "The request could not be understood."
	default:
		return "Something went wrong. Please try again."
	}
}

// classifyErrorForLog returns the type and code fields attached to request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError {
		return "store_error", code
	}
	return payload.Type, code
}
