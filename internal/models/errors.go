package models

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error codes used by handlers to map application errors to HTTP statuses.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeRateLimited = "RATE_LIMITED"
	CodeNotFound    = "NOT_FOUND"
	CodeUpstream    = "UPSTREAM_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	ResetAt string `json:"reset_at,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	ResetAt time.Time
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports client input that failed a validation rule.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewNotFoundError reports an absent entity.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewNotOwnedError reports an entity that is absent or not owned by the
// requesting identity. Ownership failures are deliberately indistinguishable
// from missing rows.
func NewNotOwnedError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found or you don't have permission to delete it", resource),
	}
}

// NewRateLimitedError reports a sliding-window rejection. ResetAt is the
// instant the earliest tracked request ages out of the window.
func NewRateLimitedError(message string, resetAt time.Time) *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: message,
		ResetAt: resetAt,
	}
}

// NewUpstreamError wraps a collaborator failure (generation API, storage,
// database). The wrapped detail is logged server-side, never sent to clients.
func NewUpstreamError(op string, err error) *AppError {
	return &AppError{
		Code:    CodeUpstream,
		Message: "Failed to " + op,
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Code == CodeRateLimited {
			response.Error = "Rate limit exceeded"
			response.Message = appErr.Message
		}
		if !appErr.ResetAt.IsZero() {
			response.ResetAt = appErr.ResetAt.UTC().Format(time.RFC3339)
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
