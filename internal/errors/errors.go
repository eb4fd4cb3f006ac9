package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is the parent of every input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", ErrValidation)
	// ErrInvalidID is returned when a post id is not a positive integer.
	ErrInvalidID = fmt.Errorf("%w: invalid post ID format", ErrValidation)
	// ErrInvalidTravelType is returned when travelType is outside the known set.
	ErrInvalidTravelType = fmt.Errorf("%w: invalid travel type", ErrValidation)
	// ErrInvalidFileType is returned when an upload is not an image.
	ErrInvalidFileType = fmt.Errorf("%w: only image files are allowed", ErrValidation)
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)

	// ErrUnauthenticated is returned when no valid session is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned when the session role is insufficient.
	ErrForbidden = errors.New("admin access required")

	// ErrNotFound is the parent of every missing-record error.
	ErrNotFound = errors.New("not found")
	// ErrPostNotFound is returned when no post matches the id.
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	// ErrUserNotFound is returned when no user matches the email.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already exists")

	// ErrStorageNotConfigured is returned when object storage credentials are missing.
	ErrStorageNotConfigured = errors.New("image storage is not configured")
	// ErrUploadFailed is returned when the storage provider rejects or fails an upload.
	ErrUploadFailed = errors.New("failed to upload image")
)

// ValidationError reports which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognised is a dependency failure and its message is suppressed.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return NewHTTPError(http.StatusBadRequest, verr.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidID):
		return NewHTTPError(http.StatusBadRequest, "invalid post ID format", "INVALID_ID")
	case errors.Is(err, ErrInvalidTravelType):
		return NewHTTPError(http.StatusBadRequest, "invalid travel type", "INVALID_TRAVEL_TYPE")
	case errors.Is(err, ErrInvalidFileType):
		return NewHTTPError(http.StatusBadRequest, "only image files are allowed", "INVALID_FILE_TYPE")
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusBadRequest, "file size must be 5MB or less", "FILE_TOO_LARGE")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, "post not found", "POST_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "record not found", "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrStorageNotConfigured):
		return NewHTTPError(http.StatusInternalServerError, ErrStorageNotConfigured.Error(), "STORAGE_NOT_CONFIGURED")
	case errors.Is(err, ErrUploadFailed):
		return NewHTTPError(http.StatusInternalServerError, ErrUploadFailed.Error(), "UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
