package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bastiongames/bastion/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []model.FieldViolation `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountBanned       = "ACCOUNT_BANNED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeRefreshTokenExpired = "REFRESH_TOKEN_EXPIRED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoleNotFound        = "ROLE_NOT_FOUND"
	CodeTowerNotFound       = "TOWER_NOT_FOUND"
	CodeTowerExists         = "TOWER_EXISTS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Unrecognized errors map to
// a generic internal error so internal detail never reaches the caller.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid request", verr.Violations}}
	}

	switch {
	// Conflicts
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already taken"}}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeEmailExists, Message: "Email already registered"}}
	case errors.Is(err, model.ErrTowerNameTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeTowerExists, Message: "Tower name already exists"}}

	// Authentication failures
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, model.ErrAccountBanned):
		// The wrapped message carries the ban reason
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeAccountBanned, Message: err.Error()}}
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidToken, Message: "Invalid or malformed token"}}
	case errors.Is(err, model.ErrInvalidRefreshToken):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidRefreshToken, Message: "Invalid refresh token"}}
	case errors.Is(err, model.ErrRefreshTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeRefreshTokenExpired, Message: "Refresh token expired"}}
	case errors.Is(err, model.ErrRefreshTokenRequired):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Refresh token is required"}}
	case errors.Is(err, model.ErrPermissionDenied):
		return &httpError{http.StatusForbidden, APIError{Code: CodePermissionDenied, Message: "Permission denied"}}

	// Missing entities
	case errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrStatisticNotFound),
		errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrRoleNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeRoleNotFound, Message: "Role not found"}}
	case errors.Is(err, model.ErrTowerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeTowerNotFound, Message: "Tower not found"}}

	// Malformed match reports
	case errors.Is(err, model.ErrSameParticipant),
		errors.Is(err, model.ErrWinnerNotInMatch):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
