package model

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already registered")
	ErrAccountBanned  = errors.New("account is banned")

	// Credential errors
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Token errors
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrRefreshTokenMismatch = errors.New("refresh token does not match stored token")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	ErrPermissionDenied     = errors.New("permission denied")

	// Access errors
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleExists         = errors.New("role already exists")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrPermissionExists   = errors.New("permission already exists")

	// Statistic errors
	ErrStatisticNotFound = errors.New("player statistic not found")
	ErrProfileNotFound   = errors.New("player profile not found")

	// Match errors
	ErrSameParticipant  = errors.New("winner and loser must be different players")
	ErrWinnerNotInMatch = errors.New("declared winner is not a match participant")

	// Armory errors
	ErrTowerNotFound  = errors.New("tower not found")
	ErrTowerNameTaken = errors.New("tower name already exists")
	ErrInventoryEmpty = errors.New("inventory is empty")
)

// FieldViolation is one failed validation rule on a named input field
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input, detected before any storage
// access
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}
