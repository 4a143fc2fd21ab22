package session

import (
	"regexp"

	"github.com/bastiongames/bastion/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRegistration checks registration input against the account rules
// and returns every violation found. It is pure and touches no storage.
func ValidateRegistration(params RegisterParams) []model.FieldViolation {
	var violations []model.FieldViolation

	switch {
	case params.Username == "":
		violations = append(violations, model.FieldViolation{Field: "username", Message: "is required"})
	case len(params.Username) < 3 || len(params.Username) > 50:
		violations = append(violations, model.FieldViolation{Field: "username", Message: "must be between 3 and 50 characters"})
	}

	switch {
	case params.Email == "":
		violations = append(violations, model.FieldViolation{Field: "email", Message: "is required"})
	case len(params.Email) > 100:
		violations = append(violations, model.FieldViolation{Field: "email", Message: "must be at most 100 characters"})
	case !emailPattern.MatchString(params.Email):
		violations = append(violations, model.FieldViolation{Field: "email", Message: "must be a valid email address"})
	}

	switch {
	case params.Password == "":
		violations = append(violations, model.FieldViolation{Field: "password", Message: "is required"})
	case len(params.Password) < 6 || len(params.Password) > 100:
		violations = append(violations, model.FieldViolation{Field: "password", Message: "must be between 6 and 100 characters"})
	}

	if params.Password != "" && params.Password != params.ConfirmPassword {
		violations = append(violations, model.FieldViolation{Field: "confirmPassword", Message: "does not match password"})
	}

	return violations
}

// ValidateLogin checks login input for required fields
func ValidateLogin(params LoginParams) []model.FieldViolation {
	var violations []model.FieldViolation
	if params.Identifier == "" {
		violations = append(violations, model.FieldViolation{Field: "identifier", Message: "is required"})
	}
	if params.Password == "" {
		violations = append(violations, model.FieldViolation{Field: "password", Message: "is required"})
	}
	return violations
}
