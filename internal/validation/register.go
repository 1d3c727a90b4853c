package validation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "medtracker/internal/errors"
)

// Registration is the registration payload. Tags are checked field by field in
// declaration order; the first failure wins.
type Registration struct {
	Username        string `validate:"required,min=3,max=30"`
	Email           string `validate:"required,loose_email"`
	Password        string `validate:"required,min=6,max_bytes=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

var validate = NewValidator()

// NewValidator returns a go-playground validator with the project's custom
// rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	// The account model only requires "@" and "." to be present.
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.Contains(s, "@") && strings.Contains(s, ".")
	})
	// bcrypt rejects input longer than 72 bytes; min and max count runes.
	_ = v.RegisterValidation("max_bytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Register normalises and checks a registration payload. Username and email
// are trimmed; the password is taken as is.
func Register(username, email, password, confirmPassword string) (Registration, error) {
	r := Registration{
		Username:        strings.TrimSpace(username),
		Email:           strings.TrimSpace(email),
		Password:        password,
		ConfirmPassword: confirmPassword,
	}

	err := validate.Struct(r)
	if err == nil {
		return r, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Registration{}, err
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return Registration{}, apperrors.NewValidationError("all fields are required (username, email, password)")
		}
	}
	return Registration{}, apperrors.NewValidationError(registrationMessage(fieldErrs[0]))
}

func registrationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Username":
		if fe.Tag() == "min" {
			return "username must be at least 3 characters"
		}
		return "username cannot exceed 30 characters"
	case "Email":
		return "invalid email format"
	case "Password":
		if fe.Tag() == "max_bytes" {
			return "password cannot exceed " + fe.Param() + " bytes"
		}
		return "password must be at least 6 characters"
	case "ConfirmPassword":
		return "passwords do not match"
	default:
		return "invalid " + strings.ToLower(fe.Field())
	}
}
