// Package validation holds the input checks applied before anything is
// persisted. All functions are pure.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "medtracker/internal/errors"
)

// DefaultMaxLen is the column width of medicine text fields.
const DefaultMaxLen = 100

// ValidateField trims value and checks it is non-empty and at most maxLen
// characters long. It returns the trimmed value.
func ValidateField(value, fieldName string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s is too long (max %d characters)", fieldName, maxLen))
	}
	return trimmed, nil
}

// MedicineFields is a validated, trimmed medicine payload.
type MedicineFields struct {
	Name      string
	Dosage    string
	Frequency string
}

// Medicine validates name, dosage and frequency together. Every failing field
// is reported in the returned FieldErrors, keyed by its JSON name.
func Medicine(name, dosage, frequency string) (MedicineFields, error) {
	var out MedicineFields
	errs := apperrors.FieldErrors{}

	fields := []struct {
		key   string
		label string
		value string
		dst   *string
	}{
		{"name", "Medicine name", name, &out.Name},
		{"dosage", "Dosage", dosage, &out.Dosage},
		{"frequency", "Frequency", frequency, &out.Frequency},
	}
	for _, f := range fields {
		v, err := ValidateField(f.value, f.label, DefaultMaxLen)
		if err != nil {
			errs[f.key] = err.Error()
			continue
		}
		*f.dst = v
	}

	if len(errs) > 0 {
		return MedicineFields{}, errs
	}
	return out, nil
}
