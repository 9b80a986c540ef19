package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Name":        "Name",
	"Age":         "Age",
	"Gender":      "Gender",
	"Location":    "Location",
	"Description": "Description",
	"Tag":         "Tag",
	"Email":       "Email",
	"Password":    "Password",
	"TargetID":    "Target profile",
	"Action":      "Action",
	"Candidates":  "Match candidates",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := FieldLabels[e.Field()]
	if label == "" {
		label = e.Field()
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(e.Param()), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// Message joins every formatted error into one line for API responses.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}
