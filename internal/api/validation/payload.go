package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobportal/pkg/models"
)

// ValidateAudience accepts only the known resource personas
func ValidateAudience(fl validator.FieldLevel) bool {
	return models.Audience(fl.Field().String()).Valid()
}

// ValidateNotBlank rejects strings made only of whitespace
func ValidateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// RegisterPayloadValidators registers all proxy payload custom validators
func RegisterPayloadValidators(v *validator.Validate) {
	v.RegisterValidation("audience", ValidateAudience)
	v.RegisterValidation("notblank", ValidateNotBlank)
}

// New returns a validator with the payload validators registered
func New() *validator.Validate {
	v := validator.New()
	RegisterPayloadValidators(v)
	return v
}

// Describe renders validator errors as a single client-facing line
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "audience":
			parts = append(parts, fmt.Sprintf("%s must be %q or %q", fe.Field(), models.AudienceJobSeeker, models.AudienceEmployer))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
