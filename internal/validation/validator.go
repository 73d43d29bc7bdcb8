// Package validation wraps go-playground/validator with the tags used by
// enquiry payloads.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/enquiry-console/internal/domain"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

var phoneChars = regexp.MustCompile(`^\+?[0-9 ()\-.]{7,24}$`)

// Validator validates request structs.
type Validator struct {
	v *validator.Validate
}

// New builds a validator with the custom tags registered.
func New() *Validator {
	v := validator.New()

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		value = strings.TrimSpace(value)
		return phoneChars.MatchString(value) && len(domain.NormalizePhone(value)) >= 7
	})

	v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return domain.SourceKind(value).Valid()
	})

	return &Validator{v: v}
}

// Struct validates s and returns a VALIDATION_FAILED domain error listing
// the offending fields.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid request", details)
}
