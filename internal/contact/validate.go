package contact

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/contactkit/contactd/internal/errors"
)

// emailRegexp is the accepted email shape: no whitespace, a single '@',
// at least one '.' in the domain part.
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("contact_email", validateContactEmail); err != nil {
		panic(err)
	}
}

// validateContactEmail accepts an absent email (empty after trimming) or one
// matching the email shape regexp.
func validateContactEmail(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return emailRegexp.MatchString(value)
}

// Validate checks a candidate contact against field-level rules: name is
// required and email, when present, must have a valid shape. The isCreate
// flag differentiates create from update; both paths currently enforce the
// same field set. Email uniqueness is a collection-level concern checked by
// the caller via EmailInUse, not here.
func Validate(c Contact, isCreate bool) error {
	_ = isCreate

	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.NewInternalError("contact validation failed", err)
		}
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				return apperrors.NewValidationError("name is required")
			case "contact_email":
				return apperrors.NewValidationError("email format is invalid")
			}
		}
		return apperrors.NewValidationError("contact is invalid")
	}

	return nil
}
