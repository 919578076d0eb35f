package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostport":
		return "must be in format 'host:port'"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "server.bind_address")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their toml tag so messages match the config file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("hostport", validateHostPort); err != nil {
		panic(err)
	}
}

// validateHostPort checks that a string is a valid "host:port" pair.
func validateHostPort(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	host, port, err := net.SplitHostPort(value)
	if err != nil {
		return false
	}
	if host == "" {
		return false
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return p > 0 && p <= 65535
}

// convertValidatorErrors converts validator.ValidationErrors into our
// ValidationErrors with section-qualified field paths.
func convertValidatorErrors(err error, sectionPath string) ValidationErrors {
	var out ValidationErrors

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{FieldPath: sectionPath, Message: err.Error()}}
	}

	for _, fe := range verrs {
		out = append(out, ValidationError{
			FieldPath: sectionPath + "." + fe.Field(),
			Message:   getValidationMessage(fe),
		})
	}
	return out
}

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.Server == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "server",
			Message:   "configuration must contain 'server' section",
		})
	} else if err := validate.Struct(c.Server); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "server")...)
	}

	if c.Storage == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "storage",
			Message:   "configuration must contain 'storage' section",
		})
	} else if err := validate.Struct(c.Storage); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "storage")...)
	}

	if c.App != nil {
		if err := validate.Struct(c.App); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "app")...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}
