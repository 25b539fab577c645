package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/go-playground/validator/v10"
)

// Validator evaluates validate tags on command structs and reports failures
// as a domain ValidationError keyed by snake_case field name
type Validator struct {
	validate *validator.Validate
}

// New creates a validator. Field names come from the json tag when there is
// one, otherwise from the Go field name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return snakeCase(f.Name)
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates cmd. Nil and non-struct values are programming errors.
func (v *Validator) Struct(cmd any) error {
	err := v.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", cmd, err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return errs.NewFieldsError(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return fmt.Sprintf("is required when %s is missing", snakeCase(fe.Param()))
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be an E.164 phone number"
	case "eth_addr":
		return "must be a 0x prefixed 20 byte hex address"
	case "hexcolor":
		return "must be a hex color"
	case "alphanum":
		return "must contain only letters and digits"
	case "eqfield":
		return fmt.Sprintf("must match %s", snakeCase(fe.Param()))
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// snakeCase turns FromAccountID into from_account_id
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
