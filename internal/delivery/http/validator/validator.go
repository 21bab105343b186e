// Package validator plugs go-playground/validator into echo.
package validator

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Blank values are left to the use case, which reports them as missing fields.
	_ = v.RegisterValidation("blankoremail", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())

		return value == "" || v.Var(value, "email") == nil
	})

	// max counts runes, while limits such as bcrypt's apply to the encoded length.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}

		return len(fl.Field().String()) <= limit
	})

	return &Validator{validate: v}
}

// Validate validates a struct using its validate tags.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Describe renders validation failures as "field: tag" pairs.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), rootNamespace(fe))
		parts = append(parts, field+": "+describeTag(fe))
	}

	return strings.Join(parts, "; ")
}

func rootNamespace(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[:idx+1]
	}

	return ""
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "blankoremail", "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "maxbytes":
		return "must be at most " + fe.Param() + " bytes"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
