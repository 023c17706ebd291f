package models

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance builds the shared validator on first use
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report json field names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		// A zero Date or an invalid NullDecimal counts as absent for "required"
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(types.Date); ok && !d.IsZero() {
				return d.Time()
			}
			return nil
		}, types.Date{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.NullDecimal); ok && d.Valid {
				return d.Decimal.String()
			}
			return nil
		}, decimal.NullDecimal{})

		validate = v
	})
	return validate
}

// validateStruct runs the struct tags of s and converts the first failure into a validation error
func validateStruct(entity string, s interface{}) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return types.NewValidationError("%s: %s", entity, describe(fe))
	}
	return types.NewValidationError("%s: %v", entity, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

func validationRequired(entity, field string) error {
	return types.NewValidationError("%s: %s is required", entity, field)
}
