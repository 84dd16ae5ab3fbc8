// Package validation runs go-playground struct validation and reports failures as apperr values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"planning_backend/internal/platform/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// decimals are compared as numbers by gte/lte
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("intdigits", intDigits)
	return v
}

// intDigits checks that a decimal, rounded to two places as a decimal(p,2) column stores it,
// has at most param integer digits. The original value is read from the parent struct
// because the registered type func hands validators a float64.
func intDigits(fl validator.FieldLevel) bool {
	digits, err := strconv.Atoi(fl.Param())
	if err != nil || digits < 0 {
		return false
	}
	field := fl.Parent().FieldByName(fl.StructFieldName())
	if !field.IsValid() {
		return false
	}
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Round(2).Abs().LessThan(decimal.New(1, int32(digits)))
}

// Struct validates s and returns an apperr validation error with per-field details.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return format(err)
	}
	return nil
}

func format(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fe := range errs {
			details[fe.Field()] = message(fe)
		}
		return apperr.New(apperr.CodeValidation, "validation failed").WithDetails(details)
	}
	return apperr.Wrap(apperr.CodeValidation, err, "validation failed")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "intdigits":
		return fmt.Sprintf("must have at most %s integer digits", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must not be before %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
