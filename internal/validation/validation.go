// Package validation checks request structs and turns failures into
// human readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
)

// Validator wraps a configured validator.Validate. Safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

// Struct validates s. Field failures come back as *domain.ValidationError,
// one message per failing field in declaration order.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return &domain.ValidationError{Messages: msgs}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " attribute is required"
	case "notblank":
		return field + " attribute should not be empty"
	case "len":
		return fmt.Sprintf("%s attribute should be %s characters long", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s attribute should be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s attribute should be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s attribute should be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s attribute is invalid", field)
	}
}
