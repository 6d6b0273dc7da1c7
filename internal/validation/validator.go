package validation

import (
	"reflect"
	"strings"

	"barbearia-backend/internal/schedule"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report fields by their JSON name so error details match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := schedule.ParseDate(value)
		return err == nil
	})

	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := schedule.ParseClockToMinutes(value)
		return err == nil
	})

	v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return schedule.IsOnGrid(value)
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return strings.TrimSpace(value) != ""
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

// Var validates a single value against a tag list, e.g. a path parameter.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.v.Var(field, tag)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
