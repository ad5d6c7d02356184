package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names ("batchQuantity") instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// a zero DateTime counts as missing for `required`
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(models.DateTime)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, models.DateTime{})

	return v
}

// Struct validates v against its `validate` tags and returns a 400-class
// error listing every failed field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("%s", err.Error())
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, message(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, ", "))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of [" + strings.ReplaceAll(fe.Param(), " ", ", ") + "]"
	case "gte", "min":
		return field + " must be greater than or equal to " + fe.Param()
	case "lte", "max":
		return field + " must be less than or equal to " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}
