package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var validate = newValidator()

// Struct validates s against its `validate` tags. Failures are returned as
// validator.ValidationErrors named by the JSON field.
func Struct(s any) error {
	return validate.Struct(s)
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return v
}
