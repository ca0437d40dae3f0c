// Package validate wraps a single shared go-playground validator.
//
// validator.Validate caches struct metadata and is safe for concurrent
// use, so one instance serves every request. Field names in the returned
// errors are the json tag names ("name", "birth_date") so messages match
// what the client actually sent.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return v
}

// Struct checks every validate:"..." tag on v. It returns nil or a
// validator.ValidationErrors.
func Struct(v any) error {
	return instance.Struct(v)
}
