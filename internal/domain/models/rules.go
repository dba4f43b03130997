package models

import (
	"errors"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NotBlank rejects strings that are empty after trimming whitespace.
// validation.Required alone accepts "   ".
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// TrimAll trims surrounding whitespace from every given string in place
func TrimAll(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// IsNil reports whether v is nil or a nil pointer held in an interface
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
