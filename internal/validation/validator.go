// Package validation plugs go-playground/validator into Echo with the
// marketplace's custom rules.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New registers the custom rules:
//
//	date   YYYY-MM-DD
//	clock  HH:MM (24h)
//	phone  optional leading +, 7 to 15 digits
//
// Empty strings pass the custom rules; combine with required where needed.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("date", layoutRule("2006-01-02"))
	_ = v.RegisterValidation("clock", layoutRule("15:04"))
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return value == "" || phoneRegex.MatchString(value)
	})
	return &Validator{v: v}
}

func layoutRule(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		if value == "" {
			return true
		}
		_, err := time.Parse(layout, value)
		return err == nil
	}
}

// Validate satisfies echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Details maps each failing field to the rule it broke.  It returns nil for
// errors that did not come from the validator.
func Details(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// Message renders err as "invalid field(s): a (required), b (date)".
func Message(err error) string {
	details := Details(err)
	if len(details) == 0 {
		return "invalid request"
	}
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" ("+details[f]+")")
	}
	return "invalid field(s): " + strings.Join(parts, ", ")
}
