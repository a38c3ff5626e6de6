// Package validation turns go-playground/validator failures into field-keyed
// message maps that a form can render next to each input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a json field name to its messages.
type FieldErrors map[string][]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], ", "))
	}
	return strings.Join(parts, "; ")
}

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Error is a rejected write payload: a user-facing message plus per-field errors.
type Error struct {
	Message string
	Fields  FieldErrors
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + " (" + e.Fields.Error() + ")"
}

// Wrap attaches a user-facing message to field errors returned by Struct.
// Errors of any other kind are returned unchanged.
func Wrap(err error, message string) error {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return &Error{Message: message, Fields: fields}
	}
	return err
}

// As extracts a validation Error from err.
func As(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) && vErr != nil {
		return vErr, true
	}
	return nil, false
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("posdecimal", positiveDecimal)
		validate = v
	})
	return validate
}

// Struct validates v and returns FieldErrors on failure. Messages come from the
// "msg" struct tag when present, otherwise from the failed rule.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := FieldErrors{}
	for _, fe := range ve {
		fields.Add(fe.Field(), fieldMessage(v, fe))
	}
	return fields
}

func positiveDecimal(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	return d.IsPositive()
}

func fieldMessage(v any, fe validator.FieldError) string {
	if msg := customMessage(v, fe.StructField()); msg != "" {
		return msg
	}

	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "posdecimal":
		return field + " must be a number greater than 0"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func customMessage(v any, structField string) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return ""
	}
	return f.Tag.Get("msg")
}
