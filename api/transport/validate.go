package transport

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/fastygo/taskflow/domain"
)

// dueDateLayouts are tried in order; the first that parses wins.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "passwordbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= domain.MaxPasswordBytes
	})
	mustRegister(v, "duedate", func(fl validator.FieldLevel) bool {
		_, ok := parseDueDate(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateStruct runs the tag rules of s and converts failures into a
// validation error carrying one entry per rejected field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}

	fields := make([]domain.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fieldError(fe))
	}
	return domain.NewValidationError(fields...)
}

func fieldError(fe validator.FieldError) domain.FieldError {
	field := fe.Field()
	message := field + " is invalid"

	switch field {
	case "email":
		message = "Please provide a valid email address"
	case "password":
		switch fe.Tag() {
		case "required":
			message = "Password is required"
		case "min":
			message = "Password must be at least " + fe.Param() + " characters long"
		case "passwordbytes":
			message = "Password must be at most 72 bytes long"
		}
	case "title":
		if fe.Tag() == "required" {
			message = "Task title is required"
		} else {
			message = "Task title cannot be empty"
		}
	case "status":
		message = "Status must be one of: " + enumList(fe.Param())
	case "priority":
		message = "Priority must be one of: " + enumList(fe.Param())
	case "dueDate":
		message = "Due date must be a valid date"
	case "page":
		message = "Page must be a positive integer"
	case "limit":
		message = "Limit must be a positive integer"
	}
	return domain.FieldError{Field: field, Message: message}
}

// enumList renders a oneof parameter as a comma separated list.
func enumList(param string) string {
	return strings.Join(strings.Fields(param), ", ")
}

func parseDueDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
