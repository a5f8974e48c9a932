package contact

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names as posted by the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// FieldNames lists every form field in display order.
var FieldNames = []string{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ErrUnknownField is returned when a field name is not part of the form.
var ErrUnknownField = errors.New("contact: unknown field")

// Fields holds the four values of the contact form.
type Fields struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,webemail"`
	Subject string `validate:"required"`
	Message string `validate:"required"`
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (string, error) {
	switch name {
	case FieldName:
		return f.Name, nil
	case FieldEmail:
		return f.Email, nil
	case FieldSubject:
		return f.Subject, nil
	case FieldMessage:
		return f.Message, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (f *Fields) set(name, value string) error {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// ValidationError maps invalid field names to a short reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+": "+e.Fields[n])
	}
	return "contact: invalid fields (" + strings.Join(parts, ", ") + ")"
}

// webEmailPattern is the "valid e-mail address" production of the HTML
// living standard, the rule an <input type=email> enforces. Single-label
// domains such as "localhost" are accepted.
var webEmailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
	"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
	"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("webemail", func(fl validator.FieldLevel) bool {
		return webEmailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate applies the same rules a browser applies to required inputs and
// an email input. It returns a *ValidationError or nil.
func Validate(f Fields) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out.Fields[name] = "required"
		case "webemail":
			out.Fields[name] = "must be a valid email address"
		default:
			out.Fields[name] = fe.Tag()
		}
	}
	return out
}
