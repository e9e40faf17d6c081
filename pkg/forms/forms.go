// Package forms holds the field validation helpers shared by every form
// handler: validate the submitted values, collect per-field messages, and let
// the handler re-render the form when anything failed.
package forms

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

const dateLayout = "2006-01-02"

// FieldError describes a single rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors accumulates field errors while a form is validated.
type Errors []FieldError

func (e Errors) HasErrors() bool { return len(e) > 0 }

// For returns the message recorded for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Messages flattens the errors for templates that render a single list.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Required trims value and records an error when nothing remains. Returns the
// trimmed value either way so callers persist canonical input.
func (e *Errors) Required(field, value, message string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		e.Add(field, message)
	}
	return trimmed
}

// MaxLength records an error when value exceeds max characters.
func (e *Errors) MaxLength(field, value string, max int, message string) {
	if !govalidator.IsByteLength(value, 0, max) {
		e.Add(field, message)
	}
}

// MinLength records an error when the trimmed value is shorter than min.
func (e *Errors) MinLength(field, value string, min int, message string) string {
	trimmed := strings.TrimSpace(value)
	if !govalidator.IsByteLength(trimmed, min, 1<<16) {
		e.Add(field, message)
	}
	return trimmed
}

// OptionalDate parses an optional ISO-8601 date. Empty input is accepted and
// returns nil; malformed input records an error.
func (e *Errors) OptionalDate(field, value, message string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if !govalidator.IsTime(trimmed, dateLayout) {
		e.Add(field, message)
		return nil
	}
	t, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		e.Add(field, message)
		return nil
	}
	return &t
}

// OneOf records an error unless value is one of allowed.
func (e *Errors) OneOf(field, value string, allowed []string, message string) {
	if !govalidator.IsIn(value, allowed...) {
		e.Add(field, message)
	}
}

// OptionalISBN accepts an empty value or a valid ISBN-10/13.
func (e *Errors) OptionalISBN(field, value, message string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !govalidator.IsISBN(trimmed, 0) {
		e.Add(field, message)
	}
	return trimmed
}
