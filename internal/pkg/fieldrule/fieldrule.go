package fieldrule

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Func validates the proposed value of a named field.
//
// It returns the accepted value, which may differ from the input when the
// rule normalizes (for example trims or lowercases), or an error when the
// value must be rejected. The same Func can be bound to several fields;
// the field name is passed so shared rules can produce precise messages.
type Func func(ctx context.Context, field, value string) (string, error)

// RuleError is a validation failure for a single field.
type RuleError struct {
	// Field is the record field whose value was rejected.
	Field string
	// Message is a human-readable reason suitable for API responses.
	Message string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("fieldrule: %s %s", e.Field, e.Message)
}

// Errors collects per-field validation failures from ApplyAll.
type Errors []*RuleError

// Error implements the error interface.
func (es Errors) Error() string {
	if len(es) == 0 {
		return "fieldrule: validation failed"
	}
	return es[0].Error()
}

// Fields returns the failures as a field-to-message map.
func (es Errors) Fields() map[string]string {
	m := make(map[string]string, len(es))
	for _, e := range es {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

// Set is a registry of field names bound to validation callbacks.
//
// Bind registrations compose: every callback bound to a field runs in
// registration order, each receiving the previous callback's output. A
// Set is built once during module wiring and is read-only afterwards, so
// it is safe for concurrent use by Apply and ApplyAll.
type Set struct {
	rules map[string][]Func
}

// NewSet returns an empty rule set.
func NewSet() *Set {
	return &Set{rules: make(map[string][]Func)}
}

// Bind registers fn as a validation callback for each of the given fields.
func (s *Set) Bind(fn Func, fields ...string) *Set {
	for _, f := range fields {
		s.rules[f] = append(s.rules[f], fn)
	}
	return s
}

// Apply runs the callbacks bound to field against value.
//
// The first rejection stops the chain and is returned as a *RuleError.
// A field with no bound callbacks passes unchanged.
func (s *Set) Apply(ctx context.Context, field, value string) (string, error) {
	for _, fn := range s.rules[field] {
		out, err := fn(ctx, field, value)
		if err != nil {
			var re *RuleError
			if errors.As(err, &re) {
				return "", re
			}
			return "", &RuleError{Field: field, Message: err.Error()}
		}
		value = out
	}
	return value, nil
}

// ApplyAll validates a whole record's fields in deterministic order.
//
// Fields are processed sorted by name so failures are stable. All bound
// fields are checked even after a failure; the accepted values and an
// Errors collection (nil when everything passed) are returned. When any
// field fails, callers must not persist the record.
func (s *Set) ApplyAll(ctx context.Context, values map[string]string) (map[string]string, error) {
	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make(map[string]string, len(values))
	var errs Errors
	for _, f := range fields {
		v, err := s.Apply(ctx, f, values[f])
		if err != nil {
			var re *RuleError
			if errors.As(err, &re) {
				errs = append(errs, re)
				continue
			}
			errs = append(errs, &RuleError{Field: f, Message: err.Error()})
			continue
		}
		out[f] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
