package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Input holds raw declaration values keyed by field. A field absent from the
// map is a contract violation; an empty value is accepted.
type Input map[Field]string

// Vector is the normalized feature vector in fixed field order.
type Vector [Count]string

// Get returns the value at field f.
func (v Vector) Get(f Field) string {
	return v[f]
}

// Map returns the vector keyed by wire name.
func (v Vector) Map() map[string]string {
	m := make(map[string]string, Count)
	for _, f := range Fields() {
		m[f.String()] = v[f]
	}
	return m
}

// Normalize trims surrounding whitespace and upper-cases raw.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Encode normalizes every field of in and arranges the values in vector order.
// Values are never checked against known metadata; the only failure is a missing field.
func Encode(in Input) (Vector, error) {
	var v Vector
	for _, f := range Fields() {
		raw, ok := in[f]
		if !ok {
			return Vector{}, &MissingFieldError{Field: f}
		}
		v[f] = Normalize(raw)
	}
	return v, nil
}

// DecodeInput reads a JSON object of wire-named string fields.
// Keys match case-insensitively, null decodes to the empty string, and
// unrecognized keys are ignored. When a field appears under several spellings the
// exact wire name wins; case variants without an exact match are rejected.
// Presence of all seven fields is checked by Encode.
func DecodeInput(r io.Reader) (Input, error) {
	var body map[string]*string
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, typeErr.Field)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}

	in := make(Input, Count)
	exact := make(map[Field]bool, Count)
	for key, value := range body {
		f, ok := Lookup(key)
		if !ok {
			continue
		}

		isExact := key == f.String()
		if _, seen := in[f]; seen {
			switch {
			case exact[f]:
				continue
			case !isExact:
				return nil, fmt.Errorf("%w: %s given more than once", ErrInvalidBody, f)
			}
		}

		exact[f] = isExact
		in[f] = deref(value)
	}
	return in, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
