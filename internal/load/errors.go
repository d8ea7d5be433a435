package load

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrValidation is wrapped by every *ValidationError so callers can test
// with errors.Is without depending on the concrete type.
const ErrValidation = constError("invalid project state")

// ErrInvalidMargin is returned by MarginPolicy.Validate.
const ErrInvalidMargin = constError("invalid margin policy")

// FieldIssue is one rejected field.
type FieldIssue struct {
	// Field is a dotted path such as "walls[2].area" or "room_volume".
	Field   string  `json:"field"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}

// MarshalJSON writes a NaN or infinite Value as null.
func (f FieldIssue) MarshalJSON() ([]byte, error) {
	var value *float64
	if !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0) {
		value = &f.Value
	}
	return json.Marshal(struct {
		Field   string   `json:"field"`
		Message string   `json:"message"`
		Value   *float64 `json:"value"`
	}{f.Field, f.Message, value})
}

func (f FieldIssue) String() string {
	return fmt.Sprintf("%s: %s (got %v)", f.Field, f.Message, f.Value)
}

// ValidationError lists every problem found at the calculation boundary.
// It is returned before any gain is computed.
type ValidationError struct {
	Issues []FieldIssue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields returns the field paths of all issues, in the order they were found.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Field
	}
	return out
}
