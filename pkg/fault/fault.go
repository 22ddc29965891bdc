// Package fault defines the error taxonomy shared by the
// neurosim stores, scheduler, and transport layers.
package fault

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound indicates an unknown model, job, or result.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an illegal state transition, a
	// duplicate write, or a delete of an in-use model.
	ErrConflict = errors.New("conflict")

	// ErrInvalidArtifact indicates a model artifact that failed
	// structural checks.
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrUnsupportedStimulus indicates an unrecognized stimulus
	// protocol kind.
	ErrUnsupportedStimulus = errors.New("unsupported stimulus")

	// ErrEngineFailure indicates the simulation engine raised an
	// error or produced unusable output.
	ErrEngineFailure = errors.New("engine failure")

	// ErrTimeout indicates execution exceeded its configured bound.
	ErrTimeout = errors.New("execution timeout")
)

// FieldError is a single violated request field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violated field of a simulation
// request, in deterministic order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violated field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Empty reports whether any field was violated.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// NotFound wraps ErrNotFound with the missing entity.
func NotFound(kind, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", kind, id)
}

// Conflict wraps ErrConflict with a description of the collision.
func Conflict(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConflict, format, args...)
}
