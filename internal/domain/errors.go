package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Source for identities it does not know.
var ErrNotFound = errors.New("type not found")

// UnsupportedTypeError a type cannot be structurally represented.
// Recovered by the translator with a permissive fallback schema.
type UnsupportedTypeError struct {
	ID     Identity
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s: %s", e.ID, e.Reason)
}

// DuplicateDefinitionError two structurally different fragments were
// registered under one name. Always fatal.
type DuplicateDefinitionError struct {
	Name string
	// ID identity the name was resolved for
	ID Identity
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition %q for %s: a different schema is already registered", e.Name, e.ID)
}

// MalformedCommentWarning documentation text did not match tag syntax.
// The offending line is kept verbatim in the description.
type MalformedCommentWarning struct {
	Line   string
	Reason string
}

func (w *MalformedCommentWarning) Error() string {
	return fmt.Sprintf("malformed comment %q: %s", w.Line, w.Reason)
}

// IsUnsupported reports whether err is or wraps an *UnsupportedTypeError.
func IsUnsupported(err error) (*UnsupportedTypeError, bool) {
	var target *UnsupportedTypeError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
