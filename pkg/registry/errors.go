package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFocus is returned by focus-scoped operations when no document is
	// focused.
	ErrNoFocus = errors.New("registry: no document focused")

	// ErrEmptyName is returned when a document is registered without a name.
	ErrEmptyName = errors.New("registry: document name required")
)

// UnregisteredDocumentError reports an operation addressed to a document
// the registry does not know.
type UnregisteredDocumentError struct {
	Name string
}

func (e *UnregisteredDocumentError) Error() string {
	return fmt.Sprintf("registry: document %q is not registered", e.Name)
}

// IsUnregistered reports whether err is an UnregisteredDocumentError.
func IsUnregistered(err error) bool {
	var target *UnregisteredDocumentError
	return errors.As(err, &target)
}
