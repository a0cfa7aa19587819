package manifest

import (
	"errors"
	"fmt"
)

// ErrManifestNotFound is returned when a template directory holds none of the
// supported manifest files.
var ErrManifestNotFound = errors.New("manifest: config file not found")

// ValidationError reports a manifest that does not match the expected shape.
// Field is a slash separated pointer into the document (for example
// `options/1/required`); it is empty for document-level failures.
type ValidationError struct {
	Path    string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("manifest: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("manifest: %s: field %q: %s", e.Path, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
