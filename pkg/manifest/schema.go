package manifest

import (
	"errors"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	schemaOnce     sync.Once
	manifestSchema *openapi3.Schema
)

// documentSchema describes the accepted manifest shape. Unknown keys are
// tolerated so manifests can carry extra metadata for other tooling.
func documentSchema() *openapi3.Schema {
	schemaOnce.Do(func() {
		identifier := openapi3.NewStringSchema().WithMinLength(1).WithPattern(`\S`)

		option := openapi3.NewObjectSchema().
			WithProperty("id", identifier).
			WithProperty("name", openapi3.NewStringSchema()).
			WithProperty("default", openapi3.NewStringSchema().WithNullable()).
			WithProperty("required", openapi3.NewBoolSchema())
		option.Required = []string{"id", "name", "required"}

		doc := openapi3.NewObjectSchema().
			WithProperty("id", identifier).
			WithProperty("name", openapi3.NewStringSchema()).
			WithProperty("options", openapi3.NewArraySchema().WithItems(option))
		doc.Required = []string{"id", "name", "options"}

		manifestSchema = doc
	})
	return manifestSchema
}

// validateDocument checks a decoded, JSON-compatible manifest value.
func validateDocument(path string, value any) error {
	err := documentSchema().VisitJSON(value)
	if err == nil {
		return nil
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return &ValidationError{
			Path:    path,
			Field:   strings.Join(schemaErr.JSONPointer(), "/"),
			Message: strings.TrimSpace(schemaErr.Reason),
			Err:     err,
		}
	}
	return &ValidationError{Path: path, Message: err.Error(), Err: err}
}
