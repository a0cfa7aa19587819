package template

import (
	"io"
)

// TemplateRenderer is the rendering half of the engine seam: it executes a
// named template (or an inline template string) against a data context.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}

// Engine is what the render pipeline needs from a templating collaborator:
// the ordered list of template files under one root plus the ability to
// render each of them.
type Engine interface {
	TemplateRenderer

	// Files enumerates every template file below the engine root as slash
	// separated names relative to that root, in a stable order.
	Files() ([]string, error)
}
