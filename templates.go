package wand

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var builtinTemplates embed.FS

// BuiltinLabel is the RootPath prefix reported for bundled templates.
const BuiltinLabel = "builtin"

// BuiltinTemplates exposes the templates bundled with the binary, one
// directory per template, so a session works without a templates checkout.
func BuiltinTemplates() fs.FS {
	sub, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return builtinTemplates
	}
	return sub
}
