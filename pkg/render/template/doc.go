// Package template defines the templating engine seam used to render project
// files. The render pipeline only depends on the Engine interface so the
// substitution language stays pluggable; gotemplate provides the pongo2
// implementation used by the CLI.
package template
