package manifest

import "io/fs"

// Option describes one configurable value a template declares.
type Option struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool    `json:"required" yaml:"required"`
}

// DefaultValue returns the declared default or the empty string.
func (o Option) DefaultValue() string {
	if o.Default == nil {
		return ""
	}
	return *o.Default
}

// HasDefault reports whether the option declares a default.
func (o Option) HasDefault() bool {
	return o.Default != nil
}

// Label returns the display name, falling back to the id.
func (o Option) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

// Template is a discovered template: identity, options and the file tree
// that holds its sources.
type Template struct {
	ID      string
	Name    string
	Options []Option

	// RootPath is the location of the template tree as reported to the
	// operator. FS serves the same tree and is what the engine reads from.
	RootPath string
	FS       fs.FS

	// ManifestPath is the manifest file name relative to FS.
	ManifestPath string
}

// Option returns the option with the given id.
func (t Template) Option(id string) (Option, bool) {
	for _, opt := range t.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

type document struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}
