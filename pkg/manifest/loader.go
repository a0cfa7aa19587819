package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileNames lists the accepted manifest names in lookup order.
var FileNames = []string{"config.json", "config.yaml", "config.yml"}

// IsManifest reports whether name (slash separated, relative to a template
// root) is the template's own manifest file.
func IsManifest(name string) bool {
	for _, candidate := range FileNames {
		if name == candidate {
			return true
		}
	}
	return false
}

// Load reads the manifest stored directly inside dir and returns the
// template it describes. The returned template's FS is rooted at dir and its
// RootPath is dir; callers that scan real directories overwrite RootPath
// with the on-disk location.
func Load(fsys fs.FS, dir string) (Template, error) {
	if fsys == nil {
		return Template{}, errors.New("manifest: fs is nil")
	}

	name, data, err := readManifest(fsys, dir)
	if err != nil {
		return Template{}, err
	}

	manifestPath := path.Join(dir, name)
	doc, err := Parse(manifestPath, data)
	if err != nil {
		return Template{}, err
	}

	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return Template{}, fmt.Errorf("manifest: open template root %s: %w", dir, err)
	}

	return Template{
		ID:           doc.ID,
		Name:         doc.Name,
		Options:      doc.Options,
		RootPath:     dir,
		FS:           sub,
		ManifestPath: name,
	}, nil
}

// Parse decodes and validates raw manifest bytes. The file extension of
// source selects the decoder; anything that is not `.json` is read as YAML.
func Parse(source string, data []byte) (Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Template{}, &ValidationError{Path: source, Message: "file is empty"}
	}

	value, err := decode(source, data)
	if err != nil {
		return Template{}, err
	}
	if err := validateDocument(source, value); err != nil {
		return Template{}, err
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return Template{}, &ValidationError{Path: source, Message: "re-encode document", Err: err}
	}
	var doc document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return Template{}, &ValidationError{Path: source, Message: "decode document", Err: err}
	}

	seen := make(map[string]int, len(doc.Options))
	for idx := range doc.Options {
		opt := &doc.Options[idx]
		if prev, exists := seen[opt.ID]; exists {
			return Template{}, &ValidationError{
				Path:    source,
				Field:   fmt.Sprintf("options/%d/id", idx),
				Message: fmt.Sprintf("duplicate option id %q (first declared at options/%d)", opt.ID, prev),
			}
		}
		seen[opt.ID] = idx
		opt.Name = sanitizeLabel(opt.Name)
	}

	return Template{
		ID:      doc.ID,
		Name:    sanitizeLabel(doc.Name),
		Options: doc.Options,
	}, nil
}

func readManifest(fsys fs.FS, dir string) (string, []byte, error) {
	for _, name := range FileNames {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err == nil {
			return name, data, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return "", nil, fmt.Errorf("manifest: read %s: %w", path.Join(dir, name), err)
	}
	return "", nil, fmt.Errorf("%w in %s (looked for %s)", ErrManifestNotFound, dir, strings.Join(FileNames, ", "))
}

func decode(source string, data []byte) (any, error) {
	var value any
	if strings.EqualFold(path.Ext(source), ".json") {
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, &ValidationError{Path: source, Message: "invalid JSON", Err: err}
		}
		return value, nil
	}

	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, &ValidationError{Path: source, Message: "invalid YAML", Err: err}
	}
	// YAML scalars decode to Go ints and friends; round-trip through JSON so
	// the schema sees the same value types for both formats.
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, &ValidationError{Path: source, Message: "unsupported YAML structure", Err: err}
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ValidationError{Path: source, Message: "unsupported YAML structure", Err: err}
	}
	return out, nil
}
