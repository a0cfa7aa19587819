package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-wand/internal/logging"
	"github.com/goliatone/go-wand/pkg/manifest"
)

// ExitKey is the sentinel stored at index 0 of Keys. Selecting it ends the
// session.
const ExitKey = "Exit"

// ErrRootUnreadable wraps failures to list a template root.
var ErrRootUnreadable = errors.New("registry: template root unreadable")

// Registry is an insertion ordered catalog of templates keyed by id. The
// first template discovered for an id wins; later duplicates are skipped.
type Registry struct {
	mu        sync.RWMutex
	keys      []string
	templates map[string]manifest.Template
	log       logrus.FieldLogger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes discovery logs to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates an empty registry holding only the exit sentinel.
func New(options ...Option) *Registry {
	r := &Registry{
		keys:      []string{ExitKey},
		templates: make(map[string]manifest.Template),
		log:       logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// AddPath discovers templates in the immediate subdirectories of dir.
func (r *Registry) AddPath(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: path is empty", ErrRootUnreadable)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRootUnreadable, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, dir)
	}
	return r.discover(ctx, os.DirFS(dir), func(child string) string {
		return filepath.Join(dir, child)
	})
}

// AddFS discovers templates in the top level directories of fsys. label is
// used to build each template's RootPath.
func (r *Registry) AddFS(ctx context.Context, label string, fsys fs.FS) error {
	if fsys == nil {
		return fmt.Errorf("%w: %s: fs is nil", ErrRootUnreadable, label)
	}
	return r.discover(ctx, fsys, func(child string) string {
		return path.Join(label, child)
	})
}

// discover loads every template under fsys. A missing or invalid manifest
// aborts the call and nothing found during it is registered.
func (r *Registry) discover(ctx context.Context, fsys fs.FS, rootPath func(string) string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRootUnreadable, rootPath(""), err)
	}

	r.mu.RLock()
	known := make(map[string]struct{}, len(r.templates))
	for id := range r.templates {
		known[id] = struct{}{}
	}
	r.mu.RUnlock()

	var staged []manifest.Template
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		location := rootPath(entry.Name())
		r.log.Infof("load template: %s", location)

		dir, err := isDir(fsys, entry)
		if err != nil {
			return fmt.Errorf("registry: stat %s: %w", location, err)
		}
		if !dir {
			r.log.Warnf("%s not a directory, continue", location)
			continue
		}

		r.log.Debugf("read template config: %s", location)
		tmpl, err := manifest.Load(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("registry: load template %s: %w", location, err)
		}
		tmpl.RootPath = location
		r.log.Debugf("got a valid template: %s (%d options)", tmpl.ID, len(tmpl.Options))

		if _, exists := known[tmpl.ID]; exists {
			r.log.Infof("template '%s' loaded, skip", tmpl.ID)
			continue
		}
		known[tmpl.ID] = struct{}{}
		staged = append(staged, tmpl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tmpl := range staged {
		if _, exists := r.templates[tmpl.ID]; exists {
			continue
		}
		r.keys = append(r.keys, tmpl.ID)
		r.templates[tmpl.ID] = tmpl
	}
	return nil
}

func isDir(fsys fs.FS, entry fs.DirEntry) (bool, error) {
	if entry.IsDir() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := fs.Stat(fsys, entry.Name())
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Keys returns the catalog labels in selection order: the exit sentinel
// followed by template ids in discovery order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.keys...)
}

// IDs returns template ids in discovery order, without the sentinel.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.keys[1:]...)
}

// Len reports the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Get retrieves a template by id.
func (r *Registry) Get(id string) (manifest.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[id]
	return tmpl, ok
}

// At resolves a Keys index. Index 0 (the exit sentinel) and out of range
// indices report false.
func (r *Registry) At(index int) (manifest.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index <= 0 || index >= len(r.keys) {
		return manifest.Template{}, false
	}
	tmpl, ok := r.templates[r.keys[index]]
	return tmpl, ok
}

// Templates returns every template in discovery order.
func (r *Registry) Templates() []manifest.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]manifest.Template, 0, len(r.templates))
	for _, id := range r.keys[1:] {
		out = append(out, r.templates[id])
	}
	return out
}
