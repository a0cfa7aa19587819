package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-wand/internal/logging"
	"github.com/goliatone/go-wand/pkg/manifest"
	"github.com/goliatone/go-wand/pkg/render/template"
	"github.com/goliatone/go-wand/pkg/render/template/gotemplate"
)

// DefaultOutputRoot is where projects are generated unless configured
// otherwise.
const DefaultOutputRoot = "./output"

// Project is one instantiation of a template into <OutputRoot>/<Name>.
type Project struct {
	Name       string
	TemplateID string
	OutputRoot string
	Context    *Context

	log logrus.FieldLogger
}

// Option configures a Project.
type Option func(*Project)

// WithOutputRoot overrides DefaultOutputRoot. Empty values are ignored.
func WithOutputRoot(root string) Option {
	return func(p *Project) {
		if strings.TrimSpace(root) != "" {
			p.OutputRoot = root
		}
	}
}

// WithTemplate sets the template id the project renders.
func WithTemplate(id string) Option {
	return func(p *Project) {
		p.TemplateID = id
	}
}

// WithLogger routes render logs to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Project) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a project named name with an empty context.
func New(name string, options ...Option) *Project {
	p := &Project{
		Name:       name,
		OutputRoot: DefaultOutputRoot,
		Context:    NewContext(),
		log:        logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ValidateName rejects names that would not map to exactly one directory
// below the output root.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case trimmed != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Set records a collected option value.
func (p *Project) Set(id, value string) {
	if p.Context == nil {
		p.Context = NewContext()
	}
	p.Context.Set(id, value)
}

// OutputDir returns <OutputRoot>/<Name> with trailing separators on the
// root removed first.
func (p *Project) OutputDir() string {
	root := p.OutputRoot
	if root == "" {
		root = DefaultOutputRoot
	}
	if trimmed := strings.TrimRight(root, `/`+string(filepath.Separator)); trimmed != "" {
		root = trimmed
	}
	return filepath.Join(root, p.Name)
}

// Result summarises a successful render.
type Result struct {
	TemplateID string
	OutputDir  string
	Files      []string
}

// EnsureDir creates dir and any missing parents. Existing directories are
// left untouched.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Names seeded into every template of an engine built by NewEngine, and
// into each render. Option values with the same id take precedence.
const (
	GlobalTemplateID   = "template_id"
	GlobalTemplateName = "template_name"
	GlobalProjectName  = "project_name"
)

type engineConfig struct {
	skipManifest bool
}

// EngineOption configures NewEngine.
type EngineOption func(*engineConfig)

// SkipManifest leaves the template's own manifest file out of the rendered
// file set. By default every file under the template root is rendered.
func SkipManifest(enabled bool) EngineOption {
	return func(cfg *engineConfig) {
		cfg.skipManifest = enabled
	}
}

// NewEngine builds the pongo2 engine for tmpl over every file in its tree.
func NewEngine(tmpl manifest.Template, options ...EngineOption) (template.Engine, error) {
	cfg := engineConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithGlobalData(map[string]any{
			GlobalTemplateID:   tmpl.ID,
			GlobalTemplateName: tmpl.Name,
		}),
	}
	if cfg.skipManifest {
		engineOptions = append(engineOptions, gotemplate.WithExclude(func(name string) bool {
			if tmpl.ManifestPath != "" {
				return name == tmpl.ManifestPath
			}
			return manifest.IsManifest(name)
		}))
	}

	switch {
	case tmpl.FS != nil:
		engineOptions = append(engineOptions, gotemplate.WithFS(tmpl.FS))
	case tmpl.RootPath != "":
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(tmpl.RootPath))
	default:
		return nil, fmt.Errorf("project: template %q has no file tree", tmpl.ID)
	}

	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// Render materialises every file of tmpl below OutputDir. It stops at the
// first failure and leaves whatever was already written.
func (p *Project) Render(ctx context.Context, tmpl manifest.Template, engine template.Engine) (Result, error) {
	if p.TemplateID == "" {
		return Result{}, ErrTemplateNotSet
	}
	if tmpl.ID != p.TemplateID {
		return Result{}, fmt.Errorf("%w: want %q, got %q", ErrTemplateMismatch, p.TemplateID, tmpl.ID)
	}
	if err := ValidateName(p.Name); err != nil {
		return Result{}, err
	}
	if engine == nil {
		return Result{}, errors.New("project: template engine is nil")
	}
	if p.Context == nil {
		p.Context = NewContext()
	}

	outDir := p.OutputDir()
	if err := EnsureDir(outDir); err != nil {
		return Result{}, &RenderError{Stage: StageOutputDir, Path: outDir, Err: err}
	}

	names, err := engine.Files()
	if err != nil {
		return Result{}, &RenderError{Stage: StageList, Path: tmpl.RootPath, Err: err}
	}

	data := p.Context.Data()
	if _, ok := data[GlobalProjectName]; !ok {
		data[GlobalProjectName] = p.Name
	}
	result := Result{TemplateID: tmpl.ID, OutputDir: outDir}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		p.log.Debugf("find a template: %s", name)

		dest, err := p.destination(engine, outDir, name, data)
		if err != nil {
			return result, err
		}
		p.log.Debugf("will put file at '%s'", dest)

		if err := EnsureDir(filepath.Dir(dest)); err != nil {
			return result, &RenderError{Stage: StageDirectory, Path: filepath.Dir(dest), Err: err}
		}
		if err := renderFile(engine, name, dest, data); err != nil {
			return result, err
		}

		p.log.Infof("file '%s' rendered", dest)
		result.Files = append(result.Files, dest)
	}

	return result, nil
}

// destination resolves the output path for a template file name. Names that
// carry template tags are rendered against the context first.
func (p *Project) destination(engine template.Engine, outDir, name string, data map[string]any) (string, error) {
	rel := name
	if strings.Contains(rel, "{{") || strings.Contains(rel, "{%") {
		rendered, err := engine.RenderString(rel, data)
		if err != nil {
			return "", &RenderError{Stage: StagePath, Path: name, Err: err}
		}
		rel = strings.TrimSpace(rendered)
	}

	dest := filepath.Join(outDir, filepath.FromSlash(rel))
	within, err := filepath.Rel(outDir, dest)
	if err != nil || within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", &RenderError{
			Stage: StagePath,
			Path:  name,
			Err:   fmt.Errorf("resolved path %q is outside %s", rel, outDir),
		}
	}
	return dest, nil
}

func renderFile(engine template.Engine, name, dest string, data map[string]any) error {
	f, err := os.Create(dest)
	if err != nil {
		return &RenderError{Stage: StageCreate, Path: dest, Err: err}
	}
	if _, err := engine.RenderTemplate(name, data, f); err != nil {
		_ = f.Close()
		return &RenderError{Stage: StageRender, Path: dest, Err: err}
	}
	if err := f.Close(); err != nil {
		return &RenderError{Stage: StageCreate, Path: dest, Err: err}
	}
	return nil
}
