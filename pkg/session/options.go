package session

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-wand/pkg/manifest"
	"github.com/goliatone/go-wand/pkg/prompt"
	"github.com/goliatone/go-wand/pkg/render/template"
)

// EngineFactory builds the templating engine for a template.
type EngineFactory func(manifest.Template) (template.Engine, error)

// Option configures the Controller.
type Option func(*Controller)

// WithDriver overrides the prompt driver (survey by default).
func WithDriver(driver prompt.Driver) Option {
	return func(c *Controller) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithOutput sets where the project and template tables are printed.
func WithOutput(w io.Writer) Option {
	return func(c *Controller) {
		if w != nil {
			c.out = w
		}
	}
}

// WithOutputRoot sets the directory new projects are generated under.
func WithOutputRoot(root string) Option {
	return func(c *Controller) {
		c.outputRoot = root
	}
}

// WithLogger routes session and render logs to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithEngineFactory overrides how engines are built for a template.
func WithEngineFactory(fn EngineFactory) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newEngine = fn
		}
	}
}

// WithRequiredEnforced rejects empty answers for required options that have
// no default. Off by default: required options otherwise render with an
// empty value.
func WithRequiredEnforced(enabled bool) Option {
	return func(c *Controller) {
		c.enforceRequired = enabled
	}
}
