package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-wand/internal/logging"
	"github.com/goliatone/go-wand/pkg/manifest"
	"github.com/goliatone/go-wand/pkg/project"
	"github.com/goliatone/go-wand/pkg/prompt"
	"github.com/goliatone/go-wand/pkg/registry"
	"github.com/goliatone/go-wand/pkg/render/template"
)

// State is the controller's position in the session loop.
type State int

const (
	// StateListing shows the tables and asks for a project name and template.
	StateListing State = iota
	// StateCollecting prompts for each option of the chosen template, then
	// renders.
	StateCollecting
	// StateDone is terminal; the operator picked the exit entry.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateListing:
		return "listing"
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Prompt messages shown by the controller.
const (
	MessageProjectName = "Type a name for new project"
	MessageTemplate    = "Choose a template to start"
	MessageCollect     = "Now we will set some options before render template:"
	MessageBye         = "Bye bye~"
)

// ErrRequired is returned by the option validator when required options
// are enforced and the answer is empty.
var ErrRequired = errors.New("session: value is required")

// Controller drives the interactive loop: pick a template, collect its
// options, render, repeat until the operator exits.
type Controller struct {
	registry        *registry.Registry
	driver          prompt.Driver
	out             io.Writer
	outputRoot      string
	log             logrus.FieldLogger
	newEngine       EngineFactory
	enforceRequired bool

	engines  *cache.Cache
	state    State
	projects map[string]*project.Project

	pending         *project.Project
	pendingTemplate manifest.Template
}

// New creates a controller over reg. The registry is expected to be fully
// discovered before the session starts.
func New(reg *registry.Registry, options ...Option) *Controller {
	c := &Controller{
		registry:   reg,
		out:        os.Stdout,
		outputRoot: project.DefaultOutputRoot,
		log:        logging.Discard(),
		newEngine:  defaultEngine,
		engines:    cache.New(cache.NoExpiration, 0),
		state:      StateListing,
		projects:   make(map[string]*project.Project),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.driver == nil {
		c.driver = prompt.NewSurveyDriver()
	}
	return c
}

// State reports the current loop state.
func (c *Controller) State() State {
	return c.state
}

// Run steps the loop until the operator exits or an error occurs. Errors
// from prompts, engines and renders are returned as is; the loop does not
// retry.
func (c *Controller) Run(ctx context.Context) error {
	if c.registry == nil {
		return errors.New("session: registry is nil")
	}
	for c.state != StateDone {
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step performs a single transition.
func (c *Controller) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch c.state {
	case StateListing:
		return c.list(ctx)
	case StateCollecting:
		return c.collect(ctx)
	case StateDone:
		return nil
	default:
		return fmt.Errorf("session: unknown state %d", c.state)
	}
}

func (c *Controller) list(ctx context.Context) error {
	if err := c.PrintProjects(); err != nil {
		return err
	}
	if err := c.PrintTemplates(); err != nil {
		return err
	}

	name, err := c.driver.Input(ctx, prompt.InputConfig{
		Message:   MessageProjectName,
		Validator: project.ValidateName,
	})
	if err != nil {
		return fmt.Errorf("session: read project name: %w", err)
	}

	keys := c.registry.Keys()
	index, err := c.driver.Select(ctx, prompt.SelectConfig{
		Message:      MessageTemplate,
		Options:      keys,
		DefaultIndex: 0,
		PageSize:     10,
	})
	if err != nil {
		return fmt.Errorf("session: choose template: %w", err)
	}
	if index >= 0 && index < len(keys) {
		c.log.Debugf("choose %s", keys[index])
	}

	if index == 0 {
		c.state = StateDone
		return c.driver.Info(ctx, MessageBye)
	}

	tmpl, ok := c.registry.At(index)
	if !ok {
		return fmt.Errorf("session: template index %d out of range", index)
	}

	c.pending = project.New(name,
		project.WithTemplate(tmpl.ID),
		project.WithOutputRoot(c.outputRoot),
		project.WithLogger(c.log),
	)
	c.pendingTemplate = tmpl
	c.state = StateCollecting
	return nil
}

func (c *Controller) collect(ctx context.Context) error {
	p, tmpl := c.pending, c.pendingTemplate
	if p == nil {
		return errors.New("session: no project to collect options for")
	}

	if err := c.driver.Info(ctx, MessageCollect); err != nil {
		return err
	}
	for _, opt := range tmpl.Options {
		value, err := c.driver.Input(ctx, prompt.InputConfig{
			Message:   opt.Label(),
			Default:   opt.DefaultValue(),
			Validator: c.validator(opt),
		})
		if err != nil {
			return fmt.Errorf("session: read option %q: %w", opt.ID, err)
		}
		p.Set(opt.ID, value)
	}

	engine, err := c.engine(tmpl)
	if err != nil {
		return err
	}
	result, err := p.Render(ctx, tmpl, engine)
	if err != nil {
		return err
	}
	if err := c.driver.Info(ctx, fmt.Sprintf("project '%s' generated at '%s' directory", result.TemplateID, result.OutputDir)); err != nil {
		return err
	}

	c.projects[p.Name] = p
	c.pending = nil
	c.pendingTemplate = manifest.Template{}
	c.state = StateListing
	return nil
}

func (c *Controller) validator(opt manifest.Option) func(string) error {
	if !c.enforceRequired || !opt.Required || opt.HasDefault() {
		return nil
	}
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrRequired, opt.Label())
		}
		return nil
	}
}

func defaultEngine(tmpl manifest.Template) (template.Engine, error) {
	return project.NewEngine(tmpl)
}

// engine returns the cached engine for tmpl, building it on first use.
func (c *Controller) engine(tmpl manifest.Template) (template.Engine, error) {
	if cached, ok := c.engines.Get(tmpl.ID); ok {
		if engine, ok := cached.(template.Engine); ok {
			return engine, nil
		}
	}
	engine, err := c.newEngine(tmpl)
	if err != nil {
		return nil, fmt.Errorf("session: build engine for %q: %w", tmpl.ID, err)
	}
	c.engines.Set(tmpl.ID, engine, cache.NoExpiration)
	return engine, nil
}

// Projects returns the rendered projects ordered by name.
func (c *Controller) Projects() []*project.Project {
	names := make([]string, 0, len(c.projects))
	for name := range c.projects {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*project.Project, 0, len(names))
	for _, name := range names {
		out = append(out, c.projects[name])
	}
	return out
}

// Project returns the rendered project stored under name.
func (c *Controller) Project(name string) (*project.Project, bool) {
	p, ok := c.projects[name]
	return p, ok
}
