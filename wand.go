// Package wand scaffolds projects from directory templates. A registry
// discovers templates, a session asks the operator for a project name, a
// template and its options, and the project package renders the result
// below the output root.
package wand

import (
	"context"
	"fmt"

	"github.com/goliatone/go-wand/pkg/registry"
	"github.com/goliatone/go-wand/pkg/session"
)

// Sources lists where templates are discovered, in priority order. Ids seen
// in an earlier source shadow later ones.
type Sources struct {
	Internal string
	External []string
	Builtin  bool
}

// NewRegistry discovers the internal path, then every external path, then
// the bundled templates when requested. The first failing source aborts.
func NewRegistry(ctx context.Context, src Sources, options ...registry.Option) (*registry.Registry, error) {
	reg := registry.New(options...)
	if src.Internal != "" {
		if err := reg.AddPath(ctx, src.Internal); err != nil {
			return nil, err
		}
	}
	for _, dir := range src.External {
		if err := reg.AddPath(ctx, dir); err != nil {
			return nil, err
		}
	}
	if src.Builtin {
		if err := reg.AddFS(ctx, BuiltinLabel, BuiltinTemplates()); err != nil {
			return nil, fmt.Errorf("wand: bundled templates: %w", err)
		}
	}
	return reg, nil
}

// Run starts an interactive session over reg and blocks until the operator
// exits or an error occurs.
func Run(ctx context.Context, reg *registry.Registry, options ...session.Option) error {
	return session.New(reg, options...).Run(ctx)
}
