package main

import (
	"github.com/spf13/cobra"

	wand "github.com/goliatone/go-wand"
	"github.com/goliatone/go-wand/internal/logging"
	"github.com/goliatone/go-wand/pkg/manifest"
	"github.com/goliatone/go-wand/pkg/project"
	"github.com/goliatone/go-wand/pkg/prompt"
	"github.com/goliatone/go-wand/pkg/registry"
	"github.com/goliatone/go-wand/pkg/render/template"
	"github.com/goliatone/go-wand/pkg/session"
)

type generatorFlags struct {
	templates string
	external  []string
	output    string
	list      bool
	builtin   bool
	require   bool
	skip      bool
}

func newGeneratorCmd(a *app) *cobra.Command {
	var flags generatorFlags
	cmd := &cobra.Command{
		Use:   "generator",
		Short: "Generate a new project from a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerator(cmd, a, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.templates, "templates", "t", "",
		"internal templates directory (overrides templates_path)")
	cmd.Flags().StringSliceVarP(&flags.external, "external", "e", nil,
		"additional templates directory, may be repeated")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"directory projects are generated under (overrides output_root)")
	cmd.Flags().BoolVar(&flags.list, "list", false,
		"print the loaded templates and exit")
	cmd.Flags().BoolVar(&flags.builtin, "builtin", false,
		"also load the templates bundled with wand")
	cmd.Flags().BoolVar(&flags.require, "require", false,
		"reject empty answers for required options without a default")
	cmd.Flags().BoolVar(&flags.skip, "skip-manifest", false,
		"do not copy the template manifest into generated projects")
	return cmd
}

func runGenerator(cmd *cobra.Command, a *app, flags generatorFlags) error {
	cfg := a.cfg
	if flags.templates != "" {
		cfg.TemplatesPath = flags.templates
	}
	if len(flags.external) > 0 {
		cfg.ExternalPaths = append(cfg.ExternalPaths, flags.external...)
	}
	if flags.output != "" {
		cfg.OutputRoot = flags.output
	}
	if flags.require {
		cfg.RequireOptions = true
	}
	if flags.skip {
		cfg.SkipManifest = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Output: a.stderr,
		JSON:   cfg.LogJSON,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reg, err := wand.NewRegistry(ctx, wand.Sources{
		Internal: cfg.TemplatesPath,
		External: cfg.ExternalPaths,
		Builtin:  flags.builtin,
	}, registry.WithLogger(log))
	if err != nil {
		return err
	}

	driver := a.driver
	if driver == nil {
		driver = prompt.NewSurveyDriver()
	}
	ctrl := session.New(reg,
		session.WithDriver(driver),
		session.WithOutput(cmd.OutOrStdout()),
		session.WithOutputRoot(cfg.OutputRoot),
		session.WithLogger(log),
		session.WithRequiredEnforced(cfg.RequireOptions),
		session.WithEngineFactory(func(tmpl manifest.Template) (template.Engine, error) {
			return project.NewEngine(tmpl, project.SkipManifest(cfg.SkipManifest))
		}),
	)
	if flags.list {
		return ctrl.PrintTemplates()
	}
	return ctrl.Run(ctx)
}
