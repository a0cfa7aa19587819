package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wand/internal/config"
	"github.com/goliatone/go-wand/pkg/prompt"
)

var version = "1.0.0"

// app carries state shared by the commands. Tests swap the streams and the
// prompt driver.
type app struct {
	cfgFile  string
	logLevel string
	cfg      config.Config

	stdout io.Writer
	stderr io.Writer
	driver prompt.Driver
}

func newApp() *app {
	return &app{stdout: os.Stdout, stderr: os.Stderr}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wand",
		Short:         "A cli tool for developers",
		Long:          `wand scaffolds new projects from directory templates. Each template declares options in a config.json (or config.yaml) manifest; wand asks for their values and renders the template tree into <output>/<name>.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: .wand/config.yaml, then ~/.config/wand/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	root.AddCommand(newGeneratorCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}
