package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wand/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the wand configuration file",
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
			return err
		},
	}
	initCmd.Flags().StringVarP(&path, "path", "p", config.LocalConfigPath, "where to write the file")

	cmd.AddCommand(initCmd)
	return cmd
}
