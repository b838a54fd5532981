// Package cmd wires the configuration, the catalog store and the services into the
// menupick-admin-worker command line.
package cmd

import (
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "menupick-admin-worker",
		Short:         "Menu catalog admin API and queue worker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yml (default ./config.yml)")

	rootCmd.AddCommand(
		serveCommand(opts),
		workerCommand(opts),
		taxonomyCommand(opts),
		enqueueReportCommand(opts),
	)
	return rootCmd
}
