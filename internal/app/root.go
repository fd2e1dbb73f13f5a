// Package app implements the pagecraft commands.
package app

import (
	"github.com/spf13/cobra"
)

var configPath string // Path to the configuration file

var rootCmd = &cobra.Command{
	Use:   "pagecraft",
	Short: "pagecraft is a small Markdown blog and CMS",
	Long: `pagecraft serves a Markdown blog with an admin area for writing posts
and editing the site header, footer, CSS and JavaScript.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (toml, yaml or json)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
