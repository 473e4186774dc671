// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkforge",
	Short: "LinkForge is a self-hosted link-in-bio page with a staged publish flow",
	Long: `LinkForge is a self-hosted link-in-bio page. The owner edits page
settings and content blocks as drafts and promotes them to the public
page with a single publish action.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
