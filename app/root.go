// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "siteadmin",
	Short: "siteadmin is the administration backend for the marketing site",
	Long: `siteadmin serves the marketing site administration API. It manages
typed site settings stored in a remote database and binds uploaded media
assets from a remote blob store to setting keys.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
