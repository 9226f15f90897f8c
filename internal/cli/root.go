package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mustwatch",
	Short: "Media catalog CRUD API",
	Long: `mustwatch - Media catalog CRUD API

Serves series, categories, actors and reasons to watch over a small JSON
HTTP API backed by MySQL, PostgreSQL or SQLite.

Database settings come from DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PSWD
and DB_NAME, read from the environment or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file loaded before reading configuration")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mustwatch %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
