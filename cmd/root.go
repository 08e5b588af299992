package cmd

import (
	"github.com/careercompass/compass/internal/config"
	"github.com/careercompass/compass/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Career guidance in your terminal",
	Long:  "Compass — terminal client for the Career Compass platform: take the multi-stage career assessment, see your results, and book a counselling session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COMPASS_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then COMPASS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DBPath
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
