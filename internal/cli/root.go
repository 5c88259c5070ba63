package cli

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/logging"
)

var (
	verbose    bool
	configPath string
	envFile    string

	rootCmd = &cobra.Command{
		Use:   "warden",
		Short: "Agent-driven code review for pull and merge requests",
		Long: `Warden resolves a pull or merge request URL into a local
workspace, runs an analysis agent against the checked-out branch, and
prints or posts the resulting review.`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to warden.yaml (default: warden.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
		loadEnv()
	}
}

// loadEnv loads environment variables from the requested file, or from
// default locations when none is given. A missing default file is fine;
// a missing explicit file is worth a warning.
func loadEnv() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("could not load env file", "path", envFile, "error", err)
		}
		return
	}
	godotenv.Load(".env")
	godotenv.Load("/etc/warden/warden.env")
}

func Execute() error {
	return rootCmd.Execute()
}
