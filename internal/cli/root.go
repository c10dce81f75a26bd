package cli

import (
	"github.com/spf13/cobra"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

var rootCmd = &cobra.Command{
	Use:   "footstats",
	Short: "Football statistics warehouse loader",
	Long: `footstats normalizes per-league, per-season FBref CSV exports into a
relational warehouse.

Each league-season directory is loaded in a fixed order: standings, match
results, team season stats, then the player stat categories. Loads are
idempotent, so re-running over the same data inserts nothing new.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "Path to the YAML config file")
}

// setup loads the config named by the --config flag and builds the process
// logger from it. The logger becomes the package default so nil-logger call
// sites still produce output.
func setup(cmd *cobra.Command) (config.Config, *logging.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   level,
		JSON:    cfg.Logging.JSON,
		LogDir:  cfg.Paths.Logs,
		RunName: cmd.Name(),
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.SetDefault(logger)

	return cfg, logger, nil
}
