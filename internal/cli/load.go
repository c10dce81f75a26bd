package cli

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	crerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mavdeev/footstats/internal/app"
	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/observability"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load every league-season directory into the warehouse",
	Long: `Load scans the raw data directory for league-season exports and loads
each of them in dependency order. Reference rows (leagues, seasons, teams,
players) are created on first sight and reused afterwards.

Examples:
  # Load with the defaults from config/config.yaml
  footstats load

  # Load a different export tree with four directory workers
  footstats load --data-dir /data/fbref --workers 4

  # Keep going past broken directories and write a JSON run report
  footstats load --error-mode continue --report logs/report.json`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("data-dir", "", "Override the raw data directory from the config")
	loadCmd.Flags().String("leagues-config", "", "Override the league registry path from the config")
	loadCmd.Flags().Int("workers", 0, "Override the number of directory workers")
	loadCmd.Flags().String("error-mode", "", "Override the error mode (strict or continue)")
	loadCmd.Flags().String("report", "", "Write the run report as JSON to this path")
	loadCmd.Flags().Bool("skip-schema", false, "Do not apply pending migrations before loading")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := applyLoadFlags(cmd, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("profiler stop failed", "error", err)
		}
	}()

	if skip, _ := cmd.Flags().GetBool("skip-schema"); !skip {
		if err := ensureSchema(defaultMigrationsDir, cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("schema up to date")
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	_, err = application.Pipeline.Run(ctx)
	return err
}

func applyLoadFlags(cmd *cobra.Command, cfg *config.Config) error {
	if dir, _ := cmd.Flags().GetString("data-dir"); strings.TrimSpace(dir) != "" {
		cfg.Paths.RawData = dir
	}
	if leagues, _ := cmd.Flags().GetString("leagues-config"); strings.TrimSpace(leagues) != "" {
		cfg.Paths.Leagues = leagues
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.ETL.Workers = workers
	}
	if mode, _ := cmd.Flags().GetString("error-mode"); strings.TrimSpace(mode) != "" {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if mode != config.ErrorModeStrict && mode != config.ErrorModeContinue {
			return crerr.Newf("invalid error mode %q (want strict or continue)", mode)
		}
		cfg.ETL.ErrorMode = mode
	}
	if report, _ := cmd.Flags().GetString("report"); strings.TrimSpace(report) != "" {
		cfg.Paths.Report = report
	}
	return nil
}
