package cli

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mavdeev/footstats/internal/app"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Empty every warehouse table and reset identity sequences",
	Long: `Truncate removes all loaded rows so the next load starts from a clean
warehouse. It is destructive and therefore requires --force.`,
	Args: cobra.NoArgs,
	RunE: runTruncate,
}

func init() {
	truncateCmd.Flags().Bool("force", false, "Confirm that all warehouse data should be removed")
	rootCmd.AddCommand(truncateCmd)
}

func runTruncate(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force {
		return crerr.New("refusing to truncate without --force")
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	if err := application.Admin.TruncateAll(cmd.Context()); err != nil {
		return err
	}

	logger.Info("warehouse truncated")
	return nil
}
