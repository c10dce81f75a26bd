package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mavdeev/footstats/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts for every warehouse table",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	counts, err := application.Admin.TableStats(cmd.Context())
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		fmt.Printf("%-28s %d\n", table, counts[table])
	}
	return nil
}
