package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down|version|force|goto>",
	Short: "Apply or roll back warehouse schema migrations",
	Long: `Migrate manages the warehouse schema with the SQL files under the
migrations directory.

Examples:
  footstats migrate up
  footstats migrate down 1
  footstats migrate version
  footstats migrate force 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMigrate,
}

const defaultMigrationsDir = "db/migrations"

func init() {
	migrateCmd.Flags().String("migrations-dir", defaultMigrationsDir, "Directory holding the migration SQL files")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir, err := cmd.Flags().GetString("migrations-dir")
	if err != nil {
		return err
	}
	m, abs, err := openMigrator(dir, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Warn("close migration db", "error", dbErr)
		}
	}()

	switch action := strings.ToLower(strings.TrimSpace(args[0])); action {
	case "up":
		if err := stripNoChange(m.Up()); err != nil {
			return err
		}
		logger.Info("migrations applied", "dir", abs)
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || steps <= 0 {
				return crerr.Newf("invalid down steps %q", args[1])
			}
		}
		if err := stripNoChange(m.Steps(-steps)); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if crerr.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return crerr.Wrap(err, "read version")
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	case "goto":
		if len(args) < 2 {
			return crerr.New("goto requires a target version argument")
		}
		target, err := strconv.ParseUint(strings.TrimSpace(args[1]), 10, 64)
		if err != nil {
			return crerr.Newf("invalid target version %q", args[1])
		}
		if err := stripNoChange(m.Migrate(uint(target))); err != nil {
			return err
		}
		logger.Info("migrated to version", "version", target)
	case "force":
		if len(args) < 2 {
			return crerr.New("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil || version < 0 {
			return crerr.Newf("invalid version %q", args[1])
		}
		if err := m.Force(version); err != nil {
			return crerr.Wrapf(err, "force version %d", version)
		}
		logger.Info("version forced", "version", version)
	default:
		return crerr.Newf("unknown migrate action %q (want up, down, version, force or goto)", action)
	}

	return nil
}

func openMigrator(dir, dbURL string) (*migrate.Migrate, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", crerr.Wrapf(err, "resolve migrations dir %s", dir)
	}
	if info, statErr := os.Stat(abs); statErr != nil || !info.IsDir() {
		return nil, "", crerr.Newf("migrations directory %s not found", abs)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), dbURL)
	if err != nil {
		return nil, "", crerr.Wrap(err, "create migrator")
	}
	return m, abs, nil
}

// ensureSchema brings the warehouse schema up to date before a load.
func ensureSchema(dir, dbURL string) error {
	m, abs, err := openMigrator(dir, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := stripNoChange(m.Up()); err != nil {
		return crerr.Wrapf(err, "apply migrations from %s", abs)
	}
	return nil
}

func stripNoChange(err error) error {
	if crerr.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
