package cli

import (
	"testing"

	"github.com/mavdeev/footstats/internal/config"
)

func TestApplyLoadFlags(t *testing.T) {
	cfg := config.Config{}
	cfg.Paths.RawData = "data/raw/fbref"
	cfg.ETL.Workers = 1
	cfg.ETL.ErrorMode = config.ErrorModeStrict

	if err := loadCmd.Flags().Set("data-dir", "/tmp/exports"); err != nil {
		t.Fatal(err)
	}
	if err := loadCmd.Flags().Set("workers", "4"); err != nil {
		t.Fatal(err)
	}
	if err := loadCmd.Flags().Set("error-mode", "continue"); err != nil {
		t.Fatal(err)
	}
	if err := loadCmd.Flags().Set("report", "logs/report.json"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = loadCmd.Flags().Set("data-dir", "")
		_ = loadCmd.Flags().Set("workers", "0")
		_ = loadCmd.Flags().Set("error-mode", "")
		_ = loadCmd.Flags().Set("report", "")
	})

	if err := applyLoadFlags(loadCmd, &cfg); err != nil {
		t.Fatalf("applyLoadFlags: %v", err)
	}

	if cfg.Paths.RawData != "/tmp/exports" {
		t.Errorf("RawData = %q, want /tmp/exports", cfg.Paths.RawData)
	}
	if cfg.ETL.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.ETL.Workers)
	}
	if cfg.ETL.ErrorMode != config.ErrorModeContinue {
		t.Errorf("ErrorMode = %q, want continue", cfg.ETL.ErrorMode)
	}
	if cfg.Paths.Report != "logs/report.json" {
		t.Errorf("Report = %q, want logs/report.json", cfg.Paths.Report)
	}
}

func TestApplyLoadFlagsRejectsUnknownErrorMode(t *testing.T) {
	if err := loadCmd.Flags().Set("error-mode", "panic"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loadCmd.Flags().Set("error-mode", "") })

	cfg := config.Config{}
	if err := applyLoadFlags(loadCmd, &cfg); err == nil {
		t.Fatal("expected an error for error-mode=panic")
	}
}
