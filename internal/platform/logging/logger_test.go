package logging

import (
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw     string
		want    Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"info", LevelInfo, false},
		{"DEBUG", LevelDebug, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNewWritesRunLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Level: LevelDebug, LogDir: dir, RunName: "migration"})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	logger.Info("hello", "league", "epl")
	_ = logger.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "migration_*.log"))
	if err != nil {
		t.Fatalf("glob run logs: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one run log, got %d", len(matches))
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("does not panic")
	if logger.Zap() == nil {
		t.Fatal("Zap() on nil logger must return a usable logger")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync on nil logger: %v", err)
	}
}
