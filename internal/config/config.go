package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	ErrorModeStrict   = "strict"
	ErrorModeContinue = "continue"
)

// Config stores runtime configuration for the loader. It is read from a YAML
// file and then overridden by environment variables, so the same file can be
// shared between local runs and CI.
type Config struct {
	AppEnv      string `yaml:"app_env" validate:"omitempty,oneof=dev staging prod"`
	ServiceName string `yaml:"service_name"`

	Database      DatabaseConfig      `yaml:"database" validate:"required"`
	ETL           ETLConfig           `yaml:"etl"`
	Validation    ValidationConfig    `yaml:"validation"`
	SpecialValues SpecialValuesConfig `yaml:"special_values"`
	// FieldMappings renames CSV headers to warehouse columns per dataset key
	// (matches, standings, team_stats, player_standard, player_shooting, ...).
	FieldMappings map[string]map[string]string `yaml:"field_mappings"`
	Paths         PathsConfig                  `yaml:"paths"`
	Logging       LoggingConfig                `yaml:"logging"`
	Observability ObservabilityConfig          `yaml:"observability"`
}

type DatabaseConfig struct {
	URL          string        `yaml:"url" validate:"required"`
	MaxOpenConns int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnTimeout  time.Duration `yaml:"conn_timeout"`
}

type ETLConfig struct {
	BatchSize int    `yaml:"batch_size" validate:"gt=0"`
	Workers   int    `yaml:"workers" validate:"gt=0"`
	ErrorMode string `yaml:"error_mode" validate:"oneof=strict continue"`
}

type ValidationConfig struct {
	MinYear           int  `yaml:"min_year"`
	MaxYear           int  `yaml:"max_year"`
	MinBirthYear      int  `yaml:"min_birth_year"`
	MaxGoalsPerMatch  int  `yaml:"max_goals_per_match"`
	CheckNegativeStat bool `yaml:"check_negative_stats"`
}

type SpecialValuesConfig struct {
	NullValues   []string          `yaml:"null_values"`
	Replacements map[string]string `yaml:"replacements"`
}

type PathsConfig struct {
	RawData string `yaml:"raw_data"`
	Leagues string `yaml:"leagues"`
	Logs    string `yaml:"logs"`
	Report  string `yaml:"report"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ObservabilityConfig struct {
	UptraceEnabled      bool          `yaml:"uptrace_enabled"`
	UptraceDSN          string        `yaml:"uptrace_dsn"`
	PyroscopeEnabled    bool          `yaml:"pyroscope_enabled"`
	PyroscopeServer     string        `yaml:"pyroscope_server"`
	PyroscopeAuthToken  string        `yaml:"pyroscope_auth_token"`
	PyroscopeUploadRate time.Duration `yaml:"pyroscope_upload_rate"`
}

// Load reads the YAML config at path, applies defaults and env overrides,
// then validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		AppEnv:      "dev",
		ServiceName: "footstats-etl",
		Database: DatabaseConfig{
			MaxOpenConns: 8,
			MaxIdleConns: 4,
			ConnTimeout:  30 * time.Second,
		},
		ETL: ETLConfig{
			BatchSize: 1000,
			Workers:   1,
			ErrorMode: ErrorModeStrict,
		},
		Validation: ValidationConfig{
			MinYear:           2000,
			MaxYear:           2030,
			MinBirthYear:      1950,
			MaxGoalsPerMatch:  20,
			CheckNegativeStat: true,
		},
		SpecialValues: SpecialValuesConfig{
			NullValues: []string{"", "N/A", "NULL", "None", "-"},
		},
		Paths: PathsConfig{
			RawData: "data/raw/fbref",
			Leagues: "config/leagues.yaml",
			Logs:    "logs/etl",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Database.URL = getEnv("DB_URL", cfg.Database.URL)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.ETL.ErrorMode = getEnv("ETL_ERROR_MODE", cfg.ETL.ErrorMode)
	cfg.ETL.BatchSize = getEnvAsInt("ETL_BATCH_SIZE", cfg.ETL.BatchSize)
	cfg.ETL.Workers = getEnvAsInt("ETL_WORKERS", cfg.ETL.Workers)
	cfg.Observability.UptraceDSN = getEnv("UPTRACE_DSN", cfg.Observability.UptraceDSN)
}

func validate(cfg Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Database.MaxIdleConns > cfg.Database.MaxOpenConns && cfg.Database.MaxOpenConns > 0 {
		return fmt.Errorf("invalid config: max_idle_conns (%d) exceeds max_open_conns (%d)",
			cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	}
	if cfg.Validation.MinYear > cfg.Validation.MaxYear {
		return fmt.Errorf("invalid config: min_year (%d) exceeds max_year (%d)",
			cfg.Validation.MinYear, cfg.Validation.MaxYear)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
