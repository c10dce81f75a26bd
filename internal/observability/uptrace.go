package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// InitUptrace configures global OpenTelemetry providers for Uptrace. Database
// spans from the traced sqlx handle are exported through these providers.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.Observability.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "uptrace_enabled=false")
		return func(context.Context) error { return nil }, nil
	}

	if strings.TrimSpace(cfg.Observability.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.Observability.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown, nil
}
