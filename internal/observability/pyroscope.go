package observability

import (
	"github.com/grafana/pyroscope-go"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// InitPyroscope starts continuous profiling when enabled. Bulk loads are CPU
// and allocation heavy, so the profile set includes the allocator profiles.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.Observability.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "pyroscope_enabled=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.Observability.PyroscopeServer,
		AuthToken:       cfg.Observability.PyroscopeAuthToken,
		UploadRate:      cfg.Observability.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.Observability.PyroscopeServer,
		"application", cfg.ServiceName,
	)

	return profiler.Stop, nil
}
