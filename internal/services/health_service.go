package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"nflpulse/internal/config"
	"nflpulse/internal/infrastructure"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status. The service is ready once the
// data directories exist; the statistics artifact is reported separately so
// operators can tell a fresh deployment from a broken one.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["storage"] = hs.checkStorageHealth()
	status.Services["statistics"] = hs.checkStatsArtifact()

	if sh, ok := status.Services["storage"].(ServiceHealth); ok && sh.Status != "ready" {
		status.Status = "not_ready"
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkStorageHealth() ServiceHealth {
	for _, dir := range []string{hs.paths.RawDir, hs.paths.ProcessedDir} {
		if _, err := os.Stat(dir); err != nil {
			return ServiceHealth{
				Status:  "not_ready",
				Message: err.Error(),
			}
		}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkStatsArtifact() ServiceHealth {
	path := hs.paths.ProcessedPath(config.TeamStatsJSONFile)
	info, err := os.Stat(path)
	if err != nil {
		return ServiceHealth{
			Status:  "missing",
			Message: "no pipeline run has produced statistics yet",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "last updated " + info.ModTime().Format(time.RFC3339),
	}
}
