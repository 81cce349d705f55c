package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/countyhealth/internal/middleware"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/deppfellow/countyhealth/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status       string                 `json:"status"`
	ResponseTime string                 `json:"response_time"`
	Error        string                 `json:"error,omitempty"`
	Dataset      *service.DatasetStatus `json:"dataset,omitempty"`
}

// HealthHandler reports whether the service and its dependencies are usable.
type HealthHandler struct {
	Handler
	statusService *service.StatusService
}

func NewHealthHandler(s *server.Server, statusService *service.StatusService) *HealthHandler {
	return &HealthHandler{
		Handler:       NewHandler(s),
		statusService: statusService,
	}
}

// CheckHealth runs the configured checks and answers 200 when the database
// and dataset are usable, 503 otherwise. Redis is optional and never fails
// the overall status.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthChecks.Timeout)
	defer cancel()

	if obs.HealthCheckEnabled("database") {
		result := h.run(func() error {
			if h.server.DB == nil {
				return fmt.Errorf("database not initialized")
			}
			return h.server.DB.Pool.Ping(ctx)
		})
		response.Checks["database"] = result
		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
			h.recordCheckError("database", result)
			logger.Error().Str("error", result.Error).Msg("database health check failed")
		}
	}

	if obs.HealthCheckEnabled("redis") && h.server.Redis != nil {
		result := h.run(func() error {
			return h.server.Redis.Ping(ctx).Err()
		})
		response.Checks["redis"] = result
		if result.Status != statusHealthy {
			h.recordCheckError("redis", result)
			logger.Warn().Str("error", result.Error).Msg("redis health check failed")
		}
	}

	if obs.HealthCheckEnabled("dataset") && h.server.DB != nil {
		var dataset *service.DatasetStatus
		result := h.run(func() error {
			var err error
			dataset, err = h.statusService.DatasetStatus(ctx)
			if err == nil && !dataset.Ready {
				return fmt.Errorf("lookup tables missing, run the importer")
			}
			return err
		})
		result.Dataset = dataset
		response.Checks["dataset"] = result
		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
			h.recordCheckError("dataset", result)
			logger.Error().Str("error", result.Error).Msg("dataset health check failed")
		}
	}

	status := http.StatusOK
	if response.Status != statusHealthy {
		status = http.StatusServiceUnavailable
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
	} else {
		logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	}

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) run(check func() error) CheckResult {
	start := time.Now()
	err := check()
	result := CheckResult{
		Status:       statusHealthy,
		ResponseTime: time.Since(start).String(),
	}
	if err != nil {
		result.Status = statusUnhealthy
		result.Error = err.Error()
	}
	return result
}

func (h *HealthHandler) recordCheckError(check string, result CheckResult) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":    check,
		"operation":     "health_check",
		"error_type":    check + "_unhealthy",
		"error_message": result.Error,
	})
}
