package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/person-api/internal/config"
	"github.com/deppfellow/person-api/internal/middleware"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// dependencyCheck pings one dependency within ctx.
type dependencyCheck struct {
	name string
	// required dependencies make the service unhealthy when they fail.
	required bool
	ping     func(ctx context.Context) error
}

// CheckHealth reports the status of the service and of its store dependencies.
//
// It returns 200 when every required dependency answers and 503 otherwise.
// Redis only counts as required when it backs the person store.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": cfg.Primary.Env,
		"store":       cfg.Store.Driver,
	}

	checks := make(map[string]interface{})
	isHealthy := true

	for _, check := range h.dependencyChecks() {
		result, ok := h.runCheck(c.Request().Context(), logger, check)
		checks[check.name] = result
		if !ok && check.required {
			isHealthy = false
		}
	}
	response["checks"] = checks

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) dependencyChecks() []dependencyCheck {
	obs := h.server.Config.Observability
	if obs == nil {
		return nil
	}

	var checks []dependencyCheck

	if h.server.DB != nil && obs.HealthCheckEnabled("database") {
		checks = append(checks, dependencyCheck{
			name:     "database",
			required: true,
			ping:     h.server.DB.Pool.Ping,
		})
	}

	if h.server.Redis != nil && obs.HealthCheckEnabled("redis") {
		checks = append(checks, dependencyCheck{
			name:     "redis",
			required: h.server.Config.Store.Driver == config.StoreDriverRedis,
			ping: func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			},
		})
	}

	return checks
}

func (h *HealthHandler) runCheck(parent context.Context, logger zerolog.Logger, check dependencyCheck) (map[string]interface{}, bool) {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := check.ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", check.name)

		h.recordHealthEvent(map[string]interface{}{
			"check_type":       check.name,
			"operation":        "health_check",
			"error_type":       check.name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
		}, false
	}

	logger.Info().
		Str("check", check.name).
		Dur("response_time", elapsed).
		Msgf("%s health check passed", check.name)

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

// recordHealthEvent sends a HealthCheckError custom event when New Relic is enabled.
func (h *HealthHandler) recordHealthEvent(params map[string]interface{}) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", params)
	}
}
