package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"project-tracker/pkg/logger"
	"project-tracker/pkg/metrics"
	"project-tracker/pkg/utils"
)

// HealthCheck คืน error ถ้า dependency ใช้งานไม่ได้
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 3 * time.Second

type HealthHandler struct {
	checks  map[string]HealthCheck
	metrics *metrics.Metrics
}

func NewHealthHandler(checks map[string]HealthCheck, m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		metrics: m,
	}
}

// Health GET /health ตอบ 503 ถ้ามี dependency ตัวใดล่ม
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.WarnContext(ctx, "Health check failed", "component", name, "error", err)
			components[name] = "down"
			status = "degraded"
			continue
		}
		components[name] = "up"
	}

	body := fiber.Map{
		"status":     status,
		"service":    "project-tracker",
		"components": components,
	}
	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.Response{Success: false, Data: body})
	}
	return utils.SuccessResponse(c, body)
}

// Metrics GET /metrics ในรูปแบบ Prometheus
func (h *HealthHandler) Metrics() fiber.Handler {
	if h.metrics == nil {
		return func(c *fiber.Ctx) error {
			return utils.NotFoundResponse(c, "metrics disabled")
		}
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
}
