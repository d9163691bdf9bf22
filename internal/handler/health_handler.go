package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Deep-1402/cafe/prometheus"
)

// HealthCheck returns the health status of the service
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// MetricsHandler exposes the Prometheus metrics endpoint.
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
