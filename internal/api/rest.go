package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
)

const (
	urlParamId      = "id"
	indentationChar = "  "

	metricsSubsystem = "pentafan_api"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// SensorSource is implemented by sensors.SensorProvider
type SensorSource interface {
	Sensors() []sensors.Sensor
	LastReadings() map[string]sensors.Reading
}

// Dependencies are the read-only views the API serves
type Dependencies struct {
	Status  controller.StatusProvider
	Fan     fans.Fan
	Sensors SensorSource
	// Registry collects the request metrics, a new one is created when nil
	Registry *prometheus.Registry
}

func CreateRestService(deps Dependencies) *echo.Echo {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registry,
	}))

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	registerStatusEndpoints(echoRest, deps.Status)
	registerFanEndpoints(echoRest, deps.Fan, deps.Status)
	registerSensorEndpoints(echoRest, deps.Sensors)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}
