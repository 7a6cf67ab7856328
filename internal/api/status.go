package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
)

func registerStatusEndpoints(rest *echo.Echo, status controller.StatusProvider) {
	rest.GET("/status/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, status.Status(), indentationChar)
	})
}
