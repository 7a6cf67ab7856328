package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
)

type SensorInfo struct {
	Id      string           `json:"id"`
	Label   string           `json:"label"`
	Reading *sensors.Reading `json:"reading,omitempty"`
}

func registerSensorEndpoints(rest *echo.Echo, source SensorSource) {
	group := rest.Group("/sensors")

	group.GET("/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, describeSensors(source), indentationChar)
	})
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		for _, info := range describeSensors(source) {
			if info.Id == id {
				return c.JSONPretty(http.StatusOK, info, indentationChar)
			}
		}
		return returnNotFound(c, id)
	})
}

func describeSensors(source SensorSource) []SensorInfo {
	readings := reprint.This(source.LastReadings()).(map[string]sensors.Reading)

	result := []SensorInfo{}
	for _, sensor := range source.Sensors() {
		info := SensorInfo{
			Id:    sensor.GetId(),
			Label: sensor.GetLabel(),
		}
		if reading, ok := readings[sensor.GetId()]; ok {
			info.Reading = &reading
		}
		result = append(result, info)
	}
	return result
}
