package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
)

type PwmPeriod struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

type FanInfo struct {
	Id          string     `json:"id"`
	Label       string     `json:"label"`
	Duty        float64    `json:"duty"`
	AppliedDuty float64    `json:"appliedDuty"`
	Enabled     bool       `json:"enabled"`
	PeriodUs    *PwmPeriod `json:"periodUs,omitempty"`
	// DutyNs is read back from the pwmchip channel, hardware PWM only
	DutyNs      *int       `json:"dutyNs,omitempty"`
	WriteErrors uint64     `json:"writeErrors"`
}

func registerFanEndpoints(rest *echo.Echo, fan fans.Fan, status controller.StatusProvider) {
	rest.GET("/fan/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, describeFan(fan, status.Status()), indentationChar)
	})
}

func describeFan(fan fans.Fan, status controller.Status) FanInfo {
	info := FanInfo{
		Id:          fan.GetId(),
		Label:       fan.GetLabel(),
		Duty:        fan.GetDuty(),
		AppliedDuty: status.AppliedDuty,
		Enabled:     status.Enabled,
		WriteErrors: status.WriteErrors,
	}
	if software, ok := fan.(*fans.SoftwarePwmFan); ok {
		minimum, average, maximum := software.PeriodStats()
		info.PeriodUs = &PwmPeriod{Min: minimum, Avg: average, Max: maximum}
		info.WriteErrors += software.WriteErrors()
	}
	if hardware, ok := fan.(*fans.HardwarePwmFan); ok {
		if dutyNs, err := hardware.ReadDutyNs(); err == nil {
			info.DutyNs = &dutyNs
		}
	}
	return info
}
