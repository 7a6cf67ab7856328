package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/api"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/persistence"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/statistics"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("Fan control requires root permissions to access the PWM output, please run pentafan as root")
	}

	config := configuration.CurrentConfig
	for _, line := range FormatBanner(config) {
		ui.Info("%s", line)
	}

	provider, err := sensors.NewProvider(config.Sensors)
	if err != nil {
		ui.Fatal("Unable to process sensor configuration: %v", err)
	}

	fan, err := fans.NewFan(config.Pwm)
	if err != nil {
		ui.Fatal("Unable to initialize fan output: %v", err)
	}

	engine := thermal.NewEngine(config)
	fanController := controller.NewController(provider, engine, fan, config.ControlLoopRate, configuration.MaxStorageDevices)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Info("Control loop stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		statistics.Register(statistics.NewControllerCollector(fanController))
		statistics.Register(statistics.NewFanCollector([]fans.Fan{fan}))
		statistics.Register(statistics.NewSensorCollector(provider))
		statistics.Register(statistics.NewCurveCollector(map[string]thermal.Curve{
			"cpu":     thermal.NewCurve(config.Fan.FanCurveConfig),
			"storage": thermal.NewCurve(config.FanSsd),
		}))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: fmt.Sprintf(":%d", config.Statistics.Port), Handler: mux}

		g.Add(func() error {
			ui.Info("Serving metrics on %s/metrics", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := server.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			}
		})
	}
	if config.Api.Enabled {
		// === REST API
		rest := api.CreateRestService(api.Dependencies{
			Status:   fanController,
			Fan:      fan,
			Sensors:  provider,
			Registry: prometheus.NewRegistry(),
		})
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Serving REST API on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST API: %w", err)
			}
			return nil
		}, func(err error) {
			stopRestService(rest)
		})
	}
	if config.History.Enabled {
		// === history recorder
		recorder := persistence.NewRecorder(
			persistence.NewPersistence(config.History.DbPath),
			fanController,
			config.History.Interval,
			config.History.Retention,
		)
		historyCtx, historyCancel := context.WithCancel(ctx)

		g.Add(func() error {
			// history is optional, fan control keeps running without it
			if err := recorder.Run(historyCtx); err != nil {
				ui.Warning("History recording disabled: %v", err)
				<-historyCtx.Done()
			}
			return nil
		}, func(err error) {
			historyCancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		signalCtx, signalCancel := context.WithCancel(context.Background())

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-signalCtx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			signalCancel()
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

func stopRestService(rest *echo.Echo) {
	ui.Info("Stopping REST API...")
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()
	if err := rest.Shutdown(timeoutCtx); err != nil {
		ui.Warning("Error stopping REST API: %v", err)
	}
}

// FormatBanner summarizes the effective configuration, one line per entry.
func FormatBanner(config configuration.Configuration) []string {
	t := config.Thermal
	output := "software PWM on " + config.Pwm.Gpio.Backend + " line"
	if config.Pwm.Hardware {
		output = fmt.Sprintf("hardware PWM pwmchip%d/pwm%d", config.Pwm.Chip, config.Pwm.Channel)
	}

	lines := []string{
		"pentafan adaptive fan control",
		fmt.Sprintf("Fan enabled: %t, output: %s, period %dns", config.Fan.Enabled.Get(), output, config.Pwm.PeriodNs),
		fmt.Sprintf("CPU curve: %s", formatCurve(config.Fan.FanCurveConfig)),
		fmt.Sprintf("Storage curve: %s (%s)", formatCurve(config.FanSsd), strings.Join(config.Sensors.Storage.Devices, ", ")),
		fmt.Sprintf("Hysteresis %.1f°C, dead-band %.1f°C, heating trend > %.2f (fast %.2f)", t.Hysteresis, t.Deadband, t.TrendHeat, t.TrendFastHeat),
		fmt.Sprintf("Up rate %.0f%% + %.0f%% per °C of trend (max %.0f%%, cap %.0f%%), down rate %.0f%%, hold %.1fs",
			t.UpRateBase*100, t.UpRateTrendGain*100, t.UpRateMax*100, t.MaxDcChange*100, t.DownRate*100, t.CooldownHoldSec),
	}
	if t.MinEffectiveDc > 0 {
		lines = append(lines, fmt.Sprintf("min_effective_dc=%.2f is deprecated and ignored", t.MinEffectiveDc))
	}
	return lines
}

func formatCurve(curve configuration.FanCurveConfig) string {
	levels := curve.Thresholds()
	return fmt.Sprintf("%.0f/%.0f/%.0f/%.0f°C -> 25/50/75/100%%", levels[0], levels[1], levels[2], levels[3])
}
