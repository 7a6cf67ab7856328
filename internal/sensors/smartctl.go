package sensors

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

const smartctlTimeout = 5 * time.Second

var smartctlTemperatureKeys = []string{
	"Temperature_Celsius",
	"Airflow_Temperature_Cel",
	"Composite Temperature",
}

func readSmartctlTemp(ctx context.Context, smartctlPath string, device string) (float64, error) {
	out, err := util.SafeCmdExecution(ctx, smartctlPath, []string{"-A", device}, smartctlTimeout)
	if err != nil {
		return 0, err
	}
	return parseSmartctlOutput(out, device)
}

// parseSmartctlOutput returns the first plausible temperature of `smartctl -A` output.
func parseSmartctlOutput(output string, device string) (float64, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !isSmartctlTemperatureLine(line) {
			continue
		}
		if temp, ok := lastPlausibleTemperature(strings.Fields(line)); ok {
			return float64(temp), nil
		}
	}
	return 0, fmt.Errorf("no temperature in smartctl output for %s", device)
}

func isSmartctlTemperatureLine(line string) bool {
	// NVMe: "Temperature:                        36 Celsius"
	if strings.HasPrefix(strings.TrimSpace(line), "Temperature:") {
		return true
	}
	for _, key := range smartctlTemperatureKeys {
		if strings.Contains(line, key) {
			return true
		}
	}
	return false
}

// lastPlausibleTemperature scans fields backwards for an integer between 0 and 200 (exclusive)
func lastPlausibleTemperature(fields []string) (int, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		value, err := strconv.Atoi(fields[i])
		if err != nil {
			continue
		}
		if value > 0 && value < 200 {
			return value, true
		}
	}
	return 0, false
}
