package fans

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPwmChip(t *testing.T, withChannel bool) (configuration.PwmConfig, string) {
	sysfs := t.TempDir()
	chip := filepath.Join(sysfs, "pwmchip0")
	require.NoError(t, os.MkdirAll(chip, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(chip, "export"), nil, 0o644))

	channel := filepath.Join(chip, "pwm0")
	if withChannel {
		require.NoError(t, os.MkdirAll(channel, 0o755))
		for _, name := range []string{"period", "enable", "duty_cycle"} {
			require.NoError(t, os.WriteFile(filepath.Join(channel, name), []byte("0"), 0o644))
		}
	}

	config := configuration.DefaultConfiguration().Pwm
	config.Hardware = true
	config.SysfsPath = sysfs
	return config, channel
}

func readAttribute(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestHardwarePwmFan_Init(t *testing.T) {
	// GIVEN
	config, channel := createPwmChip(t, true)

	// WHEN
	fan, err := NewFan(config)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, channel, fan.GetId())
	assert.Equal(t, "40000", readAttribute(t, filepath.Join(channel, "period")))
	assert.Equal(t, "1", readAttribute(t, filepath.Join(channel, "enable")))
	assert.Equal(t, "0", readAttribute(t, filepath.Join(channel, "duty_cycle")))
	assert.Equal(t, "", readAttribute(t, filepath.Join(filepath.Dir(channel), "export")))
}

func TestHardwarePwmFan_InitExportsMissingChannel(t *testing.T) {
	// GIVEN
	config, channel := createPwmChip(t, false)

	// WHEN
	_, err := NewHardwarePwmFan(config)

	// THEN
	// the fake sysfs does not create the channel directory on export
	assert.ErrorIs(t, err, ErrInitializationFailed)
	assert.Equal(t, "0", readAttribute(t, filepath.Join(filepath.Dir(channel), "export")))
}

func TestHardwarePwmFan_SetDuty(t *testing.T) {
	// GIVEN
	config, channel := createPwmChip(t, true)
	fan, err := NewHardwarePwmFan(config)
	require.NoError(t, err)

	tests := []struct {
		duty     float64
		expected string
		stored   float64
	}{
		{0.5, "20000", 0.5},
		{0.25, "10000", 0.25},
		{1.0, "40000", 1.0},
		{1.7, "40000", 1.0},
		{-0.2, "0", 0.0},
	}
	for _, tt := range tests {
		// WHEN
		err := fan.SetDuty(tt.duty)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, tt.expected, readAttribute(t, filepath.Join(channel, "duty_cycle")))
		assert.Equal(t, tt.stored, fan.GetDuty())
	}
	dutyNs, err := fan.ReadDutyNs()
	require.NoError(t, err)
	assert.Equal(t, 0, dutyNs)
}

func TestHardwarePwmFan_SetDutyWriteFailure(t *testing.T) {
	// GIVEN
	config, channel := createPwmChip(t, true)
	fan, err := NewHardwarePwmFan(config)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(channel))

	// WHEN
	err = fan.SetDuty(0.5)

	// THEN
	assert.ErrorIs(t, err, ErrActuatorWriteFailed)
}

func TestHardwarePwmFan_CloseOnce(t *testing.T) {
	// GIVEN
	config, channel := createPwmChip(t, true)
	fan, err := NewHardwarePwmFan(config)
	require.NoError(t, err)
	require.NoError(t, fan.SetDuty(0.8))

	// WHEN
	err = fan.Close()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "0", readAttribute(t, filepath.Join(channel, "duty_cycle")))
	assert.Equal(t, 0.0, fan.GetDuty())

	// a second close must not touch the channel again
	require.NoError(t, os.WriteFile(filepath.Join(channel, "duty_cycle"), []byte("123"), 0o644))
	assert.NoError(t, fan.Close())
	assert.Equal(t, "123", readAttribute(t, filepath.Join(channel, "duty_cycle")))
}

func TestDutyToNs(t *testing.T) {
	assert.Equal(t, 0, DutyToNs(0, 40000))
	assert.Equal(t, 2800, DutyToNs(0.07, 40000))
	assert.Equal(t, 13320, DutyToNs(0.333, 40000))
	assert.Equal(t, 40000, DutyToNs(1, 40000))
	assert.Equal(t, 40000, DutyToNs(2, 40000))
	assert.Equal(t, 0, DutyToNs(-1, 40000))
}
