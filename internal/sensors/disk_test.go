package sensors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTempInput_PrefersTemp1Input(t *testing.T) {
	paths := []string{
		"/sys/class/block/sda/device/hwmon/hwmon1/temp2_input",
		"/sys/class/block/sda/device/hwmon/hwmon1/temp1_input",
	}
	got := selectTempInput(paths)
	assert.Equal(t, "/sys/class/block/sda/device/hwmon/hwmon1/temp1_input", got)
}

func TestSelectTempInput_FallsBackToFirst(t *testing.T) {
	paths := []string{
		"/sys/class/block/sda/device/hwmon/hwmon1/temp2_input",
		"/sys/class/block/sda/device/hwmon/hwmon1/temp3_input",
	}
	got := selectTempInput(paths)
	assert.Equal(t, paths[0], got)
}

// buildAtaData builds a SMART READ DATA payload with one attribute at table position 3
func buildAtaData(attrID byte, rawByte0 byte) []byte {
	data := make([]byte, 512)
	off := 2 + 3*12
	data[off] = attrID
	data[off+5] = rawByte0
	return data
}

func TestParseAtaSmartAttributes_DriveTemperature(t *testing.T) {
	temp, err := parseAtaSmartAttributes(buildAtaData(194, 42), "/dev/sda")
	require.NoError(t, err)
	assert.Equal(t, 42.0, temp)
}

func TestParseAtaSmartAttributes_AirflowTemperature(t *testing.T) {
	temp, err := parseAtaSmartAttributes(buildAtaData(190, 35), "/dev/sda")
	require.NoError(t, err)
	assert.Equal(t, 35.0, temp)
}

func TestParseAtaSmartAttributes_NoTempAttr(t *testing.T) {
	_, err := parseAtaSmartAttributes(make([]byte, 512), "/dev/sda")
	assert.ErrorContains(t, err, "no temperature attribute")
}

func TestParseAtaSmartAttributes_TruncatedData(t *testing.T) {
	_, err := parseAtaSmartAttributes(make([]byte, 10), "/dev/sda")
	assert.ErrorContains(t, err, "no temperature attribute")
}

func writeTempFile(t *testing.T, dir, rel string, value string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(value), 0o644))
}

func TestReadDiskTempFromSysfsAt_SATA(t *testing.T) {
	tmp := t.TempDir()
	writeTempFile(t, tmp, "class/block/sda/device/hwmon/hwmon1/temp1_input", "38000\n")

	temp, err := readDiskTempFromSysfsAt(tmp, "sda")
	require.NoError(t, err)
	assert.Equal(t, 38.0, temp)
}

func TestReadDiskTempFromSysfsAt_NVMe(t *testing.T) {
	tmp := t.TempDir()
	writeTempFile(t, tmp, "class/nvme/nvme0/hwmon0/temp1_input", "45500\n")

	temp, err := readDiskTempFromSysfsAt(tmp, "nvme0n1")
	require.NoError(t, err)
	assert.Equal(t, 45.5, temp)
}

func TestReadDiskTempFromSysfsAt_NotFound(t *testing.T) {
	_, err := readDiskTempFromSysfsAt(t.TempDir(), "sda")
	assert.ErrorContains(t, err, "no sysfs hwmon temperature")
}

func makeSymlink(t *testing.T, dir, rel, target string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.Symlink(target, path))
}

func TestResolveDeviceAt_RelativeViaDevBase(t *testing.T) {
	tmp := t.TempDir()
	real := filepath.Join(tmp, "sda")
	require.NoError(t, os.WriteFile(real, nil, 0o644))
	makeSymlink(t, tmp, "dev/sda", real)

	got, err := resolveDeviceAt("sda", tmp+"/dev", tmp+"/dev/disk/by-id")
	require.NoError(t, err)
	assert.Equal(t, real, got)
}

func TestResolveDeviceAt_RelativeViaByIdBase(t *testing.T) {
	tmp := t.TempDir()
	real := filepath.Join(tmp, "sdb")
	require.NoError(t, os.WriteFile(real, nil, 0o644))
	makeSymlink(t, tmp, "dev/disk/by-id/ata-WD_RED_XXXX", real)

	got, err := resolveDeviceAt("ata-WD_RED_XXXX", tmp+"/dev", tmp+"/dev/disk/by-id")
	require.NoError(t, err)
	assert.Equal(t, real, got)
}

func TestResolveDeviceAt_RelativeNotFound(t *testing.T) {
	tmp := t.TempDir()
	_, err := resolveDeviceAt("sdz", tmp+"/dev", tmp+"/dev/disk/by-id")
	assert.ErrorContains(t, err, "failed to resolve device")
}

func newTestDiskSensor(t *testing.T, device string, method string) (*DiskSensor, string) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "dev"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "dev", device), nil, 0o644))

	sensor := NewDiskSensor(device, configuration.StorageSensorsConfig{
		Method:       method,
		SmartctlPath: filepath.Join(tmp, "missing-smartctl"),
	})
	sensor.sysBase = filepath.Join(tmp, "sys")
	sensor.devBase = filepath.Join(tmp, "dev")
	sensor.byId = filepath.Join(tmp, "dev", "disk", "by-id")
	return sensor, tmp
}

func TestDiskSensor_GetValueFromSysfs(t *testing.T) {
	// GIVEN
	sensor, tmp := newTestDiskSensor(t, "sdc", configuration.StorageMethodSysfs)
	writeTempFile(t, tmp, "sys/class/block/sdc/device/hwmon/hwmon3/temp1_input", "41000")

	// WHEN
	temp, err := sensor.GetValue(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 41.0, temp)
	assert.Equal(t, "sdc", sensor.GetId())
	assert.Equal(t, "Disk (sdc)", sensor.GetLabel())
}

func TestDiskSensor_GetValueAllMethodsFail(t *testing.T) {
	// GIVEN
	sensor, _ := newTestDiskSensor(t, "sdd", configuration.StorageMethodAuto)

	// WHEN
	_, err := sensor.GetValue(context.Background())

	// THEN
	assert.True(t, errors.Is(err, ErrSensorUnavailable))
	assert.ErrorContains(t, err, "no sysfs hwmon temperature")
	assert.ErrorContains(t, err, "missing-smartctl")
}

func TestDiskSensor_GetValueDeviceNotFound(t *testing.T) {
	// GIVEN
	sensor, _ := newTestDiskSensor(t, "sda", configuration.StorageMethodAuto)
	sensor.Device = "sdx"

	// WHEN
	_, err := sensor.GetValue(context.Background())

	// THEN
	assert.ErrorIs(t, err, ErrSensorUnavailable)
	assert.ErrorContains(t, err, "failed to resolve")
}
