package configuration

import "time"

const (
	CpuSensorTypeFile     = "file"
	CpuSensorTypeGopsutil = "gopsutil"

	StorageMethodAuto     = "auto"
	StorageMethodSysfs    = "sysfs"
	StorageMethodSmartctl = "smartctl"

	MaxStorageDevices = 8
)

type SensorsConfig struct {
	// Timeout bounds every individual sensor read.
	Timeout time.Duration        `json:"timeout" mapstructure:"timeout"`
	Cpu     CpuSensorConfig      `json:"cpu" mapstructure:"cpu"`
	Storage StorageSensorsConfig `json:"storage" mapstructure:"storage"`
}

type CpuSensorConfig struct {
	Type string `json:"type" mapstructure:"type"`
	// Path of a file containing millidegrees, used by the "file" type.
	Path string `json:"path" mapstructure:"path"`
	// SensorKey is matched against gopsutil sensor keys, used by the "gopsutil" type.
	SensorKey string `json:"sensorKey" mapstructure:"sensor_key"`
}

type StorageSensorsConfig struct {
	Devices       []string      `json:"devices" mapstructure:"devices"`
	Method        string        `json:"method" mapstructure:"method"`
	SmartctlPath  string        `json:"smartctlPath" mapstructure:"smartctl_path"`
	CacheDuration time.Duration `json:"cacheDuration" mapstructure:"cache_duration"`
}
