package configuration

import "time"

// HistoryConfig controls the telemetry recorder. Recorded samples are only
// ever read by the CLI, never by the control loop.
type HistoryConfig struct {
	Enabled   bool          `json:"enabled" mapstructure:"enabled"`
	DbPath    string        `json:"dbPath" mapstructure:"db_path"`
	Interval  time.Duration `json:"interval" mapstructure:"interval"`
	Retention time.Duration `json:"retention" mapstructure:"retention"`
}
