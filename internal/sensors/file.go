package sensors

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

// FileSensor reads millidegrees Celsius from a file, e.g. a thermal_zone temp attribute.
type FileSensor struct {
	Id   string `json:"id"`
	Path string `json:"path"`
}

func (sensor FileSensor) GetId() string {
	return sensor.Id
}

func (sensor FileSensor) GetLabel() string {
	return fmt.Sprintf("File (%s)", sensor.Path)
}

func (sensor FileSensor) GetValue(ctx context.Context) (float64, error) {
	filePath := sensor.Path
	// resolve home dir path
	if strings.HasPrefix(filePath, "~") {
		currentUser, err := user.Current()
		if err != nil {
			return 0, err
		}

		filePath = filepath.Join(currentUser.HomeDir, filePath[1:])
	}

	millidegrees, err := util.ReadIntFromFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSensorUnavailable, filePath, err)
	}

	return float64(millidegrees) / 1000, nil
}
