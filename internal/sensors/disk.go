package sensors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
	"golang.org/x/sys/unix"
)

const (
	hdioDriverCmd    = 0x031f // ioctl: ATA drive command
	ataOpSmart       = 0xb0   // WIN_SMART ATA command
	smartReadData    = 0xd0   // SMART READ DATA subcommand
	smartAttrAirflow = 190    // SMART attribute: airflow temp
	smartAttrTemp    = 194    // SMART attribute: drive temp
)

// DiskSensor reads the temperature of a single storage device.
type DiskSensor struct {
	Device       string `json:"device"`
	Method       string `json:"method"`
	SmartctlPath string `json:"smartctlPath"`

	sysBase string
	devBase string
	byId    string
}

func NewDiskSensor(device string, config configuration.StorageSensorsConfig) *DiskSensor {
	return &DiskSensor{
		Device:       device,
		Method:       config.Method,
		SmartctlPath: config.SmartctlPath,
		sysBase:      "/sys",
		devBase:      "/dev",
		byId:         "/dev/disk/by-id",
	}
}

func (s *DiskSensor) GetId() string {
	return s.Device
}

func (s *DiskSensor) GetLabel() string {
	return fmt.Sprintf("Disk (%s)", s.Device)
}

func (s *DiskSensor) GetValue(ctx context.Context) (float64, error) {
	resolved, err := resolveDeviceAt(s.Device, s.devBase, s.byId)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}

	var errs []error
	if s.Method != configuration.StorageMethodSmartctl {
		// Primary: sysfs hwmon (drivetemp for SATA, nvme-hwmon for NVMe)
		temp, err := readDiskTempFromSysfsAt(s.sysBase, filepath.Base(resolved))
		if err == nil {
			return temp, nil
		}
		errs = append(errs, err)

		// Fallback: ATA SMART ioctl (SATA/IDE only)
		temp, err = readAtaSmartTemp(resolved)
		if err == nil {
			return temp, nil
		}
		errs = append(errs, err)
	}

	if s.Method != configuration.StorageMethodSysfs {
		temp, err := readSmartctlTemp(ctx, s.SmartctlPath, resolved)
		if err == nil {
			return temp, nil
		}
		errs = append(errs, err)
	}

	return 0, fmt.Errorf("%w: %s: %v", ErrSensorUnavailable, s.Device, errors.Join(errs...))
}

func resolveDeviceAt(device, devBase, byIdBase string) (string, error) {
	if strings.HasPrefix(device, "/") {
		resolved, err := filepath.EvalSymlinks(device)
		if err != nil {
			return "", fmt.Errorf("failed to resolve device %s: %w", device, err)
		}
		return resolved, nil
	}

	// Relative name: try <devBase>/<device> first (covers "sda", "nvme0n1", "disk/by-id/…")
	devPath := devBase + "/" + device
	if resolved, err := filepath.EvalSymlinks(devPath); err == nil {
		return resolved, nil
	}

	// Fallback: try <byIdBase>/<device> (covers bare IDs like "ata-…", "nvme-…")
	byIdPath := byIdBase + "/" + device
	if resolved, err := filepath.EvalSymlinks(byIdPath); err == nil {
		return resolved, nil
	}

	_, err := filepath.EvalSymlinks(devPath)
	return "", fmt.Errorf("failed to resolve device %s: %w", device, err)
}

// readDiskTempFromSysfsAt returns °C from the hwmon node of a block device
func readDiskTempFromSysfsAt(sysBase, deviceName string) (float64, error) {
	patterns := []string{
		fmt.Sprintf("%s/class/block/%s/device/hwmon/hwmon*/temp*_input", sysBase, deviceName),
	}
	// NVMe: nvme0n1 → nvme0 controller path
	if strings.HasPrefix(deviceName, "nvme") {
		ctrl := deviceName
		if idx := strings.Index(deviceName[4:], "n"); idx >= 0 {
			ctrl = deviceName[:4+idx]
		}
		patterns = append(patterns,
			fmt.Sprintf("%s/class/nvme/%s/hwmon*/temp*_input", sysBase, ctrl))
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			continue
		}
		millidegrees, err := util.ReadIntFromFile(selectTempInput(matches))
		if err != nil {
			continue
		}
		return float64(millidegrees) / 1000, nil
	}
	return 0, fmt.Errorf("no sysfs hwmon temperature for %s", deviceName)
}

// selectTempInput prefers temp1_input (composite/device temperature)
func selectTempInput(paths []string) string {
	for _, p := range paths {
		if strings.HasSuffix(p, "temp1_input") {
			return p
		}
	}
	return paths[0]
}

// readAtaSmartTemp reads the temperature in °C via the HDIO_DRIVE_CMD ioctl.
func readAtaSmartTemp(device string) (float64, error) {
	f, err := os.Open(device)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", device, err)
	}
	defer f.Close()

	buf := make([]byte, 4+512)
	buf[0] = ataOpSmart
	buf[1] = 1 // one sector of data to return
	buf[2] = smartReadData
	buf[3] = 0

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		f.Fd(),
		hdioDriverCmd,
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return 0, fmt.Errorf("HDIO_DRIVE_CMD ioctl on %s: %w", device, errno)
	}

	return parseAtaSmartAttributes(buf[4:], device)
}

// parseAtaSmartAttributes parses the SMART READ DATA attribute table.
// data is the 512-byte payload without the 4-byte ioctl header.
func parseAtaSmartAttributes(data []byte, device string) (float64, error) {
	// offset 2: attribute table, 30 entries × 12 bytes
	// each entry: [id(1), flags(2), current(1), worst(1), raw(6), reserved(1)]
	for i := 0; i < 30; i++ {
		off := 2 + i*12
		if off+12 > len(data) {
			break
		}
		id := data[off]
		if id == smartAttrTemp || id == smartAttrAirflow {
			return float64(data[off+5]), nil // raw[0] = degrees C
		}
	}
	return 0, fmt.Errorf("no temperature attribute in SMART data for %s", device)
}
