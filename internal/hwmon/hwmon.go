package hwmon

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

const DefaultSysBase = "/sys"

type TempInput struct {
	Label string
	Input string
	// Value is in °C, 0 if the input could not be read
	Value float64
}

// HwMonController is a kernel hwmon device exposing temperature inputs
type HwMonController struct {
	Name     string
	Platform string
	Path     string

	Sensors []TempInput
}

type ThermalZone struct {
	Name  string
	Type  string
	Path  string
	Value float64
}

type PwmChip struct {
	Name string
	Path string
	// Channels is the npwm attribute of the chip
	Channels int
}

var numberSuffix = regexp.MustCompile(`\d+$`)

// GetChips lists all hwmon devices with at least one temperature input
func GetChips(sysBase string) []*HwMonController {
	paths, _ := filepath.Glob(filepath.Join(sysBase, "class", "hwmon", "hwmon*"))
	sortNatural(paths)

	var list []*HwMonController
	for _, path := range paths {
		sensors := getTempInputs(path)
		if len(sensors) <= 0 {
			continue
		}

		name := readString(filepath.Join(path, "name"))
		if len(name) <= 0 {
			_, name = filepath.Split(path)
		}
		devicePath, _ := filepath.EvalSymlinks(filepath.Join(path, "device"))
		platform := findPlatform(devicePath)
		if len(platform) <= 0 {
			platform = name
		}

		list = append(list, &HwMonController{
			Name:     name,
			Platform: platform,
			Path:     path,
			Sensors:  sensors,
		})
	}
	return list
}

func getTempInputs(devicePath string) []TempInput {
	inputs, _ := filepath.Glob(filepath.Join(devicePath, "temp*_input"))
	sortNatural(inputs)

	var result []TempInput
	for _, path := range inputs {
		_, input := filepath.Split(path)
		value := 0.0
		if millidegrees, err := util.ReadIntFromFile(path); err == nil {
			value = float64(millidegrees) / 1000
		}
		result = append(result, TempInput{
			Label: getLabel(devicePath, input),
			Input: path,
			Value: value,
		})
	}
	return result
}

// GetThermalZones lists the thermal zones, the usual source of the CPU temperature
func GetThermalZones(sysBase string) []ThermalZone {
	paths, _ := filepath.Glob(filepath.Join(sysBase, "class", "thermal", "thermal_zone*"))
	sortNatural(paths)

	var result []ThermalZone
	for _, path := range paths {
		_, name := filepath.Split(path)
		zone := ThermalZone{
			Name: name,
			Type: readString(filepath.Join(path, "type")),
			Path: filepath.Join(path, "temp"),
		}
		if millidegrees, err := util.ReadIntFromFile(zone.Path); err == nil {
			zone.Value = float64(millidegrees) / 1000
		}
		result = append(result, zone)
	}
	return result
}

// GetPwmChips lists the sysfs PWM controllers usable for hardware PWM
func GetPwmChips(sysBase string) []PwmChip {
	paths, _ := filepath.Glob(filepath.Join(sysBase, "class", "pwm", "pwmchip*"))
	sortNatural(paths)

	var result []PwmChip
	for _, path := range paths {
		_, name := filepath.Split(path)
		channels, err := util.ReadIntFromFile(filepath.Join(path, "npwm"))
		if err != nil {
			channels = 0
		}
		result = append(result, PwmChip{Name: name, Path: path, Channels: channels})
	}
	return result
}

// getLabel read the label of an input of a device
func getLabel(devicePath string, input string) string {
	labelPath := filepath.Join(devicePath, strings.TrimSuffix(input, "input")+"label")

	label := readString(labelPath)
	if len(label) <= 0 {
		label = strings.TrimSuffix(input, "_input")
	}
	return label
}

func findPlatform(devicePath string) string {
	platformRegex := regexp.MustCompile(`/platform/([^/]+)`)
	match := platformRegex.FindStringSubmatch(devicePath)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func readString(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// sortNatural sorts paths so that hwmon10 comes after hwmon9
func sortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		prefixA, prefixB := numberSuffix.ReplaceAllString(a, ""), numberSuffix.ReplaceAllString(b, "")
		if prefixA != prefixB {
			return a < b
		}
		numA, _ := strconv.Atoi(numberSuffix.FindString(a))
		numB, _ := strconv.Atoi(numberSuffix.FindString(b))
		return numA < numB
	})
}
