package fans

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// periphLine drives a pin looked up by name in the periph.io registry
type periphLine struct {
	pin gpio.PinIO
}

func openPeriphLine(name string) (*periphLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio host init failed: %w", err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio pin %s not found", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("cannot configure %s as output: %w", name, err)
	}
	return &periphLine{pin: pin}, nil
}

func (l *periphLine) SetValue(value int) error {
	return l.pin.Out(value != lineInactive)
}

func (l *periphLine) Close() error {
	return l.pin.Halt()
}
