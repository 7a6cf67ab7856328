package fans

import (
	"fmt"

	"github.com/warthog618/gpiod"
)

const gpioConsumer = "pentafan"

// gpiodLine is a line requested through the GPIO character device
type gpiodLine struct {
	chip *gpiod.Chip
	line *gpiod.Line
}

func openGpiodLine(chipIndex int, offset int) (*gpiodLine, error) {
	chipName := fmt.Sprintf("gpiochip%d", chipIndex)
	chip, err := gpiod.NewChip(chipName, gpiod.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, fmt.Errorf("cannot open GPIO chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(offset, gpiod.AsOutput(lineInactive))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("cannot request GPIO line %d on %s: %w", offset, chipName, err)
	}

	return &gpiodLine{chip: chip, line: line}, nil
}

func (l *gpiodLine) SetValue(value int) error {
	return l.line.SetValue(value)
}

func (l *gpiodLine) Close() error {
	lineErr := l.line.Close()
	chipErr := l.chip.Close()
	if lineErr != nil {
		return lineErr
	}
	return chipErr
}
