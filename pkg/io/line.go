package io

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

// Line requests a GPIO line as an on/off channel, for LEDs wired to pins
// without PWM. Duty values at or above half scale drive the line high.
func (io *IO) Line(offset int) (rgbled.PWMChannel, error) {
	var l *gpiocdev.Line
	var err error
	if v, ok := io.lines[offset]; ok {
		l = v
	} else {
		l, err = io.chip.RequestLine(offset, gpiocdev.AsOutput(0))
		if err != nil {
			return nil, fmt.Errorf("failed to request GPIO line: %w", err)
		}
		io.lines[offset] = l
	}
	return &lineChannel{line: l}, nil
}

type lineChannel struct {
	line *gpiocdev.Line
}

func (c *lineChannel) SetDuty(v uint16) error {
	state := 0
	if v >= 0x8000 {
		state = 1
	}
	return c.line.SetValue(state)
}

func (c *lineChannel) Close() error {
	_ = c.line.SetValue(0)
	_ = c.line.Reconfigure(gpiocdev.AsInput)
	return c.line.Close()
}
