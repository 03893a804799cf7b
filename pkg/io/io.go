package io

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"

	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

// ledPWMFreq is the PCA9685 output frequency in Hz. The chip tops out
// around 1526Hz; 1000Hz is comfortably above visible flicker.
const ledPWMFreq = 1000

type IO struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
	pwm   *i2c.PCA9685Driver
	mu    sync.Mutex
}

// New opens the GPIO chip (e.g. "gpiochip0") and starts the PCA9685
// driver on the Pi's I2C bus.
func New(chipset string) (*IO, error) {
	c, err := gpiocdev.NewChip(chipset)
	if err != nil {
		return nil, fmt.Errorf("failed to open gpio chip %s: %w", chipset, err)
	}

	r := raspi.NewAdaptor()
	pwm := i2c.NewPCA9685Driver(r)
	if err := pwm.Start(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to start PCA9685 driver: %w", err)
	}
	if err := pwm.SetPWMFreq(ledPWMFreq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to set PWM frequency: %w", err)
	}

	return &IO{
		chip:  c,
		lines: make(map[int]*gpiocdev.Line),
		pwm:   pwm,
	}, nil
}

// Channel returns PCA9685 channel n as a PWM output for the LED driver.
func (io *IO) Channel(n int) rgbled.PWMChannel {
	return &pcaChannel{io: io, n: n}
}

type pcaChannel struct {
	io *IO
	n  int
}

func (c *pcaChannel) SetDuty(v uint16) error {
	c.io.mu.Lock()
	defer c.io.mu.Unlock()
	// The PCA9685 counts 12 bits per period.
	return c.io.pwm.SetPWM(c.n, 0, v>>4)
}

func (c *pcaChannel) Close() error {
	c.io.mu.Lock()
	defer c.io.mu.Unlock()
	return c.io.pwm.SetPWM(c.n, 0, 0)
}

func (io *IO) Close() {
	for _, l := range io.lines {
		_ = l.SetValue(0)
		_ = l.Reconfigure(gpiocdev.AsInput)
		_ = l.Close()
	}
	if io.pwm != nil {
		_ = io.pwm.Halt()
		time.Sleep(100 * time.Millisecond) // Give it time to halt
	}
	_ = io.chip.Close()
}
