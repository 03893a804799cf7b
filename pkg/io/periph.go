package io

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"

	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

// PCA9685 drives LED channels through a PCA9685 over periph.io, as an
// alternative to the gobot backend in IO. Useful off the Pi or when the
// rest of the program is already on periph.
type PCA9685 struct {
	bus i2c.BusCloser
	dev *pca9685.Dev
	mu  sync.Mutex
}

// OpenPCA9685 opens the named I2C bus (e.g. "I2C1") and configures the
// PCA9685 at addr (usually 0x40) for LED dimming.
func OpenPCA9685(busName string, addr uint16) (*PCA9685, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to open PCA9685: %w", err)
	}
	if err := dev.SetPwmFreq(ledPWMFreq * physic.Hertz); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to set PWM frequency: %w", err)
	}
	return &PCA9685{bus: bus, dev: dev}, nil
}

// Channel returns PCA9685 channel n as a PWM output for the LED driver.
func (p *PCA9685) Channel(n int) rgbled.PWMChannel {
	return &periphChannel{p: p, n: n}
}

func (p *PCA9685) Close() error {
	return p.bus.Close()
}

type periphChannel struct {
	p *PCA9685
	n int
}

func (c *periphChannel) SetDuty(v uint16) error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	return c.p.dev.SetPwm(c.n, 0, gpio.Duty(v>>4))
}

func (c *periphChannel) Close() error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	return c.p.dev.SetPwm(c.n, 0, 0)
}
