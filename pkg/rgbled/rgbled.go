// Package rgbled drives a common-cathode or common-anode RGB LED through
// three PWM channels.
package rgbled

import (
	"fmt"
)

// PWMChannel is a single PWM-capable output. Implementations are provided
// by pkg/io for the PCA9685 (gobot or periph.io) and for plain GPIO lines;
// anything that can take a 16-bit duty cycle works.
type PWMChannel interface {
	// SetDuty sets the duty cycle, 0 (always low) to 65535 (always high).
	SetDuty(value uint16) error
	// Close releases the underlying output.
	Close() error
}

// RGBLED maps 8-bit colors onto three PWM channels. It assumes exclusive,
// single-owner access to its channels; it is not safe for concurrent use.
type RGBLED struct {
	red, green, blue PWMChannel
	invert           bool
	current          Color
	closed           bool
}

// New builds an RGBLED from three already-configured PWM channels, in
// red, green, blue order. invert selects common-anode wiring: duty cycles
// are complemented so that 255 means full brightness on both wirings.
// The LED is set to black before New returns. The channels are released
// by Close; on error they are left untouched and still belong to the
// caller.
func New(red, green, blue PWMChannel, invert bool) (*RGBLED, error) {
	l := &RGBLED{
		red:    red,
		green:  green,
		blue:   blue,
		invert: invert,
	}
	if err := l.SetColor(Color{}); err != nil {
		return nil, err
	}
	return l, nil
}

// With runs fn with a scoped RGBLED and releases the channels on every
// exit path.
func With(red, green, blue PWMChannel, invert bool, fn func(*RGBLED) error) error {
	l, err := New(red, green, blue, invert)
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(l)
}

// duty rescales an 8-bit channel intensity onto the 16-bit duty range and
// applies the polarity.
func (l *RGBLED) duty(v uint8) uint16 {
	d := uint16(v) * 257 // 0xFFFF / 0xFF
	if l.invert {
		d = 0xFFFF - d
	}
	return d
}

// SetColor writes c to the three channels. All validation happens before
// the first hardware write, and the stored color only advances once every
// channel has been written, so a failure never records a half-applied
// color.
func (l *RGBLED) SetColor(c Color) error {
	if l.closed {
		return ErrClosed
	}
	writes := []struct {
		name string
		ch   PWMChannel
		duty uint16
	}{
		{"red", l.red, l.duty(c.R)},
		{"green", l.green, l.duty(c.G)},
		{"blue", l.blue, l.duty(c.B)},
	}
	for _, w := range writes {
		if err := w.ch.SetDuty(w.duty); err != nil {
			return fmt.Errorf("failed to write %s channel: %w", w.name, err)
		}
	}
	l.current = c
	return nil
}

// Set accepts any representation ParseColor understands: a Color, a
// packed 24-bit int, a 3-element []int, or a [3]uint8.
func (l *RGBLED) Set(value any) error {
	c, err := ParseColor(value)
	if err != nil {
		return err
	}
	return l.SetColor(c)
}

// Color returns the last color set. It is stored rather than re-derived
// from the duty registers, so it round-trips exactly under inversion.
func (l *RGBLED) Color() Color {
	return l.current
}

// Closed reports whether Close has run.
func (l *RGBLED) Closed() bool {
	return l.closed
}

// Close turns the LED off and releases the three channels. It is
// idempotent; once closed the controller stays closed and any further
// SetColor fails with ErrClosed.
func (l *RGBLED) Close() error {
	if l.closed {
		return nil
	}
	// Best effort: dark before release.
	_ = l.SetColor(Color{})
	l.closed = true
	l.current = Color{}
	var firstErr error
	for _, ch := range []PWMChannel{l.red, l.green, l.blue} {
		if err := ch.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to release channel: %w", err)
		}
	}
	return firstErr
}
