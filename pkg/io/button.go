package io

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Button delivers press events from a pulled-up GPIO line. The line is
// active low: falling edge is press, rising edge is release.
type Button struct {
	pressed bool
	start   time.Time
	Event   chan ButtonEvent
}

// ButtonEvent is emitted on release with how long the button was held.
type ButtonEvent struct {
	Duration time.Duration
}

func (b *Button) eventHandler(evt gpiocdev.LineEvent) {
	pressed := evt.Type == gpiocdev.LineEventFallingEdge
	if b.pressed == pressed {
		return
	}
	b.pressed = pressed
	if pressed {
		b.start = time.Now()
		return
	}
	held := time.Since(b.start)
	if held < 10*time.Millisecond {
		// contact bounce
		return
	}
	b.Event <- ButtonEvent{Duration: held}
}

// WatchButton requests lineOffset with a pull-up and both-edge events and
// returns a Button delivering debounced presses. The line is released by
// Close.
func (io *IO) WatchButton(lineOffset int) (*Button, error) {
	b := &Button{
		Event: make(chan ButtonEvent, 4),
	}
	line, err := io.chip.RequestLine(lineOffset,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(b.eventHandler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line: %w", err)
	}
	io.lines[lineOffset] = line

	return b, nil
}
