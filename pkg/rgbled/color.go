package rgbled

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidType is returned when a color value is neither a packed
	// 24-bit integer nor a 3-channel sequence.
	ErrInvalidType = errors.New("color must be a packed 24-bit integer or a 3-channel value")
	// ErrOutOfRange is returned when a channel is outside [0,255] or a
	// packed integer is outside [0,0xFFFFFF].
	ErrOutOfRange = errors.New("color value out of range")
	// ErrClosed is returned when a controller is used after Close.
	ErrClosed = errors.New("rgb led is closed")
)

// Color holds one 8-bit intensity per channel.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ColorFromInt unpacks a 24-bit integer big-endian: bits 23-16 are red,
// 15-8 green, 7-0 blue. e.g. 0xFF4023 and Color{255, 64, 35} are the
// same color.
func ColorFromInt(v int) (Color, error) {
	if v < 0 || v > 0xFFFFFF {
		return Color{}, fmt.Errorf("%w: %#x is not a 24-bit value", ErrOutOfRange, v)
	}
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// Int returns the packed 24-bit form of c.
func (c Color) Int() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Int())
}

// ParseColor converts any of the accepted color representations into a
// Color: a Color itself, a packed int, a 3-element []int, or a [3]uint8.
// Anything else fails with ErrInvalidType; values outside their bounds
// fail with ErrOutOfRange.
func ParseColor(value any) (Color, error) {
	switch v := value.(type) {
	case Color:
		return v, nil
	case int:
		return ColorFromInt(v)
	case [3]uint8:
		return Color{R: v[0], G: v[1], B: v[2]}, nil
	case []int:
		if len(v) != 3 {
			return Color{}, fmt.Errorf("%w: got %d channels, want 3", ErrInvalidType, len(v))
		}
		var c [3]uint8
		for i, ch := range v {
			if ch < 0 || ch > 255 {
				return Color{}, fmt.Errorf("%w: channel %d is %d", ErrOutOfRange, i, ch)
			}
			c[i] = uint8(ch)
		}
		return Color{R: c[0], G: c[1], B: c[2]}, nil
	default:
		return Color{}, fmt.Errorf("%w: got %T", ErrInvalidType, value)
	}
}

// ParseHex parses "rrggbb", "#rrggbb" or "0xrrggbb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q is not a hex color", ErrInvalidType, s)
	}
	if v > 0xFFFFFF {
		return Color{}, fmt.Errorf("%w: %q is wider than 24 bits", ErrOutOfRange, s)
	}
	return ColorFromInt(int(v))
}
