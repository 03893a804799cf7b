package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/rgbled/pkg/io"
	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

var (
	setInvert   bool
	setBus      string
	setAddr     uint16
	setChannels []int
)

// setCmd lights the LED once and exits. The channels are deliberately not
// released, so the PCA9685 keeps the color after the process ends.
var setCmd = &cobra.Command{
	Use:   "set <color>",
	Short: "Set the LED to a color and exit",
	Long:  `Set accepts "#rrggbb", "0xrrggbb" or "r,g,b" with each channel 0-255.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := parseColorArg(args[0])
		if err != nil {
			return err
		}
		if len(setChannels) != 3 {
			return fmt.Errorf("need exactly 3 channels, got %d", len(setChannels))
		}
		dev, err := io.OpenPCA9685(setBus, setAddr)
		if err != nil {
			return err
		}
		defer dev.Close()

		led, err := rgbled.New(
			dev.Channel(setChannels[0]),
			dev.Channel(setChannels[1]),
			dev.Channel(setChannels[2]),
			setInvert,
		)
		if err != nil {
			return err
		}
		return led.SetColor(color)
	},
}

// checkCmd steps through the primaries and white to verify the wiring,
// then releases the channels, which turns the LED off.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Light each channel in turn to verify wiring, then turn off",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(setChannels) != 3 {
			return fmt.Errorf("need exactly 3 channels, got %d", len(setChannels))
		}
		dev, err := io.OpenPCA9685(setBus, setAddr)
		if err != nil {
			return err
		}
		defer dev.Close()

		return rgbled.With(
			dev.Channel(setChannels[0]),
			dev.Channel(setChannels[1]),
			dev.Channel(setChannels[2]),
			setInvert,
			func(led *rgbled.RGBLED) error {
				for _, v := range []int{0xFF0000, 0x00FF00, 0x0000FF, 0xFFFFFF} {
					if err := led.Set(v); err != nil {
						return err
					}
					fmt.Printf("showing %s, press enter for next\n", led.Color())
					fmt.Scanln()
				}
				return nil
			},
		)
	},
}

func parseColorArg(s string) (rgbled.Color, error) {
	if !strings.Contains(s, ",") {
		return rgbled.ParseHex(s)
	}
	parts := strings.Split(s, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return rgbled.Color{}, fmt.Errorf("%w: %q", rgbled.ErrInvalidType, s)
		}
		vals = append(vals, v)
	}
	return rgbled.ParseColor(vals)
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(checkCmd)
	for _, c := range []*cobra.Command{setCmd, checkCmd} {
		c.Flags().BoolVar(&setInvert, "invert", false, "invert duty cycles for common-anode LEDs")
		c.Flags().StringVar(&setBus, "bus", "I2C1", "I2C bus name")
		c.Flags().Uint16Var(&setAddr, "addr", 0x40, "PCA9685 I2C address")
		c.Flags().IntSliceVar(&setChannels, "channels", []int{0, 1, 2}, "PCA9685 channels for red, green, blue")
	}
}
