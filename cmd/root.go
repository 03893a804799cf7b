package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rgbled",
	Short: "Drive an RGB LED from a Raspberry Pi",
	Long: `rgbled maps 8-bit colors onto three PWM channels of a PCA9685 to
light a common-cathode or common-anode RGB LED. The run command adds
button-driven presets, a weekday schedule and a small web UI.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
