package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/rgbled/pkg/controller"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the LED controller with button, schedule and web UI",
	Run: func(cmd *cobra.Command, args []string) {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		c, err := controller.New(false)
		if err != nil {
			log.Printf("failed to start controller: %v", err)
			return
		}
		defer c.Close()
		ctx, cancel := context.WithCancel(cmd.Context())
		go func() {
			<-sigs
			cancel()
		}()
		c.Run(ctx)

		fmt.Println("rgbled command finished")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
