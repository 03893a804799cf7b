package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/rgbled/pkg/controller"
)

// serveCmd runs the settings server without touching the hardware.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the settings UI without attaching to the LED",
	Run: func(cmd *cobra.Command, args []string) {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		c, err := controller.New(true)
		if err != nil {
			log.Printf("failed to start controller: %v", err)
			return
		}
		defer c.Close()
		ctx, cancel := context.WithCancel(cmd.Context())
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			<-sigs
			cancel()
			wg.Done()
		}()
		go func() {
			c.StartServer(ctx)
		}()

		wg.Wait()
		fmt.Println("rgbled command finished")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
