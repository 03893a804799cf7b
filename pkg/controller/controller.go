package controller

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev/device/rpi"

	"github.com/Seann-Moser/rgbled/pkg/io"
	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

// Controller ties the LED driver to a button, a weekday schedule and the
// settings server.
type Controller struct {
	Button *io.Button
	LED    *rgbled.RGBLED

	dev           *io.IO
	Configuration Configuration
	presetIdx     int
	mu            sync.Mutex
}

type Configuration struct {
	// Chip is the gpiochip holding the button line, e.g. "gpiochip0".
	Chip string `json:"chip"`
	// PCA9685 channels for the three LED legs.
	RedChannel   int `json:"redChannel"`
	GreenChannel int `json:"greenChannel"`
	BlueChannel  int `json:"blueChannel"`
	// ButtonPin cycles presets on a short press, turns the LED off on a
	// long one.
	ButtonPin int `json:"buttonPin"`
	// InvertPWM is true for common-anode LEDs.
	InvertPWM bool `json:"invertPwm"`
	// Presets are hex colors the button cycles through.
	Presets []string       `json:"presets"`
	Setting GeneralSetting `json:"setting"`
}

const configFile = ".rgbled.config.json"

// New loads the config file and, unless running server-only, opens the
// hardware and builds the LED from the configured PCA9685 channels.
func New(server bool) (*Controller, error) {
	config := Configuration{
		Chip:         "gpiochip0",
		RedChannel:   0,
		GreenChannel: 1,
		BlueChannel:  2,
		ButtonPin:    rpi.GPIO26,
		Presets:      []string{"#ff0000", "#00ff00", "#0000ff", "#ffffff"},
	}
	data, _ := os.ReadFile(configFile)
	if data != nil {
		if err := json.Unmarshal(data, &config); err != nil {
			log.Printf("failed loading config file")
		}
	}

	c := &Controller{Configuration: config}
	if !server {
		dev, err := io.New(config.Chip)
		if err != nil {
			log.Printf("Error opening io: %v", err)
			return nil, err
		}
		c.dev = dev
		c.Button, err = dev.WatchButton(config.ButtonPin)
		if err != nil {
			log.Printf("Error watching button: %v", err)
			dev.Close()
			return nil, err
		}
		c.LED, err = rgbled.New(
			dev.Channel(config.RedChannel),
			dev.Channel(config.GreenChannel),
			dev.Channel(config.BlueChannel),
			config.InvertPWM,
		)
		if err != nil {
			log.Printf("Error creating led: %v", err)
			dev.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Controller) Close() {
	if c.LED != nil {
		_ = c.LED.Close()
	}
	if c.dev != nil {
		c.dev.Close()
	}
}

// Run blocks until ctx is canceled, handling button presses, applying the
// schedule and serving the settings UI.
func (c *Controller) Run(ctx context.Context) {
	wg := sync.WaitGroup{}
	go func() {
		c.StartServer(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-c.Button.Event:
				if b.Duration > 2*time.Second {
					c.setColor(rgbled.Color{})
				} else {
					c.NextPreset()
				}
			}
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				today := DaysOfWeek((int(now.Weekday()) + 6) % 7) // Monday = 0

				scheduleList, ok := c.Configuration.Setting.Schedule[today]
				if !ok {
					continue
				}
				for _, schedule := range scheduleList {
					if isNowInSchedule(now, schedule) {
						c.applyHex(schedule.Color)
						break // Only apply first matching schedule
					}
				}
			}
		}
	}()
	wg.Wait()
}

// NextPreset advances to the next configured preset color.
func (c *Controller) NextPreset() {
	c.mu.Lock()
	presets := c.Configuration.Presets
	if len(presets) == 0 {
		c.mu.Unlock()
		return
	}
	hex := presets[c.presetIdx%len(presets)]
	c.presetIdx++
	c.mu.Unlock()
	c.applyHex(hex)
}

func (c *Controller) applyHex(hex string) {
	color, err := rgbled.ParseHex(hex)
	if err != nil {
		log.Printf("bad color %q: %v", hex, err)
		return
	}
	c.setColor(color)
}

func (c *Controller) setColor(color rgbled.Color) {
	if c.LED == nil {
		return
	}
	if err := c.LED.SetColor(color); err != nil {
		log.Printf("failed to set color: %v", err)
	}
}

func isNowInSchedule(now time.Time, schedule GeneralSchedule) bool {
	st, err := time.Parse("15:04", schedule.StartTime)
	if err != nil {
		log.Printf("error:%s", err.Error())
		return false
	}
	start := time.Date(
		now.Year(), now.Month(), now.Day(),
		st.Hour(), st.Minute(), 0, 0,
		now.Location(),
	)
	end := start.Add(schedule.OnDuration)

	return now.After(start) && now.Before(end)
}
