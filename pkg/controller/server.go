package controller

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Seann-Moser/rgbled/pkg/rgbled"
)

//go:embed index.html
var index []byte

type DaysOfWeek int

const (
	Monday DaysOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

type GeneralSetting struct {
	Schedule map[DaysOfWeek][]GeneralSchedule `json:"schedule"`
}

type GeneralSchedule struct {
	OnDuration time.Duration `json:"onDuration,omitempty"`
	StartTime  string        `json:"startTime,omitempty"` // hour,minute of the day
	Color      string        `json:"color,omitempty"`
}

func (c *Controller) StartServer(ctx context.Context) {
	if c.Configuration.Setting.Schedule == nil {
		c.Configuration.Setting.Schedule = map[DaysOfWeek][]GeneralSchedule{}
	}

	http.HandleFunc("/", serveFrontend)
	http.HandleFunc("/api/get", c.handleGetSettings)
	http.HandleFunc("/api/save", c.handleSaveSettings)
	http.HandleFunc("/api/color", c.handleSetColor)

	fmt.Println("Server running on http://0.0.0.0:8080")

	http.ListenAndServe("0.0.0.0:8080", nil)
}

func serveFrontend(w http.ResponseWriter, r *http.Request) {
	w.Write(index)
}

type settingsPayload struct {
	Setting GeneralSetting `json:"setting"`
	Presets []string       `json:"presets"`
	Color   string         `json:"color,omitempty"`
}

func (c *Controller) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	p := settingsPayload{
		Setting: c.Configuration.Setting,
		Presets: c.Configuration.Presets,
	}
	if c.LED != nil {
		p.Color = c.LED.Color().String()
	}
	json.NewEncoder(w).Encode(p)
}

func (c *Controller) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var newSettings settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&newSettings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.Configuration.Setting = newSettings.Setting
	if newSettings.Presets != nil {
		c.Configuration.Presets = newSettings.Presets
	}
	c.saveConfiguration()

	w.WriteHeader(http.StatusOK)
}

func (c *Controller) handleSetColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if c.LED == nil {
		http.Error(w, "no led attached", http.StatusServiceUnavailable)
		return
	}
	color, err := rgbled.ParseHex(req.Color)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.LED.SetColor(color); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rgbled.ErrClosed) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"color": c.LED.Color().String()})
}

func (c *Controller) saveConfiguration() {
	data, err := json.Marshal(c.Configuration)
	if err != nil {
		log.Printf("failed marshalling config file")
		return
	}
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		log.Printf("failed saving config file")
	}
}
