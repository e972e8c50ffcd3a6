package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"pinstats/internal/pipeline"
	"time"
)

type HealthController struct {
	driver    *pipeline.Driver
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Pipeline      string  `json:"pipeline"`
	Processed     int     `json:"processed"`
	Total         int     `json:"total"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	progress := hc.driver.Progress()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Pipeline:      string(progress.State),
		Processed:     progress.Processed,
		Total:         progress.Total,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(driver *pipeline.Driver) *HealthController {
	return &HealthController{
		driver:    driver,
		startTime: time.Now(),
	}
}
