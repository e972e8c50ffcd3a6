package controllers

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"pinstats/internal/pipeline"
	"pinstats/internal/providers"
	"pinstats/internal/structures"
)

type ApiController struct {
	logger providers.Logger
	driver *pipeline.Driver
	cache  providers.CacheProviderInterface
	conf   *structures.Config
}

func NewApiController(logger providers.Logger, driver *pipeline.Driver, cache providers.CacheProviderInterface, conf *structures.Config) *ApiController {
	return &ApiController{
		logger: logger,
		driver: driver,
		cache:  cache,
		conf:   conf,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// StartRun launches a pipeline run in the background. The run outlives
// the request; progress is observable via GET /progress.
func (ac *ApiController) StartRun(w http.ResponseWriter, r *http.Request) {
	if ac.driver.IsRunning() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "run already in progress"})
		return
	}

	go func() {
		_, err := ac.driver.Run(context.Background(), func(percent int, message string) {
			ac.logger.Infof(providers.TypePipeline, "[%3d%%] %s", percent, message)
		})
		if err != nil && !errors.Is(err, pipeline.ErrAlreadyRunning) {
			ac.logger.Errorf(providers.TypePipeline, "Run failed: %s", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// GetStats serves the latest snapshot: intermediate from cache while a
// run is in flight, the persisted result otherwise.
func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	cacheKey := "stats:" + ac.conf.Pipeline.RunKey
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	snap := ac.driver.LatestSnapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot available"})
		return
	}

	gson, err := json.Marshal(snap)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.driver.Progress())
}
