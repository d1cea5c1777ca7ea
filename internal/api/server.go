// Package api exposes the scrape control endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"repfinder/scrapeworker/internal/run"
	"repfinder/scrapeworker/logger"
)

// Pipeline is the orchestrator surface the API needs.
type Pipeline interface {
	StartRun(ctx context.Context) (string, bool, error)
	Status(ctx context.Context) (*run.ScrapeRun, error)
	Stop() bool
}

// Server routes scrape control requests to the pipeline.
type Server struct {
	pipeline     Pipeline
	totalSellers int
	log          *logger.Logger
}

// NewServer creates the API server.
func NewServer(pipeline Pipeline, totalSellers int) *Server {
	return &Server{
		pipeline:     pipeline,
		totalSellers: totalSellers,
		log:          logger.ForComponent("api"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.health)
	router.POST("/api/scrape/start", s.startScrape)
	router.GET("/api/scrape/status", s.scrapeStatus)
	router.POST("/api/scrape/stop", s.stopScrape)
	return router
}

// ListenAndServe serves the API until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"total_sellers": s.totalSellers,
	})
}

func (s *Server) startScrape(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	runID, started, err := s.pipeline.StartRun(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to start scrape run")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to start scrape run",
		})
		return
	}
	if !started {
		writeJSON(w, http.StatusConflict, map[string]string{
			"run_id": runID,
			"error":  "a scrape run is already in progress",
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID,
		"state":  string(run.StateRunning),
	})
}

func (s *Server) scrapeStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status, err := s.pipeline.Status(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load scrape status")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load scrape status",
		})
		return
	}
	if status == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no scrape run found",
		})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) stopScrape(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if !s.pipeline.Stop() {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "no scrape run is in progress",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "scrape run stopping",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}
