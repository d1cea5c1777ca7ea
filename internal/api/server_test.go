package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repfinder/scrapeworker/internal/run"
)

type mockPipeline struct {
	runID     string
	started   bool
	startErr  error
	status    *run.ScrapeRun
	statusErr error
	stopped   bool
}

func (m *mockPipeline) StartRun(context.Context) (string, bool, error) {
	return m.runID, m.started, m.startErr
}

func (m *mockPipeline) Status(context.Context) (*run.ScrapeRun, error) {
	return m.status, m.statusErr
}

func (m *mockPipeline) Stop() bool {
	return m.stopped
}

func doRequest(t *testing.T, p Pipeline, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	NewServer(p, 20).Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, &mockPipeline{}, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(20), body["total_sellers"])
}

func TestStartScrapeAccepted(t *testing.T) {
	p := &mockPipeline{runID: "run-1", started: true}
	rec := doRequest(t, p, http.MethodPost, "/api/scrape/start")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "running", body["state"])
}

func TestStartScrapeConflict(t *testing.T) {
	p := &mockPipeline{runID: "run-1", started: false}
	rec := doRequest(t, p, http.MethodPost, "/api/scrape/start")

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "run-1", body["run_id"])
}

func TestStartScrapeError(t *testing.T) {
	p := &mockPipeline{startErr: fmt.Errorf("store down")}
	rec := doRequest(t, p, http.MethodPost, "/api/scrape/start")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScrapeStatus(t *testing.T) {
	p := &mockPipeline{status: &run.ScrapeRun{
		ID:           "run-1",
		State:        run.StateCompleted,
		SellersTotal: 20,
		SellersDone:  20,
		Errors:       []run.SellerError{{SellerID: "shopone", Message: "blocked"}},
	}}
	rec := doRequest(t, p, http.MethodGet, "/api/scrape/status")

	assert.Equal(t, http.StatusOK, rec.Code)

	var status run.ScrapeRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "run-1", status.ID)
	assert.Equal(t, run.StateCompleted, status.State)
	require.Len(t, status.Errors, 1)
	assert.Equal(t, "shopone", status.Errors[0].SellerID)
}

func TestScrapeStatusNotFound(t *testing.T) {
	rec := doRequest(t, &mockPipeline{}, http.MethodGet, "/api/scrape/status")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopScrape(t *testing.T) {
	rec := doRequest(t, &mockPipeline{stopped: true}, http.MethodPost, "/api/scrape/stop")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStopScrapeWithoutRun(t *testing.T) {
	rec := doRequest(t, &mockPipeline{stopped: false}, http.MethodPost, "/api/scrape/stop")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
