package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ImpulseScan/internal/domain/models"
	xhttp "ImpulseScan/pkg/http"
	xlogger "ImpulseScan/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScans struct {
	startErr error
	started  int
	report   *models.PassReport
}

func (f *fakeScans) Start(context.Context) error {
	f.started++
	return f.startErr
}

func (f *fakeScans) Running() bool { return false }

func (f *fakeScans) LastReport(context.Context) (*models.PassReport, bool) {
	return f.report, f.report != nil
}

func serve(t *testing.T, scans ScanService, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewScanEchoHandler(xlogger.Nop(), scans, nil)
	srv := xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithRegistry(prometheus.NewRegistry()))

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestTrigger(t *testing.T) {
	scans := &fakeScans{}
	rec := serve(t, scans, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, scans.started)

	scans.startErr = models.ErrPassInProgress
	rec = serve(t, scans, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_CONFLICT")

	scans.startErr = errors.New("redis down")
	rec = serve(t, scans, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLastWithoutReport(t *testing.T) {
	rec := serve(t, &fakeScans{}, http.MethodGet, "/api/scan/last")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func testReport() *models.PassReport {
	return &models.PassReport{
		Summary:  models.ScanSummary{PassID: "p1", Attempted: 3, Impulses: 1, Errors: 1},
		Impulses: []models.ImpulseRecord{{InstID: "B", Change: 8}},
		Results: []models.ScanResult{
			{InstID: "A", Status: models.StatusMeasured, Change: 1},
			{InstID: "B", Status: models.StatusMeasured, Change: 8, Impulse: true},
			{InstID: "C", Status: models.StatusFailed, Error: "timeout"},
		},
		Notified: true,
	}
}

func TestLast(t *testing.T) {
	rec := serve(t, &fakeScans{report: testReport()}, http.MethodGet, "/api/scan/last")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Summary  models.ScanSummary     `json:"summary"`
			Impulses []models.ImpulseRecord `json:"impulses"`
			Notified bool                   `json:"notified"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "p1", body.Data.Summary.PassID)
	assert.Equal(t, []models.ImpulseRecord{{InstID: "B", Change: 8}}, body.Data.Impulses)
	assert.True(t, body.Data.Notified)
}

func TestResults(t *testing.T) {
	scans := &fakeScans{report: testReport()}

	decode := func(rec *httptest.ResponseRecorder) []models.ScanResult {
		var body struct {
			Data struct {
				Rows  []models.ScanResult `json:"rows"`
				Total int                 `json:"total"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, len(body.Data.Rows), body.Data.Total)
		return body.Data.Rows
	}

	rec := serve(t, scans, http.MethodGet, "/api/scan/results")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(rec), 3)

	rec = serve(t, scans, http.MethodGet, "/api/scan/results?status=failed")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode(rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "C", rows[0].InstID)

	rec = serve(t, scans, http.MethodGet, "/api/scan/results?status=impulse&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B", decode(rec)[0].InstID)

	rec = serve(t, scans, http.MethodGet, "/api/scan/results?status=weird")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_ONEOF")

	rec = serve(t, scans, http.MethodGet, "/api/scan/results?limit=5000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
