package api

import (
	"context"
	"errors"
	"net/http"

	"ImpulseScan/internal/domain/models"
	xhttp "ImpulseScan/pkg/http"
	xlogger "ImpulseScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanService is what the HTTP surface needs from the scanner.
type ScanService interface {
	Start(ctx context.Context) error
	Running() bool
	LastReport(ctx context.Context) (*models.PassReport, bool)
}

// ScanEchoHandler exposes pass triggering and the last report over HTTP.
type ScanEchoHandler struct {
	logger *xlogger.Logger
	scans  ScanService
	alerts http.Handler
}

// NewScanEchoHandler builds the handler. alerts may be nil when the
// websocket channel is disabled.
func NewScanEchoHandler(logger *xlogger.Logger, scans ScanService, alerts http.Handler) *ScanEchoHandler {
	return &ScanEchoHandler{logger: logger.Component("api"), scans: scans, alerts: alerts}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/scan")
	g.POST("", h.Trigger)
	g.GET("/last", h.Last)
	g.GET("/results", h.Results)

	if h.alerts != nil {
		e.GET("/ws/alerts", echo.WrapHandler(h.alerts))
	}
}

// Trigger starts a pass in the background: 202, or 409 while one is running.
func (h *ScanEchoHandler) Trigger(c echo.Context) error {
	// the pass outlives the request
	ctx := context.WithoutCancel(c.Request().Context())

	if err := h.scans.Start(ctx); err != nil {
		if errors.Is(err, models.ErrPassInProgress) {
			return xhttp.AppErrorResponse(c, xhttp.ConflictError("a scan pass is already running"))
		}
		h.logger.Error("start scan pass", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not start scan pass").WithError(err))
	}
	return xhttp.AcceptedResponse(c, map[string]string{"state": "started"})
}

func (h *ScanEchoHandler) Last(c echo.Context) error {
	report, ok := h.scans.LastReport(c.Request().Context())
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan pass has completed yet"))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"running":      h.scans.Running(),
		"summary":      report.Summary,
		"impulses":     report.Impulses,
		"notified":     report.Notified,
		"notify_error": report.NotifyError,
	})
}

func (h *ScanEchoHandler) Results(c echo.Context) error {
	req := &models.ResultsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, ok := h.scans.LastReport(c.Request().Context())
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan pass has completed yet"))
	}
	rows := report.Filter(req.Status, req.Limit)
	return xhttp.ListResponse(c, rows, len(rows))
}
