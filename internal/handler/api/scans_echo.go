package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"EliteScan/internal/domain/models"
	"EliteScan/internal/services/report"
	"EliteScan/internal/usecase"
	xhttp "EliteScan/pkg/http"
	xlogger "EliteScan/pkg/logger"
)

const streamWriteWait = 10 * time.Second

type scanRequest struct {
	Symbols []string `json:"symbols" validate:"omitempty,max=500,dive,required,max=32"`
}

type backtestRequest struct {
	Symbol   string `query:"symbol" validate:"required,max=32"`
	Optimize bool   `query:"optimize"`
}

// ScanView is the API shape of a scan job.
type ScanView struct {
	ID        string                     `json:"id"`
	State     usecase.JobState           `json:"state"`
	Completed int64                      `json:"completed"`
	Total     int64                      `json:"total"`
	Error     string                     `json:"error,omitempty"`
	Cancelled bool                       `json:"cancelled"`
	NoMatches bool                       `json:"no_matches"`
	Results   []report.Row               `json:"results,omitempty"`
	Skipped   []models.InstrumentOutcome `json:"skipped,omitempty"`
	Failed    []models.InstrumentOutcome `json:"failed,omitempty"`
}

// StreamEvent is one websocket frame. Type is "progress" or "status".
type StreamEvent struct {
	Type     string           `json:"type"`
	Progress *models.Progress `json:"progress,omitempty"`
	Status   *ScanView        `json:"status,omitempty"`
}

// ScanHandler exposes scan jobs and single-instrument backtests.
type ScanHandler struct {
	logger   *xlogger.Logger
	svc      *usecase.ScanService
	fmt      *report.Formatter
	upgrader websocket.Upgrader
}

func NewScanHandler(logger *xlogger.Logger, svc *usecase.ScanService, f *report.Formatter) *ScanHandler {
	return &ScanHandler{
		logger: logger,
		svc:    svc,
		fmt:    f,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *ScanHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scans", h.StartScan)
	g.GET("/scans/:id", h.GetScan)
	g.DELETE("/scans/:id", h.CancelScan)
	g.GET("/scans/:id/stream", h.StreamScan)
	g.GET("/backtest", h.Backtest)
}

func (h *ScanHandler) StartScan(c echo.Context) error {
	req := &scanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		symbols = append(symbols, h.fmt.Qualify(s))
	}

	job, err := h.svc.Start(symbols)
	if err != nil {
		return h.fail(c, "start scan", err)
	}
	h.logger.Info("scan started", xlogger.String("scan_id", job.ID), xlogger.Int("symbols", len(symbols)))
	return xhttp.AcceptedResponse(c, h.view(job.Status()))
}

func (h *ScanHandler) GetScan(c echo.Context) error {
	job, err := h.svc.Job(c.Param("id"))
	if err != nil {
		return h.fail(c, "get scan", err)
	}
	return xhttp.SuccessResponse(c, h.view(job.Status()))
}

func (h *ScanHandler) CancelScan(c echo.Context) error {
	job, err := h.svc.Job(c.Param("id"))
	if err != nil {
		return h.fail(c, "cancel scan", err)
	}
	if job.Status().State != usecase.JobRunning {
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("scan already finished"))
	}
	if err := h.svc.Cancel(job.ID); err != nil {
		return h.fail(c, "cancel scan", err)
	}
	return xhttp.AcceptedResponse(c, h.view(job.Status()))
}

// StreamScan pushes progress frames until the job ends, then a final status frame.
func (h *ScanHandler) StreamScan(c echo.Context) error {
	job, err := h.svc.Job(c.Param("id"))
	if err != nil {
		return h.fail(c, "stream scan", err)
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	events, unsubscribe := job.Subscribe()
	defer unsubscribe()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case p, ok := <-events:
			if !ok {
				<-job.Done()
				st := h.view(job.Status())
				_ = h.write(conn, StreamEvent{Type: "status", Status: &st})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(st.State)),
					time.Now().Add(streamWriteWait))
				return nil
			}
			if err := h.write(conn, StreamEvent{Type: "progress", Progress: &p}); err != nil {
				return nil
			}
		case <-gone:
			return nil
		}
	}
}

func (h *ScanHandler) write(conn *websocket.Conn, ev StreamEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(ev)
}

func (h *ScanHandler) Backtest(c echo.Context) error {
	req := &backtestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Backtest(c.Request().Context(), h.fmt.Qualify(req.Symbol), req.Optimize)
	if err != nil {
		return h.fail(c, "backtest", err)
	}
	res.Symbol = h.fmt.DisplaySymbol(res.Symbol)
	return xhttp.SuccessResponse(c, res)
}

func (h *ScanHandler) view(st usecase.JobStatus) ScanView {
	v := ScanView{
		ID:        st.ID,
		State:     st.State,
		Completed: st.Completed,
		Total:     st.Total,
		Error:     st.Error,
	}
	if r := st.Report; r != nil {
		v.Cancelled = r.Cancelled
		v.NoMatches = r.NoMatches()
		v.Results = h.fmt.Rows(r.Results)
		v.Skipped = r.Skipped
		v.Failed = r.Failed
	}
	return v
}

// fail maps domain errors to HTTP errors.
func (h *ScanHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		appErr = xhttp.NotFoundError("scan not found")
	case errors.Is(err, models.ErrUnknownSymbol):
		appErr = xhttp.NotFoundError(err.Error())
	case errors.Is(err, models.ErrEmptyUniverse),
		errors.Is(err, models.ErrDataUnavailable),
		errors.Is(err, models.ErrInsufficientHistory):
		appErr = xhttp.UnprocessableError(err.Error())
	default:
		h.logger.Error(op+" failed", xlogger.Error(err))
		appErr = xhttp.InternalError("internal error").WithError(err)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
