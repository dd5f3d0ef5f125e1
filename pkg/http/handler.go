package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler defines HTTP route registration interface.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// Handlers registers each handler in order; nil entries are skipped.
type Handlers []Handler

func (hs Handlers) RegisterRoutes(e *echo.Echo) {
	for _, h := range hs {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}

// Health serves GET /healthz.
type Health struct {
	env     string
	started time.Time
}

func NewHealth(env string) *Health {
	return &Health{env: env, started: time.Now()}
}

type healthView struct {
	Status        string `json:"status"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (h *Health) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthView{
			Status:        "ok",
			Environment:   h.env,
			UptimeSeconds: int64(time.Since(h.started) / time.Second),
		})
	})
}
