package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type RouterOptions struct {
	// Workers caps concurrently handled requests; zero means no cap.
	Workers int
	// Observer receives per-request metrics; nil disables them.
	Observer RequestObserver
	// Metrics is served on GET /metrics when set.
	Metrics http.Handler
}

// NewRouter builds the echo instance with middleware, the error handler and
// all routes.
func NewRouter(srv *Server, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestLogger())
	if opts.Observer != nil {
		e.Use(Observe(opts.Observer))
	}
	e.Use(Recover())
	e.Use(WorkerLimit(opts.Workers))

	// Health check
	e.GET("/", srv.Index)

	// Count endpoints
	e.GET("/regions/count", srv.RegionsCount)
	e.GET("/weeklyworkouts/count", srv.WeeklyWorkoutsCount)

	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}

	return e
}
