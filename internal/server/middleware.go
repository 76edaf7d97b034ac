package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// WorkerLimit lets at most workers requests run at once. Others wait for a
// slot until their client goes away. Zero or less disables the limit.
func WorkerLimit(workers int) echo.MiddlewareFunc {
	if workers <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	sem := semaphore.NewWeighted(int64(workers))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := sem.Acquire(c.Request().Context(), 1); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "request abandoned while waiting for a worker")
			}
			defer sem.Release(1)
			return next(c)
		}
	}
}

// Observe reports status and latency of every request, including ones that
// failed, so it runs the error handler itself.
func Observe(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// Recover converts panics into errors for ErrorHandler.
func Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logEntry(c).WithError(err).WithField("stack", string(stack)).Error("Recovered from panic")
			return err
		},
	})
}

// RequestLogger logs one line per request.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.WithFields(log.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
			}).Debug("Request handled")
			return nil
		},
	})
}
