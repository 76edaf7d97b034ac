package server

import (
	"context"
	"errors"
	"net/http"

	"f3-data-api/internal/domain"
	"f3-data-api/internal/service"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

// QueryErrorRecorder counts failed queries by name.
type QueryErrorRecorder interface {
	QueryError(query string)
}

type Server struct {
	statsService service.StatsServiceInterface
	recorder     QueryErrorRecorder
}

func NewServer(statsService service.StatsServiceInterface, recorder QueryErrorRecorder) *Server {
	return &Server{
		statsService: statsService,
		recorder:     recorder,
	}
}

// Index is the health check. An unreachable database is reported in the body
// and does not fail the request.
func (s *Server) Index(c echo.Context) error {
	ctx := detached(c)
	health, err := s.statsService.Health(ctx)
	if err != nil {
		logEntry(c).WithError(err).Error("Error checking API health")
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   domain.ErrTitleHealth,
			Message: err.Error(),
		})
	}

	if !health.DatabaseConnected {
		logEntry(c).Warn("Health check: database is not reachable")
	}

	return c.JSON(http.StatusOK, health)
}

func (s *Server) RegionsCount(c echo.Context) error {
	ctx := detached(c)
	count, err := s.statsService.RegionCount(ctx)
	if err != nil {
		return s.countFailed(c, err, "region_count", domain.MsgRegionCountFailed)
	}

	return c.JSON(http.StatusOK, domain.CountResponse{Count: count})
}

func (s *Server) WeeklyWorkoutsCount(c echo.Context) error {
	ctx := detached(c)
	count, err := s.statsService.WorkoutCount(ctx)
	if err != nil {
		return s.countFailed(c, err, "workout_count", domain.MsgWorkoutCountFailed)
	}

	return c.JSON(http.StatusOK, domain.CountResponse{Count: count})
}

// countFailed answers a failed count query. Database failures get a fixed
// message; anything else echoes the error text.
func (s *Server) countFailed(c echo.Context, err error, query, dbMessage string) error {
	if s.recorder != nil {
		s.recorder.QueryError(query)
	}

	entry := logEntry(c).WithError(err).WithField("query", query)

	if errors.Is(err, domain.ErrDatabase) {
		entry.Error("Database error while counting")
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   domain.ErrTitleDatabase,
			Message: dbMessage,
		})
	}

	entry.Error("Unexpected error while counting")
	return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
		Error:   domain.ErrTitleUnexpected,
		Message: err.Error(),
	})
}

// detached keeps the request's values but not its cancellation: once started,
// database work runs to completion even if the client goes away.
func detached(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func logEntry(c echo.Context) *log.Entry {
	return log.WithFields(log.Fields{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
	})
}
