package server

import (
	"errors"
	"fmt"
	"net/http"

	"f3-data-api/internal/domain"

	"github.com/labstack/echo/v4"
)

// ErrorHandler turns errors that escaped a handler into JSON bodies. Database
// errors hide their detail, routing errors keep their status, and every other
// fault becomes a 500 carrying the fault text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := domain.ErrorResponse{
		Error:   domain.ErrTitleInternal,
		Message: err.Error(),
	}

	var he *echo.HTTPError
	switch {
	case errors.Is(err, domain.ErrDatabase):
		body = domain.ErrorResponse{
			Error:   domain.ErrTitleDatabase,
			Message: domain.MsgDatabaseError,
		}
	case errors.As(err, &he):
		status = he.Code
		body = domain.ErrorResponse{
			Error:   http.StatusText(he.Code),
			Message: fmt.Sprint(he.Message),
		}
	}

	entry := logEntry(c).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logEntry(c).WithError(err).Error("Failed to write error response")
	}
}
