package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medtracker/internal/errors"
)

// respondError maps a service error onto an HTTP error. The cause rides along
// as the internal error for the server's error handler to log; clients only
// see the mapped body.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}
