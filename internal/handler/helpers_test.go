package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	apperrors "medtracker/internal/errors"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// requireHTTPError asserts err is an echo HTTP error carrying an ErrorResponse.
func requireHTTPError(t *testing.T, err error, status int) apperrors.ErrorResponse {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, status, he.Code)
	body, ok := he.Message.(apperrors.ErrorResponse)
	require.True(t, ok, "expected ErrorResponse message, got %T", he.Message)
	return body
}

