package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtracker/internal/auth"
	"medtracker/internal/config"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/handler"
	"medtracker/internal/model"
	"medtracker/internal/service"
)

func newTestEcho() *echo.Echo {
	log := logrus.New()
	log.SetOutput(io.Discard)

	e := echo.New()
	Register(e, Deps{
		Config:          &config.Config{},
		Log:             log,
		JWTService:      auth.NewJWTService("test-secret"),
		AuthHandler:     handler.NewAuthHandler(nil, log, false),
		MedicineHandler: handler.NewMedicineHandler(nil, log),
		MetaHandler:     handler.NewMetaHandler(BasePath),
	})
	return e
}

func TestRegister_Routes(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "liveness", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "api health", method: http.MethodGet, path: "/api/auth/health/", wantStatus: http.StatusOK, wantBody: "API is working"},
		{name: "missing trailing slash is tolerated", method: http.MethodGet, path: "/api/auth/health", wantStatus: http.StatusOK, wantBody: "API is working"},
		{name: "medicines need a session", method: http.MethodGet, path: "/api/medicines/", wantStatus: http.StatusUnauthorized, wantBody: `"code":"UNAUTHENTICATED"`},
		{name: "medicine detail needs a session", method: http.MethodDelete, path: "/api/medicines/3", wantStatus: http.StatusUnauthorized},
		{name: "unknown route renders json", method: http.MethodGet, path: "/api/nope/", wantStatus: http.StatusNotFound, wantBody: `"error":"not found"`},
		{name: "csrf token", method: http.MethodGet, path: "/api/auth/csrf/", wantStatus: http.StatusOK, wantBody: "csrf_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRegister_CSRFCookie(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/csrf/", nil))

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrftoken" {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.Contains(t, rec.Body.String(), c.Value)
		}
	}
	assert.True(t, found)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp 10.0.0.1:3306: connection refused")
	})
	e.GET("/gone", func(c echo.Context) error {
		return apperrors.ErrMedicineNotFound
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"medicine not found","code":"MEDICINE_NOT_FOUND"}`, rec.Body.String())
}

type sessionAuthService struct {
	service.AuthService
	sess *auth.Session
}

func (s sessionAuthService) Authenticate(context.Context, *auth.Claims) (*auth.Session, error) {
	return s.sess, nil
}

type failingMedicineService struct {
	service.MedicineService
	err error
}

func (s failingMedicineService) List(context.Context, uint) ([]model.Medicine, error) {
	return nil, s.err
}

func TestErrorHandler_LogsUnexpectedErrorOnce(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	jwtService := auth.NewJWTService("test-secret")
	sess := auth.NewSession(7, time.Now(), time.Hour)
	token, err := jwtService.GenerateSessionToken(sess)
	require.NoError(t, err)

	cause := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	e := echo.New()
	Register(e, Deps{
		Config:          &config.Config{},
		Log:             log,
		JWTService:      jwtService,
		AuthService:     sessionAuthService{sess: sess},
		AuthHandler:     handler.NewAuthHandler(nil, log, false),
		MedicineHandler: handler.NewMedicineHandler(failingMedicineService{err: cause}, log),
		MetaHandler:     handler.NewMetaHandler(BasePath),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/medicines/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	var errorEntries []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorEntries = append(errorEntries, entry)
		}
	}
	require.Len(t, errorEntries, 1)
	logged, ok := errorEntries[0].Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.ErrorIs(t, logged, cause)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), errorEntries[0].Data["request_id"])
	assert.NotEmpty(t, errorEntries[0].Data["request_id"])
}
