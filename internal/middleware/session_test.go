package middleware

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medtracker/internal/auth"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/model"
	"medtracker/internal/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*model.User, error) {
	panic("not used")
}

func (m *mockAuthService) Login(ctx context.Context, username, password string, previous *auth.Session) (*service.LoginResult, error) {
	panic("not used")
}

func (m *mockAuthService) Logout(ctx context.Context, sess *auth.Session) (bool, error) {
	panic("not used")
}

func (m *mockAuthService) CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error) {
	panic("not used")
}

func (m *mockAuthService) Authenticate(ctx context.Context, claims *auth.Claims) (*auth.Session, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func newTestServer(authService service.AuthService, jwtService *auth.JWTService) *echo.Echo {
	log := logrus.New()
	log.SetOutput(io.Discard)

	e := echo.New()
	g := e.Group("", TokenParser(jwtService), LoadSession(authService, log))
	g.GET("/whoami", func(c echo.Context) error {
		if sess := SessionFrom(c); sess != nil {
			return c.String(http.StatusOK, sess.ID)
		}
		return c.String(http.StatusOK, "anonymous")
	})
	g.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RequireSession)
	return e
}

func TestLoadSession(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	sess := auth.NewSession(7, time.Now(), time.Hour)
	token, err := jwtService.GenerateSessionToken(sess)
	require.NoError(t, err)

	forged, err := auth.NewJWTService("other-secret").GenerateSessionToken(sess)
	require.NoError(t, err)

	isSession := mock.MatchedBy(func(c *auth.Claims) bool { return c.ID == sess.ID && c.UserID == 7 })

	tests := []struct {
		name       string
		setupReq   func(*http.Request)
		setupMock  func(*mockAuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no token",
			setupReq:   func(*http.Request) {},
			setupMock:  func(*mockAuthService) {},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name: "session cookie",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			},
			setupMock: func(m *mockAuthService) {
				m.On("Authenticate", mock.Anything, isSession).Return(sess, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   sess.ID,
		},
		{
			name: "bearer header",
			setupReq: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			},
			setupMock: func(m *mockAuthService) {
				m.On("Authenticate", mock.Anything, isSession).Return(sess, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   sess.ID,
		},
		{
			name: "forged signature",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
			},
			setupMock:  func(*mockAuthService) {},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name: "revoked session",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			},
			setupMock: func(m *mockAuthService) {
				m.On("Authenticate", mock.Anything, isSession).Return(nil, apperrors.ErrUnauthenticated)
			},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name: "store failure",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			},
			setupMock: func(m *mockAuthService) {
				m.On("Authenticate", mock.Anything, isSession).Return(nil, errors.New("redis down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mockAuthService)
			tt.setupMock(mockAuth)
			e := newTestServer(mockAuth, jwtService)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setupReq(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			assert.NotContains(t, rec.Body.String(), "redis")
			mockAuth.AssertExpectations(t)
		})
	}
}

func TestRequireSession(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	sess := auth.NewSession(7, time.Now(), time.Hour)
	token, err := jwtService.GenerateSessionToken(sess)
	require.NoError(t, err)

	mockAuth := new(mockAuthService)
	mockAuth.On("Authenticate", mock.Anything, mock.Anything).Return(sess, nil)
	e := newTestServer(mockAuth, jwtService)

	t.Run("anonymous is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
	})

	t.Run("live session passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}
