// Package middleware resolves the caller's session for every request and
// guards the routes that need one.
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"medtracker/internal/auth"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/service"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "sessionid"

	claimsContextKey  = "session_claims"
	sessionContextKey = "session"
)

// TokenParser extracts the session token from the Authorization header or the
// session cookie and verifies its signature. Requests without a valid token
// continue anonymously.
func TokenParser(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookieName,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// LoadSession turns verified claims into a live session and stores it on the
// context. Stale, revoked or disabled sessions leave the request anonymous.
func LoadSession(authService service.AuthService, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*auth.Claims)
			if !ok {
				return next(c)
			}

			sess, err := authService.Authenticate(c.Request().Context(), claims)
			switch {
			case err == nil:
				c.Set(sessionContextKey, sess)
			case errors.Is(err, apperrors.ErrUnauthenticated):
				log.WithField("session_id", claims.ID).Debug("session rejected")
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				}).SetInternal(fmt.Errorf("resolve session %s: %w", claims.ID, err))
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if SessionFrom(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthenticated.Error(),
				Code:  "UNAUTHENTICATED",
			})
		}
		return next(c)
	}
}

// SessionFrom returns the caller's session, or nil for anonymous requests.
func SessionFrom(c echo.Context) *auth.Session {
	sess, _ := c.Get(sessionContextKey).(*auth.Session)
	return sess
}

// WithSession stores sess on the context. Used by tests and by handlers that
// establish a session mid-request.
func WithSession(c echo.Context, sess *auth.Session) {
	c.Set(sessionContextKey, sess)
}
