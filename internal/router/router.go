package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"medtracker/internal/auth"
	"medtracker/internal/config"
	apperrors "medtracker/internal/errors"
	"medtracker/internal/handler"
	"medtracker/internal/logging"
	sessionmw "medtracker/internal/middleware"
	"medtracker/internal/service"
)

// BasePath is where the JSON API is mounted.
const BasePath = "/api"

// Deps bundles what the routes need.
type Deps struct {
	Config          *config.Config
	Log             logrus.FieldLogger
	JWTService      *auth.JWTService
	AuthService     service.AuthService
	AuthHandler     *handler.AuthHandler
	MedicineHandler *handler.MedicineHandler
	MetaHandler     *handler.MetaHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = ErrorHandler(d.Log)

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, BasePath+"/")
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(d.Log))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BasePath,
		sessionmw.TokenParser(d.JWTService),
		sessionmw.LoadSession(d.AuthService, d.Log),
	)

	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRFToken",
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieSecure:   d.Config.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	})

	// Public routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register/", d.AuthHandler.Register)
	authGroup.POST("/login/", d.AuthHandler.Login)
	authGroup.POST("/logout/", d.AuthHandler.Logout)
	authGroup.GET("/me/", d.AuthHandler.Me)
	authGroup.GET("/csrf/", d.MetaHandler.CSRFToken, csrf)
	authGroup.GET("/health/", d.MetaHandler.Health)

	// Secured routes (require a live session)
	medicineMiddleware := []echo.MiddlewareFunc{sessionmw.RequireSession}
	if d.Config.CSRFEnforce {
		medicineMiddleware = append(medicineMiddleware, csrf)
	}
	medicines := api.Group("/medicines", medicineMiddleware...)
	medicines.GET("/", d.MedicineHandler.List)
	medicines.POST("/", d.MedicineHandler.Create)
	medicines.GET("/:id/", d.MedicineHandler.Get)
	medicines.PUT("/:id/", d.MedicineHandler.Update)
	medicines.DELETE("/:id/", d.MedicineHandler.Delete)
}

// ErrorHandler renders every error as an ErrorResponse body. Errors that are
// not echo HTTP errors are mapped through MapErrorToHTTP.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		var body apperrors.ErrorResponse

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body = apperrors.ErrorResponse{Error: strings.ToLower(msg), Code: codeFor(status)}
			default:
				body = apperrors.ErrorResponse{Error: strings.ToLower(http.StatusText(status)), Code: codeFor(status)}
			}
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			body = httpErr.ToErrorResponse()
		}

		if status >= http.StatusInternalServerError {
			cause := err
			if he != nil && he.Internal != nil {
				cause = he.Internal
			}
			log.WithError(cause).WithFields(logrus.Fields{
				"request_id": requestID(c),
				"path":       c.Path(),
			}).Error("request error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
