// Package logging configures the process-wide logrus logger and adapts it to
// echo's request logging middleware.
package logging

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing to stdout. format is "json" or "text";
// unknown levels fall back to info.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// RequestLogger logs one line per request with the request id assigned by
// middleware.RequestID.
func RequestLogger(l logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := l.WithFields(logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
