package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetaHandler serves the unauthenticated helper endpoints under /auth.
type MetaHandler struct {
	basePath string
}

// NewMetaHandler creates a new meta handler. basePath is the API mount point
// used when listing endpoints.
func NewMetaHandler(basePath string) *MetaHandler {
	return &MetaHandler{basePath: basePath}
}

// CSRFResponse carries an anti-forgery token.
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// HealthResponse represents the health endpoint payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}

// CSRFToken godoc
// @Summary Issue a CSRF token
// @Description The token is also set in the csrftoken cookie; send it back in the X-CSRFToken header.
// @Tags auth
// @Produce json
// @Success 200 {object} CSRFResponse
// @Router /auth/csrf/ [get]
func (h *MetaHandler) CSRFToken(c echo.Context) error {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return c.JSON(http.StatusOK, CSRFResponse{CSRFToken: token})
}

// Health godoc
// @Summary API health and endpoint list
// @Tags auth
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /auth/health/ [get]
func (h *MetaHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "API is working",
		Timestamp: time.Now().UTC(),
		Endpoints: map[string]string{
			"register":     h.basePath + "/auth/register/",
			"login":        h.basePath + "/auth/login/",
			"logout":       h.basePath + "/auth/logout/",
			"current_user": h.basePath + "/auth/me/",
			"csrf_token":   h.basePath + "/auth/csrf/",
			"health":       h.basePath + "/auth/health/",
			"medicines":    h.basePath + "/medicines/",
		},
	})
}
