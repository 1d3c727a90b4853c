package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"medtracker/internal/auth"
	"medtracker/internal/middleware"
	"medtracker/internal/model"
	"medtracker/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	log          logrus.FieldLogger
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, log logrus.FieldLogger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, log: log, cookieSecure: cookieSecure}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse represents a registration response.
type RegisterResponse struct {
	Message string               `json:"message"`
	User    model.RegisteredUser `json:"user"`
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Message string             `json:"message"`
	User    model.LoggedInUser `json:"user"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse wraps the current user's profile.
type ProfileResponse struct {
	User model.Profile `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return respondError(err)
	}

	h.log.WithField("user_id", user.ID).Info("user registered")
	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "account created successfully",
		User:    user.Registered(),
	})
}

// Login godoc
// @Summary Log in and open a session
// @Description On success the signed session token is set in the sessionid cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, middleware.SessionFrom(c))
	if err != nil {
		return respondError(err)
	}

	h.setSessionCookie(c, result.Token, result.Session)
	middleware.WithSession(c, result.Session)

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "login successful",
		User:    result.User.LoggedIn(),
	})
}

// Logout godoc
// @Summary Log out
// @Description Returns 200 with or without a session and reports whether one was closed.
// @Description Returns 500 only when the session store fails to delete a live session.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	loggedOut, err := h.authService.Logout(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(err)
	}

	h.clearSessionCookie(c)
	if !loggedOut {
		return c.JSON(http.StatusOK, MessageResponse{Message: "already logged out"})
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/me/ [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: user.Profile()})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, sess *auth.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
