package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"travelblog/internal/auth"
	"travelblog/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   service.AuthService
	sessions      *auth.SessionService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *auth.SessionService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SigninRequest represents a sign-in request.
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SigninResponse carries the session token and the signed-in identity.
type SigninResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *auth.Identity `json:"user"`
}

// SessionResponse is the current session; User is omitted when anonymous.
type SessionResponse struct {
	User *auth.Identity `json:"user,omitempty"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, "signup_failed", err)
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		return fail(c, "signup_failed", err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Signin godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Credentials"
// @Success 200 {object} SigninResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, "signin_failed", err)
	}

	identity, err := h.authService.Verify(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, "signin_failed", err)
	}

	token, expiresAt, err := h.sessions.Issue(*identity)
	if err != nil {
		return fail(c, "session_issue_failed", err)
	}

	c.SetCookie(auth.SessionCookie(token, expiresAt, h.secureCookies))
	return c.JSON(http.StatusOK, SigninResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      identity,
	})
}

// Signout godoc
// @Summary Sign out
// @Description Expires the session cookie. Tokens are stateless and stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	c.SetCookie(auth.ClearSessionCookie(h.secureCookies))
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	identity, _ := auth.IdentityFrom(c)
	return c.JSON(http.StatusOK, SessionResponse{User: identity})
}
