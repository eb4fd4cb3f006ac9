package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"travelblog/internal/auth"
	apperrors "travelblog/internal/errors"
	"travelblog/internal/handler"
	"travelblog/internal/logging"
)

// uploadBodyLimit sits above the 5MB image limit so oversized images still
// reach the image service. Bodies over it are rendered as FILE_TOO_LARGE too.
const uploadBodyLimit = "10M"

// Options are the router settings taken from configuration.
type Options struct {
	Development bool
	Logger      *slog.Logger
	// AllowOrigins for /api CORS. Empty allows any origin.
	AllowOrigins []string
}

// Handlers groups every HTTP handler.
type Handlers struct {
	Auth      *handler.AuthHandler
	Posts     *handler.PostHandler
	Upload    *handler.UploadHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, sessions *auth.SessionService, h Handlers) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e.HTTPErrorHandler = ErrorHandler(opts.Development)
	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(opts.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(auth.LoadSession(sessions))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", h.Health.Health)

	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/signin", h.Auth.Signin)
	api.POST("/auth/signout", h.Auth.Signout)
	api.GET("/auth/session", h.Auth.Session)

	// Public reads
	api.GET("/posts", h.Posts.ListPosts)
	api.GET("/posts/search", h.Posts.SearchPosts)
	api.GET("/posts/:id", h.Posts.GetPost)

	// Every mutation needs an ADMIN session
	adminOnly := auth.AdminOnly()
	api.POST("/posts", h.Posts.CreatePost, adminOnly)
	api.PUT("/posts/:id", h.Posts.UpdatePost, adminOnly)
	api.DELETE("/posts/:id", h.Posts.DeletePost, adminOnly)
	api.POST("/upload", h.Upload.Upload, adminOnly, middleware.BodyLimit(uploadBodyLimit))
	api.DELETE("/upload", h.Upload.DeleteImage, adminOnly)

	edge := auth.EdgeGuard()
	e.GET(auth.DashboardPath, h.Dashboard.Overview, edge)
	e.GET(auth.AdminPagesPath, h.Dashboard.PostsAdmin, edge)
}

// ErrorHandler renders every error as errors.ErrorResponse. Internal detail is
// attached only in development.
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
		var internal error = err

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge:
			// An oversized body is the same validation failure as an oversized image.
			mapped := apperrors.MapErrorToHTTP(apperrors.ErrFileTooLarge)
			status = mapped.StatusCode
			body = mapped.ToErrorResponse()
			internal = he
		case errors.As(err, &he):
			status = he.Code
			internal = he.Internal
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body = apperrors.ErrorResponse{Error: msg, Code: codeForStatus(status)}
			default:
				body = apperrors.ErrorResponse{Error: http.StatusText(status), Code: codeForStatus(status)}
			}
		default:
			mapped := apperrors.MapErrorToHTTP(err)
			status = mapped.StatusCode
			body = mapped.ToErrorResponse()
		}

		if development && internal != nil {
			body.Details = internal.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			c.Logger().Error(fmt.Errorf("write error response: %w", err))
		}
	}
}

func codeForStatus(status int) string {
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
		return "REQUEST_FAILED"
	}
}
