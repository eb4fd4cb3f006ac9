package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelblog/internal/errors"
)

// RequireAuth returns the caller's identity or a 401 error.
func RequireAuth(c echo.Context) (*Identity, error) {
	identity, ok := IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHENTICATED",
		})
	}
	return identity, nil
}

// RequireAdmin returns the caller's identity, a 401 error when there is no
// session, or a 403 error when the session is not ADMIN.
func RequireAdmin(c echo.Context) (*Identity, error) {
	identity, err := RequireAuth(c)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "Admin access required",
			Code:  "FORBIDDEN",
		})
	}
	return identity, nil
}

// Authenticated rejects anonymous requests with 401.
func Authenticated() echo.MiddlewareFunc {
	return guard(RequireAuth)
}

// AdminOnly rejects anonymous requests with 401 and non-admins with 403.
func AdminOnly() echo.MiddlewareFunc {
	return guard(RequireAdmin)
}

func guard(check func(echo.Context) (*Identity, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := check(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}
