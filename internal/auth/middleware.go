package auth

import (
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the cookie that carries the session token.
	SessionCookieName = "session_token"
	// identityContextKey is where LoadSession stores the *Identity.
	identityContextKey = "identity"
)

var errInvalidSession = errors.New("invalid session")

// LoadSession reads the session token from the Authorization bearer header or
// the session cookie. A missing or invalid token leaves the request anonymous;
// it never rejects the request.
func LoadSession(sessions *SessionService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             identityContextKey,
		TokenLookup:            "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookieName,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, ok := sessions.Read(token)
			if !ok {
				return nil, errInvalidSession
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// IdentityFrom returns the identity loaded for this request, if any.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// SetIdentity stores identity on the request context.
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(identityContextKey, identity)
}

// SessionCookie builds the cookie that carries token until expiresAt.
func SessionCookie(token string, expiresAt time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
