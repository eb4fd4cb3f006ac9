package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// SignInPath is where anonymous visitors of protected pages are sent.
	SignInPath = "/auth/signin"
	// DashboardPath is the landing page for signed-in users.
	DashboardPath = "/dashboard"
	// AdminPagesPath prefixes pages that need the ADMIN role.
	AdminPagesPath = "/dashboard/postsAdmin"
)

// EdgeAction is the outcome of the page-level guard.
type EdgeAction int

const (
	EdgeAllow EdgeAction = iota
	EdgeRedirectSignIn
	EdgeRedirectDashboard
)

// Decision is what the edge guard does with a request.
type Decision struct {
	Action   EdgeAction
	Location string
}

// EdgeDecision decides whether a page request may proceed. Missing sessions are
// checked before roles, matching the 401-before-403 order of the resource guard.
func EdgeDecision(path string, identity *Identity) Decision {
	if !hasPrefixSegment(path, DashboardPath) {
		return Decision{Action: EdgeAllow}
	}
	if identity == nil {
		return Decision{
			Action:   EdgeRedirectSignIn,
			Location: SignInPath + "?callbackUrl=" + url.QueryEscape(path),
		}
	}
	if hasPrefixSegment(path, AdminPagesPath) && !identity.IsAdmin() {
		return Decision{Action: EdgeRedirectDashboard, Location: DashboardPath}
	}
	return Decision{Action: EdgeAllow}
}

// EdgeGuard redirects page requests according to EdgeDecision.
func EdgeGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := IdentityFrom(c)
			d := EdgeDecision(c.Request().URL.Path, identity)
			if d.Action != EdgeAllow {
				return c.Redirect(http.StatusFound, d.Location)
			}
			return next(c)
		}
	}
}

// hasPrefixSegment matches prefix only on a path segment boundary.
func hasPrefixSegment(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}
