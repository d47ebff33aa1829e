// Package middleware contains the request-time gates that stand between
// inbound requests and handlers. Every gate shares one capability: given a
// request, produce a Principal or reject it before any handler logic runs.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/service"
)

// principalKey is the context key the resolved Principal is stored under.
const principalKey = "principal"

// Guard resolves a Principal from an inbound request or fails. The three
// implementations (password, access token, refresh token) differ only in
// where they read credential material from and how they verify it.
type Guard interface {
	Authenticate(c echo.Context) (service.Principal, error)
}

// Require adapts a Guard into an Echo middleware. On success the Principal is
// attached to the request context and the chain proceeds; on failure the
// request is rejected before the handler runs. Guards may return an
// *echo.HTTPError to control the status (e.g. 400 for a malformed login
// body). Every credential failure is a plain 401 with no detail; anything
// else (store unreachable mid-verification) is a 500 so persistence trouble
// is never mistaken for bad credentials.
func Require(g Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := g.Authenticate(c)
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					return c.JSON(he.Code, echo.Map{"error": he.Message})
				}
				if errors.Is(err, service.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// CurrentPrincipal returns the Principal attached by a Guard, if any.
func CurrentPrincipal(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(principalKey).(service.Principal)
	return p, ok
}
