package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/service"
	"github.com/iliyamo/user-session-service/internal/utils"
)

// bearerToken pulls the raw token out of the Authorization header. An empty
// string means the header is missing or not a Bearer scheme.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// AccessTokenGuard validates a Bearer access token. It wraps every protected
// route: a route is public only when it is registered outside the guarded
// group.
type AccessTokenGuard struct {
	Codec *utils.TokenCodec
}

func (g *AccessTokenGuard) Authenticate(c echo.Context) (service.Principal, error) {
	raw := bearerToken(c)
	if raw == "" {
		return service.Principal{}, service.ErrUnauthorized
	}
	claims, err := g.Codec.Verify(raw, utils.AccessToken)
	if err != nil {
		return service.Principal{}, service.ErrUnauthorized
	}
	id, err := claims.UserID()
	if err != nil {
		return service.Principal{}, service.ErrUnauthorized
	}
	return service.Principal{ID: id, Name: claims.Name}, nil
}

// RefreshTokenGuard validates a Bearer refresh token: first the signature and
// expiry under the refresh secret, then that the token is the account's one
// outstanding generation. Used only on the refresh and sign-out routes.
type RefreshTokenGuard struct {
	Codec *utils.TokenCodec
	Auth  *service.AuthService
}

func (g *RefreshTokenGuard) Authenticate(c echo.Context) (service.Principal, error) {
	raw := bearerToken(c)
	if raw == "" {
		return service.Principal{}, service.ErrUnauthorized
	}
	claims, err := g.Codec.Verify(raw, utils.RefreshToken)
	if err != nil {
		return service.Principal{}, service.ErrUnauthorized
	}
	id, err := claims.UserID()
	if err != nil {
		return service.Principal{}, service.ErrUnauthorized
	}
	return g.Auth.ValidateRefreshToken(c.Request().Context(), id, raw)
}
