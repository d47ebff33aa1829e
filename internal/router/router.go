package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-session-service/internal/config"
	"github.com/iliyamo/user-session-service/internal/handler"
	"github.com/iliyamo/user-session-service/internal/middleware"
	"github.com/iliyamo/user-session-service/internal/service"
	"github.com/iliyamo/user-session-service/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check for load
// balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session endpoints with their guards. The posture is
// default-deny: everything under /v1 sits behind the access-token guard, and
// a route is public only when it is explicitly registered outside that group.
//
//	POST /v1/auth/register – create account, first pair issued immediately
//	POST /v1/auth/login    – password guard + login throttle
//	POST /v1/auth/refresh  – refresh guard, rotates the pair
//	POST /v1/auth/signout  – refresh guard, revokes the session
//	GET  /v1/me            – access guard
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth *service.AuthService, codec *utils.TokenCodec, rdb *redis.Client) {
	passwordGuard := &middleware.PasswordGuard{Auth: auth}
	accessGuard := &middleware.AccessTokenGuard{Codec: codec}
	refreshGuard := &middleware.RefreshTokenGuard{Codec: codec, Auth: auth}

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login,
		middleware.LoginRateLimit(config.LoadLoginRateLimit(), rdb),
		middleware.Require(passwordGuard))
	g.POST("/refresh", a.Refresh, middleware.Require(refreshGuard))
	g.POST("/signout", a.SignOut, middleware.Require(refreshGuard))

	protected := e.Group("/v1")
	protected.Use(middleware.Require(accessGuard))
	protected.GET("/me", a.Me)
}
