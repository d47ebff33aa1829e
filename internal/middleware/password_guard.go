package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/service"
)

// PasswordGuard authenticates the login request body (email + password)
// against the account store. It is applied only to the login route.
type PasswordGuard struct {
	Auth *service.AuthService
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate binds the JSON body and delegates to ValidateCredentials. A
// body that cannot be bound or is missing a field is a 400; bad credentials
// surface as the generic unauthorized rejection.
func (g *PasswordGuard) Authenticate(c echo.Context) (service.Principal, error) {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return service.Principal{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return service.Principal{}, echo.NewHTTPError(http.StatusBadRequest, "email/password required")
	}
	return g.Auth.ValidateCredentials(c.Request().Context(), req.Email, req.Password)
}
