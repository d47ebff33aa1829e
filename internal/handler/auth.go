package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/config"
	"github.com/iliyamo/user-session-service/internal/middleware"
	"github.com/iliyamo/user-session-service/internal/queue"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/service"
)

// AccountCreator is the slice of the account store the register endpoint
// needs. The MySQL repo implements it; tests substitute fakes.
type AccountCreator interface {
	Create(ctx context.Context, firstName, lastName, email, password string, cost int) (uint64, error)
}

// AuthHandler bundles dependencies for the session endpoints. The guards have
// already resolved a Principal by the time these handlers run; handlers only
// drive the session service and shape responses.
type AuthHandler struct {
	Cfg   config.Config
	Users AccountCreator
	Auth  *service.AuthService
}

func NewAuthHandler(cfg config.Config, u AccountCreator, a *service.AuthService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Auth: a}
}

type registerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates an account and returns a first token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	p := service.Principal{ID: uid, Name: strings.TrimSpace(req.FirstName + " " + req.LastName), Email: req.Email}
	pair, err := h.Auth.Login(ctx, p.ID, p.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	h.publishEvent(c, p, queue.ActionLogin)
	return c.JSON(http.StatusCreated, echo.Map{"user": p, "tokens": pair})
}

// Login runs behind the password guard: the credentials were already
// validated and the Principal attached. It issues a fresh pair and persists
// the rotated refresh digest.
func (h *AuthHandler) Login(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Login(ctx, p.ID, p.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	h.publishEvent(c, p, queue.ActionLogin)
	return c.JSON(http.StatusOK, echo.Map{"user": p, "tokens": pair})
}

// Refresh runs behind the refresh guard. The consumed refresh token is
// invalidated as a side effect of persisting the new digest; replaying it
// afterwards fails at the guard.
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, p.ID, p.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	h.publishEvent(c, p, queue.ActionRefresh)
	return c.JSON(http.StatusOK, echo.Map{"tokens": pair})
}

// SignOut runs behind the refresh guard and clears the stored refresh digest.
// Already-issued access tokens keep their own expiry.
func (h *AuthHandler) SignOut(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.SignOut(ctx, p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign out failed"})
	}

	h.publishEvent(c, p, queue.ActionSignOut)
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated principal (protected by the access guard).
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p})
}

// publishEvent emits a session audit event in the background. Delivery is
// best-effort; a broker outage never fails the request.
func (h *AuthHandler) publishEvent(c echo.Context, p service.Principal, action string) {
	ev := queue.SessionEvent{
		UserID:     p.ID,
		Email:      p.Email,
		Action:     action,
		ClientIP:   c.RealIP(),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue.PublishSessionEvent(context.Background(), ev) }()
}
