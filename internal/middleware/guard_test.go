package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/user-session-service/internal/model"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/service"
	"github.com/iliyamo/user-session-service/internal/utils"
)

// -------- test fakes --------

type memStore struct {
	users  map[uint64]model.User
	getErr error
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if m.getErr != nil {
		return model.User{}, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if m.getErr != nil {
		return model.User{}, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) UpdateRefreshTokenHash(ctx context.Context, id uint64, digest *string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshTokenHash = digest
	m.users[id] = u
	return nil
}

// -------- helpers --------

func newGuardFixture(t *testing.T) (*service.AuthService, *utils.TokenCodec, *memStore) {
	t.Helper()
	hash, err := utils.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	store := &memStore{users: map[uint64]model.User{
		1: {ID: 1, FirstName: "John", LastName: "Doe", Email: "a@x.com", PasswordHash: hash},
	}}
	codec := utils.NewTokenCodec(
		utils.TokenConfig{Secret: "access-secret", TTL: time.Minute},
		utils.TokenConfig{Secret: "refresh-secret", TTL: time.Hour},
	)
	return service.NewAuthService(store, codec), codec, store
}

// okHandler reports the principal a guard attached.
func okHandler(c echo.Context) error {
	p, ok := CurrentPrincipal(c)
	if !ok {
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, p)
}

func doRequest(g Guard, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := Require(g)(okHandler)
	_ = h(c)
	return rec
}

// -------- tests --------

func TestAccessTokenGuard(t *testing.T) {
	t.Parallel()

	_, codec, _ := newGuardFixture(t)
	g := &AccessTokenGuard{Codec: codec}

	// No Authorization header: rejected before the handler runs.
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := doRequest(g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage bearer token.
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec = doRequest(g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid access token attaches the principal.
	raw, err := codec.Issue(1, "John Doe", utils.AccessToken)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = doRequest(g, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"John Doe"`)
}

func TestAccessTokenGuard_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	_, codec, _ := newGuardFixture(t)
	g := &AccessTokenGuard{Codec: codec}

	raw, err := codec.Issue(1, "John Doe", utils.RefreshToken)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenGuard(t *testing.T) {
	t.Parallel()

	auth, codec, _ := newGuardFixture(t)
	g := &RefreshTokenGuard{Codec: codec, Auth: auth}

	pair, err := auth.Login(context.Background(), 1, "John Doe")
	require.NoError(t, err)

	// The outstanding refresh token passes.
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := doRequest(g, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// An access token on the refresh path is rejected even though it is a
	// valid token of the other kind.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = doRequest(g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenGuard_AfterSignOut(t *testing.T) {
	t.Parallel()

	auth, codec, _ := newGuardFixture(t)
	g := &RefreshTokenGuard{Codec: codec, Auth: auth}

	pair, err := auth.Login(context.Background(), 1, "John Doe")
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(context.Background(), 1))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := doRequest(g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenGuard_StoreFailureIsNotUnauthorized(t *testing.T) {
	t.Parallel()

	auth, codec, store := newGuardFixture(t)
	g := &RefreshTokenGuard{Codec: codec, Auth: auth}

	pair, err := auth.Login(context.Background(), 1, "John Doe")
	require.NoError(t, err)

	store.getErr = errors.New("store unreachable")
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := doRequest(g, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPasswordGuard(t *testing.T) {
	t.Parallel()

	auth, _, _ := newGuardFixture(t)
	g := &PasswordGuard{Auth: auth}

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return doRequest(g, req)
	}

	// Malformed body and missing fields are a 400, not an auth failure.
	assert.Equal(t, http.StatusBadRequest, post(`{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"email":"a@x.com"}`).Code)

	// Wrong password and unknown account look identical.
	assert.Equal(t, http.StatusUnauthorized, post(`{"email":"a@x.com","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(`{"email":"nobody@x.com","password":"secret"}`).Code)

	rec := post(`{"email":"a@x.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a@x.com"`)
}
