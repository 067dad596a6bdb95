package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"portfolio_backend/internal/app/service"
	"portfolio_backend/internal/common"
	"portfolio_backend/internal/common/security"
	"portfolio_backend/internal/domain/model"
	"portfolio_backend/internal/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*model.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[user.Email]; exists {
		return common.ErrDuplicateEmail
	}
	cp := *user
	m.byEmail[user.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUserRepo) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == userID {
			user.ResetToken = &token
			user.ResetTokenExpiry = &expiry
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memUserRepo) FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ResetToken != nil && *user.ResetToken == token &&
			user.ResetTokenExpiry != nil && user.ResetTokenExpiry.After(now) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUserRepo) ReplacePassword(ctx context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			user.ResetToken = nil
			user.ResetTokenExpiry = nil
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memUserRepo) resetTokenFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok || user.ResetToken == nil {
		return ""
	}
	return *user.ResetToken
}

type testServer struct {
	handler http.Handler
	repo    *memUserRepo
	tokens  *security.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	config.Load()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := security.NewTokenService(
		[]byte("access-test-key"), []byte("refresh-test-key"),
		15*time.Minute, 7*24*time.Hour,
	)
	repo := newMemUserRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authService := service.NewAuthService(repo, tokens, rdb, logger)

	return &testServer{
		handler: NewRouter(authService, tokens),
		repo:    repo,
		tokens:  tokens,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec.Result()
}

func (ts *testServer) signup(t *testing.T, username, email, password, role string) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": username, "email": email, "password": password, "role": role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (ts *testServer) login(t *testing.T, email, password string) (access, refresh *http.Cookie) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/login", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		switch c.Name {
		case "token":
			access = c
		case "refreshToken":
			refresh = c
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSignupLoginScenario(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "al", "email": "al@x.com", "password": "p1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/login", map[string]string{
		"email": "al@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	access, refresh := ts.login(t, "al@x.com", "p1")

	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, int(15*time.Minute/time.Second), access.MaxAge)
	assert.False(t, access.Secure) // not a production environment

	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
	assert.Equal(t, int(7*24*time.Hour/time.Second), refresh.MaxAge)
}

func TestSignupDuplicateEmailHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	resp := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "al2", "email": "al@x.com", "password": "p2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email already in use", decodeBody(t, resp)["error"])
}

func TestMeRequiresValidAccessToken(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	// No cookie at all.
	resp := ts.do(t, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Expired token, signed with the right key.
	expired := security.NewTokenService(
		[]byte("access-test-key"), []byte("refresh-test-key"),
		-time.Minute, 7*24*time.Hour,
	)
	userID := ts.repo.byEmail["al@x.com"].ID
	staleToken, err := expired.IssueAccessToken(userID, model.RoleUser)
	require.NoError(t, err)
	resp = ts.do(t, http.MethodGet, "/me", nil, &http.Cookie{Name: "token", Value: staleToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Fresh token from login.
	access, _ := ts.login(t, "al@x.com", "p1")
	resp = ts.do(t, http.MethodGet, "/me", nil, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "al@x.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	// Missing cookie.
	resp := ts.do(t, http.MethodPost, "/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no refresh token", decodeBody(t, resp)["error"])

	// Tampered cookie.
	resp = ts.do(t, http.MethodPost, "/refresh-token", nil,
		&http.Cookie{Name: "refreshToken", Value: "tampered"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Valid refresh issues a new access cookie only.
	_, refresh := ts.login(t, "al@x.com", "p1")
	resp = ts.do(t, http.MethodPost, "/refresh-token", nil, refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	// The new access token works against a protected route.
	resp = ts.do(t, http.MethodGet, "/me", nil, cookies[0])
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshFailsAfterUserDeleted(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")
	_, refresh := ts.login(t, "al@x.com", "p1")

	ts.repo.mu.Lock()
	delete(ts.repo.byEmail, "al@x.com")
	ts.repo.mu.Unlock()

	resp := ts.do(t, http.MethodPost, "/refresh-token", nil, refresh)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogoutClearsAccessCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")
	access, _ := ts.login(t, "al@x.com", "p1")

	resp := ts.do(t, http.MethodPost, "/logout", nil, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)

	// Logout without authentication is rejected.
	resp = ts.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminPanelRoleGate(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")
	ts.signup(t, "root", "root@x.com", "p1", model.RoleAdmin)

	access, _ := ts.login(t, "al@x.com", "p1")
	resp := ts.do(t, http.MethodGet, "/admin-panel", nil, access)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminAccess, _ := ts.login(t, "root@x.com", "p1")
	resp = ts.do(t, http.MethodGet, "/admin-panel", nil, adminAccess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome to the admin panel", decodeBody(t, resp)["message"])
}

func TestEditorRoleDoesNotPassAdminGate(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "ed", "ed@x.com", "p1", model.RoleEditor)

	access, _ := ts.login(t, "ed@x.com", "p1")
	resp := ts.do(t, http.MethodGet, "/admin-panel", nil, access)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestPasswordResetIsEnumerationSafe(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	known := ts.do(t, http.MethodPost, "/request-password-reset", map[string]string{"email": "al@x.com"})
	unknown := ts.do(t, http.MethodPost, "/request-password-reset", map[string]string{"email": "ghost@x.com"})

	assert.Equal(t, http.StatusOK, known.StatusCode)
	assert.Equal(t, http.StatusOK, unknown.StatusCode)
	assert.Equal(t, decodeBody(t, known), decodeBody(t, unknown))
}

func TestPasswordResetScenario(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	resp := ts.do(t, http.MethodPost, "/request-password-reset", map[string]string{"email": "al@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token := ts.repo.resetTokenFor("al@x.com")
	require.NotEmpty(t, token)

	resp = ts.do(t, http.MethodPost, "/reset-password/"+token, map[string]string{"password": "p2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password rejected, new one accepted.
	loginResp := ts.do(t, http.MethodPost, "/login", map[string]string{"email": "al@x.com", "password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
	ts.login(t, "al@x.com", "p2")

	// Token is single-use.
	resp = ts.do(t, http.MethodPost, "/reset-password/"+token, map[string]string{"password": "p3"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid or expired token", decodeBody(t, resp)["error"])
}

func TestResetPasswordUnknownTokenHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/reset-password/bogus", map[string]string{"password": "p2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "al", "al@x.com", "p1", "")

	resp := ts.do(t, http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	access, _ := ts.login(t, "al@x.com", "p1")
	resp = ts.do(t, http.MethodGet, "/profile", nil, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, max-age=600", resp.Header.Get("Cache-Control"))

	body := decodeBody(t, resp)
	assert.Equal(t, "Raizel Criz", body["name"])
	assert.NotEmpty(t, body["skills"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
