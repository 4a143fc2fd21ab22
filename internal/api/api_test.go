package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiongames/bastion/internal/api"
	"github.com/bastiongames/bastion/internal/api/apierr"
	"github.com/bastiongames/bastion/internal/api/response"
	"github.com/bastiongames/bastion/internal/factory"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/services/token"
	"github.com/bastiongames/bastion/internal/storage/memory"
	"github.com/bastiongames/bastion/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.TestLogger(t)

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{
		TokenConfig: token.Config{
			Secret:         "api-test-secret",
			Issuer:         "bastion",
			Audience:       "bastion-client",
			AccessTokenTTL: time.Hour,
		},
		Admin: access.AdminConfig{
			Username: "admin",
			Email:    "admin@example.com",
			Password: "admin-password",
		},
	})
	require.NoError(t, err)
	require.NoError(t, app.Seed(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		TokenService:       app.TokenService,
		SessionService:     app.SessionService,
		RatingService:      app.RatingService,
		LeaderboardService: app.LeaderboardService,
		ProfileService:     app.ProfileService,
		ArmoryService:      app.ArmoryService,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, username string) response.AuthResponse {
	t.Helper()

	body := map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) loginAdmin(t *testing.T) response.AuthResponse {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "admin",
		"password":   "admin-password",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.register(t, "alice")
	assert.Equal(t, "alice", resp.Player.Username)
	assert.Equal(t, 1000, resp.Player.Rating)
	assert.Equal(t, 1, resp.Player.Level)
	assert.Equal(t, []string{"Player"}, resp.Player.Roles)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":         "alice",
		"email":            "other@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, errorCode(t, rr))
}

func TestRegisterValidationFailure(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "password123",
		"confirm_password": "different123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
	assert.Contains(t, rr.Body.String(), "confirmPassword")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "alice",
		"password":   "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestRefreshFlow(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"access_token":  registered.AccessToken,
		"refresh_token": registered.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var refreshed response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is spent
	rr = ts.request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"access_token":  registered.AccessToken,
		"refresh_token": registered.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRefreshToken, errorCode(t, rr))
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, registered.AccessToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"access_token":  registered.AccessToken,
		"refresh_token": registered.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/leaderboard"},
		{http.MethodGet, "/api/v1/towers"},
		{http.MethodGet, "/api/v1/inventory"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodPatch, "/api/v1/match/result"},
	} {
		rr := ts.request(route.method, route.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, route.path)
		assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr), route.path)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/profile", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidToken, errorCode(t, rr))
}

func TestGetProfile(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/profile", nil, registered.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice"`)
	assert.Contains(t, rr.Body.String(), `"rating":1000`)
}

func TestUpdateProfileAvatar(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	rr := ts.request(http.MethodPatch, "/api/v1/profile", map[string]string{
		"avatar_url": "https://cdn.example.com/alice.png",
	}, registered.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "alice.png")
}

func TestMatchResultUpdatesLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rr := ts.request(http.MethodPatch, "/api/v1/match/result", map[string]any{
		"player1_id": alice.Player.ID,
		"player2_id": bob.Player.ID,
		"winner_id":  alice.Player.ID,
	}, alice.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"winner_rating":1016`)
	assert.Contains(t, rr.Body.String(), `"loser_rating":984`)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=1", nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rr.Body.String(), `"username":"bob"`)
}

func TestMatchResultSameParticipant(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPatch, "/api/v1/match/result", map[string]any{
		"player1_id": alice.Player.ID,
		"player2_id": alice.Player.ID,
		"winner_id":  alice.Player.ID,
	}, alice.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestTowerManagementRequiresPermission(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/towers", map[string]string{
		"name": "Cannon",
	}, alice.AccessToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodePermissionDenied, errorCode(t, rr))
}

func TestAdminTowerAndInventoryFlow(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.loginAdmin(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/towers", map[string]string{
		"name":        "Cannon",
		"description": "Single-target damage",
	}, admin.AccessToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var tower response.Tower
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tower))

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/towers/%d", tower.ID), nil, alice.AccessToken)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Cannon")

	rr = ts.request(http.MethodPost, "/api/v1/inventory/add", map[string]any{
		"tower_id": tower.ID,
		"quantity": 2,
	}, alice.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/inventory", nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"quantity":2`)
}

func TestGetUnknownTower(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/towers/9999", nil, alice.AccessToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeTowerNotFound, errorCode(t, rr))
}
