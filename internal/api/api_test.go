package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickarena/internal/api"
	"clickarena/internal/api/response"
	"clickarena/internal/factory"
	"clickarena/internal/model"
	"clickarena/internal/testutil"
)

// testServer wires the full application behind the real router
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	go app.Hub.Run()
	t.Cleanup(app.Hub.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		TokenService:    app.TokenService,
		ScoreLedger:     app.ScoreLedger,
		RankingService:  app.RankingService,
		PresenceTracker: app.PresenceTracker,
		Storage:         app.Storage,
		Hub:             app.Hub,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

// seedIdentity stores an identity with a zero score and returns a token for it
func (ts *testServer) seedIdentity(t *testing.T, id, username string, role model.Role, blocked bool) string {
	t.Helper()

	identity := &model.Identity{
		ID:        model.IdentityID(id),
		Username:  username,
		Role:      role,
		Blocked:   blocked,
		CreatedAt: ts.app.MockClock.Now(),
	}
	require.NoError(t, ts.app.Storage.SaveIdentity(context.Background(), identity))
	require.NoError(t, ts.app.Storage.SetScore(context.Background(), &model.ScoreRecord{OwnerID: identity.ID}))

	token, err := ts.app.TokenService.Issue(identity.ID, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) request(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestClickRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/game/click", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestClickRejectsInvalidToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/game/click", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClickIncrements(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedIdentity(t, "alice", "alice", model.RolePlayer, false)

	rr := ts.request(http.MethodPost, "/api/v1/game/click", token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.ClickResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Count)

	rr = ts.request(http.MethodPost, "/api/v1/game/click", token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.Count)
}

func TestClickBlockedIdentity(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedIdentity(t, "mallory", "mallory", model.RolePlayer, true)

	rr := ts.request(http.MethodPost, "/api/v1/game/click", token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "BLOCKED")

	// The refusal must not change the stored count
	score, err := ts.app.Storage.GetScore(context.Background(), model.IdentityID("mallory"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), score.Count)
}

func TestClickUnknownIdentity(t *testing.T) {
	ts := newTestServer(t)

	// Valid token for an identity that was never stored
	token, err := ts.app.TokenService.Issue(model.IdentityID("ghost"), model.RolePlayer)
	require.NoError(t, err)

	rr := ts.request(http.MethodPost, "/api/v1/game/click", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "IDENTITY_NOT_FOUND")
}

func TestRankings(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedIdentity(t, "alice", "alice", model.RolePlayer, false)
	ts.seedIdentity(t, "bob", "bob", model.RolePlayer, false)
	ts.seedIdentity(t, "mallory", "mallory", model.RolePlayer, true)
	ts.seedIdentity(t, "root", "root", model.RoleAdmin, false)

	require.NoError(t, ts.app.Storage.SetScore(context.Background(), &model.ScoreRecord{OwnerID: "alice", Count: 5}))
	require.NoError(t, ts.app.Storage.SetScore(context.Background(), &model.ScoreRecord{OwnerID: "bob", Count: 9}))
	require.NoError(t, ts.app.Storage.SetScore(context.Background(), &model.ScoreRecord{OwnerID: "mallory", Count: 100}))
	ts.app.PresenceTracker.MarkOnline(model.IdentityID("bob"))

	rr := ts.request(http.MethodGet, "/api/v1/game/rankings", token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.RankingsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	// Blocked identities and admins never appear, highest count first
	require.Len(t, resp.Rankings, 2)
	assert.Equal(t, "bob", resp.Rankings[0].Username)
	assert.Equal(t, uint64(9), resp.Rankings[0].Count)
	assert.True(t, resp.Rankings[0].Online)
	assert.Equal(t, "alice", resp.Rankings[1].Username)
	assert.False(t, resp.Rankings[1].Online)
}

func TestRankingsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/game/rankings", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminUsersForbiddenForPlayers(t *testing.T) {
	ts := newTestServer(t)
	token := ts.seedIdentity(t, "alice", "alice", model.RolePlayer, false)

	rr := ts.request(http.MethodGet, "/api/v1/admin/users", token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminUsersListing(t *testing.T) {
	ts := newTestServer(t)
	ts.seedIdentity(t, "alice", "alice", model.RolePlayer, false)
	ts.seedIdentity(t, "mallory", "mallory", model.RolePlayer, true)
	adminToken := ts.seedIdentity(t, "root", "root", model.RoleAdmin, false)

	rr := ts.request(http.MethodGet, "/api/v1/admin/users", adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.UsersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	// Admin listing includes blocked identities and admins
	require.Len(t, resp.Users, 3)
	usernames := make(map[string]response.User)
	for _, u := range resp.Users {
		usernames[u.Username] = u
	}
	assert.True(t, usernames["mallory"].Blocked)
	assert.Equal(t, "admin", usernames["root"].Role)

	// Never leak credential material
	assert.NotContains(t, rr.Body.String(), "password")
}
