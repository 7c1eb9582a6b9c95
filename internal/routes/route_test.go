package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joshua-takyi/rendez/internal/container"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	issuer *helpers.TokenIssuer
	store  *storetest.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storetest.NewMemoryStore()
	issuer := helpers.NewTokenIssuer(testSecret, "test", 30*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := container.New(logger, container.Options{
		Stores: container.Stores{
			Users:       store,
			Swipes:      store,
			Matches:     store,
			Messages:    store,
			Photos:      store,
			Blocks:      store,
			Interests:   store,
			Admin:       store,
			ResetCodes:  store,
			RateWindows: nil,
		},
		Tokens:      issuer,
		CORSOrigins: []string{"http://localhost:3000"},
	})

	srv := httptest.NewServer(SetupRoutes(c))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, issuer: issuer, store: store}
}

func (s *testServer) seed(id, name string) string {
	s.t.Helper()
	_, err := s.store.CreateUser(context.Background(), &models.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Age:       27,
		Gender:    "female",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(s.t, err)

	token, _, err := s.issuer.Issue(id, helpers.RoleUser, id+"@example.com")
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) (int, apiEnvelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type swipeResult struct {
	IsMatch bool          `json:"is_match"`
	Match   *models.Match `json:"match"`
}

func (s *testServer) match(t1, t2 string) *models.Match {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/swipes", t1, gin.H{
		"from_user_id": "u1", "to_user_id": "u2", "action": "like",
	})
	require.Equal(s.t, http.StatusCreated, status)
	assert.False(s.t, decode[swipeResult](s.t, env.Data).IsMatch)

	status, env = s.do(http.MethodPost, "/api/v1/swipes", t2, gin.H{
		"from_user_id": "u2", "to_user_id": "u1", "action": "like",
	})
	require.Equal(s.t, http.StatusCreated, status)
	res := decode[swipeResult](s.t, env.Data)
	require.True(s.t, res.IsMatch)
	require.NotNil(s.t, res.Match)
	assert.Equal(s.t, "it's a match", env.Message)
	return res.Match
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.srv.Client().Get(s.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "rendez-api", body["service"])
	assert.EqualValues(t, 0, body["total_connections"])
}

func TestMutualLikeCreatesMatch(t *testing.T) {
	s := newTestServer(t)
	t1 := s.seed("u1", "Ama")
	t2 := s.seed("u2", "Kofi")

	m := s.match(t1, t2)

	status, env := s.do(http.MethodGet, "/api/v1/matches/user/u1", t1, nil)
	require.Equal(t, http.StatusOK, status)
	summaries := decode[[]models.MatchSummary](t, env.Data)
	require.Len(t, summaries, 1)
	assert.Equal(t, m.ID, summaries[0].ID)
	assert.Equal(t, "u2", summaries[0].OtherUser.ID)
}

func TestActingForAnotherUserIsForbidden(t *testing.T) {
	s := newTestServer(t)
	t1 := s.seed("u1", "Ama")
	s.seed("u2", "Kofi")

	status, env := s.do(http.MethodPost, "/api/v1/swipes", t1, gin.H{
		"from_user_id": "u2", "to_user_id": "u1", "action": "like",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	status, _ = s.do(http.MethodGet, "/api/v1/swipes/likes/u2", t1, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	s := newTestServer(t)
	s.seed("u1", "Ama")

	status, env := s.do(http.MethodGet, "/api/v1/users/u1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	t1 := s.seed("u1", "Ama")

	status, _ := s.do(http.MethodGet, "/api/v1/admin/stats", t1, nil)
	assert.Equal(t, http.StatusForbidden, status)

	adminToken, _, err := s.issuer.Issue("admin", helpers.RoleAdmin, "admin@datingapp.com")
	require.NoError(t, err)
	status, env := s.do(http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestReadReceiptReachesSenderSocket(t *testing.T) {
	s := newTestServer(t)
	t1 := s.seed("u1", "Ama")
	t2 := s.seed("u2", "Kofi")
	m := s.match(t1, t2)

	wsURL := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws/u1?token=" + t1
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	readEvent := func() map[string]any {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev map[string]any
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}
	require.Equal(t, "connection_established", readEvent()["type"])

	status, env := s.do(http.MethodPost, "/api/v1/messages", t1, gin.H{
		"sender_id": "u1", "receiver_id": "u2", "content": "hi", "match_id": m.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	sent := decode[models.Message](t, env.Data)

	status, env = s.do(http.MethodGet, "/api/v1/messages/match/"+m.ID, t2, nil)
	require.Equal(t, http.StatusOK, status)
	msgs := decode[[]models.Message](t, env.Data)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.False(t, msgs[0].IsRead)

	// only the receiver may mark it read
	status, _ = s.do(http.MethodPatch, "/api/v1/messages/"+sent.ID+"/read", t1, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(http.MethodPatch, "/api/v1/messages/"+sent.ID+"/read", t2, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Message](t, env.Data).IsRead)

	ev := readEvent()
	assert.Equal(t, "message_read", ev["type"])
	data := ev["data"].(map[string]any)
	assert.Equal(t, sent.ID, data["message_id"])
}
