package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rx0a/rayspace/internal/authservice"
	"github.com/rx0a/rayspace/internal/common"
)

const (
	testAdminID  = "156246723"
	testEditorID = "1001"
	testUserID   = "42"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// newTestGitHub fakes the GitHub REST API with a fixed star count.
func newTestGitHub(t *testing.T, stars int) *httptest.Server {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/rx0a/rayspace" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"stargazers_count": stars})
	}))
	t.Cleanup(gh.Close)

	return gh
}

func loadTestConfig(t *testing.T) *Config {
	cfg, err := loadConfig("../.test.env")
	require.NoError(t, err)
	return cfg
}

// newTestApplication starts postgres and rabbitmq containers and wires a full
// application against them.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)

	broker, err := common.NewMessageBroker(common.TestRabbitMQ(t))
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	require.NoError(t, common.SetupGuestbookExchange(broker))

	cfg := loadTestConfig(t)
	cfg.GithubAPIURL = newTestGitHub(t, 12).URL

	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), db, broker)
	require.NoError(t, err)

	return app, db
}

// sessionCookie signs in id with the given display name.
func sessionCookie(t *testing.T, app *application, id, name string) *http.Cookie {
	rr := httptest.NewRecorder()

	u := &authservice.User{ID: id, Name: name}
	require.NoError(t, app.authService.SetSession(rr, u))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	return cookies[0]
}

func (ts *testServer) do(t *testing.T, method, path string, cookie *http.Cookie, payload any) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		js, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, b
}

func (ts *testServer) doJSON(t *testing.T, method, path string, cookie *http.Cookie, payload any) (int, envelope) {
	status, _, b := ts.do(t, method, path, cookie, payload)

	var env envelope
	require.NoError(t, json.Unmarshal(b, &env), string(b))

	return status, env
}

func insertPost(t *testing.T, db *sql.DB, title, content string, views int) int {
	var id int
	err := db.QueryRow(`INSERT INTO posts (title, content, published_date, views) VALUES ($1, $2, '2024-05-01', $3) RETURNING id`, title, content, views).Scan(&id)
	require.NoError(t, err)
	return id
}
