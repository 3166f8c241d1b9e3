package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rx0a/rayspace/internal/common"
	"github.com/rx0a/rayspace/internal/githubservice"
)

func TestHealthCheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, headers, body := ts.do(t, http.MethodGet, "/api/healthcheck", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"available","system_info":{"environment":"test","version":"test"}}`, string(body))
}

func TestPostHandlers(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	admin := sessionCookie(t, app, testAdminID, "Ray")
	editor := sessionCookie(t, app, testEditorID, "Editor")
	visitor := sessionCookie(t, app, testUserID, "Visitor")

	t.Run("empty list is an array", func(t *testing.T) {
		status, _, body := ts.do(t, http.MethodGet, "/api/posts", nil, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(body))

		status, _, body = ts.do(t, http.MethodGet, "/api/admin/posts", admin, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(body))
	})

	writes := []struct {
		name       string
		method     string
		path       string
		cookie     *http.Cookie
		payload    any
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "anonymous create",
			method:     http.MethodPost,
			path:       "/api/posts",
			payload:    map[string]any{"title": "t", "content": "<p>c</p>"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "you must be signed in to access this resource"},
		},
		{
			name:       "visitor create",
			method:     http.MethodPost,
			path:       "/api/admin/posts",
			cookie:     visitor,
			payload:    map[string]any{"title": "t", "content": "<p>c</p>"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "unauthorized access"},
		},
		{
			name:       "editor cannot use admin routes",
			method:     http.MethodPost,
			path:       "/api/admin/posts",
			cookie:     editor,
			payload:    map[string]any{"title": "t", "content": "<p>c</p>"},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "unauthorized access"},
		},
		{
			name:       "empty payload",
			method:     http.MethodPost,
			path:       "/api/posts",
			cookie:     admin,
			payload:    map[string]any{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"title": "must be provided", "content": "must be provided"}},
		},
		{
			name:       "unknown field",
			method:     http.MethodPost,
			path:       "/api/posts",
			cookie:     admin,
			payload:    map[string]any{"title": "t", "content": "c", "author": "me"},
			wantStatus: http.StatusBadRequest,
			wantBody:   envelope{"error": `request body contains unknown field "author"`},
		},
		{
			name:       "update missing post",
			method:     http.MethodPut,
			path:       "/api/posts/999",
			cookie:     admin,
			payload:    map[string]any{"title": "new"},
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{"error": "resource not found"},
		},
		{
			name:       "update without fields",
			method:     http.MethodPut,
			path:       "/api/admin/posts/1",
			cookie:     admin,
			payload:    map[string]any{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"post": "must contain at least one of title, content or published_date"}},
		},
		{
			name:       "delete with bad id",
			method:     http.MethodDelete,
			path:       "/api/posts/abc",
			cookie:     admin,
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{"error": "resource not found"},
		},
	}

	for _, tc := range writes {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ts.doJSON(t, tc.method, tc.path, tc.cookie, tc.payload)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantBody, body)
		})
	}

	t.Run("admin lifecycle", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodPost, "/api/admin/posts", admin, map[string]any{
			"title":          "  Hello Go World ",
			"content":        `<p>First paragraph.</p><script>alert(1)</script>`,
			"published_date": "2024-05-01",
		})
		require.Equal(t, http.StatusCreated, status, body)

		id := int(body["id"].(float64))
		post := body["post"].(map[string]any)
		assert.Equal(t, "Hello Go World", post["title"])
		assert.Equal(t, "<p>First paragraph.</p>", post["content"])
		assert.Equal(t, "2024-05-01", post["published_date"])
		assert.EqualValues(t, 0, post["views"])

		status, _, raw := ts.do(t, http.MethodGet, "/api/posts", nil, nil)
		require.Equal(t, http.StatusOK, status)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(raw, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Hello Go World", list[0]["title"])
		assert.NotContains(t, list[0], "content")

		status, body = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/admin/posts/%d", id), admin, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, `<div class="post-container"><h1 class="post-title">Hello Go World</h1><div class="post-content"><p>First paragraph.</p></div></div>`, body["content"])

		status, body = ts.doJSON(t, http.MethodPut, fmt.Sprintf("/api/admin/posts/%d", id), admin, map[string]any{"title": "Hello Again"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Hello Again", body["post"].(map[string]any)["title"])

		status, body = ts.doJSON(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), admin, map[string]any{"title": "Stale", "version": 1})
		assert.Equal(t, http.StatusConflict, status)

		// the list is invalidated by writes
		status, _, raw = ts.do(t, http.MethodGet, "/api/posts", nil, nil)
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(raw, &list))
		assert.Equal(t, "Hello Again", list[0]["title"])

		status, _, raw = ts.do(t, http.MethodGet, fmt.Sprintf("/posts/%d.html", id), nil, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(raw), `<h1 class="post-title">Hello Again</h1>`)

		status, body = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", id), admin, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, envelope{"message": "post deleted successfully"}, body)

		status, _ = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("tools routes", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodPost, "/api/tools/posts", editor, map[string]any{"title": "Tooling", "content": "<p>x</p>"})
		require.Equal(t, http.StatusCreated, status, body)
		id := int(body["id"].(float64))

		post := body["post"].(map[string]any)
		assert.NotEmpty(t, post["published_date"], "defaults to today")

		status, _ = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/tools/posts/%d", id), visitor, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/tools/posts/%d", id), editor, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("update views", func(t *testing.T) {
		id := insertPost(t, db, "Counted", "<p>x</p>", 5)

		status, body := ts.doJSON(t, http.MethodPut, fmt.Sprintf("/api/update_views/%d", id), nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, envelope{"id": float64(id), "views": float64(6)}, body)

		status, _ = ts.doJSON(t, http.MethodPut, "/api/update_views/9999", nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("bad fragment names", func(t *testing.T) {
		for _, path := range []string{"/posts/abc.html", "/posts/1.txt", "/posts/0.html", "/posts/9999.html"} {
			status, _ := ts.doJSON(t, http.MethodGet, path, nil, nil)
			assert.Equal(t, http.StatusNotFound, status, path)
		}
	})
}

func TestCommentHandlers(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	visitor := sessionCookie(t, app, testUserID, "Visitor")

	status, _, raw := ts.do(t, http.MethodGet, "/api/comments", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	testCases := []struct {
		name       string
		cookie     *http.Cookie
		payload    any
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "anonymous",
			payload:    map[string]any{"comment": "hi"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "you must be signed in to access this resource"},
		},
		{
			name:       "blank",
			cookie:     visitor,
			payload:    map[string]any{"comment": "   "},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"comment": "must be provided"}},
		},
		{
			name:       "too long",
			cookie:     visitor,
			payload:    map[string]any{"comment": strings.Repeat("a", 501)},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"comment": "must not be more than 500 characters long"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ts.doJSON(t, http.MethodPost, "/api/comments", tc.cookie, tc.payload)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantBody, body)
		})
	}

	t.Run("sign", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodPost, "/api/comments", visitor, map[string]any{"comment": "<b>Great</b> site"})
		require.Equal(t, http.StatusCreated, status)

		c := body["comment"].(map[string]any)
		assert.Equal(t, "Visitor", c["name"])
		assert.Equal(t, "Great site", c["comment"])
		assert.NotContains(t, c, "user_id")

		status, _, raw := ts.do(t, http.MethodGet, "/api/comments", nil, nil)
		require.Equal(t, http.StatusOK, status)

		var comments []map[string]any
		require.NoError(t, json.Unmarshal(raw, &comments))
		require.Len(t, comments, 1)
		assert.Equal(t, "Great site", comments[0]["comment"])
	})
}

func TestHomeStatsHandlers(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, body := ts.doJSON(t, http.MethodGet, "/api/github_stars", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, envelope{"stars": float64(12)}, body)

	status, body = ts.doJSON(t, http.MethodGet, "/api/stats", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, envelope{"total_views": float64(0), "recent_signee": "", "stars": float64(12)}, body)

	insertPost(t, db, "One", "<p>1</p>", 10)
	insertPost(t, db, "Two", "<p>2</p>", 32)
	_, err := db.Exec(`INSERT INTO comments (user_id, name, comment) VALUES ('1', 'First', 'a'), ('2', 'Second', 'b')`)
	require.NoError(t, err)

	status, body = ts.doJSON(t, http.MethodGet, "/api/stats", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, envelope{"total_views": float64(42), "recent_signee": "Second", "stars": float64(12)}, body)
}

func TestGithubStarsUnavailable(t *testing.T) {
	app, _ := newTestApplication(t)
	app.githubService = githubservice.NewGitHub("http://127.0.0.1:1", "rx0a", "rayspace", common.NewCache(time.Minute, time.Minute))

	ts := newTestServer(t, app.routes())

	status, body := ts.doJSON(t, http.MethodGet, "/api/github_stars", nil, nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, envelope{"error": "an upstream service could not be reached"}, body)

	status, body = ts.doJSON(t, http.MethodGet, "/api/stats", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["stars"])
}

func TestAuthHandlers(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("anonymous status", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/api/user_status", nil, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, envelope{"authenticated": false, "is_admin": false}, body)
	})

	t.Run("admin status", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/api/user_status", sessionCookie(t, app, testAdminID, "Ray"), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, envelope{"authenticated": true, "is_admin": true, "user_name": "Ray"}, body)
	})

	t.Run("forged cookie is anonymous", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/api/user_status", &http.Cookie{Name: "AdminUser", Value: "forged"}, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("start oauth", func(t *testing.T) {
		status, headers, _ := ts.do(t, http.MethodGet, "/auth/start_github_oauth", nil, nil)
		require.Equal(t, http.StatusFound, status)

		loc, err := url.Parse(headers.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "github.com", loc.Host)
		assert.Equal(t, "test-client", loc.Query().Get("client_id"))
		assert.NotEmpty(t, loc.Query().Get("state"))
		assert.Contains(t, headers.Values("Set-Cookie")[0], "oauth_state="+loc.Query().Get("state"))
	})

	t.Run("callback with bad state", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/auth/github/callback?state=x&code=y", &http.Cookie{Name: "oauth_state", Value: "z"}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, envelope{"error": "invalid oauth state"}, body)
	})

	t.Run("logout", func(t *testing.T) {
		status, headers, _ := ts.do(t, http.MethodPost, "/auth/logout", sessionCookie(t, app, testUserID, "V"), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, headers.Get("Set-Cookie"), "AdminUser=;")
		assert.Contains(t, headers.Get("Set-Cookie"), "Max-Age=0")
	})
}

func TestPageHandlers(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	id := insertPost(t, db, "Hello Go World", "<p>The first paragraph.</p><p>More.</p>", 0)

	testCases := []struct {
		name       string
		path       string
		fragment   bool
		wantStatus int
		contains   []string
	}{
		{
			name:       "home document",
			path:       "/",
			wantStatus: http.StatusOK,
			contains: []string{
				"<title>Ray Space</title>",
				`<a class="nav-link active" href="/home">Home</a>`,
				`id="github-stars">12</span>`,
				`id="total-views">0</span>`,
				`id="recent-signee">-</span>`,
			},
		},
		{
			name:       "about fragment",
			path:       "/about",
			fragment:   true,
			wantStatus: http.StatusOK,
			contains:   []string{`<section class="about">`},
		},
		{
			name:       "resume",
			path:       "/resume",
			wantStatus: http.StatusOK,
			contains:   []string{"<title>Resume | Ray Space</title>", `<a class="nav-link active" href="/about">About</a>`},
		},
		{
			name:       "blog post",
			path:       "/blog/hello-go-world",
			wantStatus: http.StatusOK,
			contains: []string{
				"<title>Hello Go World | Ray Space</title>",
				`<meta property="og:type" content="article">`,
				`<meta name="description" content="The first paragraph.">`,
				`<span class="post-views">0 views</span>`,
			},
		},
		{
			name:       "unknown page",
			path:       "/does-not-exist",
			wantStatus: http.StatusNotFound,
			contains:   []string{"<title>404 | Ray Space</title>"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+tc.path, nil)
			require.NoError(t, err)
			if tc.fragment {
				req.Header.Set("X-Fragment", "1")
			}

			res, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			var sb strings.Builder
			_, err = io.Copy(&sb, res.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
			for _, c := range tc.contains {
				assert.Contains(t, sb.String(), c)
			}
			if tc.fragment {
				assert.NotContains(t, sb.String(), "<html")
			}
		})
	}

	t.Run("viewing a post counts", func(t *testing.T) {
		var views int
		require.NoError(t, db.QueryRow(`SELECT views FROM posts WHERE id = $1`, id).Scan(&views))
		assert.Equal(t, 1, views)
	})

	t.Run("blog lists posts", func(t *testing.T) {
		status, _, body := ts.do(t, http.MethodGet, "/blog", nil, nil)
		require.Equal(t, http.StatusOK, status)

		assert.Contains(t, string(body), `<a class="post-link post-list-item" href="/blog/hello-go-world">`)
		assert.Contains(t, string(body), `<span class="post-list-title">Hello Go World</span><span class="post-views">1 view</span>`)
	})

	t.Run("guestbook follows the session", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO comments (user_id, name, comment) VALUES ('7', 'octocat', 'hello & welcome')`)
		require.NoError(t, err)

		status, _, body := ts.do(t, http.MethodGet, "/guestbook", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), `<div class="comment-name">octocat: </div><div class="comment-message">hello &amp; welcome</div>`)
		assert.Contains(t, string(body), `<div class="input-container hidden">`)
		assert.Contains(t, string(body), `<a class="github-signin" href="/auth/start_github_oauth">`)

		status, _, body = ts.do(t, http.MethodGet, "/guestbook", sessionCookie(t, app, "7", "octocat"), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), `<div class="input-container">`)
		assert.Contains(t, string(body), `<a class="github-signin hidden" href="/auth/start_github_oauth">`)

		status, _, body = ts.do(t, http.MethodGet, "/home", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), `id="recent-signee">octocat</span>`)
	})

	t.Run("unknown api path stays json", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/api/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, envelope{"error": "resource not found"}, body)
	})

	t.Run("assets", func(t *testing.T) {
		status, headers, _ := ts.do(t, http.MethodGet, "/assets/styles/style.css", nil, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, headers.Get("Content-Type"), "text/css")
	})
}
