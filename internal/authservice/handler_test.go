package authservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rx0a/rayspace/internal/githubservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) User(ctx context.Context, client *http.Client) (*githubservice.User, error) {
	args := m.Called(client)
	u, _ := args.Get(0).(*githubservice.User)
	return u, args.Error(1)
}

func newTestTokenServer(t *testing.T) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_test","token_type":"bearer","scope":"read:user"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestAuthService(t *testing.T, fetcher UserFetcher, tokenURL string) *AuthService {
	s, err := NewAuthService(Config{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RedirectURL:   "http://localhost:8080/auth/github/callback",
		AdminUserID:   "156246723",
		EditorUserIDs: []string{"777"},
		SecretKey:     testKey(),
		TokenURL:      tokenURL,
	}, fetcher)
	require.NoError(t, err)
	return s
}

func TestStartURL(t *testing.T) {
	s := newTestAuthService(t, new(MockFetcher), "")

	raw, state, err := s.StartURL()
	require.NoError(t, err)
	assert.Len(t, state, 26)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "http://localhost:8080/auth/github/callback", u.Query().Get("redirect_uri"))

	_, other, err := s.StartURL()
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestComplete(t *testing.T) {
	ts := newTestTokenServer(t)

	testCases := []struct {
		name        string
		state       string
		expected    string
		code        string
		ghUser      *githubservice.User
		ghErr       error
		wantUser    *User
		expectedErr error
	}{
		{
			name:     "admin",
			state:    "s1",
			expected: "s1",
			code:     "good-code",
			ghUser:   &githubservice.User{ID: 156246723, Login: "rx0a", Name: "Ray"},
			wantUser: &User{ID: "156246723", Name: "Ray", Permissions: Permissions{PermissionWriteComments, PermissionWritePosts, PermissionAdminPosts}},
		},
		{
			name:     "visitor without profile name",
			state:    "s1",
			expected: "s1",
			code:     "good-code",
			ghUser:   &githubservice.User{ID: 9, Login: "guest"},
			wantUser: &User{ID: "9", Name: "guest", Permissions: Permissions{PermissionWriteComments}},
		},
		{
			name:        "state mismatch",
			state:       "s1",
			expected:    "s2",
			code:        "good-code",
			expectedErr: ErrInvalidState,
		},
		{
			name:        "missing state cookie",
			state:       "s1",
			code:        "good-code",
			expectedErr: ErrInvalidState,
		},
		{
			name:        "missing code",
			state:       "s1",
			expected:    "s1",
			expectedErr: ErrMissingCode,
		},
		{
			name:        "bad code",
			state:       "s1",
			expected:    "s1",
			code:        "bad-code",
			expectedErr: ErrOAuth,
		},
		{
			name:        "github user lookup fails",
			state:       "s1",
			expected:    "s1",
			code:        "good-code",
			ghErr:       errors.New("boom"),
			expectedErr: ErrOAuth,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(MockFetcher)
			if tc.ghUser != nil || tc.ghErr != nil {
				fetcher.On("User", mock.Anything).Return(tc.ghUser, tc.ghErr).Once()
			}

			s := newTestAuthService(t, fetcher, ts.URL)
			s.httpClient = ts.Client()

			u, err := s.Complete(context.Background(), tc.state, tc.expected, tc.code)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantUser, u)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	s := newTestAuthService(t, new(MockFetcher), "")

	rr := httptest.NewRecorder()
	require.NoError(t, s.SetSession(rr, s.newUser("777", "Editor")))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	u := s.UserFromRequest(req)
	assert.False(t, u.IsAnonymous())
	assert.Equal(t, "Editor", u.Name)
	assert.True(t, u.HasPermission(PermissionWritePosts))
	assert.False(t, u.IsAdmin())
	assert.Equal(t, AuthStatus{Authenticated: true, IsAdmin: false, UserName: "Editor"}, s.Status(u))

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	anon := s.UserFromRequest(forged)
	assert.True(t, anon.IsAnonymous())
	assert.Equal(t, AuthStatus{}, s.Status(anon))

	rr = httptest.NewRecorder()
	s.ClearSession(rr)
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)
}

func TestConsumeState(t *testing.T) {
	s := newTestAuthService(t, new(MockFetcher), "")

	rr := httptest.NewRecorder()
	s.SetStateCookie(rr, "abc")
	stateCookie := rr.Result().Cookies()[0]
	assert.Equal(t, "/auth", stateCookie.Path)

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	req.AddCookie(stateCookie)

	rr = httptest.NewRecorder()
	assert.Equal(t, "abc", s.ConsumeState(rr, req))
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)

	rr = httptest.NewRecorder()
	assert.Equal(t, "", s.ConsumeState(rr, httptest.NewRequest(http.MethodGet, "/", nil)))
}
