package authservice

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rx0a/rayspace/internal/githubservice"
	"golang.org/x/oauth2"
)

var (
	ErrInvalidState = errors.New("invalid oauth state")
	ErrMissingCode  = errors.New("missing oauth code")
	ErrOAuth        = errors.New("github authentication failed")
)

// UserFetcher resolves the GitHub account behind an authenticated client.
type UserFetcher interface {
	User(ctx context.Context, client *http.Client) (*githubservice.User, error)
}

type AuthService struct {
	cfg   Config
	oauth *oauth2.Config
	codec *sessionCodec
	gh    UserFetcher
	// httpClient is used for the token exchange; nil means http.DefaultClient.
	httpClient *http.Client
}

func NewAuthService(cfg Config, gh UserFetcher) (*AuthService, error) {
	codec, err := newSessionCodec(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		cfg:   cfg,
		oauth: newOAuthConfig(cfg),
		codec: codec,
		gh:    gh,
	}, nil
}

// StartURL returns the GitHub authorize URL and the state that must come back on
// the callback.
func (s *AuthService) StartURL() (string, string, error) {
	state, err := newState()
	if err != nil {
		return "", "", err
	}

	return s.oauth.AuthCodeURL(state), state, nil
}

// Complete validates the callback, exchanges the code and returns the signed-in user.
func (s *AuthService) Complete(ctx context.Context, state, expectedState, code string) (*User, error) {
	if state == "" || expectedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		return nil, ErrInvalidState
	}

	if code == "" {
		return nil, ErrMissingCode
	}

	client, err := s.exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuth, err)
	}

	gh, err := s.gh.User(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuth, err)
	}

	return s.newUser(strconv.FormatInt(gh.ID, 10), gh.DisplayName()), nil
}

func (s *AuthService) newUser(id, name string) *User {
	return &User{ID: id, Name: name, Permissions: s.permissionsFor(id)}
}

// Status reports the authentication state of u.
func (s *AuthService) Status(u *User) AuthStatus {
	if u.IsAnonymous() {
		return AuthStatus{}
	}

	return AuthStatus{
		Authenticated: true,
		IsAdmin:       u.IsAdmin(),
		UserName:      u.Name,
	}
}

// SetSession writes the sealed session cookie for u.
func (s *AuthService) SetSession(w http.ResponseWriter, u *User) error {
	value, err := s.codec.seal(sessionPayload{
		UserID:   u.ID,
		UserName: u.Name,
		Expires:  s.codec.now().Add(SessionTime).Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionTime.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (s *AuthService) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserFromRequest returns the session user, or AnonymousUser when the request has
// no valid session. Permissions are derived on every call so configuration changes
// apply to existing sessions.
func (s *AuthService) UserFromRequest(r *http.Request) *User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return &AnonymousUser
	}

	p, err := s.codec.open(cookie.Value)
	if err != nil {
		return &AnonymousUser
	}

	return s.newUser(p.UserID, p.UserName)
}

func (s *AuthService) SetStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(OAuthStateTime.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ConsumeState reads and clears the state cookie.
func (s *AuthService) ConsumeState(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(StateCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return cookie.Value
}
