package authservice

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

func newOAuthConfig(cfg Config) *oauth2.Config {
	endpoint := github.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       []string{"read:user"},
	}
}

// newState returns a random token used to tie the callback to the browser that
// started the flow.
func newState() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}

func (s *AuthService) exchange(ctx context.Context, code string) (*http.Client, error) {
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.oauth.Client(ctx, tok), nil
}
