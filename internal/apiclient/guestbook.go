package apiclient

import (
	"context"
	"net/http"

	"github.com/rx0a/rayspace/internal/authservice"
	"github.com/rx0a/rayspace/internal/commentservice"
)

func (c *Client) Comments(ctx context.Context) ([]commentservice.Comment, error) {
	var comments []commentservice.Comment
	if err := c.do(ctx, http.MethodGet, "/api/comments", nil, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// RecentSignee returns the name on the newest guestbook entry, or "" when the
// guestbook is empty.
func (c *Client) RecentSignee(ctx context.Context) (string, error) {
	comments, err := c.Comments(ctx)
	if err != nil {
		return "", err
	}

	if len(comments) == 0 {
		return "", nil
	}

	return comments[0].Name, nil
}

func (c *Client) SignGuestbook(ctx context.Context, text string) (*commentservice.Comment, error) {
	var res struct {
		Comment *commentservice.Comment `json:"comment"`
	}

	body := map[string]string{"comment": text}
	if err := c.do(ctx, http.MethodPost, "/api/comments", body, &res); err != nil {
		return nil, err
	}

	return res.Comment, nil
}

func (c *Client) UserStatus(ctx context.Context) (authservice.AuthStatus, error) {
	var status authservice.AuthStatus
	err := c.do(ctx, http.MethodGet, "/api/user_status", nil, &status)
	return status, err
}

func (c *Client) GithubStars(ctx context.Context) (int, error) {
	var res struct {
		Stars int `json:"stars"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/github_stars", nil, &res); err != nil {
		return 0, err
	}

	return res.Stars, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// StartOAuthURL is where a browser goes to sign in with GitHub.
func (c *Client) StartOAuthURL() string {
	return c.baseURL + "/auth/start_github_oauth"
}
