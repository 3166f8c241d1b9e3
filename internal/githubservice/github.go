package githubservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rx0a/rayspace/internal/common"
)

const (
	DefaultBaseURL = "https://api.github.com"
	StarsCacheTime = 10 * time.Minute
)

var ErrUnexpectedStatus = errors.New("unexpected response from github")

// User is the subset of the GitHub user resource the site needs.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// DisplayName prefers the profile name and falls back to the login.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Login
}

type GitHub struct {
	baseURL string
	owner   string
	repo    string
	client  *http.Client
	c       *common.Cache
}

func NewGitHub(baseURL, owner, repo string, cache *common.Cache) *GitHub {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &GitHub{
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		repo:    repo,
		client:  &http.Client{Timeout: 10 * time.Second},
		c:       cache,
	}
}

// Stars returns the stargazer count of the site's repository.
func (g *GitHub) Stars(ctx context.Context) (int, error) {
	key := common.CacheKeyGithubStars(g.owner, g.repo)
	if cached, ok := g.c.Get(key); ok {
		return cached.(int), nil
	}

	var repo struct {
		StargazersCount int `json:"stargazers_count"`
	}

	err := g.getJSON(ctx, g.client, fmt.Sprintf("/repos/%s/%s", g.owner, g.repo), &repo)
	if err != nil {
		return 0, err
	}

	g.c.Set(key, repo.StargazersCount, StarsCacheTime)

	return repo.StargazersCount, nil
}

// User fetches the owner of the token carried by client.
func (g *GitHub) User(ctx context.Context, client *http.Client) (*User, error) {
	var u User
	if err := g.getJSON(ctx, client, "/user", &u); err != nil {
		return nil, err
	}

	if u.ID == 0 {
		return nil, fmt.Errorf("%w: user without id", ErrUnexpectedStatus)
	}

	return &u, nil
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "rayspace")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%w: %s %s", ErrUnexpectedStatus, path, res.Status)
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(dst); err != nil {
		return fmt.Errorf("could not decode github response: %w", err)
	}

	return nil
}
