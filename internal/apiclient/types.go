package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rx0a/rayspace/internal/common"
)

const DefaultCacheTTL = 5 * time.Minute

var (
	ErrNotFound         = errors.New("not found")
	ErrUnsupportedScope = errors.New("operation not available in this scope")
)

// Scope selects which family of post routes a write goes through.
type Scope int

const (
	ScopePublic Scope = iota
	ScopeAdmin
	ScopeTools
)

func (s Scope) postsPath() string {
	switch s {
	case ScopeAdmin:
		return "/api/admin/posts"
	case ScopeTools:
		return "/api/tools/posts"
	default:
		return "/api/posts"
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeAdmin:
		return "admin"
	case ScopeTools:
		return "tools"
	default:
		return "public"
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Stats is the home page summary.
type Stats struct {
	TotalViews   int64  `json:"total_views"`
	RecentSignee string `json:"recent_signee"`
	Stars        *int   `json:"stars"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session string
	ttl     time.Duration
	c       *common.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithSession sends value as the session cookie on every request.
func WithSession(value string) Option {
	return func(c *Client) {
		c.session = value
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}
