package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/rx0a/rayspace/internal/common"
	"github.com/rx0a/rayspace/internal/postservice"
)

// Posts returns the post list, served from the local cache while it is fresh.
func (c *Client) Posts(ctx context.Context) ([]postservice.Summary, error) {
	if cached, ok := c.c.Get(common.CacheKeyPosts); ok {
		return slices.Clone(cached.([]postservice.Summary)), nil
	}

	var posts []postservice.Summary
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []postservice.Summary{}
	}

	c.c.Set(common.CacheKeyPosts, posts)

	return slices.Clone(posts), nil
}

// InvalidatePosts drops the cached post list.
func (c *Client) InvalidatePosts() {
	c.c.Invalidate(common.CacheKeyPosts)
}

func (c *Client) Post(ctx context.Context, id int) (*postservice.Post, error) {
	var env struct {
		Post *postservice.Post `json:"post"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/posts/"+strconv.Itoa(id), nil, &env); err != nil {
		return nil, err
	}

	return env.Post, nil
}

// PostFragment fetches the rendered post page fragment.
func (c *Client) PostFragment(ctx context.Context, id int) (string, error) {
	path := fmt.Sprintf("/posts/%d.html", id)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", decodeError(res)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// AdminPostContent returns the fragment the editor loads for post id.
func (c *Client) AdminPostContent(ctx context.Context, id int) (string, error) {
	var env struct {
		Content string `json:"content"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/admin/posts/"+strconv.Itoa(id), nil, &env); err != nil {
		return "", err
	}

	return env.Content, nil
}

type writeResponse struct {
	Post *postservice.Post `json:"post"`
}

func (c *Client) CreatePost(ctx context.Context, scope Scope, req *postservice.CreatePostRequest) (*postservice.Post, error) {
	var res writeResponse
	if err := c.do(ctx, http.MethodPost, scope.postsPath(), req, &res); err != nil {
		return nil, err
	}

	c.InvalidatePosts()

	return res.Post, nil
}

func (c *Client) UpdatePost(ctx context.Context, scope Scope, id int, req *postservice.UpdatePostRequest) (*postservice.Post, error) {
	if scope == ScopeTools {
		return nil, fmt.Errorf("update: %w: %s", ErrUnsupportedScope, scope)
	}

	var res writeResponse
	if err := c.do(ctx, http.MethodPut, scope.postsPath()+"/"+strconv.Itoa(id), req, &res); err != nil {
		return nil, err
	}

	c.InvalidatePosts()

	return res.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, scope Scope, id int) error {
	if err := c.do(ctx, http.MethodDelete, scope.postsPath()+"/"+strconv.Itoa(id), nil, nil); err != nil {
		return err
	}

	c.InvalidatePosts()

	return nil
}

// UpdateViews records a view of post id and returns the new count.
func (c *Client) UpdateViews(ctx context.Context, id int) (int, error) {
	var res struct {
		Views int `json:"views"`
	}

	if err := c.do(ctx, http.MethodPut, "/api/update_views/"+strconv.Itoa(id), nil, &res); err != nil {
		return 0, err
	}

	return res.Views, nil
}

// TotalViews sums the view counters of the cached post list.
func (c *Client) TotalViews(ctx context.Context) (int, error) {
	posts, err := c.Posts(ctx)
	if err != nil {
		return 0, err
	}

	var total int
	for _, p := range posts {
		total += p.Views
	}

	return total, nil
}

// ResolveBlogPath finds the post behind a /blog/<dashed-title> path.
func (c *Client) ResolveBlogPath(ctx context.Context, path string) (*postservice.Summary, error) {
	slug, ok := strings.CutPrefix(path, "/blog/")
	if !ok || slug == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	posts, err := c.Posts(ctx)
	if err != nil {
		return nil, err
	}

	var found *postservice.Summary
	for _, p := range posts {
		if postservice.Slug(p.Title) == slug && (found == nil || p.ID < found.ID) {
			match := p
			found = &match
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	return found, nil
}
