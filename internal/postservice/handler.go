package postservice

import (
	"bytes"
	"context"
	"database/sql"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/rx0a/rayspace/internal/common"
)

func NewPostService(db *sql.DB, cache *common.Cache) *PostService {
	return &PostService{m: newPostModel(db), c: cache, now: time.Now}
}

type CreatePostRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	PublishedDate *Date  `json:"published_date"`
}

// UpdatePostRequest carries a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	PublishedDate *Date   `json:"published_date"`
	Version       *int    `json:"version"`
}

func (s *PostService) invalidate(id int) {
	s.c.Invalidate(common.CacheKeyPosts, common.CacheKeyPost(id), common.CacheKeyPostFragment(id))
}

// CreatePost stores a new post. The published date defaults to today and the view
// counter starts at zero.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)

	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	published := req.PublishedDate
	if published == nil || published.IsZero() {
		today := NewDate(s.now())
		published = &today
	}

	p := &Post{
		Title:         title,
		Content:       sanitizeContent(req.Content),
		PublishedDate: published,
	}

	if err := s.m.insert(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(p.ID)

	return p, nil
}

// GetPost returns a post with its content.
func (s *PostService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
		p := *cached.(*Post)
		return &p, nil
	}

	p, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPost(id), p)

	cp := *p
	return &cp, nil
}

// ListPosts returns every post newest first. The list is cached until the next
// write or until the cache entry expires.
func (s *PostService) ListPosts(ctx context.Context) ([]Summary, error) {
	if cached, ok := s.c.Get(common.CacheKeyPosts); ok {
		return slices.Clone(cached.([]Summary)), nil
	}

	posts, err := s.m.list(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPosts, posts)

	return slices.Clone(posts), nil
}

// UpdatePost applies a partial update. When a version is given it must match the
// stored one.
func (s *PostService) UpdatePost(ctx context.Context, id int, req *UpdatePostRequest) (*Post, error) {
	if req.PublishedDate != nil && req.PublishedDate.IsZero() {
		req.PublishedDate = nil
	}

	v := common.NewValidator()
	validateInt(v, id, "id")
	if req.Title == nil && req.Content == nil && req.PublishedDate == nil {
		v.AddError("post", "must contain at least one of title, content or published_date")
	}
	if req.Title != nil {
		validateTitle(v, strings.TrimSpace(*req.Title))
	}
	if req.Content != nil {
		validateContent(v, *req.Content)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != p.Version {
		return nil, ErrEditConflict
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		p.Content = sanitizeContent(*req.Content)
	}
	if req.PublishedDate != nil {
		p.PublishedDate = req.PublishedDate
	}

	if err := s.m.update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(id)

	return p, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(id)

	return nil
}

// IncrementViews bumps the view counter and returns the new count. The cached list
// keeps its counts until it expires.
func (s *PostService) IncrementViews(ctx context.Context, id int) (int, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	return s.m.incrementViews(ctx, id)
}

func (s *PostService) TotalViews(ctx context.Context) (int64, error) {
	return s.m.totalViews(ctx)
}

// FindBySlug looks a post up by the dashed form of its title. When several
// titles share a slug the oldest post wins.
func (s *PostService) FindBySlug(ctx context.Context, slug string) (*Summary, error) {
	posts, err := s.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	var found *Summary
	for _, p := range posts {
		if Slug(p.Title) == slug && (found == nil || p.ID < found.ID) {
			match := p
			found = &match
		}
	}

	if found == nil {
		return nil, ErrRecordNotFound
	}

	return found, nil
}

var fragmentTemplate = template.Must(template.New("post").Parse(
	`<div class="post-container"><h1 class="post-title">{{.Title}}</h1><div class="post-content">{{.Content}}</div></div>`))

// RenderFragment renders the HTML fragment the site loads for a post page.
func (s *PostService) RenderFragment(ctx context.Context, id int) (string, error) {
	if cached, ok := s.c.Get(common.CacheKeyPostFragment(id)); ok {
		return cached.(string), nil
	}

	p, err := s.GetPost(ctx, id)
	if err != nil {
		return "", err
	}

	fragment, err := renderFragment(p)
	if err != nil {
		return "", err
	}

	s.c.Set(common.CacheKeyPostFragment(id), fragment)

	return fragment, nil
}

func renderFragment(p *Post) (string, error) {
	var buf bytes.Buffer

	data := struct {
		Title   string
		Content template.HTML
	}{
		Title: p.Title,
		// content is sanitised on write
		Content: template.HTML(p.Content),
	}

	if err := fragmentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
