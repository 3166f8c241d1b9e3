package pageservice

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rx0a/rayspace/internal/postservice"
)

//go:embed templates/*
var templateFS embed.FS

type navLink struct {
	Href  string
	Label string
}

var navLinks = []navLink{
	{Href: "/home", Label: "Home"},
	{Href: "/about", Label: "About"},
	{Href: "/blog", Label: "Blog"},
	{Href: "/guestbook", Label: "Guestbook"},
}

func NewPageService(cfg Config, posts PostFinder, comments CommentLister, stars StarCounter) (*PageService, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse layout: %w", err)
	}

	siteName := cfg.SiteName
	if siteName == "" {
		siteName = DefaultSiteName
	}

	return &PageService{
		dir:      cfg.PagesDir,
		siteName: siteName,
		siteURL:  strings.TrimRight(cfg.SiteURL, "/"),
		posts:    posts,
		comments: comments,
		stars:    stars,
		layout:   layout,
		pick:     randomPick,
	}, nil
}

// Resolve maps a site path to its page as v sees it. Unknown paths and unknown
// blog posts resolve to the 404 page with status 404.
func (s *PageService) Resolve(ctx context.Context, path string, v Visitor) (*Page, error) {
	path = cleanPath(path)

	if _, ok := pageTable[path]; ok {
		return s.staticPage(ctx, path, v)
	}

	if slug, ok := strings.CutPrefix(path, blogPrefix); ok && slug != "" {
		p, err := s.postPage(ctx, path, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, postservice.ErrRecordNotFound) {
			return nil, err
		}
	}

	return s.notFound(ctx, path, v)
}

func cleanPath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

func (s *PageService) readFragment(path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, pageTable[path]))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPageNotFound, path)
		}
		return "", err
	}

	return string(b), nil
}

func (s *PageService) staticPage(ctx context.Context, path string, v Visitor) (*Page, error) {
	fragment, err := s.readFragment(path)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	switch path {
	case notFoundPath:
		status = http.StatusNotFound
		fragment, err = showOneQuote(fragment, s.pick)
	case "/", "/home":
		fragment, err = s.fillHome(ctx, fragment)
	case "/blog":
		fragment, err = s.fillBlog(ctx, fragment)
	case "/guestbook":
		fragment, err = s.fillGuestbook(ctx, fragment, v)
	}
	if err != nil {
		return nil, err
	}

	activeNav := path
	switch path {
	case "/":
		activeNav = "/home"
	case "/resume":
		activeNav = "/about"
	}

	return &Page{
		Path:        path,
		Fragment:    template.HTML(fragment),
		Title:       s.documentTitle(pageName(path)),
		OGTitle:     s.siteName,
		Description: DefaultDescription,
		URL:         s.siteURL,
		Type:        TypeWebsite,
		ActiveNav:   activeNav,
		Status:      status,
	}, nil
}

func (s *PageService) postPage(ctx context.Context, path, slug string) (*Page, error) {
	summary, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetPost(ctx, summary.ID)
	if err != nil {
		return nil, err
	}

	fragment, err := s.posts.RenderFragment(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	var date string
	if post.PublishedDate != nil {
		date = post.PublishedDate.String()
	}

	fragment, err = insertPostInfo(fragment, date, post.Views)
	if err != nil {
		return nil, err
	}

	description := firstParagraph(post.Content)
	if description == "" {
		description = DefaultDescription
	}

	return &Page{
		Path:        path,
		Fragment:    template.HTML(fragment),
		Title:       s.documentTitle(post.Title),
		OGTitle:     post.Title,
		Description: description,
		URL:         s.siteURL + path,
		Type:        TypeArticle,
		ActiveNav:   "/blog",
		Status:      http.StatusOK,
		PostID:      post.ID,
	}, nil
}

func (s *PageService) notFound(ctx context.Context, path string, v Visitor) (*Page, error) {
	p, err := s.staticPage(ctx, notFoundPath, v)
	if err != nil {
		return nil, err
	}

	p.Path = path
	return p, nil
}

// pageName turns "/about" into "About"; the root is the home page.
func pageName(path string) string {
	name := strings.TrimPrefix(path, "/")
	if name == "" {
		return "Home"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (s *PageService) documentTitle(name string) string {
	if name == "Home" {
		return s.siteName
	}
	return name + " | " + s.siteName
}

// Render writes p as a full document, or only its fragment when fragmentOnly is
// set.
func (s *PageService) Render(w io.Writer, p *Page, fragmentOnly bool) error {
	if fragmentOnly {
		_, err := io.WriteString(w, string(p.Fragment))
		return err
	}

	data := struct {
		Page     *Page
		SiteName string
		Nav      []navLink
	}{
		Page:     p,
		SiteName: s.siteName,
		Nav:      navLinks,
	}

	return s.layout.ExecuteTemplate(w, "layout.tmpl", data)
}
