package pageservice

import (
	"context"
	"errors"
	"html/template"

	"github.com/rx0a/rayspace/internal/commentservice"
	"github.com/rx0a/rayspace/internal/postservice"
)

const (
	DefaultSiteName    = "Ray Space"
	DefaultDescription = "Full-Stack Software Engineer"

	TypeWebsite = "website"
	TypeArticle = "article"

	notFoundPath = "/404"
	blogPrefix   = "/blog/"
)

var ErrPageNotFound = errors.New("page not found")

// pageTable maps site paths to fragment files under the pages directory.
var pageTable = map[string]string{
	"/":          "home.html",
	"/home":      "home.html",
	"/about":     "about.html",
	"/guestbook": "guestbook.html",
	"/blog":      "blog.html",
	"/resume":    "resume.html",
	"/tools":     "tools.html",
	"/admin":     "admin.html",
	notFoundPath: "404.html",
}

// Page is a resolved site path: the fragment for the main content area and the
// document metadata that goes with it.
type Page struct {
	Path        string
	Fragment    template.HTML
	Title       string
	OGTitle     string
	Description string
	URL         string
	Type        string
	ActiveNav   string
	Status      int
	PostID      int
}

// PostFinder is the subset of the post service the router needs.
type PostFinder interface {
	ListPosts(ctx context.Context) ([]postservice.Summary, error)
	TotalViews(ctx context.Context) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*postservice.Summary, error)
	GetPost(ctx context.Context, id int) (*postservice.Post, error)
	RenderFragment(ctx context.Context, id int) (string, error)
}

type CommentLister interface {
	ListComments(ctx context.Context) ([]commentservice.Comment, error)
	RecentSignee(ctx context.Context) (string, error)
}

type StarCounter interface {
	Stars(ctx context.Context) (int, error)
}

// Visitor is who a page is rendered for. The guestbook shows its form only to
// signed in visitors.
type Visitor struct {
	SignedIn bool
	Name     string
}

type Config struct {
	PagesDir string
	SiteName string
	SiteURL  string
}

type PageService struct {
	dir      string
	siteName string
	siteURL  string
	posts    PostFinder
	comments CommentLister
	stars    StarCounter
	layout   *template.Template
	// pick chooses which of n quotes the 404 page shows.
	pick func(n int) int
}
