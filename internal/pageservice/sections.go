package pageservice

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rx0a/rayspace/internal/commentservice"
	"github.com/rx0a/rayspace/internal/postservice"
)

const hiddenClass = "hidden"

// fillBlog lists every post, oldest first, linking to its /blog/<slug> page.
func (s *PageService) fillBlog(ctx context.Context, fragment string) (string, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return "", err
	}

	posts = slices.Clone(posts)
	slices.SortFunc(posts, func(a, b postservice.Summary) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return editFragment(fragment, func(nodes []*html.Node) {
		list := findByClass(nodes, "posts-container")
		if list == nil {
			return
		}

		if len(posts) == 0 {
			list.AppendChild(element(atom.P, "posts-empty", text("No posts yet.")))
			return
		}

		for _, p := range posts {
			item := element(atom.A, "post-link post-list-item",
				span("post-list-title", p.Title),
				span("post-views", formatViews(p.Views)),
			)
			item.Attr = append(item.Attr, html.Attribute{Key: "href", Val: postservice.Path(p.Title)})
			list.AppendChild(item)
		}
	})
}

// fillHome writes the stat cards. A GitHub failure leaves the stars card at "-".
func (s *PageService) fillHome(ctx context.Context, fragment string) (string, error) {
	views, err := s.posts.TotalViews(ctx)
	if err != nil {
		return "", err
	}

	signee, err := s.comments.RecentSignee(ctx)
	if err != nil {
		if !errors.Is(err, commentservice.ErrRecordNotFound) {
			return "", err
		}
		signee = "-"
	}

	stars := "-"
	if s.stars != nil {
		if n, err := s.stars.Stars(ctx); err == nil {
			stars = viewsPrinter.Sprintf("%d", n)
		}
	}

	return editFragment(fragment, func(nodes []*html.Node) {
		setText(findByID(nodes, "total-views"), viewsPrinter.Sprintf("%d", views))
		setText(findByID(nodes, "recent-signee"), signee)
		setText(findByID(nodes, "github-stars"), stars)
	})
}

// fillGuestbook lists the comments, newest first, and shows the form and sign
// out button to signed in visitors or the sign in link to everyone else.
func (s *PageService) fillGuestbook(ctx context.Context, fragment string, v Visitor) (string, error) {
	comments, err := s.comments.ListComments(ctx)
	if err != nil {
		return "", err
	}

	return editFragment(fragment, func(nodes []*html.Node) {
		setHidden(findByClass(nodes, "github-signin"), v.SignedIn)
		setHidden(findByClass(nodes, "input-container"), !v.SignedIn)
		setHidden(findByClass(nodes, "sign-out-button"), !v.SignedIn)

		list := findByClass(nodes, "comments-container")
		if list == nil {
			return
		}

		for _, c := range comments {
			list.AppendChild(element(atom.Div, "comment",
				element(atom.Div, "comment-name", text(c.Name+": ")),
				element(atom.Div, "comment-message", text(c.Comment)),
			))
		}
	})
}

func editFragment(fragment string, edit func([]*html.Node)) (string, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	edit(nodes)

	return renderNodes(nodes)
}

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func findFirst(nodes []*html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walkAll(nodes, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findByClass(nodes []*html.Node, class string) *html.Node {
	return findFirst(nodes, func(n *html.Node) bool { return hasClass(n, class) })
}

func findByID(nodes []*html.Node, id string) *html.Node {
	return findFirst(nodes, func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return true
			}
		}
		return false
	})
}

func setText(n *html.Node, s string) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(text(s))
}

// setHidden adds or removes the hidden class on n.
func setHidden(n *html.Node, hidden bool) {
	if n == nil {
		return
	}

	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		classes := slices.DeleteFunc(strings.Fields(a.Val), func(c string) bool { return c == hiddenClass })
		if hidden {
			classes = append(classes, hiddenClass)
		}
		n.Attr[i].Val = strings.Join(classes, " ")
		return
	}

	if hidden {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: hiddenClass})
	}
}
