package pageservice

import (
	"bytes"
	"strings"

	"golang.org/x/exp/rand"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var viewsPrinter = message.NewPrinter(language.English)

func parseFragment(fragment string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
}

func renderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func walkAll(nodes []*html.Node, fn func(*html.Node) bool) {
	for _, n := range nodes {
		if !walk(n, fn) {
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// firstParagraph returns the collapsed text of the first <p> in content, or ""
// when there is none.
func firstParagraph(content string) string {
	nodes, err := parseFragment(content)
	if err != nil {
		return ""
	}

	var text string
	walkAll(nodes, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			text = strings.Join(strings.Fields(textContent(n)), " ")
			return false
		}
		return true
	})

	return text
}

func formatViews(views int) string {
	if views == 1 {
		return "1 view"
	}
	return viewsPrinter.Sprintf("%d views", views)
}

// insertPostInfo places the publish date and view count right after the post
// title of a rendered post fragment.
func insertPostInfo(fragment, date string, views int) (string, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	var title *html.Node
	walkAll(nodes, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.H1 && hasClass(n, "post-title") {
			title = n
			return false
		}
		return true
	})

	if title == nil || title.Parent == nil {
		return fragment, nil
	}

	info := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: "post-info-container"}},
	}
	info.AppendChild(span("post-date", date))
	info.AppendChild(span("post-views", formatViews(views)))
	title.Parent.InsertBefore(info, title.NextSibling)

	return renderNodes(nodes)
}

func span(class, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// showOneQuote hides every blockquote in fragment except the one chosen by pick.
func showOneQuote(fragment string, pick func(n int) int) (string, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	var quotes []*html.Node
	walkAll(nodes, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Blockquote {
			quotes = append(quotes, n)
		}
		return true
	})

	if len(quotes) < 2 {
		return fragment, nil
	}

	keep := pick(len(quotes))
	for i, q := range quotes {
		if i != keep {
			q.Attr = append(q.Attr, html.Attribute{Key: "hidden", Val: ""})
		}
	}

	return renderNodes(nodes)
}

func randomPick(n int) int {
	return rand.Intn(n)
}
