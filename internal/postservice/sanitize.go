package postservice

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var contentPolicy = newContentPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// highlight.js language hints
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)).OnElements("code", "pre", "span", "div")
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)).OnElements("div", "section")
	return p
}

func sanitizeContent(content string) string {
	return contentPolicy.Sanitize(content)
}
