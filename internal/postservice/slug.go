package postservice

import (
	"regexp"
	"strings"
)

var whitespaceRX = regexp.MustCompile(`\s+`)

// Slug turns a post title into its URL form: lower case with whitespace runs
// replaced by a single dash.
func Slug(title string) string {
	return whitespaceRX.ReplaceAllString(strings.ToLower(title), "-")
}

// Path returns the blog path of a post title.
func Path(title string) string {
	return "/blog/" + Slug(title)
}
