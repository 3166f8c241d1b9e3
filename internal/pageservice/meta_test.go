package pageservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstParagraph(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "simple", content: "<p>Hello world</p><p>second</p>", expected: "Hello world"},
		{name: "nested markup", content: "<h2>Intro</h2><p>Go <em>is</em>\n  <a href=\"/\">fun</a></p>", expected: "Go is fun"},
		{name: "no paragraph", content: "<div>just a div</div>", expected: ""},
		{name: "empty", content: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, firstParagraph(tc.content))
		})
	}
}

func TestInsertPostInfo(t *testing.T) {
	fragment := `<div class="post-container"><h1 class="post-title">Hello</h1><div class="post-content"><p>x</p></div></div>`

	out, err := insertPostInfo(fragment, "2024-05-01", 1234)
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="post-container"><h1 class="post-title">Hello</h1><div class="post-info-container"><span class="post-date">2024-05-01</span><span class="post-views">1,234 views</span></div><div class="post-content"><p>x</p></div></div>`,
		out)

	t.Run("no title", func(t *testing.T) {
		out, err := insertPostInfo("<p>x</p>", "2024-05-01", 1)
		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", out)
	})
}

func TestFormatViews(t *testing.T) {
	assert.Equal(t, "0 views", formatViews(0))
	assert.Equal(t, "1 view", formatViews(1))
	assert.Equal(t, "1,000,000 views", formatViews(1000000))
}

func TestShowOneQuote(t *testing.T) {
	fragment := `<blockquote>a</blockquote><blockquote>b</blockquote><blockquote>c</blockquote>`

	out, err := showOneQuote(fragment, func(n int) int {
		assert.Equal(t, 3, n)
		return 1
	})
	require.NoError(t, err)
	assert.Equal(t, `<blockquote hidden="">a</blockquote><blockquote>b</blockquote><blockquote hidden="">c</blockquote>`, out)

	single := `<blockquote>only</blockquote>`
	out, err = showOneQuote(single, func(int) int { return 0 })
	require.NoError(t, err)
	assert.Equal(t, single, out)
}
