package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFragment(t *testing.T) {
	p := &Post{
		ID:      1,
		Title:   "Go & <Rust>",
		Content: "<p>Body</p>",
	}

	got, err := renderFragment(p)
	require.NoError(t, err)
	assert.Equal(t, `<div class="post-container"><h1 class="post-title">Go &amp; &lt;Rust&gt;</h1><div class="post-content"><p>Body</p></div></div>`, got)
}
