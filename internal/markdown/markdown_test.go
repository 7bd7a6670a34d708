package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	out := ToHTML([]byte("# Title\n\nSome *keyword* text.\n\n- one\n- two\n"))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Title</h1>")
	assert.Contains(t, out, "<p>Some <em>keyword</em> text.</p>")
	assert.Equal(t, 2, strings.Count(out, "<li>"))
}

func TestToHTML_CodeBlock(t *testing.T) {
	out := ToHTML([]byte("```\nkeyword\n```\n"))
	assert.Contains(t, out, "<pre><code>keyword")
}

func TestToHTML_KeepsTypedCharacters(t *testing.T) {
	out := ToHTML([]byte("Don't write key--word or \"quoted\" text.\n"))

	assert.Contains(t, out, "key--word")
	assert.NotContains(t, out, "&rsquo;")
	assert.NotContains(t, out, "&ldquo;")
	assert.NotContains(t, out, "&ndash;")
}

func TestToHTML_BlockCommentsSurvive(t *testing.T) {
	out := ToHTML([]byte("<!-- wp:yoast-seo/breadcrumbs -->\n\nText\n"))
	assert.Contains(t, out, "<!-- wp:yoast-seo/breadcrumbs -->")
}
