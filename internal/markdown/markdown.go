// Package markdown converts markdown input into the HTML fragments the
// tree builder consumes.
package markdown

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderFlags keep the author's characters: smartypants would turn quotes,
// apostrophes and dashes into typographic entities the writer never typed,
// and a keyphrase like "key--word" would stop matching its own text. Link
// targets are irrelevant since the output is analysed, not displayed.
const renderFlags = html.CommonFlags &^ html.Smartypants

// ToHTML renders md as an HTML fragment. Raw HTML in the input is kept so
// inline markup and block comments survive conversion.
func ToHTML(md []byte) string {
	renderer := html.NewRenderer(html.RendererOptions{Flags: renderFlags})
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Attributes)
	return string(markdown.Render(p.Parse(md), renderer))
}
