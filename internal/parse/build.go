package parse

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
)

// Segmenter splits the decoded text of a prose element into sentences.
// Offsets in text are mapped to source offsets through m.
type Segmenter interface {
	Segment(text string, m source.Mapper, tracked bool) []sentence.Sentence
}

// Block is one entry of an editor's structured block list.
type Block struct {
	Name        string         `json:"name" mapstructure:"name"`
	ClientID    string         `json:"clientId" mapstructure:"clientId"`
	Attributes  map[string]any `json:"attributes,omitempty" mapstructure:"attributes"`
	InnerBlocks []Block        `json:"innerBlocks,omitempty" mapstructure:"innerBlocks"`
}

// Builder turns markup into a node tree. The zero value segments with the
// default rules and derives blocks from comment delimiters alone.
type Builder struct {
	Segmenter Segmenter
	// Blocks, when set, are paired in order with block comment delimiters
	// so element nodes learn their editor block's client id.
	Blocks []Block
}

// Build parses markup with a zero Builder.
func Build(markup string) *Node {
	return (&Builder{}).Build(markup)
}

// Build parses markup into a tree rooted at a fragment node. Malformed
// markup is repaired, never rejected.
func (bd *Builder) Build(markup string) *Node {
	root := &Node{Kind: Fragment, Name: "#fragment", SourceRange: &source.Range{Start: 0, End: len(markup)}}
	b := &builder{stack: []*Node{root}, queue: flatten(bd.Blocks, nil)}

	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		r := source.Range{Start: offset, End: min(offset+len(raw), len(markup))}
		offset = r.End

		switch tt {
		case html.TextToken:
			b.text(raw, r)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			var attrs map[string]string
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				if attrs == nil {
					attrs = make(map[string]string)
				}
				attrs[string(k)] = string(v)
			}
			b.startTag(string(name), attrs, r, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			b.endTag(string(name), r)
		case html.CommentToken:
			b.comment(string(z.Text()), r)
		}
	}
	for len(b.stack) > 1 {
		b.pop()
	}

	seg := bd.Segmenter
	if seg == nil {
		seg = sentence.NewSegmenter(sentence.Rules{SpaceDelimited: true}, nil, nil)
	}
	for _, p := range Prose(root) {
		t := source.NewText(p.SourceRange.Start)
		collect(p, markup, t)
		p.Sentences = seg.Segment(t.String(), t, true)
		if p.Sentences == nil {
			p.Sentences = []sentence.Sentence{}
		}
	}
	return root
}

// collect appends the text a prose element contributes. Comments and
// excluded subtrees leave gaps; a line break reads as a space.
func collect(n *Node, markup string, t *source.Text) {
	for _, c := range n.Children {
		if c.Exclusion != "" {
			continue
		}
		switch {
		case c.Kind == Text:
			decodeInto(t, markup[c.SourceRange.Start:c.SourceRange.End], c.SourceRange.Start)
		case c.Kind == Element && c.Name == "br":
			t.Substitute(" ", *c.SourceRange)
		case c.Kind == Element && !c.IsProse():
			collect(c, markup, t)
		}
	}
}

// openBlock is a block comment awaiting its closing delimiter. depth is the
// stack height when it opened.
type openBlock struct {
	name     string
	clientID string
	widget   bool
	depth    int
}

type builder struct {
	stack    []*Node
	blocks   []openBlock
	queue    []Block
	excluded int
	widgets  int
}

func flatten(blocks []Block, out []Block) []Block {
	for _, bl := range blocks {
		if !strings.Contains(bl.Name, "/") {
			bl.Name = "core/" + bl.Name
		}
		out = append(out, bl)
		out = flatten(bl.InnerBlocks, out)
	}
	return out
}

func (b *builder) top() *Node { return b.stack[len(b.stack)-1] }

func (b *builder) inExcluded() bool { return b.excluded > 0 || b.widgets > 0 }

func (b *builder) appendChild(n *Node) {
	p := b.top()
	p.Children = append(p.Children, n)
	if n.Kind == Element && len(b.blocks) > 0 {
		ob := b.blocks[len(b.blocks)-1]
		n.Block, n.ClientID = ob.name, ob.clientID
	}
	if b.widgets > 0 && b.excluded == 0 && n.Exclusion == "" && n.Kind != Comment {
		n.Exclusion = ExcludedWidget
	}
}

func (b *builder) push(n *Node) {
	b.stack = append(b.stack, n)
	if n.Exclusion != "" {
		b.excluded++
	}
}

func (b *builder) pop() {
	n := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	if n.Exclusion != "" {
		b.excluded--
	}
	finish(n)
	b.settleBlocks()
}

// settleBlocks ends blocks whose delimiter never arrived. Any block ends
// when the element holding its opening comment closes; a widget block also
// ends with its first element, so an unclosed widget cannot hide the rest
// of the document.
func (b *builder) settleBlocks() {
	depth := len(b.stack)
	for i, ob := range b.blocks {
		if depth < ob.depth || (ob.widget && depth == ob.depth) {
			b.dropBlocks(i)
			return
		}
	}
}

// dropBlocks removes blocks[i:] from the open set.
func (b *builder) dropBlocks(i int) {
	for _, ob := range b.blocks[i:] {
		if ob.widget {
			b.widgets--
		}
	}
	b.blocks = b.blocks[:i]
}

// popTo closes every element from the top of the stack down to index i.
func (b *builder) popTo(i int) {
	for len(b.stack) > i {
		b.pop()
	}
}

// finish settles the range of a closed element. Elements closed without an
// end tag extend to their last child; implicit paragraphs span exactly
// their children.
func finish(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	last := n.Children[len(n.Children)-1].SourceRange
	if n.IsImplicit {
		first := n.Children[0].SourceRange
		n.SourceRange = &source.Range{Start: first.Start, End: last.End}
		return
	}
	if n.EndTag == nil && last.End > n.SourceRange.End {
		n.SourceRange.End = last.End
	}
}

func acceptsPhrasing(n *Node) bool {
	return n.Kind == Element && (n.IsProse() || !blockTags[n.Name])
}

// ensurePhrasingParent opens an implicit paragraph when the current
// container cannot hold phrasing content directly.
func (b *builder) ensurePhrasingParent() {
	if b.inExcluded() || acceptsPhrasing(b.top()) {
		return
	}
	p := &Node{Kind: Element, Name: "p", IsImplicit: true}
	b.appendChild(p)
	b.push(p)
}

func (b *builder) text(raw string, r source.Range) {
	value := raw
	if t := b.top(); t.Name != "script" && t.Name != "style" {
		value = decode(raw)
	}
	n := &Node{Kind: Text, Value: value, SourceRange: &r}
	if isBlank(value) && !b.inExcluded() && !acceptsPhrasing(b.top()) {
		return
	}
	b.ensurePhrasingParent()
	b.appendChild(n)
}

func (b *builder) comment(content string, r source.Range) {
	n := &Node{Kind: Comment, Value: content, SourceRange: &r}
	m, ok := parseBlockComment(content)
	if !ok {
		b.appendChild(n)
		return
	}
	switch {
	case m.closing:
		b.appendChild(n)
		b.closeBlock(m.name)
	case m.selfClosing:
		b.appendChild(n)
		n.Block, n.ClientID = m.name, b.nextClientID(m.name)
		if widgetBlocks[m.name] {
			n.Exclusion = ExcludedWidget
		}
	default:
		b.appendChild(n)
		ob := openBlock{
			name:     m.name,
			clientID: b.nextClientID(m.name),
			widget:   widgetBlocks[m.name],
			depth:    len(b.stack),
		}
		n.Block, n.ClientID = ob.name, ob.clientID
		if ob.widget {
			n.Exclusion = ExcludedWidget
			b.widgets++
		}
		b.blocks = append(b.blocks, ob)
	}
}

func (b *builder) nextClientID(name string) string {
	for i, bl := range b.queue {
		if bl.Name == name {
			b.queue = b.queue[i+1:]
			return bl.ClientID
		}
	}
	return ""
}

func (b *builder) closeBlock(name string) {
	for i := len(b.blocks) - 1; i >= 0; i-- {
		if b.blocks[i].name == name {
			b.dropBlocks(i)
			return
		}
	}
}

func (b *builder) startTag(name string, attrs map[string]string, r source.Range, selfClosing bool) {
	b.autoClose(name)

	widget := isWidgetElement(attrs)
	if !blockTags[name] && !widget {
		b.ensurePhrasingParent()
	}

	tag := r
	n := &Node{
		Kind:        Element,
		Name:        name,
		Attributes:  attrs,
		StartTag:    &tag,
		SourceRange: &source.Range{Start: r.Start, End: r.End},
	}
	switch {
	case widget:
		n.Exclusion = ExcludedWidget
	case excludedTags[name]:
		n.Exclusion = ExcludedTag
	}
	b.appendChild(n)
	if !voidTags[name] && !selfClosing {
		b.push(n)
	}
}

// autoClose applies the implied end tags of a new start tag: block content
// closes an open paragraph, a heading closes a heading, and list items,
// definitions, cells, rows and options close their open siblings.
func (b *builder) autoClose(name string) {
	if b.excluded > 0 {
		return
	}
	if blockTags[name] {
		for i := len(b.stack) - 1; i > 0; i-- {
			n := b.stack[i]
			if n.Name == "p" || (headingTags[name] && headingTags[n.Name]) {
				b.popTo(i)
				break
			}
			if blockTags[n.Name] {
				break
			}
		}
	}
	if rule, ok := siblings[name]; ok {
		for i := len(b.stack) - 1; i > 0; i-- {
			n := b.stack[i]
			if rule.closes[n.Name] {
				b.popTo(i)
				break
			}
			if rule.scope[n.Name] {
				break
			}
		}
	}
}

// endTag closes the nearest open element with the same name and everything
// opened after it. An end tag with no open match is ignored.
func (b *builder) endTag(name string, r source.Range) {
	for i := len(b.stack) - 1; i > 0; i-- {
		n := b.stack[i]
		if n.Kind != Element || n.IsImplicit || n.Name != name {
			continue
		}
		b.popTo(i + 1)
		tag := r
		n.EndTag = &tag
		n.SourceRange.End = r.End
		b.pop()
		return
	}
}
