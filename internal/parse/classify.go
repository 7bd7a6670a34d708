package parse

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

func set(names ...atom.Atom) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, a := range names {
		m[a.String()] = true
	}
	return m
}

var (
	proseTags = set(atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)

	headingTags = set(atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)

	voidTags = set(atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr)

	blockTags = set(atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Caption,
		atom.Center, atom.Colgroup, atom.Dd, atom.Details, atom.Dialog, atom.Div, atom.Dl,
		atom.Dt, atom.Fieldset, atom.Figcaption, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Header, atom.Hgroup,
		atom.Hr, atom.Legend, atom.Li, atom.Main, atom.Menu, atom.Nav, atom.Ol, atom.Optgroup,
		atom.Option, atom.P, atom.Pre, atom.Section, atom.Summary, atom.Table, atom.Tbody,
		atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr, atom.Ul)

	// subtrees that never contribute text
	excludedTags = set(atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg,
		atom.Math, atom.Iframe, atom.Object, atom.Embed, atom.Textarea, atom.Select,
		atom.Code, atom.Kbd, atom.Samp, atom.Var, atom.Pre)
)

// siblings lists, per tag, the open tags a new start tag closes and the tags
// that bound the search.
var siblings = map[string]struct{ closes, scope map[string]bool }{
	"li":     {set(atom.Li), set(atom.Ul, atom.Ol, atom.Menu)},
	"dt":     {set(atom.Dt, atom.Dd), set(atom.Dl)},
	"dd":     {set(atom.Dt, atom.Dd), set(atom.Dl)},
	"td":     {set(atom.Td, atom.Th), set(atom.Tr, atom.Table)},
	"th":     {set(atom.Td, atom.Th), set(atom.Tr, atom.Table)},
	"tr":     {set(atom.Tr, atom.Td, atom.Th), set(atom.Table, atom.Tbody, atom.Thead, atom.Tfoot)},
	"option": {set(atom.Option), set(atom.Select, atom.Optgroup, atom.Datalist)},
}

var widgetBlocks = map[string]bool{
	"yoast-seo/table-of-contents": true,
	"yoast-seo/breadcrumbs":       true,
	"yoast-seo/siblings":          true,
	"yoast-seo/subpages":          true,
}

var widgetIDs = map[string]bool{
	"breadcrumbs":       true,
	"yoast-breadcrumbs": true,
}

var widgetClasses = map[string]bool{
	"yoast-table-of-contents": true,
	"yoast-breadcrumbs":       true,
	"yoast-subpages":          true,
	"yoast-siblings":          true,
}

func isWidgetElement(attrs map[string]string) bool {
	if widgetIDs[attrs["id"]] {
		return true
	}
	for _, c := range strings.Fields(attrs["class"]) {
		if widgetClasses[c] {
			return true
		}
	}
	return false
}

// blockComment matches editor block delimiters such as
// "wp:paragraph", "wp:yoast-seo/breadcrumbs {...} /" and "/wp:heading".
var blockComment = regexp.MustCompile(`(?s)^\s*(/)?wp:([a-z0-9_-]+(?:/[a-z0-9_-]+)?)\s*(\{.*\})?\s*(/)?\s*$`)

type blockMarker struct {
	name        string
	closing     bool
	selfClosing bool
	attrs       string
}

func parseBlockComment(s string) (blockMarker, bool) {
	m := blockComment.FindStringSubmatch(s)
	if m == nil {
		return blockMarker{}, false
	}
	name := m[2]
	if !strings.Contains(name, "/") {
		name = "core/" + name
	}
	return blockMarker{name: name, closing: m[1] != "", selfClosing: m[4] != "", attrs: m[3]}, true
}
