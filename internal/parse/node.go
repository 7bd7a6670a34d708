// Package parse builds an offset-preserving node tree from editor-authored
// markup fragments. Bare phrasing content inside containers is wrapped in
// implicit paragraphs, and every prose element carries its sentences.
package parse

import (
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	Fragment Kind = iota
	Element
	Text
	Comment
)

func (k Kind) String() string {
	switch k {
	case Fragment:
		return "fragment"
	case Element:
		return "element"
	case Text:
		return "text"
	default:
		return "comment"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Exclusion reasons.
const (
	ExcludedTag    = "tag"
	ExcludedWidget = "widget"
)

// Node is one tree node. Which fields are meaningful depends on Kind:
// Element uses Name, Attributes and the tag ranges; Text and Comment use
// Value. Only prose elements have a non-nil Sentences slice.
type Node struct {
	Kind        Kind                `json:"kind"`
	Name        string              `json:"name,omitempty"`
	Attributes  map[string]string   `json:"attributes,omitempty"`
	Value       string              `json:"value,omitempty"`
	Children    []*Node             `json:"children,omitempty"`
	SourceRange *source.Range       `json:"sourceRange,omitempty"`
	StartTag    *source.Range       `json:"startTagRange,omitempty"`
	EndTag      *source.Range       `json:"endTagRange,omitempty"`
	IsImplicit  bool                `json:"isImplicit,omitempty"`
	Exclusion   string              `json:"exclusion,omitempty"`
	Block       string              `json:"block,omitempty"`
	ClientID    string              `json:"clientId,omitempty"`
	Sentences   []sentence.Sentence `json:"sentences,omitempty"`
}

// IsProse reports whether n is a paragraph, heading or implicit paragraph.
func (n *Node) IsProse() bool {
	return n.Kind == Element && (n.IsImplicit || proseTags[n.Name])
}

// Walk visits n and its descendants depth first in document order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Prose returns the prose elements outside excluded subtrees, in document
// order.
func Prose(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n.Exclusion != "" {
			return false
		}
		if n.IsProse() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Sentences returns every sentence of the tree in document order.
func Sentences(root *Node) []sentence.Sentence {
	var out []sentence.Sentence
	for _, p := range Prose(root) {
		out = append(out, p.Sentences...)
	}
	return out
}

// Validate checks that every range lies inside a source of length n and
// inside its parent's range, and that sentences ascend without overlap.
func Validate(root *Node, n int) error {
	return validate(root, source.Range{Start: 0, End: n})
}

func validate(node *Node, bound source.Range) error {
	if node.SourceRange != nil {
		if err := source.Check("parse.Validate", *node.SourceRange, bound); err != nil {
			return err
		}
		bound = *node.SourceRange
	}
	for _, r := range []*source.Range{node.StartTag, node.EndTag} {
		if r == nil {
			continue
		}
		if err := source.Check("parse.Validate", *r, bound); err != nil {
			return err
		}
	}
	last := bound.Start
	for _, s := range node.Sentences {
		if err := source.Check("parse.Validate", s.Range, source.Range{Start: last, End: bound.End}); err != nil {
			return err
		}
		for _, t := range s.Tokens {
			if err := source.Check("parse.Validate", t.Range, source.Range{Start: last, End: s.Range.End}); err != nil {
				return err
			}
			last = t.Range.End
		}
	}
	for _, c := range node.Children {
		if err := validate(c, bound); err != nil {
			return err
		}
	}
	return nil
}
