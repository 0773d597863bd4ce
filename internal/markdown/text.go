package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// textPiece is either a byte range of a text node's segment or a replacement node.
type textPiece struct {
	start, stop int
	node        ast.Node
}

// collectTexts returns the text nodes under root that stages may rewrite.
// Code spans, raw HTML, links generated from URLs and image descriptions are
// skipped.
func collectTexts(root ast.Node) []*ast.Text {
	var out []*ast.Text
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink, *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			// Padded segments do not map 1:1 onto the source.
			if t.Segment.Padding == 0 {
				out = append(out, t)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// replaceText swaps t for pieces. Line breaks of t are kept on a trailing text node.
func replaceText(t *ast.Text, pieces []textPiece) {
	parent := t.Parent()
	if parent == nil || len(pieces) == 0 {
		return
	}

	base := t.Segment.Start
	var last ast.Node
	for _, p := range pieces {
		node := p.node
		if node == nil {
			node = ast.NewTextSegment(text.NewSegment(base+p.start, base+p.stop))
		}
		parent.InsertBefore(parent, t, node)
		last = node
	}

	if t.SoftLineBreak() || t.HardLineBreak() {
		tail, ok := last.(*ast.Text)
		if !ok {
			tail = ast.NewTextSegment(text.NewSegment(t.Segment.Stop, t.Segment.Stop))
			parent.InsertBefore(parent, t, tail)
		}
		tail.SetSoftLineBreak(t.SoftLineBreak())
		tail.SetHardLineBreak(t.HardLineBreak())
	}
	parent.RemoveChild(parent, t)
}

// split turns the matches [start, stop) inside value into pieces built by mk.
func split(value []byte, matches [][]int, mk func(match []byte) ast.Node) []textPiece {
	pieces := make([]textPiece, 0, 2*len(matches)+1)
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			pieces = append(pieces, textPiece{start: prev, stop: m[0]})
		}
		pieces = append(pieces, textPiece{node: mk(value[m[0]:m[1]])})
		prev = m[1]
	}
	if prev < len(value) {
		pieces = append(pieces, textPiece{start: prev, stop: len(value)})
	}
	return pieces
}

// textContent returns the plain text of n as a reader would see it. Entities and
// backslash escapes in markdown text are resolved; code spans stay verbatim.
func textContent(n ast.Node, source []byte) string {
	var (
		b       strings.Builder
		pending []byte
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		b.Write(resolveReferences(pending))
		pending = pending[:0]
	}
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			pending = append(pending, t.Segment.Value(source)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				pending = append(pending, ' ')
			}
			return ast.WalkContinue, nil
		case *ast.CodeSpan:
			flush()
			for s := t.FirstChild(); s != nil; s = s.NextSibling() {
				if txt, ok := s.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.String:
			flush()
			b.Write(t.Value)
		case *ast.AutoLink:
			flush()
			b.Write(t.Label(source))
		case *Literal:
			flush()
			b.Write(t.Value)
		case *Emoji:
			flush()
			b.WriteString(t.Glyph)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()
	return strings.TrimSpace(b.String())
}

func resolveReferences(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}
