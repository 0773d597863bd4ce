package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	// KindLiteral is the NodeKind of Literal.
	KindLiteral = ast.NewNodeKind("Literal")
	// KindEmoji is the NodeKind of Emoji.
	KindEmoji = ast.NewNodeKind("Emoji")
	// KindHTMLFragment is the NodeKind of HTMLFragment.
	KindHTMLFragment = ast.NewNodeKind("HTMLFragment")
)

// Literal is inline text rendered verbatim with curly braces written as
// character references, so template-like constructs never reach a renderer
// that would evaluate them.
type Literal struct {
	ast.BaseInline
	Value []byte
}

// NewLiteral returns a Literal holding value.
func NewLiteral(value []byte) *Literal {
	return &Literal{Value: value}
}

func (n *Literal) Kind() ast.NodeKind { return KindLiteral }

func (n *Literal) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// Emoji is an emoji glyph with an accessible label.
type Emoji struct {
	ast.BaseInline
	Glyph string
	Label string
}

// NewEmoji returns an Emoji node.
func NewEmoji(glyph, label string) *Emoji {
	return &Emoji{Glyph: glyph, Label: label}
}

func (n *Emoji) Kind() ast.NodeKind { return KindEmoji }

func (n *Emoji) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Glyph": n.Glyph, "Label": n.Label}, nil)
}

// HTMLFragment replaces a raw HTML block whose headings were given ids. HTML is
// the re-serialized block and Headings lists its headings in order.
type HTMLFragment struct {
	ast.BaseBlock
	HTML     []byte
	Headings []HeadingNode
}

func (n *HTMLFragment) Kind() ast.NodeKind { return KindHTMLFragment }

func (n *HTMLFragment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.HTML)}, nil)
}

type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindLiteral, r.renderLiteral)
	reg.Register(KindEmoji, r.renderEmoji)
	reg.Register(KindHTMLFragment, r.renderHTMLFragment)
}

var (
	openBrace  = []byte("&#123;")
	closeBrace = []byte("&#125;")
)

func (r *nodeRenderer) renderLiteral(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Literal)
	escaped := util.EscapeHTML(n.Value)
	escaped = bytes.ReplaceAll(escaped, []byte("{"), openBrace)
	escaped = bytes.ReplaceAll(escaped, []byte("}"), closeBrace)
	_, _ = w.Write(escaped)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderEmoji(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Emoji)
	_, _ = w.WriteString(`<span role="img" aria-label="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Label)))
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(n.Glyph)
	_, _ = w.WriteString("</span>")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderHTMLFragment(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*HTMLFragment)
	_, _ = w.Write(n.HTML)
	if !bytes.HasSuffix(n.HTML, []byte("\n")) {
		_ = w.WriteByte('\n')
	}
	return ast.WalkSkipChildren, nil
}
