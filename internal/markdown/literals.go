package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	literalOpen  = []byte("{{")
	literalClose = []byte("}}")
)

// undeclaredVariablesStage renders anything still shaped like a variable after
// substitution literally. The braces are claimed while parsing inlines, so
// emphasis and links never see what is between them.
func undeclaredVariablesStage() Stage {
	return Stage{
		Name:       "undeclared-variables",
		Extensions: []goldmark.Extender{literals{}},
		Transform:  restoreImageLiterals,
	}
}

type literals struct{}

func (literals) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(literalParser{}, 100)))
}

// literalParser turns "{{ ... }}" on a single line into a Literal.
type literalParser struct{}

func (literalParser) Trigger() []byte {
	return []byte{'{'}
}

func (literalParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, literalOpen) {
		return nil
	}
	end := bytes.Index(line[len(literalOpen):], literalClose)
	if end < 0 {
		return nil
	}
	n := len(literalOpen) + end + len(literalClose)
	lit := NewLiteral(bytes.Clone(line[:n]))
	block.Advance(n)
	return lit
}

// restoreImageLiterals turns literals inside image descriptions back into
// plain strings. Alt text is an attribute value and only holds text.
func restoreImageLiterals(doc *ast.Document, _ *State) error {
	var found []*Literal
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		_ = ast.Walk(img, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if lit, ok := c.(*Literal); ok && entering {
				found = append(found, lit)
			}
			return ast.WalkContinue, nil
		})
		return ast.WalkSkipChildren, nil
	})

	for _, lit := range found {
		parent := lit.Parent()
		parent.ReplaceChild(parent, lit, ast.NewString(lit.Value))
	}
	return nil
}
