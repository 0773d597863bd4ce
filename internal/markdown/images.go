package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
)

func unwrapImagesStage() Stage {
	return Stage{Name: "unwrap-images", Transform: unwrapImages}
}

// unwrapImages replaces paragraphs that hold nothing but images, optionally
// linked, with those images.
func unwrapImages(doc *ast.Document, st *State) error {
	var targets []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if p, ok := n.(*ast.Paragraph); ok {
			if onlyImages(p, st.Source) {
				targets = append(targets, p)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, p := range targets {
		parent := p.Parent()
		for c := p.FirstChild(); c != nil; {
			next := c.NextSibling()
			p.RemoveChild(p, c)
			if !isBlankText(c, st.Source) {
				parent.InsertBefore(parent, p, c)
			}
			c = next
		}
		parent.RemoveChild(parent, p)
	}
	return nil
}

func onlyImages(p *ast.Paragraph, source []byte) bool {
	images := 0
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Image:
			images++
		case *ast.Link:
			if n.ChildCount() == 0 {
				return false
			}
			for l := n.FirstChild(); l != nil; l = l.NextSibling() {
				if _, ok := l.(*ast.Image); !ok {
					return false
				}
			}
			images++
		default:
			if !isBlankText(c, source) {
				return false
			}
		}
	}
	return images > 0
}

func isBlankText(n ast.Node, source []byte) bool {
	t, ok := n.(*ast.Text)
	return ok && len(bytes.TrimSpace(t.Segment.Value(source))) == 0
}
