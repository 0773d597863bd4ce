package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const (
	attrLanguage = "data-language"
	attrTitle    = "data-title"

	plainLanguage = "text"
)

var titlePattern = regexp.MustCompile(`title=(?:"([^"]*)"|'([^']*)')`)

func codeBlocksStage() Stage {
	return Stage{
		Name:       "code-blocks",
		Extensions: []goldmark.Extender{codeBlockExtension{}},
		Transform:  classifyCodeBlocks,
	}
}

// classifyCodeBlocks tags every code block with its language and optional title
// taken from the fence info string, e.g. ```js title="app.js".
func classifyCodeBlocks(doc *ast.Document, st *State) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch block := n.(type) {
		case *ast.FencedCodeBlock:
			lang := block.Language(st.Source)
			if len(lang) == 0 || bytes.ContainsRune(lang, '=') {
				lang = []byte(plainLanguage)
			}
			block.SetAttributeString(attrLanguage, bytes.Clone(lang))
			if block.Info != nil {
				if m := titlePattern.FindSubmatch(block.Info.Segment.Value(st.Source)); m != nil {
					block.SetAttributeString(attrTitle, append(bytes.Clone(m[1]), m[2]...))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			block.SetAttributeString(attrLanguage, []byte(plainLanguage))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

type codeBlockExtension struct{}

func (codeBlockExtension) Extend(m goldmark.Markdown) {
	// Lower values win over the default html renderer.
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{}, 100)))
}

// codeBlockRenderer writes <pre data-language=".."><code class="language-..">.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
	reg.Register(ast.KindCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<pre")
	if node.Attributes() != nil {
		html.RenderAttributes(w, node, nil)
	}
	_, _ = w.WriteString("><code")
	if lang, ok := node.AttributeString(attrLanguage); ok {
		if b, ok := lang.([]byte); ok {
			_, _ = w.WriteString(` class="language-`)
			_, _ = w.Write(util.EscapeHTML(b))
			_ = w.WriteByte('"')
		}
	}
	_ = w.WriteByte('>')

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		html.DefaultWriter.RawWrite(w, line.Value(source))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}
