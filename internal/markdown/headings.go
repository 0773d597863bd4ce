package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const attrID = "id"

// Runs ahead of goldmark's own HTML block parser (900).
const htmlHeadingParserPriority = 899

var htmlFragmentsKey = parser.NewContextKey()

func headingIDsStage() Stage {
	return Stage{
		Name:       "heading-ids",
		Extensions: []goldmark.Extender{headingIDs{}},
		Transform:  assignHeadingIDs,
	}
}

func headingsStage() Stage {
	return Stage{Name: "headings", Transform: collectHeadings}
}

// headingIDs makes the parser id every heading while it reads the document,
// markdown headings through goldmark's auto heading ids and raw HTML headings
// through htmlHeadingParser. Both draw from the IDs of the parse context, so
// duplicates are numbered in document order.
type headingIDs struct{}

func (headingIDs) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithAutoHeadingID(),
		parser.WithBlockParsers(util.Prioritized(htmlHeadingParser{parser.NewHTMLBlockParser()}, htmlHeadingParserPriority)),
	)
}

// htmlHeadingParser is goldmark's HTML block parser that additionally ids the
// h1-h6 elements of each block it closes.
type htmlHeadingParser struct {
	parser.BlockParser
}

func (p htmlHeadingParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	p.BlockParser.Close(node, reader, pc)
	block, ok := node.(*ast.HTMLBlock)
	if !ok {
		return
	}
	frag := htmlHeadings(htmlBlockSource(block, reader.Source()), pc.IDs())
	if frag == nil {
		return
	}
	frags, _ := pc.Get(htmlFragmentsKey).(map[*ast.HTMLBlock]*HTMLFragment)
	if frags == nil {
		frags = map[*ast.HTMLBlock]*HTMLFragment{}
		pc.Set(htmlFragmentsKey, frags)
	}
	frags[block] = frag
}

// assignHeadingIDs swaps raw HTML blocks for the fragments carrying their
// heading ids. Markdown headings parsed without auto ids get one here.
func assignHeadingIDs(doc *ast.Document, st *State) error {
	var frags map[*ast.HTMLBlock]*HTMLFragment
	if st.parsed != nil {
		frags, _ = st.parsed.Get(htmlFragmentsKey).(map[*ast.HTMLBlock]*HTMLFragment)
	}

	var blocks []*ast.HTMLBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch h := n.(type) {
		case *ast.Heading:
			if _, ok := h.AttributeString(attrID); !ok {
				h.SetAttributeString(attrID, []byte(st.ids.generate(textContent(h, st.Source))))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if frags[h] != nil {
				blocks = append(blocks, h)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return err
	}

	for _, b := range blocks {
		parent := b.Parent()
		parent.ReplaceChild(parent, b, frags[b])
	}
	return nil
}

func htmlBlockSource(block *ast.HTMLBlock, source []byte) []byte {
	var raw bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	if block.HasClosure() {
		raw.Write(block.ClosureLine.Value(source))
	}
	return raw.Bytes()
}

// pendingHeading is an h1-h6 start tag whose text is still being read.
type pendingHeading struct {
	rank     int
	insertAt int
	id       string
	text     strings.Builder
}

// htmlHeadings ids the h1-h6 elements of a raw HTML block. Start tags without
// an id get one spliced in after the tag name; every other byte of the block is
// kept as written. It returns nil when the block contains no headings.
func htmlHeadings(raw []byte, ids parser.IDs) *HTMLFragment {
	if !bytes.Contains(bytes.ToLower(raw), []byte("<h")) {
		return nil
	}

	type insertion struct {
		at   int
		attr string
	}
	var (
		inserts []insertion
		frag    = &HTMLFragment{}
		cur     *pendingHeading
		offset  int
	)
	finish := func() {
		title := strings.Join(strings.Fields(cur.text.String()), " ")
		if cur.id == "" {
			cur.id = string(ids.Generate([]byte(title), ast.KindHTMLBlock))
			inserts = append(inserts, insertion{at: cur.insertAt, attr: ` id="` + xhtml.EscapeString(cur.id) + `"`})
		} else {
			ids.Put([]byte(cur.id))
		}
		frag.Headings = append(frag.Headings, HeadingNode{ID: cur.id, Title: title, Rank: cur.rank})
		cur = nil
	}

	z := xhtml.NewTokenizer(bytes.NewReader(raw))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			if cur != nil {
				continue
			}
			name, hasAttr := z.TagName()
			rank := headingRank(atom.Lookup(name))
			if rank == 0 {
				continue
			}
			cur = &pendingHeading{rank: rank, insertAt: start + 1 + len(name)}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == attrID {
					cur.id = string(val)
				}
			}
			if tt == xhtml.SelfClosingTagToken {
				finish()
			}
		case xhtml.TextToken:
			if cur != nil {
				cur.text.Write(z.Text())
			}
		case xhtml.EndTagToken:
			if cur == nil {
				continue
			}
			name, _ := z.TagName()
			if headingRank(atom.Lookup(name)) == cur.rank {
				finish()
			}
		}
	}
	if cur != nil {
		finish()
	}
	if len(frag.Headings) == 0 {
		return nil
	}

	var out bytes.Buffer
	out.Grow(len(raw) + 16*len(inserts))
	prev := 0
	for _, ins := range inserts {
		out.Write(raw[prev:ins.at])
		out.WriteString(ins.attr)
		prev = ins.at
	}
	out.Write(raw[prev:])
	frag.HTML = out.Bytes()
	return frag
}

// collectHeadings emits the headings whose rank is within the configured depth.
func collectHeadings(doc *ast.Document, st *State) error {
	depth := st.Config.HeaderDepth
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch h := n.(type) {
		case *ast.Heading:
			if depth.Includes(h.Level) {
				id, _ := h.AttributeString(attrID)
				st.EmitHeading(HeadingNode{ID: attributeText(id), Title: textContent(h, st.Source), Rank: h.Level})
			}
			return ast.WalkSkipChildren, nil
		case *HTMLFragment:
			for _, hn := range h.Headings {
				if depth.Includes(hn.Rank) {
					st.EmitHeading(hn)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

func headingRank(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func attributeText(v any) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}
