package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fallbackSlug = "heading"

var (
	linkDestination = regexp.MustCompile(`\]\([^)]*\)|\]\[[^\]]*\]`)
	inlineTag       = regexp.MustCompile(`<[^>]*>`)
)

var _ parser.IDs = (*slugger)(nil)

// slugger hands out heading ids that are unique within one document.
type slugger struct {
	used   map[string]bool
	counts map[string]int
	lower  cases.Caser
}

func newSlugger() *slugger {
	return &slugger{
		used:   map[string]bool{},
		counts: map[string]int{},
		lower:  cases.Lower(language.Und),
	}
}

// Generate implements parser.IDs. Markdown headings hand over their source
// line, which is reduced to plain text before slugging.
func (s *slugger) Generate(value []byte, kind ast.NodeKind) []byte {
	v := string(value)
	if kind == ast.KindHeading {
		v = headingLineText(value)
	}
	return []byte(s.generate(v))
}

// Put implements parser.IDs. It reserves an id chosen by the author.
func (s *slugger) Put(value []byte) {
	s.reserve(string(value))
}

// generate returns the slug of value, suffixed with -1, -2, ... when taken.
func (s *slugger) generate(value string) string {
	base := s.slugify(value)
	if base == "" {
		base = fallbackSlug
	}
	id := base
	for s.used[id] {
		s.counts[base]++
		id = base + "-" + strconv.Itoa(s.counts[base])
	}
	s.used[id] = true
	return id
}

func (s *slugger) reserve(id string) {
	s.used[id] = true
}

// slugify lower-cases value, keeps letters, marks and digits, turns spaces,
// hyphens and underscores into hyphens and drops everything else.
func (s *slugger) slugify(value string) string {
	value = s.lower.String(strings.TrimSpace(value))
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// headingLineText approximates what a reader sees of a markdown heading line.
// Link destinations and inline tags are dropped; escapes and entities resolve.
func headingLineText(line []byte) string {
	line = linkDestination.ReplaceAll(line, []byte("]"))
	line = inlineTag.ReplaceAll(line, nil)
	return string(resolveReferences(line))
}
