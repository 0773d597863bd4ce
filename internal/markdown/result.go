package markdown

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// HeadingNode is one entry of a page outline.
type HeadingNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Rank  int    `json:"rank"`
}

// Bundle is the compiled, render-ready form of a page.
type Bundle struct {
	Code string `json:"code"`
}

// Location points into the markdown source. Line and Column are 1-based,
// Column counts runes and Offset counts bytes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Diagnostic is one compilation problem.
type Diagnostic struct {
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

// CompileError reports why a compilation was aborted.
type CompileError struct {
	Stage       string       `json:"stage,omitempty"`
	Diagnostics []Diagnostic `json:"errors"`
}

func (e *CompileError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		if d.Location != nil {
			msgs = append(msgs, fmt.Sprintf("%d:%d: %s", d.Location.Line, d.Location.Column, d.Message))
			continue
		}
		msgs = append(msgs, d.Message)
	}
	if e.Stage == "" {
		return "compile failed: " + strings.Join(msgs, "; ")
	}
	return fmt.Sprintf("compile failed in %s: %s", e.Stage, strings.Join(msgs, "; "))
}

// Result is the outcome of one compilation. Exactly one of Bundle and Err is set.
// Headings is empty when Err is set.
type Result struct {
	Bundle   *Bundle       `json:"bundle,omitempty"`
	Headings []HeadingNode `json:"headings"`
	Err      *CompileError `json:"error,omitempty"`
}

// OK reports whether the compilation produced a bundle.
func (r Result) OK() bool { return r.Err == nil && r.Bundle != nil }

func failed(err *CompileError) Result {
	return Result{Headings: []HeadingNode{}, Err: err}
}

// locate converts a byte offset in src into a Location.
func locate(src []byte, offset int) *Location {
	line, lineStart := 1, 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col := 1
	for i := lineStart; i < offset; {
		_, size := utf8.DecodeRune(src[i:])
		i += size
		col++
	}
	return &Location{Line: line, Column: col, Offset: offset}
}
