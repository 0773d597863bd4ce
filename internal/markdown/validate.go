package markdown

import (
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
)

const maxDiagnostics = 20

func validateStage() Stage {
	return Stage{Name: "validate", Transform: validateSource}
}

// validateSource rejects byte sequences a renderer cannot carry: invalid UTF-8
// and NUL characters.
func validateSource(_ *ast.Document, st *State) error {
	var diags []Diagnostic
	src := st.Source
	for i := 0; i < len(src) && len(diags) < maxDiagnostics; {
		r, size := utf8.DecodeRune(src[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			diags = append(diags, Diagnostic{Message: "invalid UTF-8 byte sequence", Location: locate(src, i)})
		case r == 0:
			diags = append(diags, Diagnostic{Message: "NUL character is not allowed", Location: locate(src, i)})
		}
		i += max(size, 1)
	}
	if len(diags) > 0 {
		return &CompileError{Diagnostics: diags}
	}
	return nil
}
