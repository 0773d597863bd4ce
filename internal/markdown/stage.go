package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"

	"git.home.luguber.info/inful/docpage/internal/projectconfig"
)

// Stage is one named step of the compilation.
type Stage struct {
	Name string
	// Extensions are applied to the goldmark engine when the Compiler is built.
	Extensions []goldmark.Extender
	// Transform runs over the parsed document. It may be nil for stages that
	// only extend the engine.
	Transform func(doc *ast.Document, st *State) error
}

// State is the per-compile data shared by the stages of one compilation.
type State struct {
	Config projectconfig.Config
	Source []byte

	ids       *slugger
	parsed    parser.Context
	onHeading func(HeadingNode)
}

// EmitHeading hands a collected heading to the compilation result.
func (s *State) EmitHeading(h HeadingNode) {
	if s.onHeading != nil {
		s.onHeading(h)
	}
}

// DefaultStages returns the compilation stages in execution order.
func DefaultStages() []Stage {
	return []Stage{
		validateStage(),
		undeclaredVariablesStage(),
		gfmStage(),
		unwrapImagesStage(),
		codeBlocksStage(),
		headingIDsStage(),
		headingsStage(),
		accessibleEmojisStage(),
	}
}

// StageNames lists the default stage names in execution order.
func StageNames() []string {
	stages := DefaultStages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}
