package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func gfmStage() Stage {
	return Stage{Name: "gfm", Extensions: []goldmark.Extender{extension.GFM}}
}
