package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docpage/internal/markdown"
)

// StagesCmd implements the 'stages' command.
type StagesCmd struct{}

func (s *StagesCmd) Run(g *Global) error {
	for i, name := range markdown.StageNames() {
		if _, err := fmt.Fprintf(g.out(), "%2d. %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}
