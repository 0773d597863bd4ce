package commands

import (
	"context"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/server/responses"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Path     string `arg:"" optional:"" help:"Page path: owner/repository[/revision]/page"`
	Defaults bool   `help:"Print the default configuration and front-matter without resolving a path"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	if i.Defaults {
		return printJSON(g.out(), responses.FromInspect(content.Outcome{Kind: content.OutcomeNotFound}))
	}
	if i.Path == "" {
		return errors.ValidationError("a page path or --defaults is required").Build()
	}

	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	svc, _, err := NewService(cfg, nil, g.logger())
	if err != nil {
		return err
	}

	out, err := svc.Inspect(context.Background(), pointer.SplitPath(i.Path))
	if err != nil {
		return err
	}
	return printJSON(g.out(), responses.FromInspect(out))
}
