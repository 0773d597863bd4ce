package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/server/responses"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Path string `arg:"" help:"Page path: owner/repository[/revision]/page"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	svc, _, err := NewService(cfg, nil, g.logger())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunRender(ctx, g, svc, r.Path)
}

// RunRender prints the response body for path. Missing pages and failed
// compilations print their body and return a classified error so the exit
// code reflects the outcome.
func RunRender(ctx context.Context, g *Global, svc *content.Service, path string) error {
	out, err := svc.Resolve(ctx, pointer.SplitPath(path))
	if err != nil {
		return err
	}
	status, body := responses.FromOutcome(out)
	if err := printJSON(g.out(), body); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to write response").Build()
	}

	switch status {
	case http.StatusNotFound:
		return errors.NotFoundError(responses.NotFoundMessage).WithContext("path", path).Build()
	case http.StatusUnprocessableEntity:
		return errors.CompileError("page failed to compile").WithContext("path", path).Build()
	default:
		return nil
	}
}
