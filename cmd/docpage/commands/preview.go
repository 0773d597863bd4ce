package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/markdown"
	"git.home.luguber.info/inful/docpage/internal/preview"
	"git.home.luguber.info/inful/docpage/internal/server/responses"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Dir      string        `arg:"" help:"Checkout directory containing docs.json and docs/"`
	Path     string        `arg:"" optional:"" help:"Page path below docs/ (default index)"`
	Debounce time.Duration `help:"Quiet period before recompiling" default:"300ms"`
	JSON     bool          `help:"Print the full response after every compile"`
}

func (p *PreviewCmd) Run(g *Global) error {
	src, err := preview.NewLocalSource(p.Dir)
	if err != nil {
		return err
	}
	logger := g.logger()
	svc := content.NewService(src, content.WithLogger(logger), content.WithSourceName(preview.SourceName))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting preview", logfields.Path(src.Dir()), slog.String("page", p.Path))
	session := preview.NewSession(src, svc, p.Path, p.reporter(g),
		preview.WithDebounce(p.Debounce),
		preview.WithWatchLogger(logger))
	return session.Run(ctx)
}

// reporter prints or logs every outcome of the preview session.
func (p *PreviewCmd) reporter(g *Global) func(content.Outcome, error) {
	logger := g.logger()
	return func(out content.Outcome, err error) {
		if err != nil {
			logger.Error("Resolving page failed", logfields.Error(err))
			return
		}
		status, body := responses.FromOutcome(out)
		if p.JSON {
			if err := printJSON(g.out(), body); err != nil {
				logger.Error("Writing response failed", logfields.Error(err))
			}
		}

		switch status {
		case http.StatusNotFound:
			logger.Warn(responses.NotFoundMessage, logfields.Path(out.Requested.Path))
		case http.StatusUnprocessableEntity:
			for _, d := range body.(responses.ErrorsResponse).Errors {
				logger.Warn("Compile error", diagnosticAttrs(d)...)
			}
		default:
			if out.Kind == content.OutcomeRedirect {
				logger.Info("Page redirects", slog.String("target", out.Redirect))
				return
			}
			logger.Info("Page compiled",
				logfields.File(out.Page.Path),
				slog.Int("headings", len(out.Page.Headings)),
				slog.String("fingerprint", out.Page.Fingerprint))
		}
	}
}

func diagnosticAttrs(d markdown.Diagnostic) []any {
	attrs := []any{slog.String(logfields.KeyError, d.Message)}
	if d.Location != nil {
		attrs = append(attrs, slog.Int("line", d.Location.Line), slog.Int("column", d.Location.Column))
	}
	return attrs
}
