package content

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/markdown"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/pointer"
)

// Service resolves page paths. It holds no per-request state.
type Service struct {
	fetcher  Fetcher
	compiler Compiler
	recorder metrics.Recorder
	logger   *slog.Logger
	source   string
}

// Option configures a Service.
type Option func(*Service)

// WithCompiler replaces the default markdown compiler.
func WithCompiler(c Compiler) Option {
	return func(s *Service) {
		if c != nil {
			s.compiler = c
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSourceName labels fetch metrics and logs, e.g. "github" or "git".
func WithSourceName(name string) Option {
	return func(s *Service) { s.source = name }
}

// NewService returns a Service reading from fetcher.
func NewService(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		source:   "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.compiler == nil {
		s.compiler = markdown.NewCompiler(markdown.WithRecorder(s.recorder), markdown.WithLogger(s.logger))
	}
	return s
}

// Resolve turns page path segments into an Outcome. Invalid paths and fetch
// failures are returned as classified errors; missing content, redirects and
// compilation failures are outcomes.
func (s *Service) Resolve(ctx context.Context, segments []string) (Outcome, error) {
	out, err := s.load(ctx, segments)
	if err != nil || out.Kind != OutcomePage {
		return out, err
	}

	if out.Page.Frontmatter.Redirect != "" {
		out.Kind = OutcomeRedirect
		out.Redirect = RedirectTarget(out.Requested, out.Page.Frontmatter.Redirect)
		s.recorder.IncResolution(metrics.ResolutionRedirect)
		s.logger.InfoContext(ctx, "Page redirects", s.attrs(out.Pointer,
			logfields.Outcome(string(metrics.ResolutionRedirect)), slog.String("target", out.Redirect))...)
		return out, nil
	}

	out.Compilation = s.compiler.Compile(out.Page.Markdown, out.Page.Config)
	if out.Compilation.OK() {
		out.Page.Headings = out.Compilation.Headings
	} else {
		s.logger.WarnContext(ctx, "Page failed to compile", s.attrs(out.Pointer, logfields.Error(out.Compilation.Err))...)
	}
	s.recorder.IncResolution(metrics.ResolutionPage)
	return out, nil
}

// Inspect resolves a path like Resolve but never compiles and never follows
// redirects. It backs the debug view.
func (s *Service) Inspect(ctx context.Context, segments []string) (Outcome, error) {
	return s.load(ctx, segments)
}

func (s *Service) load(ctx context.Context, segments []string) (Outcome, error) {
	requested, err := pointer.Resolve(segments)
	if err != nil {
		s.recorder.IncResolution(metrics.ResolutionInvalid)
		return Outcome{}, err
	}
	out := Outcome{Kind: OutcomeNotFound, Requested: requested, Pointer: requested}

	if n, ok := requested.PullRequestNumber(); ok {
		meta, err := s.fetcher.ResolvePullRequest(ctx, requested.Owner, requested.Repository, n)
		if err != nil {
			return s.fail(ctx, out, err)
		}
		out.Pointer = pointer.ApplyPullRequest(requested, meta)
		if out.Pointer.IsPullRequest() {
			return s.notFound(ctx, out, "Pull request not found")
		}
	}

	start := time.Now()
	raw, err := s.fetcher.FetchRepositoryContents(ctx, out.Pointer)
	s.recorder.ObserveFetchDuration(s.source, time.Since(start), err == nil)
	if err != nil {
		return s.fail(ctx, out, err)
	}
	if raw == nil || raw.Markdown == nil {
		return s.notFound(ctx, out, "Page not found")
	}

	out.Kind = OutcomePage
	out.Page = BuildPage(out.Pointer, raw)
	s.logger.DebugContext(ctx, "Page content loaded", s.attrs(out.Pointer, logfields.Since(start))...)
	return out, nil
}

func (s *Service) notFound(ctx context.Context, out Outcome, msg string) (Outcome, error) {
	s.recorder.IncResolution(metrics.ResolutionNotFound)
	s.logger.InfoContext(ctx, msg, s.attrs(out.Pointer, logfields.Outcome(string(metrics.ResolutionNotFound)))...)
	return out, nil
}

func (s *Service) fail(ctx context.Context, out Outcome, err error) (Outcome, error) {
	s.recorder.IncResolution(metrics.ResolutionError)
	if _, ok := errors.AsClassified(err); !ok {
		err = errors.WrapError(err, errors.CategoryInternal, "fetching repository contents failed").Build()
	}
	attrs := s.attrs(out.Pointer,
		logfields.Outcome(string(metrics.ResolutionError)),
		logfields.Category(string(errors.GetCategory(err))),
		logfields.Error(err))
	if errors.HasCategory(err, errors.CategoryAuth) {
		s.logger.ErrorContext(ctx, "GitHub rejected the configured token", attrs...)
		return out, err
	}
	s.logger.ErrorContext(ctx, "Resolving page failed", attrs...)
	return out, err
}

func (s *Service) attrs(p pointer.ContentPointer, extra ...any) []any {
	attrs := []any{
		logfields.Owner(p.Owner),
		logfields.Repository(p.Repository),
		logfields.Ref(p.Revision),
		logfields.RefType(string(p.Kind)),
		logfields.Path(p.Path),
		logfields.Source(s.source),
	}
	return append(attrs, extra...)
}
