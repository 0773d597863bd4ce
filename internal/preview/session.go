package preview

import (
	"context"

	"git.home.luguber.info/inful/docpage/internal/content"
)

// Resolver resolves path segments. *content.Service implements it.
type Resolver interface {
	Resolve(ctx context.Context, segments []string) (content.Outcome, error)
}

// Session resolves one page of a local checkout and resolves it again after
// every burst of changes below the checkout directory.
type Session struct {
	resolver Resolver
	segments []string
	report   func(content.Outcome, error)
	watcher  *Watcher
}

// NewSession wires a resolver over src. report receives every outcome.
func NewSession(src *LocalSource, resolver Resolver, pagePath string, report func(content.Outcome, error), opts ...WatcherOption) *Session {
	s := &Session{
		resolver: resolver,
		segments: Segments(pagePath),
		report:   report,
	}
	s.watcher = NewWatcher(src.Dir(), s.Render, append([]WatcherOption{WithInitialRun()}, opts...)...)
	return s
}

// Render resolves the page once.
func (s *Session) Render(ctx context.Context) {
	s.report(s.resolver.Resolve(ctx, s.segments))
}

// Run renders once the checkout is watched, then on every change until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	return s.watcher.Run(ctx)
}
