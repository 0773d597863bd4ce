package preview

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/pointer"
)

// SourceName labels metrics and logs produced by the local source.
const SourceName = "local"

// The local checkout answers for any owner and repository. Previews address it
// through these names.
const (
	LocalOwner      = "local"
	LocalRepository = "preview"
	LocalBranch     = "main"
)

// ErrDocsDir signals a checkout directory that is missing or not a directory.
var ErrDocsDir = errors.FileSystemError("checkout directory not found or not a directory").Build()

// LocalSource implements content.Fetcher over one checkout on disk. Only the
// base revision exists; every other revision resolves to not found.
type LocalSource struct {
	dir string
}

// NewLocalSource resolves dir to an absolute checkout directory.
func NewLocalSource(dir string) (*LocalSource, error) {
	abs, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalSource{dir: abs}, nil
}

// Dir is the absolute checkout directory.
func (s *LocalSource) Dir() string { return s.dir }

// ResolveDir validates and resolves the absolute path of a checkout directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ErrDocsDir.WithCause(err).WithContext("path", dir)
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return "", ErrDocsDir.WithContext("path", abs)
	}
	return abs, nil
}

// Segments turns a page path into the path segments resolving it against the
// local checkout.
func Segments(pagePath string) []string {
	segments := []string{LocalOwner, LocalRepository}
	for _, s := range strings.Split(strings.Trim(pagePath, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func (s *LocalSource) FetchRepositoryContents(ctx context.Context, p pointer.ContentPointer) (*content.RawRepositoryContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := &content.RawRepositoryContents{BaseBranch: LocalBranch}
	if p.Kind != pointer.Branch || (p.Revision != "" && p.Revision != LocalBranch) {
		return raw, nil
	}

	var err error
	if raw.Config, err = s.read(content.ConfigFile); err != nil {
		return nil, err
	}
	for _, candidate := range content.PageCandidates(p.Path) {
		md, err := s.read(candidate)
		if err != nil {
			return nil, err
		}
		if md != nil {
			raw.Markdown = md
			raw.Path = candidate
			break
		}
	}
	return raw, nil
}

// ResolvePullRequest always reports not found: a checkout has no pull requests.
func (s *LocalSource) ResolvePullRequest(context.Context, string, string, int) (*pointer.PullRequestMetadata, error) {
	return nil, nil
}

// read returns nil, nil for files that do not exist. Paths come from
// PageCandidates and never escape the checkout.
func (s *LocalSource) read(name string) (*string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(name)))
	if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.EISDIR) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("file", name).
			Build()
	}
	body := string(data)
	return &body, nil
}
