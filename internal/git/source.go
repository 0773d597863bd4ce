package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/pointer"
)

// SourceName labels metrics and logs produced by the git source.
const SourceName = "git"

// upstreamRemote marks a clone as a fork when configured.
const upstreamRemote = "upstream"

// Source implements content.Fetcher over local clones.
type Source struct {
	root   string
	logger *slog.Logger
}

// NewSource returns a Source reading clones below root.
func NewSource(root string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{root: root, logger: logger}
}

// FetchRepositoryContents reads docs.json and the first page candidate from
// the commit the pointer's revision resolves to.
func (s *Source) FetchRepositoryContents(ctx context.Context, p pointer.ContentPointer) (*content.RawRepositoryContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := s.open(p.Owner, p.Repository)
	if err != nil || repo == nil {
		return nil, err
	}

	base := defaultBranch(repo)
	raw := &content.RawRepositoryContents{
		BaseBranch: base,
		IsFork:     hasRemote(repo, upstreamRemote),
	}

	commit, err := resolveCommit(repo, p, base)
	if err != nil || commit == nil {
		return raw, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, ErrReadObject.WithCause(err).WithContext("commit", commit.Hash.String())
	}

	if raw.Config, err = readFile(tree, content.ConfigFile); err != nil {
		return nil, err
	}
	for _, candidate := range content.PageCandidates(p.Path) {
		md, err := readFile(tree, candidate)
		if err != nil {
			return nil, err
		}
		if md != nil {
			raw.Markdown = md
			raw.Path = candidate
			break
		}
	}

	s.logger.Debug("Read repository contents",
		logfields.Owner(p.Owner),
		logfields.Repository(p.Repository),
		logfields.Ref(p.Ref(base)),
		slog.String("commit", commit.Hash.String()),
		logfields.File(raw.Path))
	return raw, nil
}

// ResolvePullRequest maps a pull request onto its fetched head ref. The head
// always lives in the same clone, so the returned owner and repository are
// the requested ones.
func (s *Source) ResolvePullRequest(ctx context.Context, owner, repository string, number int) (*pointer.PullRequestMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := s.open(owner, repository)
	if err != nil || repo == nil {
		return nil, err
	}

	ref := pullRef(number)
	if _, err := repo.Reference(plumbing.ReferenceName("refs/"+ref), true); err != nil {
		return nil, nil
	}
	return &pointer.PullRequestMetadata{Owner: owner, Repository: repository, Ref: ref}, nil
}

func pullRef(number int) string {
	return "pull/" + strconv.Itoa(number) + "/head"
}

// open returns nil, nil when no clone exists for owner/repository.
func (s *Source) open(owner, repository string) (*git.Repository, error) {
	dir := filepath.Join(s.root, owner, repository)
	for _, candidate := range []string{dir, dir + ".git"} {
		repo, err := git.PlainOpen(candidate)
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			continue
		}
		if err != nil {
			return nil, ErrOpenRepository.WithCause(err).WithContext("path", candidate)
		}
		return repo, nil
	}
	return nil, nil
}

// defaultBranch is the branch HEAD points at, falling back to origin/HEAD for
// clones with a detached HEAD.
func defaultBranch(repo *git.Repository) string {
	if head, err := repo.Reference(plumbing.HEAD, false); err == nil && head.Type() == plumbing.SymbolicReference {
		return head.Target().Short()
	}
	if ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName("origin"), false); err == nil && ref.Target() != "" {
		return strings.TrimPrefix(ref.Target().String(), "refs/remotes/origin/")
	}
	return ""
}

func hasRemote(repo *git.Repository, name string) bool {
	_, err := repo.Remote(name)
	return err == nil
}

// resolveCommit returns nil, nil when the revision does not exist.
func resolveCommit(repo *git.Repository, p pointer.ContentPointer, base string) (*object.Commit, error) {
	if p.Kind == pointer.Commit {
		return commitAt(repo, plumbing.NewHash(p.Revision))
	}

	ref := p.Ref(base)
	if ref == "" {
		return nil, nil
	}
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(ref),
		plumbing.NewRemoteReferenceName("origin", ref),
		plumbing.NewTagReferenceName(ref),
		plumbing.ReferenceName("refs/" + ref),
	} {
		resolved, err := repo.Reference(name, true)
		if err != nil {
			continue
		}
		return commitAt(repo, resolved.Hash())
	}
	return nil, nil
}

// commitAt peels annotated tags down to their commit.
func commitAt(repo *git.Repository, hash plumbing.Hash) (*object.Commit, error) {
	if tag, err := repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return nil, ErrReadObject.WithCause(err).WithContext("tag", hash.String())
		}
		return commit, nil
	}
	commit, err := repo.CommitObject(hash)
	if stderrors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, ErrReadObject.WithCause(err).WithContext("commit", hash.String())
	}
	return commit, nil
}

func readFile(tree *object.Tree, name string) (*string, error) {
	f, err := tree.File(name)
	if stderrors.Is(err, object.ErrFileNotFound) || stderrors.Is(err, object.ErrDirectoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, ErrReadObject.WithCause(err).WithContext("file", name)
	}
	body, err := f.Contents()
	if err != nil {
		return nil, ErrReadObject.WithCause(err).WithContext("file", name)
	}
	return &body, nil
}
