package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpage/internal/pointer"
)

type fixture struct {
	root   string
	repo   *git.Repository
	first  plumbing.Hash
	second plumbing.Hash
}

// commitFiles writes files into the worktree and commits them.
func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, body := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	h, err := wt.Commit("update docs", &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	return h
}

// newFixture creates <root>/acme/docs on main with two commits, a feature
// branch and a tag at the first commit, and a pull request ref at the second.
func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "acme", "docs")

	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)

	first := commitFiles(t, repo, dir, map[string]string{
		"docs.json":      `{"name": "Acme"}`,
		"docs/index.mdx": "# Welcome",
	})
	second := commitFiles(t, repo, dir, map[string]string{
		"docs/guide/index.md": "# Guide",
	})

	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature"), first)))
	_, err = repo.CreateTag("v1", first, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
		Message: "v1",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName("refs/pull/7/head"), second)))

	return fixture{root: root, repo: repo, first: first, second: second}
}

func ptr(kind pointer.RevisionKind, rev, path string) pointer.ContentPointer {
	return pointer.ContentPointer{Owner: "acme", Repository: "docs", Kind: kind, Revision: rev, Path: path}
}

func TestFetchRepositoryContents_BaseBranch(t *testing.T) {
	fx := newFixture(t)
	s := NewSource(fx.root, nil)

	raw, err := s.FetchRepositoryContents(context.Background(), ptr(pointer.Branch, "", "guide"))
	require.NoError(t, err)
	require.NotNil(t, raw)

	assert.Equal(t, "main", raw.BaseBranch)
	assert.False(t, raw.IsFork)
	require.NotNil(t, raw.Markdown)
	assert.Equal(t, "# Guide", *raw.Markdown)
	assert.Equal(t, "docs/guide/index.md", raw.Path)
	require.NotNil(t, raw.Config)
	assert.JSONEq(t, `{"name": "Acme"}`, *raw.Config)
}

func TestFetchRepositoryContents_Revisions(t *testing.T) {
	fx := newFixture(t)
	s := NewSource(fx.root, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		p         pointer.ContentPointer
		wantGuide bool
	}{
		{"branch", ptr(pointer.Branch, "feature", "guide"), false},
		{"annotated tag", ptr(pointer.Branch, "v1", "guide"), false},
		{"commit", ptr(pointer.Commit, fx.first.String(), "guide"), false},
		{"later commit", ptr(pointer.Commit, fx.second.String(), "guide"), true},
		{"pull ref", ptr(pointer.Branch, "pull/7/head", "guide"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := s.FetchRepositoryContents(ctx, tt.p)
			require.NoError(t, err)
			require.NotNil(t, raw)
			if tt.wantGuide {
				require.NotNil(t, raw.Markdown)
				assert.Equal(t, "# Guide", *raw.Markdown)
			} else {
				assert.Nil(t, raw.Markdown)
			}

			index, err := s.FetchRepositoryContents(ctx, pointer.ContentPointer{
				Owner: tt.p.Owner, Repository: tt.p.Repository, Kind: tt.p.Kind, Revision: tt.p.Revision, Path: pointer.IndexPath,
			})
			require.NoError(t, err)
			require.NotNil(t, index.Markdown)
			assert.Equal(t, "# Welcome", *index.Markdown)
		})
	}
}

func TestFetchRepositoryContents_Missing(t *testing.T) {
	fx := newFixture(t)
	s := NewSource(fx.root, nil)
	ctx := context.Background()

	raw, err := s.FetchRepositoryContents(ctx, pointer.ContentPointer{Owner: "acme", Repository: "nope", Kind: pointer.Branch, Path: "index"})
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = s.FetchRepositoryContents(ctx, ptr(pointer.Branch, "no-such-branch", "index"))
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Nil(t, raw.Markdown)

	raw, err = s.FetchRepositoryContents(ctx, ptr(pointer.Commit, "0123456789012345678901234567890123456789", "index"))
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Nil(t, raw.Markdown)
}

func TestFetchRepositoryContents_Fork(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "upstream", URLs: []string{"https://example.com/upstream/docs.git"}})
	require.NoError(t, err)

	raw, err := NewSource(fx.root, nil).FetchRepositoryContents(context.Background(), ptr(pointer.Branch, "", "index"))
	require.NoError(t, err)
	assert.True(t, raw.IsFork)
}

func TestResolvePullRequest(t *testing.T) {
	fx := newFixture(t)
	s := NewSource(fx.root, nil)
	ctx := context.Background()

	meta, err := s.ResolvePullRequest(ctx, "acme", "docs", 7)
	require.NoError(t, err)
	assert.Equal(t, &pointer.PullRequestMetadata{Owner: "acme", Repository: "docs", Ref: "pull/7/head"}, meta)

	meta, err = s.ResolvePullRequest(ctx, "acme", "docs", 8)
	require.NoError(t, err)
	assert.Nil(t, meta)

	applied := pointer.ApplyPullRequest(ptr(pointer.PullRequest, "7", "guide"), meta)
	assert.Equal(t, pointer.PullRequest, applied.Kind)
}

func TestFetchRepositoryContents_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(t.TempDir(), nil).FetchRepositoryContents(ctx, ptr(pointer.Branch, "", "index"))
	require.ErrorIs(t, err, context.Canceled)
}
