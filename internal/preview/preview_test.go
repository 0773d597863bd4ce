package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/pointer"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
}

func TestResolveDir(t *testing.T) {
	_, err := ResolveDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = ResolveDir(file)
	require.Error(t, err)

	abs, err := ResolveDir(t.TempDir())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{LocalOwner, LocalRepository}, Segments(""))
	assert.Equal(t, []string{LocalOwner, LocalRepository, "guide", "install"}, Segments("/guide/install/"))
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	assert.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	assert.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestLocalSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs.json", `{"name":"Local"}`)
	writeFile(t, dir, "docs/index.mdx", "# Home")
	writeFile(t, dir, "docs/guide/index.md", "# Guide")
	src, err := NewLocalSource(dir)
	require.NoError(t, err)
	ctx := context.Background()

	raw, err := src.FetchRepositoryContents(ctx, pointer.ContentPointer{Owner: LocalOwner, Repository: LocalRepository, Kind: pointer.Branch, Path: "guide"})
	require.NoError(t, err)
	require.NotNil(t, raw.Markdown)
	assert.Equal(t, "# Guide", *raw.Markdown)
	assert.Equal(t, "docs/guide/index.md", raw.Path)
	assert.Equal(t, LocalBranch, raw.BaseBranch)
	require.NotNil(t, raw.Config)

	raw, err = src.FetchRepositoryContents(ctx, pointer.ContentPointer{Owner: LocalOwner, Repository: LocalRepository, Kind: pointer.Branch, Revision: "other", Path: "index"})
	require.NoError(t, err)
	assert.Nil(t, raw.Markdown)

	raw, err = src.FetchRepositoryContents(ctx, pointer.ContentPointer{Owner: LocalOwner, Repository: LocalRepository, Kind: pointer.Branch, Path: "missing"})
	require.NoError(t, err)
	assert.Nil(t, raw.Markdown)

	meta, err := src.ResolvePullRequest(ctx, LocalOwner, LocalRepository, 1)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestWatcherCoalescesChanges(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(dir, func(context.Context) { calls.Add(1) }, WithDebounce(50*time.Millisecond), WithInitialRun())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	for i := range 5 {
		writeFile(t, dir, "docs/page.md", "# rev "+string(rune('a'+i)))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSessionRecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs/index.mdx", "# First")
	src, err := NewLocalSource(dir)
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		outcomes []content.Outcome
	)
	report := func(out content.Outcome, err error) {
		assert.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, out)
	}
	last := func() (int, string) {
		mu.Lock()
		defer mu.Unlock()
		if len(outcomes) == 0 {
			return 0, ""
		}
		out := outcomes[len(outcomes)-1]
		if out.Page == nil {
			return len(outcomes), ""
		}
		return len(outcomes), out.Page.Markdown
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := NewSession(src, content.NewService(src), "", report, WithDebounce(50*time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	require.Eventually(t, func() bool { n, md := last(); return n == 1 && md == "# First" }, 5*time.Second, 10*time.Millisecond)

	writeFile(t, dir, "docs/index.mdx", "# Second")
	require.Eventually(t, func() bool { _, md := last(); return md == "# Second" }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
