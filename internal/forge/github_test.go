package forge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpage/internal/config"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/retry"
)

type retryRecorder struct {
	metrics.NoopRecorder
	retries   atomic.Int32
	exhausted atomic.Int32
}

func (r *retryRecorder) IncFetchRetry(string)          { r.retries.Add(1) }
func (r *retryRecorder) IncFetchRetryExhausted(string) { r.exhausted.Add(1) }

// fakeGitHub serves a single repository. files is keyed by "<ref>:<path>".
type fakeGitHub struct {
	repo     map[string]any
	files    map[string]string
	pulls    map[string]string
	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeGitHub) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
}

func (f *fakeGitHub) request(i int) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.repo == nil || r.PathValue("owner") != "acme" || r.PathValue("repo") != "docs" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(f.repo)
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{file...}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		body, ok := f.files[r.URL.Query().Get("ref")+":"+r.PathValue("file")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		body, ok := f.pulls[r.PathValue("number")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	return mux
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *GitHubClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	base := []Option{
		WithHTTPClient(srv.Client()),
		WithRetryPolicy(retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)),
	}
	return NewGitHubClient(srv.URL, append(base, opts...)...)
}

func TestFetchRepositoryContents(t *testing.T) {
	gh := &fakeGitHub{
		repo: map[string]any{"full_name": "acme/docs", "default_branch": "main", "fork": true},
		files: map[string]string{
			"main:docs.json":     `{"name":"Acme"}`,
			"main:docs/guide.md": "# Guide",
		},
	}
	c := newTestClient(t, gh.handler(), WithToken("t0k3n"))

	raw, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Path: "guide",
	})
	require.NoError(t, err)
	require.NotNil(t, raw)

	require.NotNil(t, raw.Markdown)
	assert.Equal(t, "# Guide", *raw.Markdown)
	require.NotNil(t, raw.Config)
	assert.Equal(t, `{"name":"Acme"}`, *raw.Config)
	assert.Equal(t, "docs/guide.md", raw.Path)
	assert.Equal(t, "main", raw.BaseBranch)
	assert.True(t, raw.IsFork)

	first := gh.request(0)
	assert.Equal(t, "Bearer t0k3n", first.Header.Get("Authorization"))
	assert.Equal(t, acceptJSON, first.Header.Get("Accept"))
	assert.Equal(t, "2022-11-28", first.Header.Get("X-GitHub-Api-Version"))
	assert.True(t, strings.HasPrefix(first.Header.Get("User-Agent"), "docpage/"))
	assert.Equal(t, acceptRaw, gh.request(1).Header.Get("Accept"))
}

func TestFetchRepositoryContents_Revision(t *testing.T) {
	gh := &fakeGitHub{
		repo:  map[string]any{"default_branch": "main"},
		files: map[string]string{"feature/x:docs/index/index.mdx": "# Index"},
	}
	c := newTestClient(t, gh.handler())

	raw, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Revision: "feature/x", Path: pointer.IndexPath,
	})
	require.NoError(t, err)
	require.NotNil(t, raw.Markdown)
	assert.Equal(t, "docs/index/index.mdx", raw.Path)
	assert.Nil(t, raw.Config)
}

func TestFetchRepositoryContents_Missing(t *testing.T) {
	c := newTestClient(t, (&fakeGitHub{}).handler())

	raw, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Path: "index",
	})
	require.NoError(t, err)
	assert.Nil(t, raw)

	gh := &fakeGitHub{repo: map[string]any{"default_branch": "main"}}
	c = newTestClient(t, gh.handler())
	raw, err = c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Path: "nope",
	})
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Nil(t, raw.Markdown)
}

func TestFetchRepositoryContents_OversizedFile(t *testing.T) {
	gh := &fakeGitHub{
		repo:  map[string]any{"default_branch": "main"},
		files: map[string]string{"main:docs/guide.md": strings.Repeat("x", 65)},
	}
	c := newTestClient(t, gh.handler())
	c.maxSize = 64

	raw, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Path: "guide",
	})
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, raw)
}

func TestFetchRepositoryContents_FileAtLimit(t *testing.T) {
	body := strings.Repeat("x", 64)
	gh := &fakeGitHub{
		repo:  map[string]any{"default_branch": "main"},
		files: map[string]string{"main:docs/guide.md": body},
	}
	c := newTestClient(t, gh.handler())
	c.maxSize = 64
	raw, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
		Owner: "acme", Repository: "docs", Kind: pointer.Branch, Path: "guide",
	})
	require.NoError(t, err)
	require.NotNil(t, raw.Markdown)
	assert.Equal(t, body, *raw.Markdown)
}

func TestResolvePullRequest(t *testing.T) {
	gh := &fakeGitHub{pulls: map[string]string{
		"7": `{"number":7,"head":{"ref":"fix-typo","repo":{"name":"docs-fork","owner":{"login":"octocat"}}}}`,
		"8": `{"number":8,"head":{"ref":"gone","repo":null}}`,
		"9": `not json`,
	}}
	c := newTestClient(t, gh.handler())
	ctx := context.Background()

	meta, err := c.ResolvePullRequest(ctx, "acme", "docs", 7)
	require.NoError(t, err)
	assert.Equal(t, &pointer.PullRequestMetadata{Owner: "octocat", Repository: "docs-fork", Ref: "fix-typo"}, meta)

	meta, err = c.ResolvePullRequest(ctx, "acme", "docs", 8)
	require.NoError(t, err)
	assert.Nil(t, meta)

	meta, err = c.ResolvePullRequest(ctx, "acme", "docs", 404)
	require.NoError(t, err)
	assert.Nil(t, meta)

	_, err = c.ResolvePullRequest(ctx, "acme", "docs", 9)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"number":1,"head":{"ref":"x","repo":{"name":"r","owner":{"login":"o"}}}}`))
	})
	rec := &retryRecorder{}
	c := newTestClient(t, h, WithRecorder(rec))

	meta, err := c.ResolvePullRequest(context.Background(), "o", "r", 1)
	require.NoError(t, err)
	assert.Equal(t, "x", meta.Ref)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(2), rec.retries.Load())
	assert.Zero(t, rec.exhausted.Load())
}

func TestFetch_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	rec := &retryRecorder{}
	c := newTestClient(t, h, WithRecorder(rec))

	_, err := c.ResolvePullRequest(context.Background(), "o", "r", 1)
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(1), rec.exhausted.Load())
}

func TestFetch_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		want   error
		calls  int32
	}{
		{"unauthorized", http.StatusUnauthorized, nil, ErrUnauthorized, 1},
		{"forbidden", http.StatusForbidden, nil, ErrUnexpectedStatus, 1},
		{"rate limited", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, ErrRateLimited, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			})
			c := newTestClient(t, h)

			_, err := c.FetchRepositoryContents(context.Background(), pointer.ContentPointer{
				Owner: "o", Repository: "r", Kind: pointer.Branch, Path: "index",
			})
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}
