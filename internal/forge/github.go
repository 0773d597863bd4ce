package forge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"git.home.luguber.info/inful/docpage/internal/config"
	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/retry"
	"git.home.luguber.info/inful/docpage/internal/version"
)

// SourceName labels metrics and logs produced by the GitHub client.
const SourceName = "github"

const (
	acceptJSON = "application/vnd.github+json"
	acceptRaw  = "application/vnd.github.raw+json"

	// defaultMaxFileSize bounds a single file read from the contents API.
	defaultMaxFileSize = 10 << 20
)

// GitHubClient fetches repository contents through the GitHub REST API.
// It implements content.Fetcher.
type GitHubClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
	policy     retry.Policy
	recorder   metrics.Recorder
	logger     *slog.Logger
	maxSize    int64
}

// Option configures a GitHubClient.
type Option func(*GitHubClient)

func WithHTTPClient(c *http.Client) Option { return func(g *GitHubClient) { g.httpClient = c } }
func WithToken(token string) Option        { return func(g *GitHubClient) { g.token = token } }
func WithRetryPolicy(p retry.Policy) Option {
	return func(g *GitHubClient) { g.policy = p }
}
func WithRecorder(r metrics.Recorder) Option {
	return func(g *GitHubClient) { g.recorder = metrics.OrNoop(r) }
}
func WithLogger(l *slog.Logger) Option {
	return func(g *GitHubClient) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGitHubClient creates a client for the API rooted at apiURL.
func NewGitHubClient(apiURL string, opts ...Option) *GitHubClient {
	if apiURL == "" {
		apiURL = config.DefaultAPIURL
	}
	c := &GitHubClient{
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		apiURL:     apiURL,
		policy:     retry.DefaultPolicy(),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		maxSize:    defaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGitHubClientFromConfig wires the github and retry sections of the service config.
func NewGitHubClientFromConfig(cfg *config.Config, opts ...Option) *GitHubClient {
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.GitHub.Timeout}),
		WithToken(cfg.GitHub.Token),
		WithRetryPolicy(retry.FromConfig(cfg.Retry)),
	}
	return NewGitHubClient(cfg.GitHub.APIURL, append(base, opts...)...)
}

type githubRepo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Fork          bool   `json:"fork"`
}

type githubPull struct {
	Number int `json:"number"`
	Head   struct {
		Ref  string `json:"ref"`
		Repo *struct {
			Name  string `json:"name"`
			Owner struct {
				Login string `json:"login"`
			} `json:"owner"`
		} `json:"repo"`
	} `json:"head"`
}

// FetchRepositoryContents reads the repository metadata, docs.json and the
// first existing page candidate at the pointer's revision.
func (c *GitHubClient) FetchRepositoryContents(ctx context.Context, p pointer.ContentPointer) (*content.RawRepositoryContents, error) {
	var repo githubRepo
	found, err := c.getJSON(ctx, repoEndpoint(p.Owner, p.Repository), &repo)
	if err != nil || !found {
		return nil, err
	}

	ref := p.Ref(repo.DefaultBranch)
	raw := &content.RawRepositoryContents{
		BaseBranch: repo.DefaultBranch,
		IsFork:     repo.Fork,
	}

	if raw.Config, err = c.getFile(ctx, p, content.ConfigFile, ref); err != nil {
		return nil, err
	}

	for _, candidate := range content.PageCandidates(p.Path) {
		md, err := c.getFile(ctx, p, candidate, ref)
		if err != nil {
			return nil, err
		}
		if md != nil {
			raw.Markdown = md
			raw.Path = candidate
			break
		}
	}

	c.logger.Debug("Fetched repository contents",
		logfields.Owner(p.Owner),
		logfields.Repository(p.Repository),
		logfields.Ref(ref),
		logfields.File(raw.Path),
		slog.Bool("has_config", raw.Config != nil))
	return raw, nil
}

// ResolvePullRequest maps a pull request number onto the branch it was opened from.
// A pull request whose head repository was deleted resolves to nil.
func (c *GitHubClient) ResolvePullRequest(ctx context.Context, owner, repository string, number int) (*pointer.PullRequestMetadata, error) {
	var pr githubPull
	endpoint := path.Join(repoEndpoint(owner, repository), "pulls", strconv.Itoa(number))
	found, err := c.getJSON(ctx, endpoint, &pr)
	if err != nil || !found || pr.Head.Repo == nil {
		return nil, err
	}
	return &pointer.PullRequestMetadata{
		Owner:      pr.Head.Repo.Owner.Login,
		Repository: pr.Head.Repo.Name,
		Ref:        pr.Head.Ref,
	}, nil
}

func repoEndpoint(owner, repository string) string {
	return path.Join("/repos", owner, repository)
}

func (c *GitHubClient) getFile(ctx context.Context, p pointer.ContentPointer, file, ref string) (*string, error) {
	endpoint := path.Join(repoEndpoint(p.Owner, p.Repository), "contents", file)
	query := url.Values{}
	if ref != "" {
		query.Set("ref", ref)
	}
	body, found, err := c.fetch(ctx, endpoint, query, acceptRaw)
	if err != nil || !found {
		return nil, err
	}
	s := string(body)
	return &s, nil
}

func (c *GitHubClient) getJSON(ctx context.Context, endpoint string, result any) (bool, error) {
	body, found, err := c.fetch(ctx, endpoint, nil, acceptJSON)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return false, ErrInvalidResponse.WithCause(err).WithContext("endpoint", endpoint)
	}
	return true, nil
}

// fetch performs a GET with retries. A 404 reports found=false without error.
func (c *GitHubClient) fetch(ctx context.Context, endpoint string, query url.Values, accept string) ([]byte, bool, error) {
	var (
		body  []byte
		found bool
	)

	err := retry.Do(ctx, c.policy, retry.Hooks{
		Retryable: errors.IsRetryable,
		OnRetry: func(n int, err error, delay time.Duration) {
			c.recorder.IncFetchRetry(SourceName)
			c.logger.Warn("Retrying GitHub request",
				logfields.URL(endpoint),
				logfields.Attempt(n),
				slog.Duration("delay", delay),
				logfields.Error(err))
		},
		OnExhausted: func(error) { c.recorder.IncFetchRetryExhausted(SourceName) },
	}, func(ctx context.Context) error {
		var err error
		body, found, err = c.once(ctx, endpoint, query, accept)
		return err
	})
	return body, found, err
}

func (c *GitHubClient) once(ctx context.Context, endpoint string, query url.Values, accept string) ([]byte, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, query, accept)
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryInternal, "failed to build github request").Build()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, ErrRequestFailed.WithCause(err).WithContext("endpoint", endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, false, ErrUnauthorized
	case isRateLimited(resp):
		return nil, false, ErrRateLimited.WithContext("reset", resp.Header.Get("X-RateLimit-Reset"))
	case resp.StatusCode >= 500:
		return nil, false, ErrServerError.WithContext("status", resp.StatusCode).WithContext("endpoint", endpoint)
	case resp.StatusCode >= 300:
		return nil, false, ErrUnexpectedStatus.WithContext("status", resp.StatusCode).WithContext("endpoint", endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, false, ErrRequestFailed.WithCause(err).WithContext("endpoint", endpoint)
	}
	if int64(len(body)) > c.maxSize {
		return nil, false, ErrTooLarge.WithContext("endpoint", endpoint).WithContext("limit", c.maxSize)
	}
	return body, true, nil
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func (c *GitHubClient) newRequest(ctx context.Context, method, endpoint string, query url.Values, accept string) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", version.UserAgent())

	return req, nil
}
