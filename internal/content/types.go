package content

import (
	"context"

	"git.home.luguber.info/inful/docpage/internal/frontmatter"
	"git.home.luguber.info/inful/docpage/internal/markdown"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/projectconfig"
)

// RawRepositoryContents is what a Fetcher found for one pointer. A nil Markdown
// means the repository, revision or file does not exist; a nil Config means the
// revision has no docs.json.
type RawRepositoryContents struct {
	Markdown   *string
	Config     *string
	BaseBranch string
	Path       string
	IsFork     bool
}

// Fetcher reads repository contents from a source-control host or a local copy.
// Both methods return nil, nil when the requested object does not exist; errors
// are reserved for failures to find out.
type Fetcher interface {
	FetchRepositoryContents(ctx context.Context, p pointer.ContentPointer) (*RawRepositoryContents, error)
	ResolvePullRequest(ctx context.Context, owner, repository string, number int) (*pointer.PullRequestMetadata, error)
}

// Compiler compiles page markdown. *markdown.Compiler implements it.
type Compiler interface {
	Compile(markdown string, cfg projectconfig.Config) markdown.Result
}

// Flags summarises facts about a page that the renderer needs.
type Flags struct {
	HasConfig      bool `json:"hasConfig"`
	HasFrontmatter bool `json:"hasFrontmatter"`
	IsFork         bool `json:"isFork"`
	IsIndexable    bool `json:"isIndexable"`
}

// PageContent is one resolved page. It is built in two steps: BuildPage fills
// everything except Headings, which is set from the compilation result.
type PageContent struct {
	BaseBranch  string                  `json:"baseBranch"`
	Path        string                  `json:"path"`
	Config      projectconfig.Config    `json:"config"`
	Frontmatter frontmatter.Frontmatter `json:"frontmatter"`
	Metadata    map[string]any          `json:"-"`
	Markdown    string                  `json:"markdown"`
	Headings    []markdown.HeadingNode  `json:"headings"`
	Flags       Flags                   `json:"flags"`
	Fingerprint string                  `json:"fingerprint"`
}

// Source describes which repository revision a response was built from.
type Source struct {
	Type       pointer.RevisionKind `json:"type"`
	Owner      string               `json:"owner"`
	Repository string               `json:"repository"`
	Ref        string               `json:"ref"`
}

// OutcomeKind enumerates the results of resolving a page path.
type OutcomeKind string

const (
	OutcomePage     OutcomeKind = "page"
	OutcomeNotFound OutcomeKind = "not_found"
	OutcomeRedirect OutcomeKind = "redirect"
)

// Outcome is the result of Service.Resolve.
//
// For OutcomePage, Page and Compilation are set; a failed compilation is still a
// page outcome with Compilation.Err set. For OutcomeRedirect, Redirect holds the
// target. OutcomeNotFound carries only the pointers.
type Outcome struct {
	Kind OutcomeKind
	// Requested is the pointer parsed from the path.
	Requested pointer.ContentPointer
	// Pointer is Requested after pull request resolution.
	Pointer     pointer.ContentPointer
	Page        *PageContent
	Compilation markdown.Result
	Redirect    string
}

// Source returns the source descriptor of the outcome.
func (o Outcome) Source() Source {
	base := ""
	if o.Page != nil {
		base = o.Page.BaseBranch
	}
	return Source{
		Type:       o.Requested.Kind,
		Owner:      o.Pointer.Owner,
		Repository: o.Pointer.Repository,
		Ref:        o.Pointer.WithBaseBranch(base).Revision,
	}
}
