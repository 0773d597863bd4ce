// Package pointer parses page paths into ContentPointer values.
//
// A page path has the shape
//
//	owner / repository [/ revision] [/ file path ...]
//
// The revision segment is recognised when it carries a "~" prefix (any ref), or
// without prefix when it is a pull request number or a full 40 character commit
// sha. Anything else is treated as the start of the in-repository file path and
// the pointer targets the repository's default branch.
package pointer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RevisionKind classifies what a pointer's revision refers to.
type RevisionKind string

const (
	Branch      RevisionKind = "branch"
	Commit      RevisionKind = "commit"
	PullRequest RevisionKind = "PR"
)

// IndexPath is the file path used when a page path names no file.
const IndexPath = "index"

const refPrefix = "~"

var (
	commitPattern = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	numberPattern = regexp.MustCompile(`^[0-9]+$`)
	// GitHub owner and repository names: alphanumerics, '-', '_' and '.'.
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ContentPointer identifies one documentation page at one revision.
// It is a value type; transforms return modified copies.
type ContentPointer struct {
	Owner      string       `json:"owner"`
	Repository string       `json:"repository"`
	Kind       RevisionKind `json:"type"`
	// Revision is empty for a Branch pointer that targets the default branch.
	Revision string `json:"ref"`
	Path     string `json:"path"`
}

// PullRequestMetadata is the head of a pull request as reported by the host.
// Owner and Repository differ from the base repository for pull requests opened from forks.
type PullRequestMetadata struct {
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
	Ref        string `json:"ref"`
}

// Resolve parses page path segments into a pointer.
func Resolve(segments []string) (ContentPointer, error) {
	segments = trimEmpty(segments)
	if len(segments) < 2 {
		return ContentPointer{}, invalid("a page path needs an owner and a repository", segments)
	}

	owner, repo := segments[0], segments[1]
	if !namePattern.MatchString(owner) || owner == "." || owner == ".." {
		return ContentPointer{}, invalid("invalid owner", segments)
	}
	if !namePattern.MatchString(repo) || repo == "." || repo == ".." {
		return ContentPointer{}, invalid("invalid repository", segments)
	}

	p := ContentPointer{Owner: owner, Repository: repo, Kind: Branch}
	rest := segments[2:]

	if len(rest) > 0 {
		spec, explicit := strings.CutPrefix(rest[0], refPrefix)
		if explicit || numberPattern.MatchString(spec) || commitPattern.MatchString(spec) {
			if spec == "" {
				return ContentPointer{}, invalid("empty revision", segments)
			}
			p.Kind = Classify(spec)
			if p.Kind == PullRequest {
				if n, err := strconv.Atoi(spec); err != nil || n <= 0 {
					return ContentPointer{}, invalid("pull request number must be a positive integer", segments)
				}
			}
			p.Revision = spec
			rest = rest[1:]
		}
	}

	for _, seg := range rest {
		if seg == "" || seg == "." || seg == ".." {
			return ContentPointer{}, invalid("invalid file path segment", segments)
		}
	}
	p.Path = strings.Join(rest, "/")
	if p.Path == "" {
		p.Path = IndexPath
	}
	return p, nil
}

// SplitPath splits a slash separated page path into the segments Resolve
// takes. Leading and trailing slashes are ignored; an empty path has no segments.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Classify returns the revision kind implied by the shape of a revision string.
func Classify(revision string) RevisionKind {
	switch {
	case numberPattern.MatchString(revision):
		return PullRequest
	case commitPattern.MatchString(revision):
		return Commit
	default:
		return Branch
	}
}

// ApplyPullRequest returns p re-targeted at the head branch of its pull request.
// All four fields are replaced together. A nil metadata leaves p unchanged, so an
// unresolved pointer stays pull-request shaped.
func ApplyPullRequest(p ContentPointer, meta *PullRequestMetadata) ContentPointer {
	if meta == nil || p.Kind != PullRequest {
		return p
	}
	p.Owner = meta.Owner
	p.Repository = meta.Repository
	p.Revision = meta.Ref
	p.Kind = Classify(meta.Ref)
	if p.Kind == PullRequest {
		// A numeric branch name is still a branch once resolved.
		p.Kind = Branch
	}
	return p
}

// IsBase reports whether p targets the repository's default branch.
func (p ContentPointer) IsBase() bool {
	return p.Kind == Branch && p.Revision == ""
}

// IsPullRequest reports whether p still names an unresolved pull request.
func (p ContentPointer) IsPullRequest() bool {
	return p.Kind == PullRequest
}

// PullRequestNumber returns the pull request number for pull request pointers.
func (p ContentPointer) PullRequestNumber() (int, bool) {
	if p.Kind != PullRequest {
		return 0, false
	}
	n, err := strconv.Atoi(p.Revision)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// WithBaseBranch fills in the default branch name of a base pointer.
// The returned pointer is no longer reported as base by IsBase.
func (p ContentPointer) WithBaseBranch(branch string) ContentPointer {
	if p.IsBase() {
		p.Revision = branch
	}
	return p
}

// Ref returns the revision, falling back to fallback for base pointers.
func (p ContentPointer) Ref(fallback string) string {
	if p.Revision == "" {
		return fallback
	}
	return p.Revision
}

// FullName returns "owner/repository".
func (p ContentPointer) FullName() string {
	return p.Owner + "/" + p.Repository
}

// BasePath returns the page path prefix that addresses p's repository and revision.
func (p ContentPointer) BasePath() string {
	if p.Revision == "" {
		return "/" + p.FullName()
	}
	return "/" + p.FullName() + "/" + refPrefix + p.Revision
}

func (p ContentPointer) String() string {
	return fmt.Sprintf("%s@%s:%s", p.FullName(), p.Ref("HEAD"), p.Path)
}

func trimEmpty(segments []string) []string {
	out := make([]string, 0, len(segments))
	for i, s := range segments {
		// Leading and trailing empties come from surrounding slashes.
		if s == "" && (i == 0 || i == len(segments)-1) {
			continue
		}
		out = append(out, s)
	}
	return out
}
