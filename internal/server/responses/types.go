// Package responses defines the JSON bodies returned by the docpage HTTP API
// and printed by the CLI.
package responses

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/frontmatter"
	"git.home.luguber.info/inful/docpage/internal/markdown"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/projectconfig"
)

// PageResponse is the body of a successfully compiled page.
type PageResponse struct {
	Code            string                  `json:"code"`
	Config          projectconfig.Config    `json:"config"`
	Frontmatter     frontmatter.Frontmatter `json:"frontmatter"`
	Headings        []markdown.HeadingNode  `json:"headings"`
	BaseBranch      string                  `json:"baseBranch"`
	Path            string                  `json:"path"`
	RepositoryFound bool                    `json:"repositoryFound"`
	Source          content.Source          `json:"source"`
	Flags           content.Flags           `json:"flags"`
	Fingerprint     string                  `json:"fingerprint"`
}

// ErrorsResponse carries compilation diagnostics, or a single not-found
// message when RepositoryFound is set.
type ErrorsResponse struct {
	RepositoryFound *bool                 `json:"repositoryFound,omitempty"`
	Errors          []markdown.Diagnostic `json:"errors"`
}

// RedirectResponse is returned when the page front-matter sets redirect.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// InspectResponse is the debug view of a resolved path. It never contains
// compiled code.
type InspectResponse struct {
	Found       bool                    `json:"found"`
	Requested   pointer.ContentPointer  `json:"requested"`
	Pointer     pointer.ContentPointer  `json:"pointer"`
	Source      content.Source          `json:"source"`
	BaseBranch  string                  `json:"baseBranch,omitempty"`
	Path        string                  `json:"path,omitempty"`
	Config      projectconfig.Config    `json:"config"`
	Frontmatter frontmatter.Frontmatter `json:"frontmatter"`
	Metadata    map[string]any          `json:"metadata"`
	Flags       content.Flags           `json:"flags"`
	Fingerprint string                  `json:"fingerprint,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	Source    string    `json:"source,omitempty"`
}

// NotFoundMessage is the diagnostic reported for missing repositories,
// revisions and pages.
const NotFoundMessage = "Page not found"

// FromOutcome maps a resolution outcome onto a status code and body.
func FromOutcome(out content.Outcome) (int, any) {
	switch out.Kind {
	case content.OutcomeRedirect:
		return http.StatusOK, RedirectResponse{Redirect: out.Redirect}
	case content.OutcomePage:
		if out.Page == nil {
			return notFound()
		}
		if !out.Compilation.OK() {
			diags := []markdown.Diagnostic{{Message: "compilation failed"}}
			if out.Compilation.Err != nil && len(out.Compilation.Err.Diagnostics) > 0 {
				diags = out.Compilation.Err.Diagnostics
			}
			return http.StatusUnprocessableEntity, ErrorsResponse{Errors: diags}
		}
		return http.StatusOK, page(out)
	default:
		return notFound()
	}
}

// FromInspect maps an uncompiled outcome onto the debug view.
func FromInspect(out content.Outcome) InspectResponse {
	resp := InspectResponse{
		Requested: out.Requested,
		Pointer:   out.Pointer,
		Source:    out.Source(),
	}
	pc := out.Page
	if pc != nil {
		resp.Found = true
	} else {
		pc = content.DebugPage()
	}
	resp.BaseBranch = pc.BaseBranch
	resp.Path = pc.Path
	resp.Config = pc.Config
	resp.Frontmatter = pc.Frontmatter
	resp.Metadata = pc.Metadata
	resp.Flags = pc.Flags
	resp.Fingerprint = pc.Fingerprint
	if resp.Metadata == nil {
		resp.Metadata = map[string]any{}
	}
	return resp
}

func page(out content.Outcome) PageResponse {
	pc := out.Page
	headings := pc.Headings
	if headings == nil {
		headings = []markdown.HeadingNode{}
	}
	return PageResponse{
		Code:            out.Compilation.Bundle.Code,
		Config:          pc.Config,
		Frontmatter:     pc.Frontmatter,
		Headings:        headings,
		BaseBranch:      pc.BaseBranch,
		Path:            pc.Path,
		RepositoryFound: true,
		Source:          out.Source(),
		Flags:           pc.Flags,
		Fingerprint:     pc.Fingerprint,
	}
}

func notFound() (int, any) {
	found := false
	return http.StatusNotFound, ErrorsResponse{
		RepositoryFound: &found,
		Errors:          []markdown.Diagnostic{{Message: NotFoundMessage}},
	}
}
