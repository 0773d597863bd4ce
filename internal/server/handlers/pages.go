package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docpage/internal/content"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/server/responses"
)

// Resolver resolves page path segments. *content.Service implements it.
type Resolver interface {
	Resolve(ctx context.Context, segments []string) (content.Outcome, error)
	Inspect(ctx context.Context, segments []string) (content.Outcome, error)
}

// PageHandlers serves compiled pages and their debug view.
type PageHandlers struct {
	resolver     Resolver
	errorAdapter *errors.HTTPErrorAdapter
}

// NewPageHandlers creates page handlers backed by resolver.
func NewPageHandlers(resolver Resolver, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		resolver:     resolver,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandlePage serves /api/pages/{path...} where path is
// owner/repository[/revision]/page.
func (h *PageHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if !requireGET(h.errorAdapter, w, r) {
		return
	}
	h.resolve(w, r, pointer.SplitPath(r.PathValue("path")))
}

// HandleBundle serves /api/bundle?owner=&repository=&ref=&path=. An empty ref
// selects the default branch; a numeric ref selects a pull request and a 40
// character hex ref a commit.
func (h *PageHandlers) HandleBundle(w http.ResponseWriter, r *http.Request) {
	if !requireGET(h.errorAdapter, w, r) {
		return
	}
	q := r.URL.Query()
	for _, key := range []string{"owner", "repository"} {
		if strings.TrimSpace(q.Get(key)) == "" {
			err := errors.ValidationError("missing query parameter").
				WithContext("parameter", key).
				Build()
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
	}
	h.resolve(w, r, BundleSegments(q))
}

// HandleInspect serves /api/inspect/{path...}: the resolved pointer, merged
// configuration, front-matter and flags without compiling.
func (h *PageHandlers) HandleInspect(w http.ResponseWriter, r *http.Request) {
	if !requireGET(h.errorAdapter, w, r) {
		return
	}
	out, err := h.resolver.Inspect(r.Context(), pointer.SplitPath(r.PathValue("path")))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	resp := responses.FromInspect(out)
	status := http.StatusOK
	if !resp.Found {
		status = http.StatusNotFound
	}
	h.write(w, r, status, resp)
}

func (h *PageHandlers) resolve(w http.ResponseWriter, r *http.Request, segments []string) {
	out, err := h.resolver.Resolve(r.Context(), segments)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	status, body := responses.FromOutcome(out)
	h.write(w, r, status, body)
}

func (h *PageHandlers) write(w http.ResponseWriter, r *http.Request, status int, body any) {
	if err := writeJSON(w, r, status, body); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write page response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// BundleSegments converts bundle query parameters into page path segments.
// The ref travels as an explicit revision segment so branch names containing
// slashes stay intact.
func BundleSegments(q url.Values) []string {
	segments := []string{q.Get("owner"), q.Get("repository")}
	if ref := strings.TrimSpace(q.Get("ref")); ref != "" {
		segments = append(segments, "~"+ref)
	}
	return append(segments, pointer.SplitPath(q.Get("path"))...)
}
