package content

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docpage/internal/pointer"
)

// RedirectTarget resolves a front-matter redirect. Absolute URLs are returned
// as-is; other targets are rooted at the repository (and revision) of p.
func RedirectTarget(p pointer.ContentPointer, target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "//") {
		return target
	}
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "?") {
		return p.BasePath() + "/" + p.Path + target
	}
	return p.BasePath() + "/" + strings.TrimPrefix(target, "/")
}
