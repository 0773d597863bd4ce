package content

import (
	"path"

	"git.home.luguber.info/inful/docpage/internal/pointer"
)

// Repository layout read by every Fetcher.
const (
	ConfigFile = "docs.json"
	DocsDir    = "docs"
)

// PageCandidates lists the repository files that may hold the page at p, in
// lookup order. The first one that exists wins.
func PageCandidates(p string) []string {
	if p == "" {
		p = pointer.IndexPath
	}
	base := path.Join(DocsDir, p)
	return []string{
		base + ".mdx",
		base + ".md",
		path.Join(base, "index.mdx"),
		path.Join(base, "index.md"),
	}
}
