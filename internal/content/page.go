package content

import (
	"log/slog"

	"git.home.luguber.info/inful/docpage/internal/frontmatter"
	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/markdown"
	"git.home.luguber.info/inful/docpage/internal/pointer"
	"git.home.luguber.info/inful/docpage/internal/projectconfig"
	"git.home.luguber.info/inful/docpage/internal/variables"
)

// BuildPage assembles page content from fetched contents. It returns nil when raw
// is nil. Malformed docs.json and front-matter degrade to defaults and are
// logged at WARN. Headings is left empty for the compiler to fill.
func BuildPage(p pointer.ContentPointer, raw *RawRepositoryContents) *PageContent {
	if raw == nil {
		return nil
	}

	cfg := projectconfig.Default()
	if raw.Config != nil {
		var ok bool
		cfg, ok = projectconfig.MergeJSON([]byte(*raw.Config))
		if !ok {
			slog.Warn("Ignoring malformed docs.json",
				logfields.Owner(p.Owner), logfields.Repository(p.Repository), logfields.Ref(p.Ref(raw.BaseBranch)))
		}
	}

	source := ""
	if raw.Markdown != nil {
		source = *raw.Markdown
	}
	substituted := variables.Substitute(source, cfg.Variables)

	metadata, body, err := frontmatter.ExtractWithError(substituted)
	if err != nil {
		slog.Warn("Ignoring malformed frontmatter",
			logfields.Owner(p.Owner), logfields.Repository(p.Repository), logfields.Path(raw.Path), logfields.Error(err))
	}

	fingerprint, err := frontmatter.Fingerprint(metadata, body)
	if err != nil {
		slog.Debug("Unable to fingerprint page", logfields.Path(raw.Path), logfields.Error(err))
	}

	return &PageContent{
		BaseBranch:  raw.BaseBranch,
		Path:        raw.Path,
		Config:      cfg,
		Frontmatter: frontmatter.ToFrontmatter(metadata),
		Metadata:    metadata,
		Markdown:    body,
		Headings:    []markdown.HeadingNode{},
		Fingerprint: fingerprint,
		Flags: Flags{
			HasConfig:      raw.Config != nil,
			HasFrontmatter: len(metadata) > 0,
			IsFork:         raw.IsFork,
			IsIndexable:    isIndexable(p, raw, cfg),
		},
	}
}

// isIndexable requires a page requested without any revision on a non-fork
// repository that ships a docs.json without noindex. Naming the default branch
// explicitly in the URL is not indexable, so each page has one canonical URL.
func isIndexable(p pointer.ContentPointer, raw *RawRepositoryContents, cfg projectconfig.Config) bool {
	onBase := p.IsBase()
	return raw.Markdown != nil &&
		!cfg.Noindex &&
		!raw.IsFork &&
		onBase &&
		raw.Config != nil
}

// DebugPage returns a page with every field at its default, for inspecting the
// defaults without a repository.
func DebugPage() *PageContent {
	return &PageContent{
		Config:      projectconfig.Default(),
		Frontmatter: frontmatter.ToFrontmatter(nil),
		Metadata:    map[string]any{},
		Headings:    []markdown.HeadingNode{},
	}
}
