// Package markdown compiles a page's markdown into a render-ready HTML bundle and
// collects its heading outline.
//
// Compilation parses the document once with goldmark and then runs a fixed list
// of named stages over the tree. A stage may extend the goldmark engine (parser
// extensions, node renderers) and transform the parsed document. Stages share a
// per-compile state that owns the heading accumulator; nothing is shared between
// compilations.
//
// Stage order:
//
//  1. validate             rejects invalid UTF-8 and NUL bytes
//  2. undeclared-variables neutralises leftover {{ ... }} constructs
//  3. gfm                  tables, strikethrough, task lists, autolinks
//  4. unwrap-images        lifts image-only paragraphs
//  5. code-blocks          tags code blocks with their language and title
//  6. heading-ids          assigns unique slug ids to headings
//  7. headings             collects the outline within the configured depth
//  8. accessible-emojis    labels emoji glyphs for assistive technology
//
// A failing or panicking stage aborts the compilation; the Result then carries
// diagnostics and no bundle.
package markdown
