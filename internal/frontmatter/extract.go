package frontmatter

import (
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/docpage/internal/logfields"
)

// Frontmatter holds the page metadata keys the renderer understands.
type Frontmatter struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Sidebar     bool   `json:"sidebar"`
	Redirect    string `json:"redirect"`
}

// Extract splits a document into its metadata and markdown body.
//
// Documents without a leading block, or with an unterminated one, yield empty
// metadata and the whole document as body. A block that is not valid YAML yields
// empty metadata and the body after the block; the failure is logged at WARN.
func Extract(document string) (metadata map[string]any, body string) {
	metadata, body, err := ExtractWithError(document)
	if err != nil {
		slog.Warn("Ignoring malformed frontmatter", logfields.Error(err))
	}
	return metadata, body
}

// ExtractWithError behaves like Extract and also reports a YAML parse failure.
// The returned metadata and body are usable even when err is non-nil.
func ExtractWithError(document string) (map[string]any, string, error) {
	block, body, found, err := SplitBlock(document)
	if errors.Is(err, ErrUnterminatedBlock) || !found {
		return map[string]any{}, body, nil
	}

	fields, err := Decode(block)
	if err != nil {
		return map[string]any{}, body, err
	}
	return fields, body, nil
}

// ToFrontmatter projects metadata onto the known keys. Values of the wrong type
// fall back to the defaults: empty strings and sidebar shown.
func ToFrontmatter(metadata map[string]any) Frontmatter {
	fm := Frontmatter{Sidebar: true}
	if s, ok := metadata["title"].(string); ok {
		fm.Title = s
	}
	if s, ok := metadata["description"].(string); ok {
		fm.Description = s
	}
	if s, ok := metadata["image"].(string); ok {
		fm.Image = s
	}
	if b, ok := metadata["sidebar"].(bool); ok {
		fm.Sidebar = b
	}
	if s, ok := metadata["redirect"].(string); ok {
		fm.Redirect = s
	}
	return fm
}
