package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminatedBlock reports a document that opens a metadata block but
// never closes it.
var ErrUnterminatedBlock = errors.New("metadata block opened with --- but never closed")

const byteOrderMark = "\ufeff"

// SplitBlock separates a leading `---` delimited block from the rest of the
// document. Both LF and CRLF line endings are accepted and a leading byte order
// mark is dropped. found is false when the first line is not a delimiter, in
// which case body is the whole document.
func SplitBlock(document string) (block, body string, found bool, err error) {
	document = strings.TrimPrefix(document, byteOrderMark)
	rest, ok := strings.CutPrefix(document, delimiter+"\n")
	if !ok {
		rest, ok = strings.CutPrefix(document, delimiter+"\r\n")
	}
	if !ok {
		return "", document, false, nil
	}

	for offset := 0; offset <= len(rest); {
		line, next := rest[offset:], len(rest)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line, next = line[:i], offset+i+1
		}
		if strings.TrimSuffix(line, "\r") == delimiter {
			return rest[:offset], rest[next:], true, nil
		}
		if next == len(rest) {
			break
		}
		offset = next
	}
	return "", document, false, ErrUnterminatedBlock
}

// Decode parses a metadata block into a map. An empty block yields an empty,
// non-nil map. Nested mappings always have string keys, so the result can be
// encoded as JSON.
func Decode(block string) (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(block) == "" {
		return fields, nil
	}
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	stringKeys(fields)
	return fields, nil
}

// stringKeys rewrites mappings with non-string keys, which YAML allows and
// JSON does not, into map[string]any. Maps and slices are updated in place.
func stringKeys(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		for k, val := range vv {
			vv[k] = stringKeys(val)
		}
		return vv
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, item := range vv {
			vv[i] = stringKeys(item)
		}
		return vv
	}
	return v
}
