package frontmatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		block string
		body  string
		found bool
	}{
		{"no block", "# Title\n", "", "# Title\n", false},
		{"block", "---\nkey: value\n---\n# Title\n", "key: value\n", "# Title\n", true},
		{"crlf", "---\r\nkey: value\r\n---\r\n# Title\r\n", "key: value\r\n", "# Title\r\n", true},
		{"empty block", "---\n---\n# Title\n", "", "# Title\n", true},
		{"delimiter at end", "---\nkey: value\n---", "key: value\n", "", true},
		{"rule later in document", "# Title\n---\n", "", "# Title\n---\n", false},
		{"byte order mark", "\ufeff---\ntitle: x\n---\nBody\n", "title: x\n", "Body\n", true},
		{"byte order mark without block", "\ufeff# Title\n", "", "# Title\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, body, found, err := SplitBlock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.block, block)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestSplitBlock_Unterminated(t *testing.T) {
	doc := "---\nkey: value\n# Title\n"
	_, body, found, err := SplitBlock(doc)
	require.ErrorIs(t, err, ErrUnterminatedBlock)
	assert.False(t, found)
	assert.Equal(t, doc, body)
}

func TestDecode(t *testing.T) {
	fields, err := Decode("uid: abc\ntags:\n  - one\n")
	require.NoError(t, err)
	assert.Equal(t, "abc", fields["uid"])
	assert.Equal(t, []any{"one"}, fields["tags"])

	fields, err = Decode("  \n")
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)

	_, err = Decode(": not yaml")
	require.Error(t, err)
}

func TestDecode_NonStringKeysBecomeStrings(t *testing.T) {
	fields, err := Decode("versions:\n  1: one\n  2.5: two\nitems:\n  - 3: three\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "one", "2.5": "two"}, fields["versions"])
	assert.Equal(t, []any{map[string]any{"3": "three"}}, fields["items"])

	_, err = json.Marshal(fields)
	require.NoError(t, err)
}

func TestCanonicalYAML(t *testing.T) {
	out, err := canonicalYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = canonicalYAML(map[string]any{
		"b":     "two",
		"a":     "one",
		"c":     3,
		"outer": map[string]any{"z": true, "inner": map[any]any{"k": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a: one\nb: two\nc: 3\nouter:\n  inner:\n    k: 1\n  z: true", out)
}
