package markdown

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kyokomi/emoji/v2"
	"github.com/yuin/goldmark/ast"
)

func accessibleEmojisStage() Stage {
	return Stage{Name: "accessible-emojis", Transform: labelEmojis}
}

// labelEmojis wraps emoji glyphs found in text in Emoji nodes.
func labelEmojis(doc *ast.Document, st *State) error {
	idx := emojis()
	for _, t := range collectTexts(doc) {
		value := t.Segment.Value(st.Source)
		matches := idx.find(value)
		if len(matches) == 0 {
			continue
		}
		replaceText(t, split(value, matches, func(m []byte) ast.Node {
			glyph := string(m)
			return NewEmoji(glyph, idx.labels[glyph])
		}))
	}
	return nil
}

// emojiIndex maps glyphs to readable names. It is built once and never modified.
type emojiIndex struct {
	labels   map[string]string
	starts   map[rune]bool
	maxRunes int
}

var emojis = sync.OnceValue(func() *emojiIndex {
	idx := &emojiIndex{labels: map[string]string{}, starts: map[rune]bool{}}
	known := emoji.RevCodeMap()
	rev := make(map[string][]string, len(known))
	for glyph, aliases := range known {
		glyph = strings.TrimSpace(glyph)
		if glyph == "" || isASCII(glyph) || len(aliases) == 0 {
			continue
		}
		rev[glyph] = append(rev[glyph], aliases...)
	}
	for glyph, aliases := range rev {
		idx.add(glyph, label(aliases))
	}
	// Pictographs are often written without the emoji presentation selector.
	for glyph, aliases := range rev {
		bare := strings.ReplaceAll(glyph, "\ufe0f", "")
		if bare == glyph || bare == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(bare); r < 0x1F000 {
			continue
		}
		if _, exists := idx.labels[bare]; !exists {
			idx.add(bare, label(aliases))
		}
	}
	return idx
})

func (x *emojiIndex) add(glyph, label string) {
	x.labels[glyph] = label
	r, _ := utf8.DecodeRuneInString(glyph)
	x.starts[r] = true
	x.maxRunes = max(x.maxRunes, utf8.RuneCountInString(glyph))
}

// find returns the byte ranges of emoji in s, preferring the longest glyph at
// each position.
func (x *emojiIndex) find(s []byte) [][]int {
	var out [][]int
	bounds := make([]int, 0, x.maxRunes)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRune(s[i:])
		if !x.starts[r] {
			i += size
			continue
		}

		bounds = bounds[:0]
		for j, k := i, 0; j < len(s) && k < x.maxRunes; k++ {
			_, sz := utf8.DecodeRune(s[j:])
			j += sz
			bounds = append(bounds, j)
		}

		next := i + size
		for k := len(bounds) - 1; k >= 0; k-- {
			if _, ok := x.labels[string(s[i:bounds[k]])]; ok {
				out = append(out, []int{i, bounds[k]})
				next = bounds[k]
				break
			}
		}
		i = next
	}
	return out
}

// label picks the most descriptive alias, e.g. ":grinning_face:" becomes
// "grinning face".
func label(aliases []string) string {
	best := ""
	for _, a := range aliases {
		a = strings.Trim(a, ":")
		if len(a) > len(best) || (len(a) == len(best) && a < best) {
			best = a
		}
	}
	return strings.ReplaceAll(best, "_", " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
