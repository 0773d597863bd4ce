// Package variables substitutes {{ name }} tokens with project variables.
package variables

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern requires exactly one whitespace character on each side of the name.
var tokenPattern = regexp.MustCompile(`{{\s([a-zA-Z0-9_.]*)\s}}`)

// Substitute replaces every token in template with the value found at its dotted
// path in vars. Unresolved paths become the empty string. Inserted values are not
// scanned again.
func Substitute(template string, vars map[string]any) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	last := 0
	for pos := 0; pos <= len(template); {
		loc := tokenPattern.FindStringSubmatchIndex(template[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			pos = start + 1
			continue
		}

		b.WriteString(template[last:start])
		value, _ := Lookup(vars, template[pos+loc[2]:pos+loc[3]])
		b.WriteString(value)
		last, pos = end, end
	}
	b.WriteString(template[last:])
	return b.String()
}

// Lookup resolves a dotted path such as "links.github" inside vars. Strings are
// returned as-is, numbers and booleans are formatted; any other value counts as
// unresolved.
func Lookup(vars map[string]any, path string) (string, bool) {
	if path == "" || vars == nil {
		return "", false
	}

	var current any = vars
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = obj[key]
		if !ok {
			return "", false
		}
	}
	return scalar(current)
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}
