package frontmatter

import (
	"github.com/inful/mdfp"
)

// Fingerprint returns the content fingerprint of a page from its metadata and
// body. Metadata is serialized with sorted keys and LF newlines so that key order
// in the source does not change the result. An existing fingerprint key is ignored.
func Fingerprint(metadata map[string]any, body string) (string, error) {
	fields := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	serialized, err := canonicalYAML(fields)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body), nil
}
