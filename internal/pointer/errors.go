package pointer

import (
	"strings"

	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
)

// ErrInvalidPath signals a page path that does not follow the pointer grammar.
var ErrInvalidPath = errors.ValidationError("invalid page path").Build()

func invalid(reason string, segments []string) error {
	return ErrInvalidPath.
		WithContext("reason", reason).
		WithContext("path", strings.Join(segments, "/"))
}
