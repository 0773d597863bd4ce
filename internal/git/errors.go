package git

import (
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
)

var (
	// ErrOpenRepository signals a clone that exists but cannot be opened.
	ErrOpenRepository = errors.GitError("failed to open repository").Build()

	// ErrReadObject signals a corrupt or unreadable git object.
	ErrReadObject = errors.GitError("failed to read git object").Build()
)
