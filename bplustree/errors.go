package bplus

import "github.com/pkg/errors"

var (
	// ErrEndOfIndex is returned by ReadForward when called with the end
	// sentinel cursor.
	ErrEndOfIndex = errors.New("bplus: end of index")

	ErrReadOnly      = errors.New("bplus: index opened read-only")
	ErrCorruptPage   = errors.New("bplus: corrupt page")
	ErrInvalidCursor = errors.New("bplus: invalid cursor")
	ErrClosed        = errors.New("bplus: index is closed")

	// errNodeFull tells the orchestrator to split. It never leaves the package.
	errNodeFull = errors.New("bplus: node full")
)
