package reconstruct

import (
	"errors"

	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// Sentinel errors for the reconstruct package.
var (
	ErrUnknownMethod = errors.New("reconstruct: unknown method")

	// Seeding errors, surfaced from the puzzle model.
	ErrInvalidFacelet  = puzzle.ErrInvalidFacelet
	ErrInvalidNotation = puzzle.ErrInvalidNotation
)
