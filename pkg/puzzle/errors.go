package puzzle

import "errors"

// Sentinel errors for the puzzle package.
var (
	// Parsing errors
	ErrInvalidNotation = errors.New("puzzle: invalid move notation")
	ErrInvalidFacelet  = errors.New("puzzle: invalid facelet string")
)
