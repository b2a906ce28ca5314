package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// ErrNoStart is returned when a solve names neither a scramble nor a facelet.
var ErrNoStart = errors.New("types: solve has neither scramble nor facelet")

// Solve is a recorded solve: where the cube started and what was turned.
type Solve struct {
	Scramble string `json:"scramble,omitempty"`
	Facelet  string `json:"facelet,omitempty"`
	Moves    []Move `json:"moves"`
	TotalMs  int64  `json:"total_ms,omitempty"` // Authoritative timer result
	Notes    string `json:"notes,omitempty"`
}

// StartFacelet resolves the starting state. An explicit facelet wins over a scramble.
func (s *Solve) StartFacelet() (string, error) {
	if s.Facelet != "" {
		if _, err := puzzle.FromFacelet(s.Facelet); err != nil {
			return "", err
		}
		return s.Facelet, nil
	}
	if s.Scramble == "" {
		return "", ErrNoStart
	}
	c, err := puzzle.FromScramble(s.Scramble)
	if err != nil {
		return "", err
	}
	return c.Facelet(), nil
}

// Duration returns the authoritative total, or the span of the recorded moves.
func (s *Solve) Duration() int64 {
	if s.TotalMs > 0 {
		return s.TotalMs
	}
	if len(s.Moves) == 0 {
		return 0
	}
	return s.Moves[len(s.Moves)-1].Timestamp - s.Moves[0].Timestamp
}

// LoadSolve reads a solve from a JSON file.
func LoadSolve(path string) (*Solve, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solve file: %w", err)
	}

	var s Solve
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse solve file: %w", err)
	}

	return &s, nil
}
