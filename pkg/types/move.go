// Package types contains the serialized solve format shared by the engine and the CLI.
package types

import (
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// Move is one recorded turn with its timestamp.
type Move struct {
	Notation  string `json:"move"`
	Timestamp int64  `json:"ts_ms"` // Milliseconds since solve start
}

// Parse converts the notation into a puzzle move.
func (m Move) Parse() (puzzle.Move, error) {
	return puzzle.ParseMove(m.Notation)
}

// Gaps returns the time between consecutive moves.
func Gaps(moves []Move) []int64 {
	if len(moves) < 2 {
		return nil
	}
	gaps := make([]int64, len(moves)-1)
	for i := 1; i < len(moves); i++ {
		gaps[i-1] = moves[i].Timestamp - moves[i-1].Timestamp
	}
	return gaps
}

// Notations returns the notation of each move.
func Notations(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Notation
	}
	return out
}
