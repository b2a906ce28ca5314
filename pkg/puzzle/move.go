package puzzle

import (
	"fmt"
	"math"
	"strings"
)

// Layer names the slice of the puzzle a move turns.
type Layer string

const (
	LayerR Layer = "R" // Right
	LayerL Layer = "L" // Left
	LayerU Layer = "U" // Up
	LayerD Layer = "D" // Down
	LayerF Layer = "F" // Front
	LayerB Layer = "B" // Back

	LayerM Layer = "M" // Middle, follows L
	LayerE Layer = "E" // Equator, follows D
	LayerS Layer = "S" // Standing, follows F

	WideR Layer = "r"
	WideL Layer = "l"
	WideU Layer = "u"
	WideD Layer = "d"
	WideF Layer = "f"
	WideB Layer = "b"

	RotX Layer = "x" // Whole cube, follows R
	RotY Layer = "y" // Whole cube, follows U
	RotZ Layer = "z" // Whole cube, follows F
)

// Turn represents the direction and magnitude of a turn.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees)
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn (180 degrees)
)

// Move is a single turn in standard notation.
type Move struct {
	Layer Layer
	Turn  Turn
}

// layerDef selects the pieces whose coordinate along axis lies in [lo, hi]
// and turns them by sign*90 degrees about the positive axis per quarter turn.
type layerDef struct {
	axis   int
	lo, hi float64
	sign   float64
}

var layerDefs = map[Layer]layerDef{
	LayerR: {0, 0.5, 2, -1},
	LayerL: {0, -2, -0.5, 1},
	LayerU: {1, 0.5, 2, -1},
	LayerD: {1, -2, -0.5, 1},
	LayerF: {2, 0.5, 2, -1},
	LayerB: {2, -2, -0.5, 1},

	LayerM: {0, -0.5, 0.5, 1},
	LayerE: {1, -0.5, 0.5, 1},
	LayerS: {2, -0.5, 0.5, -1},

	WideR: {0, -0.5, 2, -1},
	WideL: {0, -2, 0.5, 1},
	WideU: {1, -0.5, 2, -1},
	WideD: {1, -2, 0.5, 1},
	WideF: {2, -0.5, 2, -1},
	WideB: {2, -2, 0.5, 1},

	RotX: {0, -2, 2, -1},
	RotY: {1, -2, 2, -1},
	RotZ: {2, -2, 2, -1},
}

var axes = [3]Vec{VecR, VecU, VecF}

// Notation returns the standard notation string for this move.
// Examples: R, R', R2, M', x2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return string(m.Layer) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R, R2 stays R2.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
	}
	return inv
}

// IsRotation reports whether the move turns the whole cube.
func (m Move) IsRotation() bool {
	return m.Layer == RotX || m.Layer == RotY || m.Layer == RotZ
}

// Merge combines two moves on the same layer.
// It returns nil when the moves cancel out or cannot be merged.
func (m Move) Merge(other Move) *Move {
	if m.Layer != other.Layer {
		return nil
	}

	combined := (int(m.Turn) + int(other.Turn)) % 4
	if combined < 0 {
		combined += 4
	}

	switch combined {
	case 0:
		return nil
	case 1:
		return &Move{Layer: m.Layer, Turn: CW}
	case 2:
		return &Move{Layer: m.Layer, Turn: Double}
	default:
		return &Move{Layer: m.Layer, Turn: CCW}
	}
}

// quarterTurns returns the signed number of quarter turns.
func (m Move) quarterTurns() float64 {
	return float64(m.Turn)
}

func (m Move) rotation() (layerDef, rotation) {
	def := layerDefs[m.Layer]
	angle := def.sign * m.quarterTurns() * math.Pi / 2
	return def, newRotation(axes[def.axis], angle)
}

// ParseMove parses a standard notation string into a Move.
// Examples: R, R', R2, Rw, r', M2, x
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, fmt.Errorf("%w: empty move", ErrInvalidNotation)
	}

	layer := Layer(s[:1])
	rest := s[1:]
	if strings.HasPrefix(rest, "w") {
		layer = Layer(strings.ToLower(string(layer)))
		rest = rest[1:]
	}
	if _, ok := layerDefs[layer]; !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	turn := CW
	switch rest {
	case "":
	case "'", "`", "3":
		turn = CCW
	case "2", "2'", "2`":
		turn = Double
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	return Move{Layer: layer, Turn: turn}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'"
// Any invalid token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}

// Simplify merges adjacent turns of the same layer and drops cancellations.
// "R R" becomes "R2" and "U U'" disappears.
func Simplify(moves []Move) []Move {
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if n := len(out); n > 0 && out[n-1].Layer == m.Layer {
			merged := out[n-1].Merge(m)
			out = out[:n-1]
			if merged != nil {
				out = append(out, *merged)
			}
			continue
		}
		out = append(out, m)
	}
	return out
}
