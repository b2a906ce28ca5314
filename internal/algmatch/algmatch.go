// Package algmatch recognizes which last-layer algorithm produced a cube state,
// up to the four pre-rotations of the top face.
//
// Every algorithm is compiled once into four fingerprints: the facelets of the
// case the algorithm solves when preceded by 0, 1, 2 or 3 quarter turns of U.
// An observed state is first turned so its solved layers sit on D, then
// compared against each fingerprint over a fixed template of top-layer
// stickers. The comparison tolerates a relabeling of colors through a
// one-way, injective color map, so color scheme does not matter.
package algmatch

import (
	"fmt"

	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// Mode selects which template positions take part in a comparison.
type Mode int

const (
	// ModeOLL compares only positions showing the observed top color.
	ModeOLL Mode = iota
	// ModePLL compares every template position.
	ModePLL
	// ModeCMLL compares the corner stickers of the template.
	ModeCMLL
)

func (m Mode) String() string {
	switch m {
	case ModeOLL:
		return "oll"
	case ModePLL:
		return "pll"
	case ModeCMLL:
		return "cmll"
	default:
		return "unknown"
	}
}

// Algorithm is a named move sequence from a library.
type Algorithm struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
	Moves string `json:"alg"`
}

// Fingerprint is a facelet string as raw byte codes.
type Fingerprint [54]byte

// FingerprintOf converts a facelet string.
func FingerprintOf(facelet string) Fingerprint {
	var fp Fingerprint
	copy(fp[:], facelet)
	return fp
}

func (f Fingerprint) String() string {
	return string(f[:])
}

// Compiled is an algorithm with its four fingerprints, one per U pre-rotation.
type Compiled struct {
	Algorithm
	Fingerprints [4]Fingerprint
}

var preAUF = [4][]puzzle.Move{
	nil,
	{{Layer: puzzle.LayerU, Turn: puzzle.CW}},
	{{Layer: puzzle.LayerU, Turn: puzzle.Double}},
	{{Layer: puzzle.LayerU, Turn: puzzle.CCW}},
}

// Compile precomputes fingerprints for every algorithm.
func Compile(algs []Algorithm) ([]Compiled, error) {
	out := make([]Compiled, 0, len(algs))
	for _, a := range algs {
		c, err := compileOne(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func compileOne(a Algorithm) (Compiled, error) {
	moves, err := puzzle.ParseMoves(a.Moves)
	if err != nil {
		return Compiled{}, fmt.Errorf("failed to compile %q: %w", a.Name, err)
	}

	c := Compiled{Algorithm: a}
	for k, pre := range preAUF {
		seq := append(append([]puzzle.Move{}, pre...), moves...)
		cube := puzzle.New()
		cube.Apply(puzzle.Invert(seq)...)
		c.Fingerprints[k] = FingerprintOf(cube.Facelet())
	}
	return c, nil
}

// toBottom holds the whole-cube rotation that brings each face to D.
var toBottom = map[puzzle.Face][]puzzle.Move{
	puzzle.FaceU: {{Layer: puzzle.RotX, Turn: puzzle.Double}},
	puzzle.FaceF: {{Layer: puzzle.RotX, Turn: puzzle.CCW}},
	puzzle.FaceB: {{Layer: puzzle.RotX, Turn: puzzle.CW}},
	puzzle.FaceR: {{Layer: puzzle.RotZ, Turn: puzzle.CW}},
	puzzle.FaceL: {{Layer: puzzle.RotZ, Turn: puzzle.CCW}},
	puzzle.FaceD: nil,
}

// Canonical returns the fingerprint of c after turning the face that down
// points at to the D position. c itself is not modified.
func Canonical(c *puzzle.Cube, down puzzle.Vec) (Fingerprint, error) {
	face, ok := puzzle.FaceOf(down)
	if !ok {
		return Fingerprint{}, fmt.Errorf("%w: %v", ErrNotAxisAligned, down)
	}
	rotated := c.Clone()
	rotated.Apply(toBottom[face]...)
	return FingerprintOf(rotated.Facelet()), nil
}

// Match returns the first algorithm with a fingerprint equivalent to observed.
// It returns nil when nothing in the library fits.
func Match(observed Fingerprint, lib []Compiled, mode Mode) *Algorithm {
	for i := range lib {
		for _, fp := range lib[i].Fingerprints {
			if Equivalent(observed, fp, mode) {
				a := lib[i].Algorithm
				return &a
			}
		}
	}
	return nil
}
