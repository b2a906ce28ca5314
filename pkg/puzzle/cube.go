package puzzle

import (
	"fmt"
	"strings"
)

// Color is the facelet character a sticker carries.
// Blank marks an internal, uncolored side of a piece.
type Color byte

const Blank Color = 0

func (c Color) String() string {
	if c == Blank {
		return "."
	}
	return string(rune(c))
}

// SolvedFacelet is the facelet string of a solved cube in face order U, R, F, D, L, B.
const SolvedFacelet = "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"

// Face is one of the six facelet faces in serialization order.
type Face int

const (
	FaceU Face = iota
	FaceR
	FaceF
	FaceD
	FaceL
	FaceB
)

func (f Face) String() string {
	switch f {
	case FaceU:
		return "U"
	case FaceR:
		return "R"
	case FaceF:
		return "F"
	case FaceD:
		return "D"
	case FaceL:
		return "L"
	case FaceB:
		return "B"
	default:
		return "?"
	}
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() Vec {
	return faceNormals[f]
}

var faceNormals = [6]Vec{VecU, VecR, VecF, VecD, VecL, VecB}

// FaceVectors returns the six outward face normals in U, R, F, D, L, B order.
func FaceVectors() []Vec {
	out := make([]Vec, len(faceNormals))
	copy(out, faceNormals[:])
	return out
}

// FaceOf maps a unit vector to the face whose normal it matches.
func FaceOf(v Vec) (Face, bool) {
	for i, n := range faceNormals {
		if v.ApproxEqual(n) {
			return Face(i), true
		}
	}
	return 0, false
}

// faceletPosition returns the piece position of sticker (row, col) on face f.
func faceletPosition(f Face, row, col int) [3]int {
	r, c := row, col
	switch f {
	case FaceU:
		return [3]int{c - 1, 1, r - 1}
	case FaceR:
		return [3]int{1, 1 - r, 1 - c}
	case FaceF:
		return [3]int{c - 1, 1 - r, 1}
	case FaceD:
		return [3]int{c - 1, -1, 1 - r}
	case FaceL:
		return [3]int{-1, 1 - r, c - 1}
	default:
		return [3]int{1 - c, 1 - r, -1}
	}
}

// faceletIndex is the inverse of faceletPosition.
func faceletIndex(f Face, p [3]int) int {
	x, y, z := p[0], p[1], p[2]
	var r, c int
	switch f {
	case FaceU:
		r, c = z+1, x+1
	case FaceR:
		r, c = 1-y, 1-z
	case FaceF:
		r, c = 1-y, x+1
	case FaceD:
		r, c = 1-z, x+1
	case FaceL:
		r, c = 1-y, z+1
	default:
		r, c = 1-y, 1-x
	}
	return int(f)*9 + r*3 + c
}

// Kind classifies a piece by its number of colored stickers.
type Kind int

const (
	KindCenter Kind = 1
	KindEdge   Kind = 2
	KindCorner Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindCenter:
		return "center"
	case KindEdge:
		return "edge"
	case KindCorner:
		return "corner"
	default:
		return "unknown"
	}
}

// Sticker is one side of a piece.
type Sticker struct {
	Color       Color
	Orientation Vec
}

// Blank reports whether the sticker is an uncolored internal side.
func (s Sticker) Blank() bool {
	return s.Color == Blank
}

// Piece is a single cubie with six stickers, one per axis direction.
type Piece struct {
	Position Vec
	Stickers [6]Sticker
	kind     Kind
}

// Kind returns the classification fixed when the cube was seeded.
func (p *Piece) Kind() Kind {
	return p.kind
}

// Colored returns the non-blank stickers.
func (p *Piece) Colored() []Sticker {
	out := make([]Sticker, 0, 3)
	for _, s := range p.Stickers {
		if !s.Blank() {
			out = append(out, s)
		}
	}
	return out
}

// Colors returns the colors of the non-blank stickers.
func (p *Piece) Colors() []Color {
	out := make([]Color, 0, 3)
	for _, s := range p.Stickers {
		if !s.Blank() {
			out = append(out, s.Color)
		}
	}
	return out
}

// Contains reports whether the piece carries a sticker of color c.
func (p *Piece) Contains(c Color) bool {
	if c == Blank {
		return false
	}
	for _, s := range p.Stickers {
		if s.Color == c {
			return true
		}
	}
	return false
}

// Sticker returns the sticker of color c.
func (p *Piece) Sticker(c Color) (Sticker, bool) {
	if c == Blank {
		return Sticker{}, false
	}
	for _, s := range p.Stickers {
		if s.Color == c {
			return s, true
		}
	}
	return Sticker{}, false
}

func (p *Piece) rotate(r rotation) {
	p.Position = r.apply(p.Position)
	for i := range p.Stickers {
		p.Stickers[i].Orientation = r.apply(p.Stickers[i].Orientation)
	}
}

// Cube is a 3x3x3 puzzle held as pieces with oriented stickers.
type Cube struct {
	pieces  []*Piece
	centers []*Piece
	edges   []*Piece
	corners []*Piece
}

// New creates a solved cube.
func New() *Cube {
	c, err := FromFacelet(SolvedFacelet)
	if err != nil {
		panic(err)
	}
	return c
}

// FromFacelet builds a cube from a 54-character facelet string.
// Any six distinct characters may be used as colors as long as each appears
// nine times and the centers are pairwise distinct. Physical solvability is
// not checked.
func FromFacelet(facelet string) (*Cube, error) {
	if len(facelet) != 54 {
		return nil, fmt.Errorf("%w: length %d, want 54", ErrInvalidFacelet, len(facelet))
	}

	counts := make(map[byte]int, 6)
	for i := 0; i < len(facelet); i++ {
		counts[facelet[i]]++
	}
	centers := make(map[byte]bool, 6)
	for f := 0; f < 6; f++ {
		ch := facelet[f*9+4]
		if ch == byte(Blank) {
			return nil, fmt.Errorf("%w: blank center on %s", ErrInvalidFacelet, Face(f))
		}
		if centers[ch] {
			return nil, fmt.Errorf("%w: duplicate center %q", ErrInvalidFacelet, ch)
		}
		centers[ch] = true
	}
	for ch, n := range counts {
		if !centers[ch] {
			return nil, fmt.Errorf("%w: color %q has no center", ErrInvalidFacelet, ch)
		}
		if n != 9 {
			return nil, fmt.Errorf("%w: color %q appears %d times, want 9", ErrInvalidFacelet, ch, n)
		}
	}

	c := &Cube{}
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				pos := [3]int{x, y, z}
				p := &Piece{Position: Vec{X: float64(x), Y: float64(y), Z: float64(z)}}
				colored := 0
				for f := FaceU; f <= FaceB; f++ {
					n := f.Normal()
					p.Stickers[f].Orientation = n
					if n.Dot(p.Position) > 0.5 {
						p.Stickers[f].Color = Color(facelet[faceletIndex(f, pos)])
						colored++
					}
				}
				p.kind = Kind(colored)
				c.add(p)
			}
		}
	}

	return c, nil
}

// FromScramble builds a cube by applying a move sequence to a solved cube.
func FromScramble(scramble string) (*Cube, error) {
	moves, err := ParseMoves(scramble)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scramble: %w", err)
	}
	c := New()
	c.Apply(moves...)
	return c, nil
}

func (c *Cube) add(p *Piece) {
	c.pieces = append(c.pieces, p)
	switch p.kind {
	case KindCenter:
		c.centers = append(c.centers, p)
	case KindEdge:
		c.edges = append(c.edges, p)
	case KindCorner:
		c.corners = append(c.corners, p)
	}
}

// Pieces returns all 26 pieces.
func (c *Cube) Pieces() []*Piece { return c.pieces }

// Centers returns the six center pieces.
func (c *Cube) Centers() []*Piece { return c.centers }

// Edges returns the twelve edge pieces.
func (c *Cube) Edges() []*Piece { return c.edges }

// Corners returns the eight corner pieces.
func (c *Cube) Corners() []*Piece { return c.corners }

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := &Cube{}
	for _, p := range c.pieces {
		cp := *p
		clone.add(&cp)
	}
	return clone
}

// Apply applies moves in order.
func (c *Cube) Apply(moves ...Move) {
	for _, m := range moves {
		def, rot := m.rotation()
		for _, p := range c.pieces {
			v := p.Position.Component(def.axis)
			if v >= def.lo && v <= def.hi {
				p.rotate(rot)
			}
		}
	}
}

// ApplySequence parses and applies a space-separated move sequence.
func (c *Cube) ApplySequence(seq string) error {
	moves, err := ParseMoves(seq)
	if err != nil {
		return err
	}
	c.Apply(moves...)
	return nil
}

// Facelet serializes the cube as 54 characters in face order U, R, F, D, L, B,
// nine stickers per face in row-major order.
func (c *Cube) Facelet() string {
	var out [54]byte
	for _, p := range c.pieces {
		pos := p.Position.grid()
		for _, s := range p.Stickers {
			if s.Blank() {
				continue
			}
			f, ok := FaceOf(s.Orientation)
			if !ok {
				continue
			}
			out[faceletIndex(f, pos)] = byte(s.Color)
		}
	}
	return string(out[:])
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	facelet := c.Facelet()
	for f := 0; f < 6; f++ {
		for i := 1; i < 9; i++ {
			if facelet[f*9+i] != facelet[f*9] {
				return false
			}
		}
	}
	return true
}

// String returns a text net of the cube.
func (c *Cube) String() string {
	facelet := c.Facelet()
	sticker := func(f Face, row, col int) string {
		return Color(facelet[int(f)*9+row*3+col]).String() + " "
	}

	var b strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(sticker(FaceU, row, col))
		}
		b.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, f := range []Face{FaceL, FaceF, FaceR, FaceB} {
			for col := 0; col < 3; col++ {
				b.WriteString(sticker(f, row, col))
			}
		}
		b.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(sticker(FaceD, row, col))
		}
		b.WriteString("\n")
	}

	return b.String()
}
