// Package geom answers geometric questions about pieces: whether a sticker
// faces its center, whether a piece sits in a layer, and whether two pieces
// are solved relative to each other.
//
// All comparisons use puzzle.Epsilon. None of the functions keep state.
package geom

import (
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// centerSticker returns the single colored sticker of a center piece.
func centerSticker(center *puzzle.Piece) (puzzle.Sticker, bool) {
	for _, s := range center.Stickers {
		if !s.Blank() {
			return s, true
		}
	}
	return puzzle.Sticker{}, false
}

// AlignedToCenter reports whether s points the same way as the center's sticker.
// Unless ignoreColor is set the colors must match as well. Blank stickers never align.
func AlignedToCenter(center *puzzle.Piece, s puzzle.Sticker, ignoreColor bool) bool {
	if s.Blank() {
		return false
	}
	cs, ok := centerSticker(center)
	if !ok {
		return false
	}
	if !ignoreColor && s.Color != cs.Color {
		return false
	}
	return s.Orientation.ApproxEqual(cs.Orientation)
}

// PieceInPlace reports whether every colored sticker of p faces a center of
// its own color, i.e. the piece is solved.
func PieceInPlace(centers []*puzzle.Piece, p *puzzle.Piece) bool {
	for _, s := range p.Stickers {
		if s.Blank() {
			continue
		}
		aligned := false
		for _, c := range centers {
			if AlignedToCenter(c, s, false) {
				aligned = true
				break
			}
		}
		if !aligned {
			return false
		}
	}
	return true
}

// PieceInLayer reports whether p currently occupies the layer of center,
// solved or not.
func PieceInLayer(center, p *puzzle.Piece) bool {
	for _, s := range p.Stickers {
		if AlignedToCenter(center, s, true) {
			return true
		}
	}
	return false
}

// PiecesCorrectlyRelated reports whether a and b share exactly two colors
// and their stickers of each shared color point the same way.
func PiecesCorrectlyRelated(a, b *puzzle.Piece) bool {
	shared := 0
	for _, sa := range a.Stickers {
		if sa.Blank() {
			continue
		}
		sb, ok := b.Sticker(sa.Color)
		if !ok {
			continue
		}
		shared++
		if !sa.Orientation.ApproxEqual(sb.Orientation) {
			return false
		}
	}
	return shared == 2
}

// SharedColors returns the colors present on both pieces.
func SharedColors(a, b *puzzle.Piece) []puzzle.Color {
	var out []puzzle.Color
	for _, c := range a.Colors() {
		if b.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// ColorsSubset reports whether every color of a is also a color of b.
func ColorsSubset(a, b *puzzle.Piece) bool {
	for _, c := range a.Colors() {
		if !b.Contains(c) {
			return false
		}
	}
	return true
}

// Opposite returns the center whose orientation cancels v.
func Opposite(centers []*puzzle.Piece, v puzzle.Vec) *puzzle.Piece {
	for _, p := range centers {
		s, ok := centerSticker(p)
		if ok && s.Orientation.Add(v).IsZero() {
			return p
		}
	}
	return nil
}

// Orientation returns the direction the center faces.
func Orientation(center *puzzle.Piece) puzzle.Vec {
	s, _ := centerSticker(center)
	return s.Orientation
}

// Color returns the center's color.
func Color(center *puzzle.Piece) puzzle.Color {
	s, _ := centerSticker(center)
	return s.Color
}
