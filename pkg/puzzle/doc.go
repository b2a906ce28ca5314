// Package puzzle models a 3x3x3 cube as 26 pieces whose stickers carry
// outward orientation vectors.
//
// Moves rotate piece positions and sticker orientations with quaternions, so
// every piece keeps its identity through a solve. That is what lets the
// reconstruction engine ask geometric questions such as "is this edge aligned
// to that center" or "are these two pieces solved relative to each other".
//
//	c, _ := puzzle.FromScramble("R U R' U'")
//	c.Apply(puzzle.Move{Layer: puzzle.LayerU, Turn: puzzle.CW})
//	fmt.Println(c.Facelet())
//
// Facelet strings use face order U, R, F, D, L, B with nine stickers per face
// in row-major order.
package puzzle
