package reconstruct

import (
	"context"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algdb"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/geom"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/timeline"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// Block is a solved 1x2x3 block against a side center.
type Block struct {
	Center     *puzzle.Piece
	SideVector puzzle.Vec
	SideColor  puzzle.Color
	DownVector puzzle.Vec
	DownColor  puzzle.Color
	Corners    [2]*puzzle.Piece
	Edges      []*puzzle.Piece
}

// BlockPair is two blocks on opposite sides sharing a down face.
type BlockPair struct {
	First  Block
	Second Block
}

// RouxStatus is the full Roux diagnosis of a cube. The flags after Pair
// describe the last-layer state relative to Pair and are all false without one.
type RouxStatus struct {
	Stage     RouxStage
	Blocks    []Block
	Pair      *BlockPair
	UpColor   puzzle.Color
	CO        bool
	CP        bool
	EO        bool
	ULUR      bool
	EP        bool
	Completed bool
}

// ComputeRouxStatus diagnoses c from its geometry alone.
//
// Every pair of opposite blocks is evaluated and the one reaching the highest
// milestone wins; ties go to the first pair found.
func ComputeRouxStatus(c *puzzle.Cube) RouxStatus {
	var st RouxStatus
	if allInPlace(c) {
		st.Completed = true
		st.Stage = RouxCompleted
	}

	st.Blocks = findBlocks(c)
	if len(st.Blocks) == 0 {
		return st
	}
	if !st.Completed {
		st.Stage = RouxBlock1
	}

	var best *RouxStatus
	for i := 0; i < len(st.Blocks); i++ {
		for j := i + 1; j < len(st.Blocks); j++ {
			a, b := st.Blocks[i], st.Blocks[j]
			if !blocksPair(a, b) {
				continue
			}
			cand := evaluatePair(c, BlockPair{First: a, Second: b})
			if best == nil || cand.Stage > best.Stage {
				best = &cand
			}
		}
	}
	if best == nil {
		return st
	}

	best.Blocks = st.Blocks
	best.Completed = st.Completed
	if st.Completed {
		best.Stage = RouxCompleted
	}
	return *best
}

// findBlocks returns every block on every center.
func findBlocks(c *puzzle.Cube) []Block {
	var out []Block
	for _, center := range c.Centers() {
		color := geom.Color(center)

		var facing []*puzzle.Piece
		for _, corner := range c.Corners() {
			if s, ok := corner.Sticker(color); ok && geom.AlignedToCenter(center, s, false) {
				facing = append(facing, corner)
			}
		}

		for i := 0; i < len(facing); i++ {
			for j := i + 1; j < len(facing); j++ {
				a, b := facing[i], facing[j]
				if !geom.PiecesCorrectlyRelated(a, b) {
					continue
				}
				ea := blockEdges(center, color, a, c.Edges())
				eb := blockEdges(center, color, b, c.Edges())
				if len(ea) < 2 || len(eb) < 2 {
					continue
				}

				var down puzzle.Color
				for _, sc := range geom.SharedColors(a, b) {
					if sc != color {
						down = sc
					}
				}
				ds, ok := a.Sticker(down)
				if !ok {
					continue
				}

				out = append(out, Block{
					Center:     center,
					SideVector: geom.Orientation(center),
					SideColor:  color,
					DownVector: ds.Orientation,
					DownColor:  down,
					Corners:    [2]*puzzle.Piece{a, b},
					Edges:      mergeEdges(ea, eb),
				})
			}
		}
	}
	return out
}

// blockEdges returns the edges facing center that sit correctly next to corner.
func blockEdges(center *puzzle.Piece, color puzzle.Color, corner *puzzle.Piece, edges []*puzzle.Piece) []*puzzle.Piece {
	var out []*puzzle.Piece
	for _, e := range edges {
		s, ok := e.Sticker(color)
		if !ok || !geom.AlignedToCenter(center, s, false) {
			continue
		}
		if geom.PiecesCorrectlyRelated(e, corner) {
			out = append(out, e)
		}
	}
	return out
}

func mergeEdges(a, b []*puzzle.Piece) []*puzzle.Piece {
	out := append([]*puzzle.Piece{}, a...)
	for _, e := range b {
		if !containsPiece(out, e) {
			out = append(out, e)
		}
	}
	return out
}

func containsPiece(ps []*puzzle.Piece, p *puzzle.Piece) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func blocksPair(a, b Block) bool {
	return a.DownColor == b.DownColor &&
		a.DownVector.ApproxEqual(b.DownVector) &&
		a.SideVector.Add(b.SideVector).IsZero()
}

// evaluatePair checks the last-layer milestones against one block pair.
func evaluatePair(c *puzzle.Cube, pair BlockPair) RouxStatus {
	st := RouxStatus{Stage: RouxBlock2, Pair: &pair}
	down := pair.First.DownVector

	var blockPieces []*puzzle.Piece
	for _, b := range []Block{pair.First, pair.Second} {
		blockPieces = append(blockPieces, b.Corners[:]...)
		blockPieces = append(blockPieces, b.Edges...)
	}

	var corners, edges []*puzzle.Piece
	for _, p := range c.Corners() {
		if !containsPiece(blockPieces, p) {
			corners = append(corners, p)
		}
	}
	for _, p := range c.Edges() {
		if !containsPiece(blockPieces, p) {
			edges = append(edges, p)
		}
	}

	st.UpColor = commonColor(corners)
	if st.UpColor == puzzle.Blank {
		return st
	}

	st.CO = cornersOriented(corners, st.UpColor, down)
	st.CP = cornersPermuted(corners)
	st.EO = edgesOriented(edges, st.UpColor, pair.First.DownColor, down)
	st.ULUR = true
	for _, b := range []Block{pair.First, pair.Second} {
		if !edgeSeated(c, st.UpColor, b.SideColor) {
			st.ULUR = false
		}
	}
	st.EP = true
	for _, e := range edges {
		if relatedCorners(c.Corners(), e) < 2 {
			st.EP = false
		}
	}

	// Milestones are taken in order; the first failure stops the climb.
	for _, step := range []struct {
		ok    bool
		stage RouxStage
	}{
		{st.CO, RouxCO},
		{st.CP, RouxCP},
		{st.EO, RouxEO},
		{st.ULUR, RouxULUR},
		{st.EP, RouxEP},
	} {
		if !step.ok {
			break
		}
		st.Stage = step.stage
	}
	return st
}

// commonColor returns the one color every piece carries, or Blank.
func commonColor(ps []*puzzle.Piece) puzzle.Color {
	if len(ps) == 0 {
		return puzzle.Blank
	}
	for _, col := range ps[0].Colors() {
		shared := true
		for _, p := range ps[1:] {
			if !p.Contains(col) {
				shared = false
				break
			}
		}
		if shared {
			return col
		}
	}
	return puzzle.Blank
}

func cornersOriented(corners []*puzzle.Piece, up puzzle.Color, down puzzle.Vec) bool {
	for _, p := range corners {
		s, ok := p.Sticker(up)
		if !ok || !s.Orientation.Add(down).IsZero() {
			return false
		}
	}
	return true
}

// cornersPermuted reports whether each corner sits correctly next to two others.
func cornersPermuted(corners []*puzzle.Piece) bool {
	for _, p := range corners {
		n := 0
		for _, q := range corners {
			if p != q && geom.PiecesCorrectlyRelated(p, q) {
				n++
			}
		}
		if n != 2 {
			return false
		}
	}
	return true
}

// edgesOriented reports whether every edge's up or down sticker lies on the
// down axis.
func edgesOriented(edges []*puzzle.Piece, up, downColor puzzle.Color, down puzzle.Vec) bool {
	for _, e := range edges {
		s, ok := e.Sticker(up)
		if !ok {
			s, ok = e.Sticker(downColor)
		}
		if !ok {
			return false
		}
		if s.Orientation.Cross(down).Abs() >= puzzle.Epsilon {
			return false
		}
	}
	return true
}

// edgeSeated reports whether the edge of colors a and b sits correctly between two corners.
func edgeSeated(c *puzzle.Cube, a, b puzzle.Color) bool {
	for _, e := range c.Edges() {
		if e.Contains(a) && e.Contains(b) {
			return relatedCorners(c.Corners(), e) >= 2
		}
	}
	return false
}

func relatedCorners(corners []*puzzle.Piece, e *puzzle.Piece) int {
	n := 0
	for _, p := range corners {
		if geom.PiecesCorrectlyRelated(e, p) {
			n++
		}
	}
	return n
}

// RouxAnalyzer follows a solve through the Roux milestones.
type RouxAnalyzer struct {
	eng *engine[RouxStatus]
}

// NewRouxAnalyzer creates an analyzer seeded with facelet.
func NewRouxAnalyzer(facelet string, opts ...Option) (*RouxAnalyzer, error) {
	eng, err := newEngine(MethodRoux, facelet, newConfig(opts), ComputeRouxStatus,
		func(s RouxStatus) Stage { return s.Stage })
	if err != nil {
		return nil, err
	}
	return &RouxAnalyzer{eng: eng}, nil
}

// Method implements Analyzer.
func (a *RouxAnalyzer) Method() Method { return MethodRoux }

// Reseed discards all progress and starts over from facelet.
func (a *RouxAnalyzer) Reseed(facelet string) error { return a.eng.seed(facelet) }

// Feed applies a move made at timestamp ms. Timestamps must not decrease.
func (a *RouxAnalyzer) Feed(m puzzle.Move, timestamp int64) { a.eng.feed(m, timestamp) }

// Stage returns the stage of the current cube.
func (a *RouxAnalyzer) Stage() Stage { return a.eng.status.Stage }

// HighestStage returns the highest stage recorded on the timeline.
func (a *RouxAnalyzer) HighestStage() Stage { return a.eng.timeline.Current().Stage }

// Status returns the diagnosis of the current cube.
func (a *RouxAnalyzer) Status() RouxStatus { return a.eng.status }

// Initial returns the diagnosis of the seeded cube.
func (a *RouxAnalyzer) Initial() RouxStatus {
	s, _ := a.eng.timeline.Initial()
	return s
}

// Timeline returns the recorded timeline.
func (a *RouxAnalyzer) Timeline() *timeline.Timeline[RouxStatus] { return a.eng.timeline }

// Cube returns a copy of the current cube.
func (a *RouxAnalyzer) Cube() *puzzle.Cube { return a.eng.cube.Clone() }

// DetectCMLL names the CMLL case seen when the second block was first completed.
func (a *RouxAnalyzer) DetectCMLL(ctx context.Context) (*algmatch.Algorithm, error) {
	for _, snap := range a.eng.timeline.Snapshots() {
		if snap.Status.Stage != RouxBlock2 || snap.Status.Pair == nil {
			continue
		}
		return a.eng.match(ctx, algdb.KeyCMLL, algmatch.ModeCMLL, snap.Facelet, snap.Status.Pair.First.DownVector)
	}
	return nil, nil
}

// Analysis attributes the solve's time to the two blocks, CMLL and LSE.
func (a *RouxAnalyzer) Analysis(ctx context.Context, totalTime float64) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := a.eng.report(rouxBuckets, totalTime)
	if !a.eng.cfg.matching {
		return r, nil
	}

	cmll, err := a.DetectCMLL(ctx)
	if err != nil {
		a.eng.log().WithError(err).Warn("CMLL recognition failed")
	}
	r.Steps[2].setAlgorithm(cmll)
	return r, nil
}
