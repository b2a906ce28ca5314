package reconstruct

import (
	"context"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algdb"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/geom"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/timeline"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// CrossResult is one solved cross.
type CrossResult struct {
	FaceVector puzzle.Vec
	Color      puzzle.Color
}

// Pair is a solved F2L corner with its edge.
type Pair struct {
	Corner *puzzle.Piece
	Edge   *puzzle.Piece
}

// CrossPairs holds the solved pairs beside one cross.
type CrossPairs struct {
	Cross CrossResult
	Pairs []Pair
}

// F2LResult lists the pairs of every cross. Total is the pair count of the
// best cross.
type F2LResult struct {
	Total int
	Pairs []CrossPairs
}

// CFOPStatus is the full CFOP diagnosis of a cube.
//
// The flags form a chain: Completed implies PLL, PLL implies OLL and OLL
// implies at least one cross.
type CFOPStatus struct {
	Stage     CFOPStage
	Cross     []CrossResult
	F2L       F2LResult
	OLL       bool
	PLL       bool
	AUF       bool
	Completed bool

	// Primary is the cross with the most pairs, nil when there is no cross.
	// Its face is the bottom for last-layer recognition.
	Primary *CrossResult
}

// ComputeCFOPStatus diagnoses c from its geometry alone.
func ComputeCFOPStatus(c *puzzle.Cube) CFOPStatus {
	centers := c.Centers()

	var st CFOPStatus
	st.Cross = findCrosses(centers, c.Edges())
	if len(st.Cross) == 0 {
		st.Stage = CFOPScrambled
		return st
	}

	best := 0
	st.F2L, best = findPairs(centers, c.Corners(), c.Edges(), st.Cross)
	primary := st.Cross[best]
	st.Primary = &primary

	switch {
	case st.F2L.Total == 0:
		st.Stage = CFOPCross
		return st
	case st.F2L.Total < 4:
		st.Stage = CFOPCross + CFOPStage(st.F2L.Total)
		return st
	}

	top := geom.Opposite(centers, primary.FaceVector)
	if top == nil {
		st.Stage = CFOPOLL
		return st
	}
	layer := piecesInLayer(c, top)

	st.OLL = lastLayerOriented(top, layer)
	if !st.OLL {
		st.Stage = CFOPOLL
		return st
	}

	st.PLL = lastLayerPermuted(layer)
	st.Completed = st.PLL && allInPlace(c)
	st.AUF = st.PLL && !st.Completed

	if st.Completed {
		st.Stage = CFOPCompleted
	} else {
		st.Stage = CFOPPLL
	}
	return st
}

// findCrosses returns every center whose four edges are solved.
func findCrosses(centers, edges []*puzzle.Piece) []CrossResult {
	var out []CrossResult
	for _, center := range centers {
		var found []*puzzle.Piece
		for _, e := range edges {
			for _, s := range e.Stickers {
				if geom.AlignedToCenter(center, s, false) {
					found = append(found, e)
					break
				}
			}
		}
		if len(found) != 4 {
			continue
		}

		solved := true
		for _, e := range found {
			if !geom.PieceInPlace(centers, e) {
				solved = false
				break
			}
		}
		if solved {
			out = append(out, CrossResult{
				FaceVector: geom.Orientation(center),
				Color:      geom.Color(center),
			})
		}
	}
	return out
}

// findPairs groups solved corner and edge pairs by cross. It also returns the
// index of the first cross with the highest pair count.
func findPairs(centers, corners, edges []*puzzle.Piece, crosses []CrossResult) (F2LResult, int) {
	var candidates []Pair
	for _, corner := range corners {
		if !geom.PieceInPlace(centers, corner) {
			continue
		}
		for _, e := range edges {
			if geom.ColorsSubset(e, corner) && geom.PieceInPlace(centers, e) {
				candidates = append(candidates, Pair{Corner: corner, Edge: e})
			}
		}
	}

	res := F2LResult{Pairs: make([]CrossPairs, 0, len(crosses))}
	best := 0
	for i, cr := range crosses {
		cp := CrossPairs{Cross: cr}
		for _, p := range candidates {
			if p.Corner.Contains(cr.Color) && !p.Edge.Contains(cr.Color) {
				cp.Pairs = append(cp.Pairs, p)
			}
		}
		if len(cp.Pairs) > res.Total {
			res.Total = len(cp.Pairs)
			best = i
		}
		res.Pairs = append(res.Pairs, cp)
	}
	return res, best
}

func piecesInLayer(c *puzzle.Cube, center *puzzle.Piece) []*puzzle.Piece {
	var out []*puzzle.Piece
	for _, p := range c.Pieces() {
		if geom.PieceInLayer(center, p) {
			out = append(out, p)
		}
	}
	return out
}

// lastLayerOriented reports whether every piece of the layer shows the top
// color on the top face.
func lastLayerOriented(top *puzzle.Piece, layer []*puzzle.Piece) bool {
	for _, p := range layer {
		oriented := false
		for _, s := range p.Stickers {
			if geom.AlignedToCenter(top, s, false) {
				oriented = true
				break
			}
		}
		if !oriented {
			return false
		}
	}
	return true
}

// lastLayerPermuted reports whether the layer's stickers show one color per
// face. The layer may still be turned relative to the rest of the cube.
func lastLayerPermuted(layer []*puzzle.Piece) bool {
	seen := make(map[puzzle.Face]puzzle.Color, 5)
	for _, p := range layer {
		for _, s := range p.Colored() {
			f, ok := puzzle.FaceOf(s.Orientation)
			if !ok {
				return false
			}
			if c, ok := seen[f]; ok && c != s.Color {
				return false
			}
			seen[f] = s.Color
		}
	}
	return true
}

func allInPlace(c *puzzle.Cube) bool {
	centers := c.Centers()
	for _, p := range c.Pieces() {
		if !geom.PieceInPlace(centers, p) {
			return false
		}
	}
	return true
}

// CFOPAnalyzer follows a solve through the CFOP stages.
type CFOPAnalyzer struct {
	eng *engine[CFOPStatus]
}

// NewCFOPAnalyzer creates an analyzer seeded with facelet.
func NewCFOPAnalyzer(facelet string, opts ...Option) (*CFOPAnalyzer, error) {
	eng, err := newEngine(MethodCFOP, facelet, newConfig(opts), ComputeCFOPStatus,
		func(s CFOPStatus) Stage { return s.Stage })
	if err != nil {
		return nil, err
	}
	return &CFOPAnalyzer{eng: eng}, nil
}

// Method implements Analyzer.
func (a *CFOPAnalyzer) Method() Method { return MethodCFOP }

// Reseed discards all progress and starts over from facelet.
func (a *CFOPAnalyzer) Reseed(facelet string) error { return a.eng.seed(facelet) }

// Feed applies a move made at timestamp ms. Timestamps must not decrease.
func (a *CFOPAnalyzer) Feed(m puzzle.Move, timestamp int64) { a.eng.feed(m, timestamp) }

// Stage returns the stage of the current cube, which may be below the highest reached.
func (a *CFOPAnalyzer) Stage() Stage { return a.eng.status.Stage }

// HighestStage returns the highest stage recorded on the timeline.
func (a *CFOPAnalyzer) HighestStage() Stage { return a.eng.timeline.Current().Stage }

// Status returns the diagnosis of the current cube.
func (a *CFOPAnalyzer) Status() CFOPStatus { return a.eng.status }

// Initial returns the diagnosis of the seeded cube.
func (a *CFOPAnalyzer) Initial() CFOPStatus {
	s, _ := a.eng.timeline.Initial()
	return s
}

// Timeline returns the recorded timeline.
func (a *CFOPAnalyzer) Timeline() *timeline.Timeline[CFOPStatus] { return a.eng.timeline }

// Cube returns a copy of the current cube.
func (a *CFOPAnalyzer) Cube() *puzzle.Cube { return a.eng.cube.Clone() }

// DetectOLL names the OLL case seen when the first two layers were first
// completed. It returns nil when the solve never reached OLL or the case is
// not in the library.
func (a *CFOPAnalyzer) DetectOLL(ctx context.Context) (*algmatch.Algorithm, error) {
	return a.detect(ctx, CFOPOLL, algdb.KeyOLL, algmatch.ModeOLL)
}

// DetectPLL names the PLL case seen when the last layer was first oriented.
func (a *CFOPAnalyzer) DetectPLL(ctx context.Context) (*algmatch.Algorithm, error) {
	return a.detect(ctx, CFOPPLL, algdb.KeyPLL, algmatch.ModePLL)
}

func (a *CFOPAnalyzer) detect(ctx context.Context, stage CFOPStage, key string, mode algmatch.Mode) (*algmatch.Algorithm, error) {
	for _, snap := range a.eng.timeline.Snapshots() {
		if snap.Status.Stage != stage || snap.Status.Primary == nil {
			continue
		}
		return a.eng.match(ctx, key, mode, snap.Facelet, snap.Status.Primary.FaceVector)
	}
	return nil, nil
}

// Analysis attributes the solve's time to Cross, F2L, OLL and PLL.
// totalTime is the authoritative solve time in ms; pass 0 to keep the
// reconstructed times.
func (a *CFOPAnalyzer) Analysis(ctx context.Context, totalTime float64) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := a.eng.report(cfopBuckets, totalTime)
	if !a.eng.cfg.matching {
		return r, nil
	}

	oll, err := a.DetectOLL(ctx)
	if err != nil {
		a.eng.log().WithError(err).Warn("OLL recognition failed")
	}
	pll, err := a.DetectPLL(ctx)
	if err != nil {
		a.eng.log().WithError(err).Warn("PLL recognition failed")
	}
	r.Steps[2].setAlgorithm(oll)
	r.Steps[3].setAlgorithm(pll)
	return r, nil
}
