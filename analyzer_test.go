package reconstruct

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algdb"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

const (
	suneAlg     = "R U R' U R U2 R'"
	antisuneAlg = "R U2 R' U' R U' R'"
)

func stateAfter(t *testing.T, seq string) string {
	t.Helper()
	c := puzzle.New()
	if err := c.ApplySequence(seq); err != nil {
		t.Fatal(err)
	}
	return c.Facelet()
}

func testLibrary() *Library {
	return NewLibrary(algdb.Static{
		algdb.KeyOLL: {
			{Name: "Antisune", Moves: antisuneAlg},
			{Name: "Sune", Moves: suneAlg},
		},
		algdb.KeyPLL: {
			{Name: "T", Moves: "R U R' U' R' F R2 U' R' U' R U R' F'"},
		},
		algdb.KeyCMLL: {
			{Name: "Antisune", Moves: antisuneAlg},
			{Name: "Sune", Moves: suneAlg},
		},
	}, nil)
}

// feedSeq feeds every move of seq, one move each step ms starting at start.
func feedSeq(t *testing.T, a Analyzer, seq string, start, step int64) int64 {
	t.Helper()
	ts := start
	for _, tok := range strings.Fields(seq) {
		if err := FeedToken(a, tok, ts); err != nil {
			t.Fatal(err)
		}
		ts += step
	}
	return ts
}

func TestSolvedCFOPStatus(t *testing.T) {
	st := ComputeCFOPStatus(puzzle.New())

	if st.Stage != CFOPCompleted {
		t.Errorf("solved cube stage: got %v, want completed", st.Stage)
	}
	if !st.Completed || !st.PLL || !st.OLL {
		t.Errorf("solved cube flags: %+v", st)
	}
	if st.AUF {
		t.Error("solved cube should not need AUF")
	}
	if len(st.Cross) != 6 {
		t.Errorf("solved cube should have 6 crosses, got %d", len(st.Cross))
	}
	if st.F2L.Total != 4 {
		t.Errorf("solved cube F2L total: got %d, want 4", st.F2L.Total)
	}
}

func TestSolvedRouxStatus(t *testing.T) {
	st := ComputeRouxStatus(puzzle.New())
	if st.Stage != RouxCompleted || !st.Completed {
		t.Errorf("solved cube: got stage %v completed %v", st.Stage, st.Completed)
	}
}

func TestCrossOnly(t *testing.T) {
	b := []byte(puzzle.SolvedFacelet)
	// Flip every U edge in place.
	b[1], b[46] = 'B', 'U'
	b[3], b[37] = 'L', 'U'
	b[5], b[10] = 'R', 'U'
	b[7], b[19] = 'F', 'U'
	// Twist every D corner in place.
	b[29], b[26], b[15] = 'R', 'D', 'F'
	b[27], b[24], b[44] = 'L', 'D', 'F'
	b[33], b[42], b[53] = 'B', 'D', 'L'
	b[35], b[17], b[51] = 'B', 'D', 'R'

	c, err := puzzle.FromFacelet(string(b))
	if err != nil {
		t.Fatal(err)
	}
	st := ComputeCFOPStatus(c)

	if st.Stage != CFOPCross {
		t.Errorf("stage: got %v, want cross", st.Stage)
	}
	if st.F2L.Total != 0 {
		t.Errorf("F2L total: got %d, want 0", st.F2L.Total)
	}
	if len(st.Cross) != 1 {
		t.Fatalf("expected exactly one cross, got %d", len(st.Cross))
	}
	if st.Cross[0].Color != 'D' || !st.Cross[0].FaceVector.ApproxEqual(puzzle.VecD) {
		t.Errorf("expected the D cross, got %+v", st.Cross[0])
	}
}

func TestF2LCompleteNoOLL(t *testing.T) {
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg), WithLibrary(testLibrary()))
	if err != nil {
		t.Fatal(err)
	}

	st := a.Status()
	if st.Stage != CFOPOLL {
		t.Fatalf("stage: got %v, want oll", st.Stage)
	}
	if st.F2L.Total != 4 {
		t.Errorf("F2L total: got %d, want 4", st.F2L.Total)
	}

	oll, err := a.DetectOLL(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if oll == nil || oll.Name != "Sune" {
		t.Errorf("DetectOLL: got %v, want Sune", oll)
	}

	pll, err := a.DetectPLL(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if pll != nil {
		t.Errorf("DetectPLL should find nothing before OLL is solved, got %s", pll.Name)
	}
}

func TestDetectOLLUnknownCase(t *testing.T) {
	lib := NewLibrary(algdb.Static{
		algdb.KeyOLL: {{Name: "Sune", Moves: suneAlg}},
	}, nil)
	a, err := NewCFOPAnalyzer(stateAfter(t, "F R U R' U' F'"), WithLibrary(lib))
	if err != nil {
		t.Fatal(err)
	}
	if a.Status().Stage != CFOPOLL {
		t.Fatalf("stage: got %v, want oll", a.Status().Stage)
	}

	oll, err := a.DetectOLL(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if oll != nil {
		t.Errorf("case outside the library matched %s", oll.Name)
	}
}

func TestDetectOLLEmbeddedLibrary(t *testing.T) {
	lib := NewLibrary(algdb.Embedded(), nil)
	seed := puzzle.New()
	moves, err := puzzle.ParseMoves("F R U R' U' F'")
	if err != nil {
		t.Fatal(err)
	}
	seed.Apply(puzzle.Invert(moves)...)

	a, err := NewCFOPAnalyzer(seed.Facelet(), WithLibrary(lib))
	if err != nil {
		t.Fatal(err)
	}
	oll, err := a.DetectOLL(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if oll == nil || oll.Name != "OLL 45 T" {
		t.Errorf("DetectOLL: got %v, want OLL 45 T", oll)
	}
}

func TestOLLToCompletion(t *testing.T) {
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg), WithLibrary(testLibrary()))
	if err != nil {
		t.Fatal(err)
	}
	feedSeq(t, a, suneAlg, 1000, 200)

	if a.Stage() != CFOPCompleted {
		t.Fatalf("stage after Sune: got %v, want completed", a.Stage())
	}

	r, err := a.Analysis(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(r.Steps))
	}

	sum := 0
	for _, s := range r.Steps {
		sum += s.Percent
	}
	if sum != 100 {
		t.Errorf("percentages sum to %d", sum)
	}

	if r.MoveCount != 7 {
		t.Errorf("move count: got %d, want 7", r.MoveCount)
	}
	// Six moves in, the cube is one R turn from solved, which reads as PLL
	// with an AUF on the L cross. The last move completes it.
	if r.Steps[2].MoveCount != 6 || r.Steps[3].MoveCount != 1 {
		t.Errorf("OLL/PLL moves: got %d/%d, want 6/1", r.Steps[2].MoveCount, r.Steps[3].MoveCount)
	}
	if r.Steps[2].Percent != 87 || r.Steps[3].Percent != 13 {
		t.Errorf("OLL/PLL percents: got %d/%d, want 87/13", r.Steps[2].Percent, r.Steps[3].Percent)
	}
	// 300 ms first-move adjustment plus six 200 ms gaps.
	if r.TotalTime != 1500 {
		t.Errorf("total time: got %v, want 1500", r.TotalTime)
	}
	if r.Steps[2].Algorithm == nil || *r.Steps[2].Algorithm != "Sune" {
		t.Errorf("OLL step algorithm: %v", r.Steps[2].Algorithm)
	}
	if !r.Steps[0].Skip || !r.Steps[1].Skip {
		t.Error("cross and F2L should be skipped")
	}
}

func TestOpenTailCreditsNextStage(t *testing.T) {
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg), WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	feedSeq(t, a, "F F'", 0, 100)

	r, err := a.Analysis(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Steps[2].MoveCount != 2 {
		t.Errorf("OLL bucket should hold the unfinished moves, got %+v", r.Steps[2])
	}
	if r.Steps[2].Percent != 100 {
		t.Errorf("OLL percent: got %d, want 100", r.Steps[2].Percent)
	}
}

func TestPLLWithAUF(t *testing.T) {
	c := puzzle.New()
	c.Apply(puzzle.Move{Layer: puzzle.LayerR, Turn: puzzle.CW})

	st := ComputeCFOPStatus(c)
	if st.Stage != CFOPPLL {
		t.Errorf("stage: got %v, want pll", st.Stage)
	}
	if !st.OLL || !st.PLL || !st.AUF || st.Completed {
		t.Errorf("flags: oll=%v pll=%v auf=%v completed=%v", st.OLL, st.PLL, st.AUF, st.Completed)
	}

	// Seen from L as the down face, R is only an unfinished top-layer turn.
	rs := ComputeRouxStatus(c)
	if rs.Stage != RouxEP {
		t.Errorf("roux stage: got %v, want ep", rs.Stage)
	}
	if rs.Pair == nil || rs.Pair.First.DownColor != 'L' {
		t.Errorf("roux pair should stand on L, got %+v", rs.Pair)
	}
}

func TestCFOPFlagChain(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	layers := []puzzle.Layer{puzzle.LayerR, puzzle.LayerL, puzzle.LayerU, puzzle.LayerD, puzzle.LayerF, puzzle.LayerB}
	turns := []puzzle.Turn{puzzle.CW, puzzle.CCW, puzzle.Double}

	c := puzzle.New()
	for i := 0; i < 300; i++ {
		c.Apply(puzzle.Move{Layer: layers[rng.Intn(len(layers))], Turn: turns[rng.Intn(len(turns))]})
		st := ComputeCFOPStatus(c)

		if st.Completed && !st.PLL {
			t.Fatalf("step %d: completed without pll", i)
		}
		if st.PLL && !st.OLL {
			t.Fatalf("step %d: pll without oll", i)
		}
		if st.OLL && len(st.Cross) == 0 {
			t.Fatalf("step %d: oll without a cross", i)
		}
	}
}

func TestRouxSecondBlock(t *testing.T) {
	a, err := NewRouxAnalyzer(stateAfter(t, antisuneAlg), WithLibrary(testLibrary()))
	if err != nil {
		t.Fatal(err)
	}

	st := a.Status()
	if st.Stage != RouxBlock2 {
		t.Fatalf("stage: got %v, want block2", st.Stage)
	}
	if st.CO {
		t.Error("corners should not be oriented")
	}
	if st.UpColor != 'U' {
		t.Errorf("up color: got %v, want U", st.UpColor)
	}

	cmll, err := a.DetectCMLL(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cmll == nil || cmll.Name != "Sune" {
		t.Errorf("DetectCMLL: got %v, want Sune", cmll)
	}
}

func TestRouxLastSixEdges(t *testing.T) {
	a, err := NewRouxAnalyzer(stateAfter(t, "U"), WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	if a.Stage() != RouxEP {
		t.Fatalf("stage with an unfinished AUF: got %v, want ep", a.Stage())
	}

	feedSeq(t, a, "U'", 0, 100)
	if a.Stage() != RouxCompleted {
		t.Errorf("stage: got %v, want completed", a.Stage())
	}

	r, err := a.Analysis(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	lse := r.Steps[3]
	if lse.MoveCount != 1 || len(lse.SubSteps) != 3 {
		t.Fatalf("LSE step: %+v", lse)
	}
	if lse.SubSteps[2].MoveCount != 1 || lse.SubSteps[2].Percent != 100 {
		t.Errorf("EP sub-step: %+v", lse.SubSteps[2])
	}
}

func TestRouxMiddleStages(t *testing.T) {
	tests := []struct {
		name  string
		setup string
		want  RouxStage
	}{
		{"corners oriented", "x R' U R' D2 R U' R' D2 R2 x'", RouxCO},
		{"corners permuted", "M' U M", RouxCP},
		{"edges oriented", "U M2 U'", RouxEO},
		{"UL and UR placed", "M' U2 M U2", RouxULUR},
		{"unfinished AUF", "U", RouxEP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := puzzle.New()
			if err := c.ApplySequence(tt.setup); err != nil {
				t.Fatal(err)
			}
			st := ComputeRouxStatus(c)
			if st.Stage != tt.want {
				t.Errorf("stage: got %v, want %v", st.Stage, tt.want)
			}
			if st.Completed {
				t.Error("should not be completed")
			}
		})
	}
}

func TestRouxFedLastLayer(t *testing.T) {
	// CMLL (Sune, then an A-perm) followed by LSE.
	solution := "R U R' U R U2 R' x R' U R' D2 R U' R' D2 R2 x' M' U M U M2 U' M' U2 M U2"
	scramble := "U2 M' U2 M U M2 U' M' U' M x R2 D2 R U R' D2 R U' R x' R U2 R' U' R U' R'"

	var reached []Stage
	a, err := NewRouxAnalyzer(stateAfter(t, scramble),
		WithAlgorithmMatching(false),
		WithStageCallback(func(s Stage, _ string) { reached = append(reached, s) }))
	if err != nil {
		t.Fatal(err)
	}
	if a.Stage() != RouxBlock2 {
		t.Fatalf("initial stage: got %v, want block2", a.Stage())
	}

	feedSeq(t, a, solution, 0, 100)

	want := []Stage{RouxCO, RouxCP, RouxEO, RouxULUR, RouxEP, RouxCompleted}
	if len(reached) != len(want) {
		t.Fatalf("stages reached: got %v, want %v", reached, want)
	}
	for i := range want {
		if reached[i] != want[i] {
			t.Errorf("bump %d: got %v, want %v", i, reached[i], want[i])
		}
	}

	r, err := a.Analysis(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	wantMoves := map[string][]int{
		"CMLL": {7, 10},
		"LSE":  {4, 2, 5},
	}
	for _, step := range r.Steps[2:] {
		counts := wantMoves[step.Name]
		if len(step.SubSteps) != len(counts) {
			t.Fatalf("%s sub-steps: %+v", step.Name, step.SubSteps)
		}
		for i, sub := range step.SubSteps {
			if sub.Skip || sub.MoveCount != counts[i] {
				t.Errorf("%s/%s: skip=%v moves=%d, want %d", step.Name, sub.Name, sub.Skip, sub.MoveCount, counts[i])
			}
		}
	}
	if !r.Steps[0].Skip || !r.Steps[1].Skip {
		t.Error("both blocks were already built")
	}
	checkSubStepPercents(t, r)
}

func TestMonotonicTimeline(t *testing.T) {
	scramble := "R U R' U' F2 D L' B2 R D' F U2 L"
	moves, err := puzzle.ParseMoves(scramble)
	if err != nil {
		t.Fatal(err)
	}

	a, err := NewCFOPAnalyzer(stateAfter(t, scramble), WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range puzzle.Invert(moves) {
		a.Feed(m, int64(i*150))
	}

	entries := a.Timeline().Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Status.Stage < entries[i-1].Status.Stage {
			t.Errorf("entry %d regressed from %v to %v", i, entries[i-1].Status.Stage, entries[i].Status.Stage)
		}
	}
	if a.HighestStage() != CFOPCompleted {
		t.Errorf("highest stage: got %v, want completed", a.HighestStage())
	}
}

func TestReseedIdempotent(t *testing.T) {
	scrambled := stateAfter(t, "R U2 F' L D B")
	a, err := NewRouxAnalyzer(scrambled, WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	first := a.Initial()

	feedSeq(t, a, "R U R'", 0, 100)
	if err := a.Reseed(scrambled); err != nil {
		t.Fatal(err)
	}

	if a.Initial().Stage != first.Stage {
		t.Errorf("initial stage changed: %v then %v", first.Stage, a.Initial().Stage)
	}
	entries := a.Timeline().Entries()
	if len(entries) != 1 || len(entries[0].Moves) != 0 {
		t.Errorf("reseeded timeline should be a single empty entry, got %d entries", len(entries))
	}
	if a.Cube().Facelet() != scrambled {
		t.Error("reseed did not restore the cube")
	}
}

func TestStageCallback(t *testing.T) {
	var got []string
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg),
		WithAlgorithmMatching(false),
		WithStageCallback(func(stage Stage, key string) {
			got = append(got, key)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	feedSeq(t, a, suneAlg, 0, 100)

	if len(got) != 2 || got[0] != "pll" || got[1] != "completed" {
		t.Errorf("callbacks: got %v, want [pll completed]", got)
	}
}

func TestNewAnalyzerErrors(t *testing.T) {
	if _, err := NewAnalyzer("zz", puzzle.SolvedFacelet); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("unknown method: got %v", err)
	}
	if _, err := NewAnalyzer(MethodCFOP, "UUU", WithAlgorithmMatching(false)); !errors.Is(err, ErrInvalidFacelet) {
		t.Errorf("short facelet: got %v", err)
	}

	a, err := NewAnalyzer(MethodRoux, puzzle.SolvedFacelet, WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	if err := FeedToken(a, "Q", 0); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("bad token: got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"cfop", MethodCFOP, true},
		{"Roux", MethodRoux, true},
		{" CFOP ", MethodCFOP, true},
		{"zz", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSameSolveBothMethods(t *testing.T) {
	seed := stateAfter(t, antisuneAlg)
	cfop, err := NewCFOPAnalyzer(seed, WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	roux, err := NewRouxAnalyzer(seed, WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range []Analyzer{cfop, roux} {
		feedSeq(t, a, suneAlg, 0, 100)
		r, err := a.Analysis(context.Background(), 2000)
		if err != nil {
			t.Fatal(err)
		}
		if r.TotalTime != 2000 {
			t.Errorf("%s total: got %v, want 2000", a.Method(), r.TotalTime)
		}
		var sum float64
		for _, s := range r.Steps {
			sum += s.Time
		}
		if sum < 1999.999 || sum > 2000.001 {
			t.Errorf("%s step times sum to %v", a.Method(), sum)
		}
	}
}
