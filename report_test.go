package reconstruct

import (
	"math"
	"math/rand"
	"testing"

	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

func movesN(n int) []types.Move {
	out := make([]types.Move, n)
	for i := range out {
		out[i] = types.Move{Notation: "R", Timestamp: int64(i)}
	}
	return out
}

func TestAttributeRescale(t *testing.T) {
	spans := []span{
		{target: CFOPCross.Rank(), moves: movesN(3), elapsed: 10},
		{target: CFOPPair1.Rank(), moves: movesN(4), elapsed: 20},
		{target: CFOPPLL.Rank(), moves: movesN(5), elapsed: 30},
		{target: CFOPCompleted.Rank(), moves: movesN(6), elapsed: 40},
	}

	r := attribute(cfopBuckets, spans, 200)

	if r.Factor != 2 {
		t.Errorf("factor: got %v, want 2", r.Factor)
	}
	wantTimes := []float64{20, 40, 60, 80}
	wantPercents := []int{10, 20, 30, 40}
	for i, s := range r.Steps {
		if math.Abs(s.Time-wantTimes[i]) > 1e-9 {
			t.Errorf("step %s time: got %v, want %v", s.Name, s.Time, wantTimes[i])
		}
		if s.Percent != wantPercents[i] {
			t.Errorf("step %s percent: got %d, want %d", s.Name, s.Percent, wantPercents[i])
		}
	}
	if r.TotalTime != 200 {
		t.Errorf("total: got %v, want 200", r.TotalTime)
	}

	f2l := r.Steps[1]
	if len(f2l.SubSteps) != 4 {
		t.Fatalf("F2L should have 4 sub-steps, got %d", len(f2l.SubSteps))
	}
	if f2l.SubSteps[0].Percent != 100 || f2l.SubSteps[0].MoveCount != 4 {
		t.Errorf("pair 1: %+v", f2l.SubSteps[0])
	}
	for _, sub := range f2l.SubSteps[1:] {
		if !sub.Skip {
			t.Errorf("%s should be skipped", sub.Name)
		}
	}
	if r.Steps[0].SubSteps != nil {
		t.Error("single-slot buckets should not list sub-steps")
	}
}

func TestAttributeNoTotal(t *testing.T) {
	spans := []span{
		{target: RouxBlock1.Rank(), moves: movesN(8), elapsed: 3000},
		{target: RouxBlock2.Rank(), moves: movesN(10), elapsed: 4000},
	}
	r := attribute(rouxBuckets, spans, 0)

	if r.Factor != 1 {
		t.Errorf("factor: got %v, want 1", r.Factor)
	}
	if r.TotalTime != 7000 {
		t.Errorf("total: got %v, want 7000", r.TotalTime)
	}
	if r.Steps[0].Percent != 43 || r.Steps[1].Percent != 57 {
		t.Errorf("percents: %d %d", r.Steps[0].Percent, r.Steps[1].Percent)
	}
	if !r.Steps[2].Skip || !r.Steps[3].Skip {
		t.Error("CMLL and LSE should be skipped")
	}
}

func TestAttributeEmpty(t *testing.T) {
	for _, defs := range [][]bucketDef{cfopBuckets, rouxBuckets} {
		r := attribute(defs, nil, 12000)

		if len(r.Steps) != 4 {
			t.Fatalf("expected 4 steps, got %d", len(r.Steps))
		}
		if r.Factor != 1 {
			t.Errorf("factor: got %v, want 1", r.Factor)
		}
		for _, s := range r.Steps {
			if !s.Skip || s.Percent != 0 || s.Time != 0 || s.MoveCount != 0 {
				t.Errorf("step %s should be an empty skip: %+v", s.Name, s)
			}
			if math.IsNaN(s.Time) || math.IsInf(s.Time, 0) {
				t.Errorf("step %s time is not finite", s.Name)
			}
		}
	}
}

func TestAttributeMergedSlots(t *testing.T) {
	// A span that reaches OLL directly still finishes F2L.
	spans := []span{
		{target: CFOPOLL.Rank(), moves: movesN(30), elapsed: 9000},
	}
	r := attribute(cfopBuckets, spans, 0)
	if r.Steps[1].Percent != 100 || r.Steps[1].SubSteps[3].MoveCount != 30 {
		t.Errorf("F2L: %+v", r.Steps[1])
	}
}

func TestPercentSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ranks := []int{
		CFOPCross.Rank(), CFOPPair1.Rank(), CFOPPair2.Rank(), CFOPPair3.Rank(),
		CFOPOLL.Rank(), CFOPPLL.Rank(), CFOPCompleted.Rank(),
	}

	for trial := 0; trial < 200; trial++ {
		var spans []span
		for _, rk := range ranks {
			if rng.Intn(3) == 0 {
				continue
			}
			spans = append(spans, span{
				target:  rk,
				moves:   movesN(1 + rng.Intn(12)),
				elapsed: 1 + rng.Int63n(5000),
			})
		}
		if len(spans) == 0 {
			continue
		}

		r := attribute(cfopBuckets, spans, float64(rng.Intn(60000)))
		if got := percentSum(r.Steps); got != 100 {
			t.Fatalf("trial %d: top-level percents sum to %d", trial, got)
		}
		checkSubStepPercents(t, r)
	}
}

// checkSubStepPercents fails when a listed breakdown does not sum to 100.
func checkSubStepPercents(t *testing.T, r *Report) {
	t.Helper()
	for _, s := range r.Steps {
		if s.SubSteps == nil {
			continue
		}
		if s.Time <= 0 {
			t.Errorf("%s lists sub-steps without any time", s.Name)
		}
		if got := percentSum(s.SubSteps); got != 100 {
			t.Errorf("%s sub-steps sum to %d", s.Name, got)
		}
	}
}

func TestAttributeZeroTimeBucket(t *testing.T) {
	spans := []span{
		{target: CFOPCross.Rank(), moves: movesN(5), elapsed: 1200},
		{target: CFOPPLL.Rank(), moves: movesN(7), elapsed: 1800},
	}
	r := attribute(cfopBuckets, spans, 0)

	f2l := r.Steps[1]
	if f2l.Percent != 0 || !f2l.Skip {
		t.Errorf("F2L should be an empty skip: %+v", f2l)
	}
	if f2l.SubSteps != nil {
		t.Errorf("F2L took no time but lists %d sub-steps", len(f2l.SubSteps))
	}
	checkSubStepPercents(t, r)
}

func TestFedSolveSubStepPercents(t *testing.T) {
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg), WithAlgorithmMatching(false))
	if err != nil {
		t.Fatal(err)
	}
	feedSeq(t, a, suneAlg, 0, 150)
	if a.Stage() != CFOPCompleted {
		t.Fatalf("stage: got %v, want completed", a.Stage())
	}

	r, err := a.Analysis(t.Context(), 1500)
	if err != nil {
		t.Fatal(err)
	}
	if r.Steps[1].SubSteps != nil {
		t.Errorf("F2L: %+v", r.Steps[1])
	}
	if got := percentSum(r.Steps); got != 100 {
		t.Errorf("top-level percents sum to %d", got)
	}
	checkSubStepPercents(t, r)
}

func percentSum(steps []Step) int {
	sum := 0
	for _, s := range steps {
		sum += s.Percent
	}
	return sum
}

func TestReportExtras(t *testing.T) {
	a, err := NewCFOPAnalyzer(stateAfter(t, antisuneAlg), WithAlgorithmMatching(false), WithPauseThreshold(1000))
	if err != nil {
		t.Fatal(err)
	}
	// R R' cancels, and the gap before the third move is a pause.
	for i, tok := range []string{"R", "R'", "U"} {
		ts := int64(i * 100)
		if i == 2 {
			ts = 2000
		}
		if err := FeedToken(a, tok, ts); err != nil {
			t.Fatal(err)
		}
	}

	r, err := a.Analysis(t.Context(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.MoveCount != 3 || r.OptimizedMoves != 1 {
		t.Errorf("moves: got %d/%d, want 3/1", r.MoveCount, r.OptimizedMoves)
	}
	if r.PauseCount != 1 || r.LongestPauseMs != 1900 {
		t.Errorf("pauses: got %d longest %d", r.PauseCount, r.LongestPauseMs)
	}
}
