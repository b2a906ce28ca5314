package stats

import (
	"math"
	"testing"

	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		in   []float64
		want []int
	}{
		{[]float64{20, 40, 60, 80}, []int{10, 20, 30, 40}},
		{[]float64{1, 1, 1}, []int{33, 34, 33}},
		{[]float64{1, 0, 0}, []int{100, 0, 0}},
		{[]float64{0, 0}, []int{0, 0}},
		{nil, []int{}},
	}

	for _, tt := range tests {
		got := Percentages(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Percentages(%v) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Percentages(%v) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestPercentagesAlwaysSumTo100(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 3, 4, 5, 6, 7},
		{0.1, 0.1, 0.1, 99.7},
		{333, 333, 334},
		{1e-3, 5e5, 17, 17, 17},
		{2, 3, 5, 7, 11, 13, 17, 19, 23},
	}

	for _, in := range inputs {
		if got := sum(Percentages(in)); got != 100 {
			t.Errorf("Percentages(%v) sums to %d", in, got)
		}
	}
}

func TestRescale(t *testing.T) {
	got, factor := Rescale([]float64{10, 20, 30, 40}, 200)
	if factor != 2 {
		t.Errorf("factor = %v, want 2", factor)
	}
	want := []float64{20, 40, 60, 80}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Rescale = %v, want %v", got, want)
			break
		}
	}

	if pct := Percentages(got); pct[0] != 10 || pct[1] != 20 || pct[2] != 30 || pct[3] != 40 {
		t.Errorf("percentages of rescaled = %v", pct)
	}
}

func TestRescaleGuards(t *testing.T) {
	if f := RescaleFactor(0, 500); f != 1 {
		t.Errorf("zero sum factor = %v, want 1", f)
	}
	if f := RescaleFactor(100, 0); f != 1 {
		t.Errorf("missing total factor = %v, want 1", f)
	}
	got, _ := Rescale([]float64{0, 0, 0}, 1000)
	for _, v := range got {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
			t.Errorf("Rescale of zeros = %v", got)
		}
	}
}

func TestTPS(t *testing.T) {
	if got := TPS(10, 2000); got != 5 {
		t.Errorf("TPS = %v, want 5", got)
	}
	if got := TPS(10, 0); got != 0 {
		t.Errorf("TPS with zero duration = %v, want 0", got)
	}
}

func TestPauses(t *testing.T) {
	moves := []types.Move{
		{Notation: "R", Timestamp: 0},
		{Notation: "U", Timestamp: 200},
		{Notation: "R'", Timestamp: 2000},
		{Notation: "U'", Timestamp: 2100},
		{Notation: "F", Timestamp: 4000},
	}

	pauses := AnalyzePauses(moves, DefaultPauseThreshold)
	if len(pauses) != 2 {
		t.Fatalf("got %d pauses, want 2", len(pauses))
	}
	if pauses[0].AfterMoveIndex != 1 || pauses[0].DurationMs != 1800 {
		t.Errorf("first pause = %+v", pauses[0])
	}
	if got := FindLongestPause(moves); got != 1900 {
		t.Errorf("longest pause = %d, want 1900", got)
	}
}
