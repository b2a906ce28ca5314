package analysis

import (
	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
)

// Cancellation is a move immediately undone, such as R followed by R'.
type Cancellation struct {
	Index int    `json:"index"`
	Moves string `json:"moves"`
}

// Merge is two adjacent turns of one layer that could be a single turn.
type Merge struct {
	Index  int    `json:"index"`
	Moves  string `json:"moves"`
	Merged string `json:"merged"`
}

// BackAndForth is a move pair repeated three or more times, such as R U R U R U.
type BackAndForth struct {
	Index int      `json:"index"`
	Pair  []string `json:"pair"`
	Count int      `json:"count"`
}

// RepetitionReport lists wasted motion in one move sequence.
type RepetitionReport struct {
	Cancellations []Cancellation `json:"cancellations"`
	Merges        []Merge        `json:"merges"`
	BackAndForth  []BackAndForth `json:"back_and_forth"`
	WastedMoves   int            `json:"wasted_moves"`
}

// StepRepetitions pairs a report step with its repetition report.
type StepRepetitions struct {
	Step   string            `json:"step"`
	Report *RepetitionReport `json:"report"`
}

// AnalyzeRepetitions scans notations for cancellations, merges and
// back-and-forth pairs. Unparseable tokens break adjacency.
func AnalyzeRepetitions(notations []string) *RepetitionReport {
	report := &RepetitionReport{
		Cancellations: []Cancellation{},
		Merges:        []Merge{},
		BackAndForth:  []BackAndForth{},
	}

	moves := make([]*puzzle.Move, len(notations))
	for i, n := range notations {
		if m, err := puzzle.ParseMove(n); err == nil {
			moves[i] = &m
		}
	}

	for i := 0; i+1 < len(moves); i++ {
		a, b := moves[i], moves[i+1]
		if a == nil || b == nil || a.Layer != b.Layer {
			continue
		}
		pair := a.Notation() + " " + b.Notation()
		merged := a.Merge(*b)
		if merged == nil {
			report.Cancellations = append(report.Cancellations, Cancellation{Index: i, Moves: pair})
			report.WastedMoves += 2
			continue
		}
		report.Merges = append(report.Merges, Merge{Index: i, Moves: pair, Merged: merged.Notation()})
		report.WastedMoves++
	}

	report.BackAndForth = findBackAndForth(moves)
	return report
}

func findBackAndForth(moves []*puzzle.Move) []BackAndForth {
	out := []BackAndForth{}
	same := func(x, y *puzzle.Move) bool {
		return x != nil && y != nil && *x == *y
	}

	for i := 0; i+3 < len(moves); {
		a, b := moves[i], moves[i+1]
		if a == nil || b == nil || a.Layer == b.Layer {
			i++
			continue
		}

		count := 1
		j := i + 2
		for j+1 < len(moves) && same(moves[j], a) && same(moves[j+1], b) {
			count++
			j += 2
		}

		if count < 3 {
			i++
			continue
		}
		out = append(out, BackAndForth{
			Index: i,
			Pair:  []string{a.Notation(), b.Notation()},
			Count: count,
		})
		i = j
	}
	return out
}

// AnalyzeStepRepetitions runs AnalyzeRepetitions on every top-level step of
// a report.
func AnalyzeStepRepetitions(r *reconstruct.Report) []StepRepetitions {
	out := make([]StepRepetitions, 0, len(r.Steps))
	for _, s := range r.Steps {
		out = append(out, StepRepetitions{Step: s.Name, Report: AnalyzeRepetitions(s.Moves)})
	}
	return out
}
