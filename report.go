package reconstruct

import (
	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/stats"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

// Report is the time attribution of one solve by one method.
type Report struct {
	Method         Method  `json:"method"`
	TotalTime      float64 `json:"total_time_ms"`
	MoveCount      int     `json:"move_count"`
	OptimizedMoves int     `json:"optimized_moves"`
	TPS            float64 `json:"tps"`
	Factor         float64 `json:"factor"`
	LongestPauseMs int64   `json:"longest_pause_ms"`
	PauseCount     int     `json:"pause_count"`

	// Steps always holds the four top-level buckets of the method, in order.
	Steps []Step `json:"steps"`
}

// Step is one bucket of a report, or a sub-step inside one.
type Step struct {
	Name      string   `json:"name"`
	Moves     []string `json:"moves"`
	MoveCount int      `json:"move_count"`
	Algorithm *string  `json:"algorithm"`
	Percent   int      `json:"percent"`
	Time      float64  `json:"time_ms"`
	TPS       float64  `json:"tps"`
	Skip      bool     `json:"skip"`
	SubSteps  []Step   `json:"sub_steps,omitempty"`
}

func (s *Step) setAlgorithm(a *algmatch.Algorithm) {
	if a == nil {
		return
	}
	name := a.Name
	s.Algorithm = &name
}

// slotDef is an attribution slot. A span lands in the slot listing the stage
// it reached.
type slotDef struct {
	name   string
	stages []Stage
}

type bucketDef struct {
	name  string
	slots []slotDef
}

var cfopBuckets = []bucketDef{
	{name: "Cross", slots: []slotDef{
		{name: "Cross", stages: []Stage{CFOPCross}},
	}},
	{name: "F2L", slots: []slotDef{
		{name: "Pair 1", stages: []Stage{CFOPPair1}},
		{name: "Pair 2", stages: []Stage{CFOPPair2}},
		{name: "Pair 3", stages: []Stage{CFOPPair3}},
		{name: "Pair 4", stages: []Stage{CFOPPair4, CFOPOLL}},
	}},
	{name: "OLL", slots: []slotDef{
		{name: "OLL", stages: []Stage{CFOPPLL}},
	}},
	{name: "PLL", slots: []slotDef{
		{name: "PLL", stages: []Stage{CFOPAUF, CFOPCompleted}},
	}},
}

var rouxBuckets = []bucketDef{
	{name: "First Block", slots: []slotDef{
		{name: "First Block", stages: []Stage{RouxBlock1}},
	}},
	{name: "Second Block", slots: []slotDef{
		{name: "Second Block", stages: []Stage{RouxBlock2}},
	}},
	{name: "CMLL", slots: []slotDef{
		{name: "CO", stages: []Stage{RouxCO}},
		{name: "CP", stages: []Stage{RouxCP}},
	}},
	{name: "LSE", slots: []slotDef{
		{name: "EO", stages: []Stage{RouxEO}},
		{name: "UL/UR", stages: []Stage{RouxULUR}},
		{name: "EP", stages: []Stage{RouxEP, RouxCompleted}},
	}},
}

// span is a run of moves credited to reaching one stage rank.
type span struct {
	target  int
	moves   []types.Move
	elapsed int64
}

// spans turns timeline entries into attributable spans. A closed entry holds
// the time spent reaching its recorded stage; the open tail is credited to
// the next rank and dropped once the cube is complete.
func (e *engine[S]) spans(completed int) []span {
	entries := e.timeline.Entries()
	out := make([]span, 0, len(entries))
	for i, en := range entries {
		target := e.rank(en.Status)
		if i == len(entries)-1 {
			target++
		}
		if target > completed || len(en.Moves) == 0 {
			continue
		}
		out = append(out, span{target: target, moves: en.Moves, elapsed: en.Elapsed})
	}
	return out
}

func (e *engine[S]) report(defs []bucketDef, totalTime float64) *Report {
	completed := CFOPCompleted.Rank()
	if e.method == MethodRoux {
		completed = RouxCompleted.Rank()
	}

	r := attribute(defs, e.spans(completed), totalTime)
	r.Method = e.method

	moves := e.timeline.Moves()
	r.MoveCount = len(moves)
	r.OptimizedMoves = optimizedCount(moves)
	if r.TotalTime > 0 {
		r.TPS = stats.TPS(r.MoveCount, r.TotalTime)
	}
	r.LongestPauseMs = stats.FindLongestPause(moves)
	r.PauseCount = len(stats.AnalyzePauses(moves, e.cfg.pauseThreshold))
	return r
}

func optimizedCount(moves []types.Move) int {
	parsed := make([]puzzle.Move, 0, len(moves))
	for _, m := range moves {
		pm, err := m.Parse()
		if err != nil {
			continue
		}
		parsed = append(parsed, pm)
	}
	return len(puzzle.Simplify(parsed))
}

type slotAcc struct {
	moves []types.Move
	raw   float64
}

// attribute walks spans with one forward cursor over the flattened slots,
// rescales to totalTime and fills in percentages.
func attribute(defs []bucketDef, spans []span, totalTime float64) *Report {
	type flat struct{ bucket, slot int }
	var order []flat
	acc := make([][]slotAcc, len(defs))
	for b, def := range defs {
		acc[b] = make([]slotAcc, len(def.slots))
		for s := range def.slots {
			order = append(order, flat{b, s})
		}
	}

	cursor := 0
	for _, sp := range spans {
		for cursor < len(order) && !owns(defs[order[cursor].bucket].slots[order[cursor].slot], sp.target) {
			cursor++
		}
		if cursor == len(order) {
			break
		}
		a := &acc[order[cursor].bucket][order[cursor].slot]
		a.moves = append(a.moves, sp.moves...)
		a.raw += float64(sp.elapsed)
	}

	raw := make([]float64, len(order))
	var sum float64
	for i, f := range order {
		raw[i] = acc[f.bucket][f.slot].raw
		sum += raw[i]
	}
	scaled, factor := stats.Rescale(raw, totalTime)

	r := &Report{Factor: factor, Steps: make([]Step, len(defs))}
	if totalTime > 0 && sum > 0 {
		r.TotalTime = totalTime
	} else {
		r.TotalTime = sum
	}

	bucketTimes := make([]float64, len(defs))
	next := 0
	for b, def := range defs {
		step := Step{Name: def.name, Moves: []string{}}
		subs := make([]Step, len(def.slots))
		subTimes := make([]float64, len(def.slots))
		for s, sd := range def.slots {
			sub := newStep(sd.name, acc[b][s].moves, scaled[next])
			next++
			subs[s] = sub
			subTimes[s] = sub.Time
			step.Moves = append(step.Moves, sub.Moves...)
			step.Time += sub.Time
		}
		step.MoveCount = len(step.Moves)
		step.Skip = step.MoveCount == 0
		step.TPS = stats.TPS(step.MoveCount, step.Time)

		// Sub-steps only break down a bucket that took measurable time.
		if len(subs) > 1 && step.Time > 0 {
			for i, p := range stats.Percentages(subTimes) {
				subs[i].Percent = p
			}
			step.SubSteps = subs
		}
		bucketTimes[b] = step.Time
		r.Steps[b] = step
	}

	for i, p := range stats.Percentages(bucketTimes) {
		r.Steps[i].Percent = p
	}

	// Nothing measurable: report every bucket as skipped.
	if sum == 0 {
		for i := range r.Steps {
			r.Steps[i].Skip = true
		}
	}
	return r
}

func newStep(name string, moves []types.Move, t float64) Step {
	return Step{
		Name:      name,
		Moves:     types.Notations(moves),
		MoveCount: len(moves),
		Time:      t,
		TPS:       stats.TPS(len(moves), t),
		Skip:      len(moves) == 0,
	}
}

func owns(sd slotDef, rank int) bool {
	for _, st := range sd.stages {
		if st.Rank() == rank {
			return true
		}
	}
	return false
}
