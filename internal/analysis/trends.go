// Package analysis aggregates stored reports across many solves.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/SeamusWaldron/gocube_reconstruct"
)

// SolveData is one stored solve with its report steps.
type SolveData struct {
	SolveID   string
	CreatedAt time.Time
	TotalMs   float64
	MoveCount int
	TPS       float64
	Steps     []reconstruct.Step
}

// TrendReport summarizes a window of solves analyzed by one method.
type TrendReport struct {
	Method    string      `json:"method"`
	Solves    int         `json:"solves"`
	DateRange DateRange   `json:"date_range"`
	AvgTimeMs float64     `json:"avg_time_ms"`
	AvgMoves  float64     `json:"avg_moves"`
	AvgTPS    float64     `json:"avg_tps"`
	Best      *SolveStats `json:"best,omitempty"`
	Worst     *SolveStats `json:"worst,omitempty"`

	// ImprovementPct compares the first and last quarter of the window.
	// Positive means faster.
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"`

	// RollingAvgs maps a trailing window size to its mean time.
	RollingAvgs map[int]float64 `json:"rolling_averages"`

	// Steps holds one trend per top-level step, in report order.
	Steps []StepTrend `json:"steps"`
}

// DateRange is the first and last solve time of a window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SolveStats identifies one solve of a window.
type SolveStats struct {
	SolveID   string  `json:"solve_id"`
	Timestamp string  `json:"timestamp"`
	TimeMs    float64 `json:"time_ms"`
	MoveCount int     `json:"move_count"`
	TPS       float64 `json:"tps"`
}

// StepTrend averages one report step across a window. Skipped steps count
// toward SkipRate but not toward the averages.
type StepTrend struct {
	Name           string  `json:"name"`
	AvgTimeMs      float64 `json:"avg_time_ms"`
	AvgPercent     float64 `json:"avg_percent"`
	AvgMoves       float64 `json:"avg_moves"`
	SkipRate       float64 `json:"skip_rate"`
	ImprovementPct float64 `json:"improvement_pct"`
}

var rollingWindows = []int{5, 12, 50, 100}

// AnalyzeTrends builds a trend report over solves. Solves without a positive
// total time are ignored.
func AnalyzeTrends(method string, solves []SolveData) *TrendReport {
	report := &TrendReport{
		Method:      method,
		RollingAvgs: make(map[int]float64),
		Steps:       []StepTrend{},
	}

	timed := make([]SolveData, 0, len(solves))
	for _, s := range solves {
		if s.TotalMs > 0 {
			timed = append(timed, s)
		}
	}
	if len(timed) == 0 {
		return report
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].CreatedAt.Before(timed[j].CreatedAt)
	})

	report.Solves = len(timed)
	report.DateRange = DateRange{
		Start: timed[0].CreatedAt.Format(time.RFC3339),
		End:   timed[len(timed)-1].CreatedAt.Format(time.RFC3339),
	}

	times := make([]float64, len(timed))
	var moves, tps float64
	best, worst := 0, 0
	for i, s := range timed {
		times[i] = s.TotalMs
		moves += float64(s.MoveCount)
		tps += s.TPS
		if s.TotalMs < timed[best].TotalMs {
			best = i
		}
		if s.TotalMs > timed[worst].TotalMs {
			worst = i
		}
	}

	n := float64(len(timed))
	report.AvgTimeMs = mean(times)
	report.AvgMoves = moves / n
	report.AvgTPS = tps / n
	report.Best = statsOf(timed[best])
	report.Worst = statsOf(timed[worst])
	report.ImprovementPct = improvement(times)
	report.ConsistencyScore = consistency(times)

	for _, w := range rollingWindows {
		if len(times) >= w {
			report.RollingAvgs[w] = mean(times[len(times)-w:])
		}
	}

	report.Steps = stepTrends(timed)
	return report
}

func statsOf(s SolveData) *SolveStats {
	return &SolveStats{
		SolveID:   s.SolveID,
		Timestamp: s.CreatedAt.Format(time.RFC3339),
		TimeMs:    s.TotalMs,
		MoveCount: s.MoveCount,
		TPS:       s.TPS,
	}
}

func stepTrends(solves []SolveData) []StepTrend {
	type acc struct {
		times    []float64
		percents float64
		moves    float64
		seen     int
		skipped  int
	}

	var order []string
	byName := make(map[string]*acc)
	for _, s := range solves {
		for _, st := range s.Steps {
			a, ok := byName[st.Name]
			if !ok {
				a = &acc{}
				byName[st.Name] = a
				order = append(order, st.Name)
			}
			a.seen++
			if st.Skip {
				a.skipped++
				continue
			}
			a.times = append(a.times, st.Time)
			a.percents += float64(st.Percent)
			a.moves += float64(st.MoveCount)
		}
	}

	out := make([]StepTrend, 0, len(order))
	for _, name := range order {
		a := byName[name]
		t := StepTrend{
			Name:     name,
			SkipRate: float64(a.skipped) / float64(a.seen),
		}
		if k := float64(len(a.times)); k > 0 {
			t.AvgTimeMs = mean(a.times)
			t.AvgPercent = a.percents / k
			t.AvgMoves = a.moves / k
			t.ImprovementPct = improvement(a.times)
		}
		out = append(out, t)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// improvement compares the mean of the first and last quarter. It needs at
// least four values.
func improvement(values []float64) float64 {
	if len(values) < 4 {
		return 0
	}
	q := len(values) / 4
	first := mean(values[:q])
	last := mean(values[len(values)-q:])
	if first <= 0 {
		return 0
	}
	return (first - last) / first * 100
}

// consistency maps the coefficient of variation onto 0..100, higher being
// more consistent.
func consistency(values []float64) float64 {
	if len(values) < 2 {
		return 100
	}
	m := mean(values)
	if m <= 0 {
		return 100
	}
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	cv := math.Sqrt(sq/float64(len(values))) / m
	return math.Max(0, math.Min(100, 100-cv*100))
}
