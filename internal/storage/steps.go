package storage

import (
	"fmt"
	"strings"

	"github.com/SeamusWaldron/gocube_reconstruct"
)

// StepRecord is one stored report step. Sub-steps point at their bucket
// through ParentStepID.
type StepRecord struct {
	StepID       int64
	SolveID      string
	ParentStepID *int64
	OrderIndex   int
	Name         string
	Moves        string
	MoveCount    int
	TimeMs       float64
	Percent      int
	TPS          float64
	Algorithm    *string
	Skip         bool
}

// StepRepository reads report steps.
type StepRepository struct {
	db *DB
}

// NewStepRepository creates a new step repository.
func NewStepRepository(db *DB) *StepRepository {
	return &StepRepository{db: db}
}

// ListBySolve returns every step of a solve, buckets before their sub-steps.
func (r *StepRepository) ListBySolve(solveID string) ([]StepRecord, error) {
	rows, err := r.db.Query(`
		SELECT step_id, solve_id, parent_step_id, order_index, name, moves, move_count,
			time_ms, percent, tps, algorithm, skip
		FROM steps
		WHERE solve_id = ?
		ORDER BY parent_step_id IS NOT NULL, parent_step_id, order_index
	`, solveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var s StepRecord
		var skip int
		err := rows.Scan(&s.StepID, &s.SolveID, &s.ParentStepID, &s.OrderIndex, &s.Name,
			&s.Moves, &s.MoveCount, &s.TimeMs, &s.Percent, &s.TPS, &s.Algorithm, &skip)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		s.Skip = skip == 1
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	return out, nil
}

// Steps rebuilds the report steps of a solve with their sub-steps.
func (r *StepRepository) Steps(solveID string) ([]reconstruct.Step, error) {
	records, err := r.ListBySolve(solveID)
	if err != nil {
		return nil, err
	}

	var steps []reconstruct.Step
	index := make(map[int64]int)
	for _, rec := range records {
		if rec.ParentStepID == nil {
			index[rec.StepID] = len(steps)
			steps = append(steps, rec.step())
			continue
		}
		i, ok := index[*rec.ParentStepID]
		if !ok {
			return nil, fmt.Errorf("step %d has unknown parent %d", rec.StepID, *rec.ParentStepID)
		}
		steps[i].SubSteps = append(steps[i].SubSteps, rec.step())
	}
	return steps, nil
}

func (s StepRecord) step() reconstruct.Step {
	moves := strings.Fields(s.Moves)
	if moves == nil {
		moves = []string{}
	}
	return reconstruct.Step{
		Name:      s.Name,
		Moves:     moves,
		MoveCount: s.MoveCount,
		Algorithm: s.Algorithm,
		Percent:   s.Percent,
		Time:      s.TimeMs,
		TPS:       s.TPS,
		Skip:      s.Skip,
	}
}

// Report rebuilds the stored report of a solve. It returns nil when no solve matches.
func Report(db *DB, solveID string) (*reconstruct.Report, error) {
	solve, err := NewSolveRepository(db).Get(solveID)
	if err != nil || solve == nil {
		return nil, err
	}
	steps, err := NewStepRepository(db).Steps(solveID)
	if err != nil {
		return nil, err
	}
	return &reconstruct.Report{
		Method:         reconstruct.Method(solve.Method),
		TotalTime:      solve.TotalMs,
		MoveCount:      solve.MoveCount,
		OptimizedMoves: solve.OptimizedMoves,
		TPS:            solve.TPS,
		Factor:         solve.Factor,
		LongestPauseMs: solve.LongestPauseMs,
		PauseCount:     solve.PauseCount,
		Steps:          steps,
	}, nil
}
