package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

// Solve represents an analyzed solve in the database.
type Solve struct {
	SolveID        string
	CreatedAt      time.Time
	Method         string
	Scramble       *string
	Facelet        string
	Moves          []types.Move
	TotalMs        float64
	MoveCount      int
	OptimizedMoves int
	TPS            float64
	Factor         float64
	LongestPauseMs int64
	PauseCount     int
	Notes          *string
}

// timeLayout is fixed width so created_at sorts as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// SolveRepository provides CRUD operations for solves.
type SolveRepository struct {
	db *DB
}

// NewSolveRepository creates a new solve repository.
func NewSolveRepository(db *DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Create stores a solve with its report steps in one transaction and returns
// the new solve ID.
func (r *SolveRepository) Create(solve *types.Solve, report *reconstruct.Report) (string, error) {
	facelet, err := solve.StartFacelet()
	if err != nil {
		return "", err
	}
	movesJSON, err := json.Marshal(solve.Moves)
	if err != nil {
		return "", fmt.Errorf("failed to encode moves: %w", err)
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	err = r.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO solves (solve_id, created_at, method, scramble, facelet, moves_json,
				total_ms, move_count, optimized_moves, tps, factor, longest_pause_ms, pause_count, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, formatTime(createdAt), string(report.Method), nullString(solve.Scramble),
			facelet, string(movesJSON), report.TotalTime, report.MoveCount, report.OptimizedMoves,
			report.TPS, report.Factor, report.LongestPauseMs, report.PauseCount, nullString(solve.Notes))
		if err != nil {
			return fmt.Errorf("failed to create solve: %w", err)
		}

		for i, step := range report.Steps {
			parentID, err := insertStep(tx, id, nil, i, step)
			if err != nil {
				return err
			}
			for j, sub := range step.SubSteps {
				if _, err := insertStep(tx, id, &parentID, j, sub); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func insertStep(tx *sql.Tx, solveID string, parentID *int64, order int, s reconstruct.Step) (int64, error) {
	skip := 0
	if s.Skip {
		skip = 1
	}
	result, err := tx.Exec(`
		INSERT INTO steps (solve_id, parent_step_id, order_index, name, moves, move_count,
			time_ms, percent, tps, algorithm, skip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, solveID, parentID, order, s.Name, strings.Join(s.Moves, " "), s.MoveCount,
		s.Time, s.Percent, s.TPS, s.Algorithm, skip)
	if err != nil {
		return 0, fmt.Errorf("failed to create step %s: %w", s.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get step ID: %w", err)
	}
	return id, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const solveColumns = `solve_id, created_at, method, scramble, facelet, moves_json, total_ms,
	move_count, optimized_moves, tps, factor, longest_pause_ms, pause_count, notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolve(row rowScanner) (*Solve, error) {
	var s Solve
	var createdAtStr, movesJSON string

	err := row.Scan(
		&s.SolveID, &createdAtStr, &s.Method, &s.Scramble, &s.Facelet, &movesJSON,
		&s.TotalMs, &s.MoveCount, &s.OptimizedMoves, &s.TPS, &s.Factor,
		&s.LongestPauseMs, &s.PauseCount, &s.Notes,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt, _ = time.Parse(timeLayout, createdAtStr)
	if err := json.Unmarshal([]byte(movesJSON), &s.Moves); err != nil {
		return nil, fmt.Errorf("failed to decode moves of %s: %w", s.SolveID, err)
	}
	return &s, nil
}

// Get retrieves a solve by ID. It returns nil when no solve matches.
func (r *SolveRepository) Get(solveID string) (*Solve, error) {
	row := r.db.QueryRow(`SELECT `+solveColumns+` FROM solves WHERE solve_id = ?`, solveID)
	s, err := scanSolve(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent solve.
func (r *SolveRepository) GetLast() (*Solve, error) {
	var solveID string
	err := r.db.QueryRow(`
		SELECT solve_id FROM solves
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&solveID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last solve: %w", err)
	}

	return r.Get(solveID)
}

// List retrieves recent solves, newest first. An empty method lists all.
func (r *SolveRepository) List(limit int, method string) ([]Solve, error) {
	rows, err := r.db.Query(`
		SELECT `+solveColumns+`
		FROM solves
		WHERE ? = '' OR method = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, method, method, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		s, err := scanSolve(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}
		solves = append(solves, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}

	return solves, nil
}

// Delete deletes a solve and its steps (cascading).
func (r *SolveRepository) Delete(solveID string) error {
	_, err := r.db.Exec("DELETE FROM solves WHERE solve_id = ?", solveID)
	if err != nil {
		return fmt.Errorf("failed to delete solve: %w", err)
	}
	return nil
}

// Record returns the stored solve in the solve file format.
func (s *Solve) Record() *types.Solve {
	out := &types.Solve{
		Facelet: s.Facelet,
		Moves:   s.Moves,
		TotalMs: int64(s.TotalMs),
	}
	if s.Scramble != nil {
		out.Scramble = *s.Scramble
	}
	if s.Notes != nil {
		out.Notes = *s.Notes
	}
	return out
}
