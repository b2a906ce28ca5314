package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func analyzedSolve(t *testing.T, method reconstruct.Method) (*types.Solve, *reconstruct.Report) {
	t.Helper()
	solve := &types.Solve{
		Scramble: "R U2 R' U' R U' R'",
		Notes:    "sune practice",
	}
	for i, tok := range []string{"R", "U", "R'", "U", "R", "U2", "R'"} {
		solve.Moves = append(solve.Moves, types.Move{Notation: tok, Timestamp: int64(i * 250)})
	}

	a, err := reconstruct.NewAnalyzer(method, mustFacelet(t, solve), reconstruct.WithAlgorithmMatching(false))
	require.NoError(t, err)
	require.NoError(t, reconstruct.FeedSolve(a, solve))

	report, err := a.Analysis(context.Background(), 2000)
	require.NoError(t, err)
	return solve, report
}

func mustFacelet(t *testing.T, s *types.Solve) string {
	t.Helper()
	f, err := s.StartFacelet()
	require.NoError(t, err)
	return f
}

func TestMigrations(t *testing.T) {
	db := openTestDB(t)

	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Applying again is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	solve, report := analyzedSolve(t, reconstruct.MethodCFOP)
	id, err := repo.Create(solve, report)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "cfop", got.Method)
	assert.Equal(t, 7, got.MoveCount)
	assert.InDelta(t, 2000, got.TotalMs, 1e-9)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "sune practice", *got.Notes)
	assert.Equal(t, solve.Moves, got.Moves)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	rec := got.Record()
	assert.Equal(t, solve.Scramble, rec.Scramble)
	assert.Equal(t, solve.Moves, rec.Moves)
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	got, err := repo.Get("does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, got)

	last, err := repo.GetLast()
	assert.NoError(t, err)
	assert.Nil(t, last)
}

func TestStepsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	solve, report := analyzedSolve(t, reconstruct.MethodRoux)

	id, err := NewSolveRepository(db).Create(solve, report)
	require.NoError(t, err)

	records, err := NewStepRepository(db).ListBySolve(id)
	require.NoError(t, err)
	// 4 buckets plus LSE's 3 sub-steps. CMLL took no time and lists none.
	assert.Len(t, records, 7)

	stored, err := Report(db, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Steps, 4)

	for i, want := range report.Steps {
		got := stored.Steps[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Percent, got.Percent)
		assert.Equal(t, want.Skip, got.Skip)
		assert.Equal(t, want.Moves, got.Moves)
		assert.Len(t, got.SubSteps, len(want.SubSteps))
	}
}

func TestListAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	var ids []string
	for _, m := range []reconstruct.Method{reconstruct.MethodCFOP, reconstruct.MethodRoux, reconstruct.MethodCFOP} {
		solve, report := analyzedSolve(t, m)
		id, err := repo.Create(solve, report)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := repo.List(10, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cfop, err := repo.List(10, "cfop")
	require.NoError(t, err)
	assert.Len(t, cfop, 2)

	last, err := repo.GetLast()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, ids[2], last.SolveID)

	require.NoError(t, repo.Delete(ids[0]))
	gone, err := repo.Get(ids[0])
	require.NoError(t, err)
	assert.Nil(t, gone)

	steps, err := NewStepRepository(db).ListBySolve(ids[0])
	require.NoError(t, err)
	assert.Empty(t, steps, "steps should cascade")
}

func TestGetLastWithinOneSecond(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	solve, report := analyzedSolve(t, reconstruct.MethodCFOP)
	older, err := repo.Create(solve, report)
	require.NoError(t, err)
	newer, err := repo.Create(solve, report)
	require.NoError(t, err)

	// .100 and .120 in the same second; a trimmed layout would sort ".1Z" last.
	base := time.Date(2026, 3, 14, 9, 26, 5, 0, time.UTC)
	for id, at := range map[string]time.Time{
		older: base.Add(100 * time.Millisecond),
		newer: base.Add(120 * time.Millisecond),
	} {
		_, err := db.Exec("UPDATE solves SET created_at = ? WHERE solve_id = ?", formatTime(at), id)
		require.NoError(t, err)
	}

	last, err := repo.GetLast()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, newer, last.SolveID)
	assert.True(t, last.CreatedAt.Equal(base.Add(120*time.Millisecond)), last.CreatedAt)

	list, err := repo.List(10, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{newer, older}, []string{list[0].SolveID, list[1].SolveID})
}
