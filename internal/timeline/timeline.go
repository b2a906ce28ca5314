// Package timeline partitions a timed move stream into contiguous entries,
// one per stage bump.
//
// A timeline is generic over the status snapshot S it records. It never
// inspects S directly: the caller supplies a rank function, and a new entry
// is opened only when the rank of a freshly computed status strictly exceeds
// the rank recorded on the current entry. Entries therefore never regress.
package timeline

import (
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

// DefaultFirstMoveAdjustment is subtracted from the first move's timestamp to
// cover the reaction time before a move is registered.
const DefaultFirstMoveAdjustment int64 = 300

// Entry is one contiguous run of moves.
//
// While an entry is open, Status and Facelet hold the snapshot it started
// from. When the stage bumps they are overwritten with the snapshot that
// closed it, so a closed entry records the stage its moves achieved.
type Entry[S any] struct {
	Status  S
	Facelet string
	Moves   []types.Move
	Elapsed int64 // ms from phase start to the last move
}

// Timeline accumulates entries. Feed moves in timestamp order; out-of-order
// timestamps give meaningless elapsed values.
type Timeline[S any] struct {
	rank       func(S) int
	adjustment int64

	initial        S
	initialFacelet string
	entries        []Entry[S]

	started    bool
	phaseStart int64
}

// New creates a timeline holding a single empty entry seeded with the initial snapshot.
func New[S any](initial S, facelet string, rank func(S) int, adjustment int64) *Timeline[S] {
	return &Timeline[S]{
		rank:           rank,
		adjustment:     adjustment,
		initial:        initial,
		initialFacelet: facelet,
		entries:        []Entry[S]{{Status: initial, Facelet: facelet}},
	}
}

// Record appends a move and the status computed after applying it.
// It returns true when the status rank advanced and a new entry was opened.
func (t *Timeline[S]) Record(m types.Move, status S, facelet string) bool {
	if !t.started {
		t.started = true
		t.phaseStart = m.Timestamp - t.adjustment
	}

	cur := &t.entries[len(t.entries)-1]
	cur.Moves = append(cur.Moves, m)
	cur.Elapsed = m.Timestamp - t.phaseStart

	if t.rank(status) <= t.rank(cur.Status) {
		return false
	}

	cur.Status = status
	cur.Facelet = facelet
	t.entries = append(t.entries, Entry[S]{Status: status, Facelet: facelet})
	t.phaseStart = m.Timestamp
	return true
}

// Entries returns the entries in order. The last entry is still open.
func (t *Timeline[S]) Entries() []Entry[S] {
	return t.entries
}

// Initial returns the snapshot the timeline was seeded with.
func (t *Timeline[S]) Initial() (S, string) {
	return t.initial, t.initialFacelet
}

// Current returns the status recorded on the open entry.
func (t *Timeline[S]) Current() S {
	return t.entries[len(t.entries)-1].Status
}

// Snapshot is a status observed at a stage boundary.
type Snapshot[S any] struct {
	Status  S
	Facelet string
}

// Snapshots returns the initial snapshot followed by the closing snapshot of
// every closed entry, in the order they were observed.
func (t *Timeline[S]) Snapshots() []Snapshot[S] {
	out := make([]Snapshot[S], 0, len(t.entries))
	out = append(out, Snapshot[S]{Status: t.initial, Facelet: t.initialFacelet})
	for _, e := range t.entries[:len(t.entries)-1] {
		out = append(out, Snapshot[S]{Status: e.Status, Facelet: e.Facelet})
	}
	return out
}

// Moves returns every recorded move.
func (t *Timeline[S]) Moves() []types.Move {
	var out []types.Move
	for _, e := range t.entries {
		out = append(out, e.Moves...)
	}
	return out
}
