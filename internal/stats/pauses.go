package stats

import (
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

// DefaultPauseThreshold is the gap at which a hesitation counts as a pause.
const DefaultPauseThreshold int64 = 1500

// PauseInfo represents a pause during solving.
type PauseInfo struct {
	AfterMoveIndex int   `json:"after_move_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(moves []types.Move, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i, gap := range types.Gaps(moves) {
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterMoveIndex: i,
				DurationMs:     gap,
				TsMs:           moves[i].Timestamp,
			})
		}
	}

	return pauses
}

// FindLongestPause finds the longest gap between two moves.
func FindLongestPause(moves []types.Move) int64 {
	var longest int64
	for _, gap := range types.Gaps(moves) {
		if gap > longest {
			longest = gap
		}
	}
	return longest
}
