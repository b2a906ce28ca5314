package reconstruct

import (
	"fmt"
	"strings"
)

// Method names a solving method.
type Method string

const (
	MethodCFOP Method = "cfop"
	MethodRoux Method = "roux"
)

// ParseMethod converts a method name, ignoring case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodCFOP:
		return MethodCFOP, nil
	case MethodRoux:
		return MethodRoux, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Stage is a ranked milestone of a solving method. Stages of one method are
// compared by Rank only.
type Stage interface {
	Rank() int
	String() string
	DisplayName() string
}

// CFOPStage is the furthest CFOP milestone the cube currently shows.
// Stages progress from Scrambled to Completed and compare with < and >.
type CFOPStage int

const (
	// CFOPScrambled: no cross on any face.
	CFOPScrambled CFOPStage = iota

	// CFOPCross: a cross is solved with no F2L pair beside it.
	CFOPCross

	CFOPPair1
	CFOPPair2
	CFOPPair3

	// CFOPPair4 is never produced: four pairs move evaluation on to OLL.
	CFOPPair4

	// CFOPOLL: the first two layers are solved, the last layer is not oriented.
	CFOPOLL

	// CFOPPLL: the last layer is oriented but not permuted, or only needs an AUF.
	CFOPPLL

	// CFOPAUF is reported through CFOPStatus.AUF and is never a computed stage.
	CFOPAUF

	// CFOPCompleted: every piece is in place.
	CFOPCompleted
)

// Rank implements Stage.
func (s CFOPStage) Rank() int { return int(s) }

// String returns a short identifier for the stage.
func (s CFOPStage) String() string {
	switch s {
	case CFOPScrambled:
		return "scrambled"
	case CFOPCross:
		return "cross"
	case CFOPPair1:
		return "f2l_pair1"
	case CFOPPair2:
		return "f2l_pair2"
	case CFOPPair3:
		return "f2l_pair3"
	case CFOPPair4:
		return "f2l_pair4"
	case CFOPOLL:
		return "oll"
	case CFOPPLL:
		return "pll"
	case CFOPAUF:
		return "auf"
	case CFOPCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the stage.
func (s CFOPStage) DisplayName() string {
	switch s {
	case CFOPScrambled:
		return "Scrambled"
	case CFOPCross:
		return "Cross"
	case CFOPPair1:
		return "F2L Pair 1"
	case CFOPPair2:
		return "F2L Pair 2"
	case CFOPPair3:
		return "F2L Pair 3"
	case CFOPPair4:
		return "F2L Pair 4"
	case CFOPOLL:
		return "OLL"
	case CFOPPLL:
		return "PLL"
	case CFOPAUF:
		return "AUF"
	case CFOPCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// RouxStage is the furthest Roux milestone reached. Unlike CFOPStage, each
// value names what has been achieved: RouxCO means corners are oriented.
type RouxStage int

const (
	RouxScrambled RouxStage = iota
	RouxBlock1
	RouxBlock2
	RouxCO
	RouxCP
	RouxEO
	RouxULUR
	RouxEP
	RouxCompleted
)

// Rank implements Stage.
func (s RouxStage) Rank() int { return int(s) }

// String returns a short identifier for the stage.
func (s RouxStage) String() string {
	switch s {
	case RouxScrambled:
		return "scrambled"
	case RouxBlock1:
		return "block1"
	case RouxBlock2:
		return "block2"
	case RouxCO:
		return "co"
	case RouxCP:
		return "cp"
	case RouxEO:
		return "eo"
	case RouxULUR:
		return "ul_ur"
	case RouxEP:
		return "ep"
	case RouxCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the stage.
func (s RouxStage) DisplayName() string {
	switch s {
	case RouxScrambled:
		return "Scrambled"
	case RouxBlock1:
		return "First Block"
	case RouxBlock2:
		return "Second Block"
	case RouxCO:
		return "Corner Orientation"
	case RouxCP:
		return "Corner Permutation"
	case RouxEO:
		return "Edge Orientation"
	case RouxULUR:
		return "UL/UR"
	case RouxEP:
		return "Edge Permutation"
	case RouxCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
