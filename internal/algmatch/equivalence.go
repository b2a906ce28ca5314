package algmatch

import "errors"

// ErrNotAxisAligned is returned when a down vector does not match a face normal.
var ErrNotAxisAligned = errors.New("algmatch: down vector is not a face normal")

// centerU is the index of the U center in a facelet string.
const centerU = 4

// Template positions: the whole U face plus the top row of each side face.
var (
	llTemplate     [54]bool
	cornerTemplate [54]bool
)

func init() {
	for i := 0; i < 9; i++ {
		llTemplate[i] = true
	}
	for _, base := range []int{9, 18, 36, 45} { // R, F, L, B
		for i := 0; i < 3; i++ {
			llTemplate[base+i] = true
		}
	}

	for _, i := range []int{0, 2, 6, 8, 9, 11, 18, 20, 36, 38, 45, 47} {
		cornerTemplate[i] = true
	}
}

func template(mode Mode) *[54]bool {
	if mode == ModeCMLL {
		return &cornerTemplate
	}
	return &llTemplate
}

// Equivalent reports whether observed matches fp at every position the mode
// selects, up to a consistent relabeling of observed colors.
func Equivalent(observed, fp Fingerprint, mode Mode) bool {
	tmpl := template(mode)
	top := observed[centerU]

	forward := make(map[byte]byte, 6)
	taken := make(map[byte]bool, 6)

	for i := range observed {
		if !tmpl[i] {
			continue
		}
		o := observed[i]
		if mode == ModeOLL && o != top {
			continue
		}

		want := fp[i]
		if got, ok := forward[o]; ok {
			if got != want {
				return false
			}
			continue
		}
		if taken[want] {
			return false
		}
		forward[o] = want
		taken[want] = true
	}
	return true
}
