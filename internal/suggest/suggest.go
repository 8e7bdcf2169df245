package suggest

import (
	"github.com/agnivade/levenshtein"
)

// MaxDistance is the largest edit distance at which a defined variable is
// still offered as a correction for a missing one.
const MaxDistance = 3

// Nearest returns the candidate with the smallest Levenshtein distance to
// name, provided that distance is at most MaxDistance. Candidates are
// compared in order and only a strictly smaller distance replaces the
// current best, so the first candidate wins ties.
func Nearest(name string, candidates []string) (string, bool) {
	best := ""
	bestDist := MaxDistance + 1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}

	if bestDist > MaxDistance {
		return "", false
	}
	return best, true
}
