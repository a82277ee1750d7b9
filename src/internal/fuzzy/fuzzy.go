// Package fuzzy implements the subsequence matcher shared by symbol index
// lookup and completion ranking.
package fuzzy

import "unicode"

// Result describes one pattern/target match.
type Result struct {
	// Score is in [0, 1]. Exact equality scores 1.0; every other match is
	// capped below it so exact hits always rank first.
	Score float64
	// Exact reports whether every matched rune preserved the pattern's case.
	Exact bool
}

// Match reports whether pattern is a case-insensitive subsequence of target.
// An empty pattern matches any target with a neutral score.
func Match(pattern, target string) (Result, bool) {
	if pattern == "" {
		return Result{Score: 0, Exact: true}, true
	}
	if target == "" {
		return Result{}, false
	}

	pr := []rune(pattern)
	tr := []rune(target)
	if len(pr) > len(tr) {
		return Result{}, false
	}
	if pattern == target {
		return Result{Score: 1.0, Exact: true}, true
	}

	positions := make([]int, 0, len(pr))
	ti := 0
	for pi := 0; pi < len(pr); pi++ {
		want := unicode.ToLower(pr[pi])
		for ti < len(tr) && unicode.ToLower(tr[ti]) != want {
			ti++
		}
		if ti == len(tr) {
			return Result{}, false
		}
		positions = append(positions, ti)
		ti++
	}

	return Result{Score: score(pr, tr, positions), Exact: exactCase(pr, tr, positions)}, true
}

// score combines coverage, adjacency, word-boundary hits, and match start.
// The weights follow the usual editor heuristic: prefix-like matches with few
// gaps dominate scattered ones.
func score(pr, tr []rune, positions []int) float64 {
	coverage := float64(len(pr)) / float64(len(tr)) * 0.5

	consecutive := 0.0
	if len(positions) > 1 {
		pairs := 0
		for i := 1; i < len(positions); i++ {
			if positions[i] == positions[i-1]+1 {
				pairs++
			}
		}
		consecutive = float64(pairs) / float64(len(positions)-1) * 0.3
	} else {
		consecutive = 0.3
	}

	boundaries := 0
	for _, pos := range positions {
		if isWordBoundary(tr, pos) {
			boundaries++
		}
	}
	boundary := float64(boundaries) / float64(len(positions)) * 0.15

	early := (1.0 - float64(positions[0])/float64(len(tr))) * 0.05

	total := coverage + consecutive + boundary + early
	if total > 0.95 {
		total = 0.95
	}
	return total
}

// isWordBoundary reports whether tr[pos] starts a word: the first rune, a
// rune after a separator, or an upper-case rune after a lower-case one
// (camelCase hump).
func isWordBoundary(tr []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	prev := tr[pos-1]
	if !isAlphaNum(prev) {
		return true
	}
	return unicode.IsUpper(tr[pos]) && !unicode.IsUpper(prev)
}

func isAlphaNum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func exactCase(pr, tr []rune, positions []int) bool {
	for i, pos := range positions {
		if tr[pos] != pr[i] {
			return false
		}
	}
	return true
}
