// Package similarity scores how well a candidate string matches a query term.
package similarity

// stackRunes is the string length (in runes) up to which Levenshtein works
// entirely on stack buffers. Agency names are almost always shorter.
const stackRunes = 64

// Levenshtein computes the Levenshtein distance between two strings.
// It represents the minimum number of single-character edits (insertions, deletions or substitutions)
// required to change one string into the other. Characters are compared as runes.
//
// The implementation keeps a single row sized to the shorter string, so it uses
// O(min(len(a), len(b))) space.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	var bufA, bufB [stackRunes]rune
	runesA := appendRunes(bufA[:0], a)
	runesB := appendRunes(bufB[:0], b)

	// runesB is the shorter one and sizes the row
	if len(runesA) < len(runesB) {
		runesA, runesB = runesB, runesA
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	var rowBuf [stackRunes + 1]int
	var row []int
	if len(runesB)+1 <= len(rowBuf) {
		row = rowBuf[:len(runesB)+1]
	} else {
		row = make([]int, len(runesB)+1)
	}
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(runesA); i++ {
		diag := row[0] // distance at (i-1, j-1)
		row[0] = i
		for j := 1; j <= len(runesB); j++ {
			above := row[j] // distance at (i-1, j)
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}

			// Minimum of (deletion, insertion, substitution)
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(runesB)]
}

func appendRunes(dst []rune, s string) []rune {
	for _, r := range s {
		dst = append(dst, r)
	}
	return dst
}
