// Package farkle implements the dice-scoring game: roll, bank, or chase
// hot dice across a shared six-die pool, racing to 10,000 points.
package farkle

import "sort"

const targetScore = 10000

// score is a pure function: given an exact set of die faces (1..6), it
// returns the combined score if every die in the set participates in a
// valid scoring combo, or 0 if any die does not.
func score(values []int) int {
	n := len(values)
	if n == 0 {
		return 0
	}

	if n == 6 {
		if isStraight(values) {
			return 1500
		}
		if s, ok := threePairs(values); ok {
			return s
		}
		if s, ok := fourOfAKindPlusPair(values); ok {
			return s
		}
	}

	counts := [7]int{}
	for _, v := range values {
		counts[v]++
	}

	total := 0
	for face := 1; face <= 6; face++ {
		c := counts[face]
		if c >= 3 {
			base := face * 100
			if face == 1 {
				base = 1000
			}
			total += base * (1 << uint(c-3))
			counts[face] = 0
		}
	}

	total += counts[1] * 100
	total += counts[5] * 50
	counts[1] = 0
	counts[5] = 0

	for face := 1; face <= 6; face++ {
		if counts[face] > 0 {
			return 0
		}
	}
	return total
}

func isStraight(values []int) bool {
	sorted := append([]int{}, values...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i+1 {
			return false
		}
	}
	return true
}

func threePairs(values []int) (int, bool) {
	counts := [7]int{}
	for _, v := range values {
		counts[v]++
	}
	pairs := 0
	for face := 1; face <= 6; face++ {
		if counts[face] == 2 {
			pairs++
		} else if counts[face] != 0 {
			return 0, false
		}
	}
	if pairs == 3 {
		return 1500, true
	}
	return 0, false
}

func fourOfAKindPlusPair(values []int) (int, bool) {
	counts := [7]int{}
	for _, v := range values {
		counts[v]++
	}
	hasFour, hasPair := false, false
	for face := 1; face <= 6; face++ {
		switch counts[face] {
		case 0:
		case 2:
			hasPair = true
		case 4:
			hasFour = true
		default:
			return 0, false
		}
	}
	if hasFour && hasPair {
		return 1500, true
	}
	return 0, false
}

// anyScoringSubset reports whether some non-empty subset of values
// scores under score(); used to detect a farkle (no subset scores at
// all) versus a roll the player must act on. Bounded: values has at
// most 6 elements, so at most 63 subsets are tried.
func anyScoringSubset(values []int) bool {
	n := len(values)
	for mask := 1; mask < (1 << uint(n)); mask++ {
		subset := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, values[i])
			}
		}
		if score(subset) > 0 {
			return true
		}
	}
	return false
}

// greedyBankScore finds the highest-scoring subset of values (used by
// bank to auto-score any remaining active dice instead of forfeiting
// them). Returns 0 if nothing among values scores.
func greedyBankScore(values []int) int {
	n := len(values)
	best := 0
	for mask := 1; mask < (1 << uint(n)); mask++ {
		subset := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, values[i])
			}
		}
		if s := score(subset); s > best {
			best = s
		}
	}
	return best
}
