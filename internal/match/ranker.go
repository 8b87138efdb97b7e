package match

import "sort"

// RankCandidates orders candidates best-first under the winner total order
// and returns the slice (sorted in place).
//
// The order, each criterion breaking ties of the previous one:
//  1. contained beats not contained
//  2. higher composite score
//  3. smaller distance to boundary
//  4. higher edit similarity
//  5. lexicographically smaller building id
//
// Criterion 5 makes the order total, so the winner is reproducible even when
// floating-point scores tie exactly.
func RankCandidates(candidates []*Candidate) []*Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j])
	})
	return candidates
}

// SelectWinner returns the single best candidate, or nil for an empty set.
func SelectWinner(candidates []*Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if candidateLess(c, best) {
			best = c
		}
	}
	return best
}

// candidateLess reports whether a ranks strictly ahead of b.
func candidateLess(a, b *Candidate) bool {
	if a.Metrics.IsContained != b.Metrics.IsContained {
		return a.Metrics.IsContained
	}
	if a.CompositeScore != b.CompositeScore {
		return a.CompositeScore > b.CompositeScore
	}
	if a.Metrics.DistanceToBoundary != b.Metrics.DistanceToBoundary {
		return a.Metrics.DistanceToBoundary < b.Metrics.DistanceToBoundary
	}
	if a.Metrics.EditSim != b.Metrics.EditSim {
		return a.Metrics.EditSim > b.Metrics.EditSim
	}
	return a.Building.ID < b.Building.ID
}
