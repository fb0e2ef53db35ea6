package stringart

import "sort"

// Local refinement bounds.
const (
	refinementDecile     = 0.10
	refinementCap        = 300
	refinementCandidates = 50
)

// The connection log is a continuous winding, so a thread cannot change
// one endpoint in isolation: the shared pin also belongs to a neighbour.
// Refinement therefore re-chooses the pivot pin between a connection and
// one of its neighbours (or the free tail pin), reverting and reapplying
// both affected threads. Entries mutate in place; the log is never
// reordered.

// refineConnections replaces the weakest decile of threads with the best
// of up to refinementCandidates alternative pivots each. Returns the
// number of genuine replacements (pivot actually moved). Skipped in LAB
// color mode, whose per-thread loop already evaluates all four colors.
func (s *ProgressState) refineConnections() int {
	if s.params.ColorMode == ColorModeLAB || len(s.Connections) == 0 {
		return 0
	}
	alpha := s.params.ThreadOpacity

	type rated struct {
		index int
		score float64
	}
	ratings := make([]rated, len(s.Connections))
	for k, c := range s.Connections {
		pixels := s.linePixels(c.FromPin, c.ToPin)
		ratings[k] = rated{index: k, score: s.perceptualScore(c.FromPin, c.ToPin, pixels, alpha)}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].score < ratings[j].score })

	worst := int(refinementDecile * float64(len(ratings)))
	if worst > refinementCap {
		worst = refinementCap
	}

	replaced := 0
	for _, r := range ratings[:worst] {
		if s.replacePivot(r.index, alpha, refinementCandidates) {
			replaced++
		}
	}
	return replaced
}

// replacePivot re-chooses the pin shared between connection k and its
// successor (or the free tail pin for the last connection). Reports
// whether the pivot changed.
func (s *ProgressState) replacePivot(k int, alpha float64, maxCandidates int) bool {
	last := k == len(s.Connections)-1
	cur := s.Connections[k]
	from := cur.FromPin
	oldPivot := cur.ToPin
	color := s.palette[paletteIndex(s.palette, cur.ColorHex)]

	var nextTo uint32
	var nextColor ThreadColor
	if !last {
		next := s.Connections[k+1]
		nextTo = next.ToPin
		nextColor = s.palette[paletteIndex(s.palette, next.ColorHex)]
	}

	// Revert the affected threads so candidates score against the same
	// context the originals were placed in.
	s.revertThread(s.linePixels(from, oldPivot), color, alpha)
	if !last {
		s.revertThread(s.linePixels(oldPivot, nextTo), nextColor, alpha)
	}

	score := func(pivot uint32) float64 {
		total := s.perceptualScore(from, pivot, s.linePixels(from, pivot), alpha)
		if !last {
			total += s.perceptualScore(pivot, nextTo, s.linePixels(pivot, nextTo), alpha)
		}
		return total
	}

	bestPivot := oldPivot
	bestScore := score(oldPivot)
	tried := 0
	for p := uint32(0); p < uint32(len(s.Pins)) && tried < maxCandidates; p++ {
		if p == oldPivot || !s.validPair(from, p) {
			continue
		}
		if !last && !s.validPair(p, nextTo) {
			continue
		}
		tried++
		if candidate := score(p); candidate > bestScore {
			bestScore = candidate
			bestPivot = p
		}
	}

	s.applyThread(s.linePixels(from, bestPivot), color, alpha)
	if !last {
		s.applyThread(s.linePixels(bestPivot, nextTo), nextColor, alpha)
	}

	if bestPivot == oldPivot {
		return false
	}

	// The pivot is counted once as an endpoint of k and, unless k is the
	// tail, once more as an endpoint of k+1.
	shared := uint32(2)
	if last {
		shared = 1
	}
	s.PinUsage[oldPivot] -= shared
	s.PinUsage[bestPivot] += shared
	s.Connections[k].ToPin = bestPivot
	if !last {
		s.Connections[k+1].FromPin = bestPivot
	} else {
		s.CurrentPin = bestPivot
	}
	return true
}
