package stringart

import "sort"

// candidatePins returns up to edgeCount+randCount distinct end pins for
// the current pin: the best edge-aligned pins first, then a uniform
// Fisher-Yates sample from the remaining valid pool. minSkipFloor lets a
// stage raise the policy minimum without touching region rules.
func (s *ProgressState) candidatePins(from uint32, edgeCount, randCount, minSkipFloor int) []uint32 {
	type scoredPin struct {
		pin   uint32
		score float64
	}

	var valid []uint32
	for p := uint32(0); p < uint32(len(s.Pins)); p++ {
		if p == from {
			continue
		}
		if circularDistance(from, p, len(s.Pins)) < minSkipFloor {
			continue
		}
		if !s.validPair(from, p) {
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return nil
	}

	var candidates []uint32
	taken := make(map[uint32]struct{})

	if s.params.UseEdgeDetection {
		scored := make([]scoredPin, len(valid))
		for i, p := range valid {
			scored[i] = scoredPin{pin: p, score: s.edgeAlignment(from, p)}
		}
		sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
		for i := 0; i < edgeCount && i < len(scored); i++ {
			candidates = append(candidates, scored[i].pin)
			taken[scored[i].pin] = struct{}{}
		}
	}

	// Fisher-Yates over the untaken remainder for a true uniform sample.
	pool := make([]uint32, 0, len(valid))
	for _, p := range valid {
		if _, dup := taken[p]; !dup {
			pool = append(pool, p)
		}
	}
	want := randCount
	if !s.params.UseEdgeDetection {
		want = edgeCount + randCount
	}
	for i := 0; i < want && len(pool) > 0; i++ {
		j := s.rng.Intn(len(pool))
		candidates = append(candidates, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	return candidates
}

// randomValidPin is the degenerate-input fallback: a uniformly random
// valid end pin. ok is false when no valid pin exists at all, in which
// case the caller skips the thread rather than violating min-skip.
func (s *ProgressState) randomValidPin(from uint32) (pin uint32, ok bool) {
	var valid []uint32
	for p := uint32(0); p < uint32(len(s.Pins)); p++ {
		if s.validPair(from, p) {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return from, false
	}
	return valid[s.rng.Intn(len(valid))], true
}
