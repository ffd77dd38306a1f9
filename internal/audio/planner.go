package audio

import (
	"slices"
	"time"
)

// PlanSplits converts ascending silence-end timestamps into a strictly
// increasing list of split points using a two-pass greedy walk.
//
// Pass 1 (duration safety): walking points in order, accept any point at
// least maxChunk past the last accepted split (starting from 0). This
// guarantees no chunk spans more than maxChunk wherever a qualifying
// silence point exists.
//
// Pass 2 (densify): walk again and accept any remaining point at least
// minGap past the last accepted split, so stretches between mandatory
// splits don't become oversized chunks of their own.
//
// Pass 1 favors duration safety over evenness; ties go to the first
// qualifying point in each pass. An empty result means "single chunk".
func PlanSplits(points []time.Duration, maxChunk, minGap time.Duration) []time.Duration {
	if len(points) == 0 {
		return nil
	}

	accepted := make(map[time.Duration]bool, len(points))

	// Pass 1: enforce the maximum chunk duration.
	last := time.Duration(0)
	for _, p := range points {
		if p-last >= maxChunk {
			accepted[p] = true
			last = p
		}
	}

	// Pass 2: densify with the looser gap threshold.
	last = 0
	for _, p := range points {
		if accepted[p] {
			last = p
			continue
		}
		if p-last >= minGap {
			accepted[p] = true
			last = p
		}
	}

	if len(accepted) == 0 {
		return nil
	}

	plan := make([]time.Duration, 0, len(accepted))
	for p := range accepted {
		plan = append(plan, p)
	}
	slices.Sort(plan)
	return plan
}
