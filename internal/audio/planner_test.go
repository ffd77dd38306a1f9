package audio_test

import (
	"slices"
	"testing"
	"time"

	"chunkscribe/internal/audio"
)

func TestPlanSplits(t *testing.T) {
	t.Parallel()

	const (
		maxChunk = 120 * time.Second
		minGap   = 30 * time.Second
	)

	tests := []struct {
		name   string
		points []time.Duration
		want   []time.Duration
	}{
		{
			name:   "no silence points yields empty plan",
			points: nil,
			want:   nil,
		},
		{
			name: "two pass trace",
			// Pass 1 accepts 125 (>=120 from 0) and 250 (>=120 from 125).
			// Pass 2 then accepts 50 (>=30 from 0); 10 and 140 stay too close.
			points: secs(10, 50, 125, 140, 250),
			want:   secs(50, 125, 250),
		},
		{
			name:   "all points too close yields empty plan",
			points: secs(5, 10, 20),
			want:   nil,
		},
		{
			name: "no point past max duration still densifies",
			// Pass 1 accepts nothing; pass 2 picks 40 and 80.
			points: secs(10, 40, 60, 80),
			want:   secs(40, 80),
		},
		{
			name:   "duplicate timestamps deduplicated",
			points: append(secs(125), secs(125, 250)...),
			want:   secs(125, 250),
		},
		{
			name:   "single qualifying point",
			points: secs(130),
			want:   secs(130),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := audio.PlanSplits(tt.points, maxChunk, minGap)
			if !slices.Equal(got, tt.want) {
				t.Errorf("PlanSplits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanSplits_Properties(t *testing.T) {
	t.Parallel()

	points := secs(10, 50, 125, 140, 250, 260, 300, 500, 505, 700)
	plan := audio.PlanSplits(points, 120*time.Second, 30*time.Second)

	if len(plan) == 0 {
		t.Fatal("PlanSplits() empty, want splits for spread-out input")
	}

	// Strictly increasing.
	for i := 1; i < len(plan); i++ {
		if plan[i] <= plan[i-1] {
			t.Errorf("plan not strictly increasing at %d: %v", i, plan)
		}
	}

	// Consecutive accepted splits honor the minimum gap.
	last := time.Duration(0)
	for _, p := range plan {
		if p-last < 30*time.Second {
			t.Errorf("gap %v between %v and %v below minimum", p-last, last, p)
		}
		last = p
	}

	// Every plan entry came from the input points.
	for _, p := range plan {
		if !slices.Contains(points, p) {
			t.Errorf("plan contains %v, not an input silence point", p)
		}
	}
}
