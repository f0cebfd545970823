package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutWorkedExample(t *testing.T) {
	params := Parameters{
		RingCount:     2,
		RingSpacing:   1.0,
		UniformScale:  1.0,
		DensityFactor: 2.0,
	}
	placements := Layout(params)
	require.Len(t, placements, 36, "ring 1 should hold 12 and ring 2 should hold 24")

	counts := map[int]int{}
	for _, p := range placements {
		counts[p.RingIndex]++
	}
	assert.Equal(t, 12, counts[1])
	assert.Equal(t, 24, counts[2])

	for _, p := range placements {
		radius := math.Hypot(p.Position[0], p.Position[1])
		assert.InDelta(t, float64(p.RingIndex), radius, 1e-9, "ring %d slot %d", p.RingIndex, p.SlotIndex)
	}

	assert.Len(t, InnerRing(), InnerRingCount)
}

func TestLayoutDeterminism(t *testing.T) {
	params := Parameters{
		RingCount:            5,
		RingSpacing:          0.85,
		UniformScale:         1.2,
		HeightStep:           0.35,
		AngularOffsetPerRing: 0.4,
		RadialOffset:         -0.1,
		DensityFactor:        1.7,
	}
	first := Layout(params)
	second := Layout(params)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].RingIndex, second[i].RingIndex)
		assert.Equal(t, first[i].SlotIndex, second[i].SlotIndex)
		assert.Equal(t, first[i].ColorClass, second[i].ColorClass)
		assert.InDelta(t, first[i].RotationZ, second[i].RotationZ, 1e-9)
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, first[i].Position[axis], second[i].Position[axis], 1e-9)
		}
	}
}

func TestLayoutDensityFloor(t *testing.T) {
	cases := []struct {
		name   string
		params Parameters
	}{
		{"minimal spacing and density", Parameters{RingCount: 3, RingSpacing: 0.2, DensityFactor: 1.0}},
		{"negative distance from radial offset", Parameters{RingCount: 4, RingSpacing: 0.2, RadialOffset: -1.0, DensityFactor: 1.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counts := ringCounts(Layout(tc.params))
			for r := 1; r <= tc.params.RingCount; r++ {
				assert.GreaterOrEqual(t, counts[r], InnerRingCount, "ring %d", r)
			}
		})
	}
}

func TestLayoutRingMonotonicity(t *testing.T) {
	cases := []Parameters{
		{RingCount: 6, RingSpacing: 1.0, DensityFactor: 2.0},
		{RingCount: 6, RingSpacing: 0.5, RadialOffset: 0.25, DensityFactor: 1.3},
		{RingCount: 8, RingSpacing: 0.3, RadialOffset: -0.3, DensityFactor: 4.0},
	}
	for _, params := range cases {
		require.GreaterOrEqual(t, params.RingSpacing+params.RadialOffset, 0.0)
		counts := ringCounts(Layout(params))
		for r := 2; r <= params.RingCount; r++ {
			assert.GreaterOrEqual(t, counts[r], counts[r-1], "ring %d vs %d", r, r-1)
		}
	}
}

func TestLayoutRotationIgnoresSpiralOffset(t *testing.T) {
	params := Parameters{
		RingCount:            3,
		RingSpacing:          1.0,
		AngularOffsetPerRing: 0.7,
		DensityFactor:        2.0,
	}
	counts := ringCounts(Layout(params))
	for _, p := range Layout(params) {
		angleStep := 2 * math.Pi / float64(counts[p.RingIndex])
		baseAngle := float64(p.SlotIndex) * angleStep
		want := baseAngle
		if p.SlotIndex%2 != 0 {
			want += math.Pi
		}
		assert.InDelta(t, want, p.RotationZ, 1e-9, "ring %d slot %d", p.RingIndex, p.SlotIndex)
	}
}

func TestLayoutSpiralAndElevation(t *testing.T) {
	params := Parameters{
		RingCount:            4,
		RingSpacing:          1.0,
		HeightStep:           0.5,
		AngularOffsetPerRing: 0.3,
		DensityFactor:        1.0,
	}
	counts := ringCounts(Layout(params))
	for _, p := range Layout(params) {
		rf := float64(p.RingIndex)
		assert.InDelta(t, 0.5*rf, p.Position[2], 1e-9)

		angleStep := 2 * math.Pi / float64(counts[p.RingIndex])
		wantAngle := float64(p.SlotIndex)*angleStep + 0.3*rf
		gotAngle := math.Atan2(p.Position[1], p.Position[0])
		assert.InDelta(t, 0.0, math.Abs(angleDiff(wantAngle, gotAngle)), 1e-9,
			"ring %d slot %d", p.RingIndex, p.SlotIndex)
	}
}

func TestLayoutColorAlternation(t *testing.T) {
	params := Parameters{RingCount: 3, RingSpacing: 1.0, DensityFactor: 2.0}
	for _, p := range Layout(params) {
		assert.Equal(t, p.RingIndex+p.SlotIndex, p.ColorIndex, "ring %d slot %d", p.RingIndex, p.SlotIndex)
		want := ColorClassA
		if p.ColorIndex%2 != 0 {
			want = ColorClassB
		}
		assert.Equal(t, want, p.ColorClass, "ring %d slot %d", p.RingIndex, p.SlotIndex)
	}
}

func TestLayoutOrdering(t *testing.T) {
	params := Parameters{RingCount: 4, RingSpacing: 0.8, DensityFactor: 1.5}
	placements := Layout(params)
	require.NotEmpty(t, placements)

	prevRing, prevSlot := 1, -1
	for _, p := range placements {
		if p.RingIndex == prevRing {
			assert.Equal(t, prevSlot+1, p.SlotIndex)
		} else {
			assert.Equal(t, prevRing+1, p.RingIndex)
			assert.Equal(t, 0, p.SlotIndex)
		}
		prevRing, prevSlot = p.RingIndex, p.SlotIndex
	}
}

func TestInnerRing(t *testing.T) {
	inner := InnerRing()
	require.Len(t, inner, InnerRingCount)
	for slot, p := range inner {
		assert.Equal(t, 0, p.RingIndex)
		assert.Equal(t, slot, p.SlotIndex)
		assert.InDelta(t, BaseRadius, math.Hypot(p.Position[0], p.Position[1]), 1e-9)
		assert.Zero(t, p.Position[2])

		want := ColorClassA
		if slot%2 != 0 {
			want = ColorClassB
		}
		assert.Equal(t, want, p.ColorClass)
	}
}

// ringCounts tallies placements per ring index.
func ringCounts(placements []Placement) map[int]int {
	counts := map[int]int{}
	for _, p := range placements {
		counts[p.RingIndex]++
	}
	return counts
}

// angleDiff wraps the difference of two angles into (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
