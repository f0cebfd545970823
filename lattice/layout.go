package lattice

import "math"

// ColorClass is the alternating visual category of a placement. It is derived
// deterministically from the ring and slot indices, never randomized.
type ColorClass int

const (
	// ColorClassA is assigned to placements with an even color index.
	ColorClassA ColorClass = iota

	// ColorClassB is assigned to placements with an odd color index.
	ColorClassB
)

// Placement describes one computed instance slot: where the shape's rotation
// pivot sits in world space, its initial orientation, and its color category.
// Placements are plain values; materializing them into renderable instances
// is the scene registry's job.
type Placement struct {
	// RingIndex is 0 for the fixed inner ring, 1..RingCount for lattice rings.
	RingIndex int

	// SlotIndex is the 0-based position within the ring.
	SlotIndex int

	// Position is the world-space placement of the rotation pivot.
	Position [3]float64

	// RotationZ is the initial orientation in radians about the Z axis.
	RotationZ float64

	// ColorIndex is the global color sequence number the class derives from.
	// The palette also uses it to vary shading within a class.
	ColorIndex int

	// ColorClass is the alternating visual category.
	ColorClass ColorClass
}

// Layout computes the ordered placement list for lattice rings 1..RingCount.
//
// Per ring r, the radial distance grows linearly as
// RingSpacing*r + RadialOffset*r, and the instance count keeps angular density
// proportional to circumference: max(6, round(6 * distance * DensityFactor)),
// floored so a degenerate ring never carries fewer instances than the fixed
// inner ring. Slots are placed at equal angle steps, twisted by
// AngularOffsetPerRing*r, and raised by HeightStep*r. The facing rotation
// alternates inward/outward per slot and intentionally uses the un-twisted
// slot angle so facing does not drift with the spiral offset.
//
// The function is deterministic and side-effect-free: the same Parameters
// always yield the same ring-major, slot-minor ordered list.
//
// Parameters:
//   - params: the parameter snapshot to lay out; assumed already clamped
//
// Returns:
//   - []Placement: ordered placement descriptors for every lattice slot
func Layout(params Parameters) []Placement {
	placements := make([]Placement, 0, estimateSlots(params))
	for r := 1; r <= params.RingCount; r++ {
		rf := float64(r)
		distance := params.RingSpacing*rf + params.RadialOffset*rf
		count := ringInstanceCount(distance, params.DensityFactor)
		angleStep := 2 * math.Pi / float64(count)
		for slot := 0; slot < count; slot++ {
			baseAngle := float64(slot) * angleStep
			adjustedAngle := baseAngle + params.AngularOffsetPerRing*rf
			colorIndex, colorClass := slotColor(r, slot, count)
			placements = append(placements, Placement{
				RingIndex: r,
				SlotIndex: slot,
				Position: [3]float64{
					distance * math.Cos(adjustedAngle),
					distance * math.Sin(adjustedAngle),
					params.HeightStep * rf,
				},
				RotationZ:  slotRotation(slot, baseAngle),
				ColorIndex: colorIndex,
				ColorClass: colorClass,
			})
		}
	}
	return placements
}

// InnerRing returns the six fixed ring-0 placements at BaseRadius. They obey
// the same angle, rotation, and color rules as the lattice rings with a ring
// index of 0, so the inner ring visually matches a lattice ring of count 6.
//
// Returns:
//   - []Placement: the six inner-ring placement descriptors
func InnerRing() []Placement {
	placements := make([]Placement, 0, InnerRingCount)
	angleStep := 2 * math.Pi / float64(InnerRingCount)
	for slot := 0; slot < InnerRingCount; slot++ {
		baseAngle := float64(slot) * angleStep
		colorIndex, colorClass := slotColor(0, slot, InnerRingCount)
		placements = append(placements, Placement{
			RingIndex: 0,
			SlotIndex: slot,
			Position: [3]float64{
				BaseRadius * math.Cos(baseAngle),
				BaseRadius * math.Sin(baseAngle),
				0,
			},
			RotationZ:  slotRotation(slot, baseAngle),
			ColorIndex: colorIndex,
			ColorClass: colorClass,
		})
	}
	return placements
}

// ringInstanceCount keeps the per-ring instance count proportional to the
// ring circumference (linear density model) with InnerRingCount as the floor.
func ringInstanceCount(distance, densityFactor float64) int {
	count := int(math.Round(InnerRingCount * (distance / BaseRadius) * densityFactor))
	if count < InnerRingCount {
		count = InnerRingCount
	}
	return count
}

// slotRotation alternates facing inward/outward per slot. Even slots face
// along the slot angle, odd slots are flipped by pi.
func slotRotation(slot int, baseAngle float64) float64 {
	if slot%2 == 0 {
		return baseAngle
	}
	return baseAngle + math.Pi
}

// slotColor derives the color sequence number and alternating category from
// the global slot index: colorIndex = floor(slotGlobal/count) + slotGlobal mod
// count, class A when even. For in-range slots this reduces to ringIndex+slot.
func slotColor(ringIndex, slot, count int) (int, ColorClass) {
	slotGlobal := slot + ringIndex*count
	colorIndex := slotGlobal/count + slotGlobal%count
	if colorIndex%2 == 0 {
		return colorIndex, ColorClassA
	}
	return colorIndex, ColorClassB
}

// estimateSlots totals the per-ring instance counts so Layout can allocate
// its result slice once.
func estimateSlots(params Parameters) int {
	total := 0
	for r := 1; r <= params.RingCount; r++ {
		rf := float64(r)
		distance := params.RingSpacing*rf + params.RadialOffset*rf
		total += ringInstanceCount(distance, params.DensityFactor)
	}
	return total
}
