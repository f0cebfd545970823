// package lattice implements the radial lattice layout: a pure mapping from a
// parameter snapshot to an ordered list of placement descriptors, plus the
// controller that mutates the only live copy of those parameters in bounded,
// fixed-size steps.
package lattice

// Fixed layout constants shared by the inner ring and the lattice rings.
const (
	// InnerRingCount is the number of instances in the fixed inner ring and
	// the floor for the per-ring instance count of every lattice ring.
	InnerRingCount = 6

	// BaseRadius is the radial distance of the fixed inner ring. Lattice ring
	// density is measured relative to this radius.
	BaseRadius = 1.0
)

// Saturating bounds for Parameters. Enforced by Clamped at the point of
// mutation, never inside the layout functions.
const (
	MinRingCount     = 1
	MinRingSpacing   = 0.2
	MinUniformScale  = 0.1
	MaxUniformScale  = 3.0
	MinHeightStep    = 0.0
	MinDensityFactor = 1.0
)

// Parameters is an immutable snapshot of the lattice configuration. The
// Controller owns the only mutable copy; everything downstream receives
// copies of this struct and never writes back.
type Parameters struct {
	// RingCount is the number of concentric rings beyond the fixed inner ring.
	RingCount int

	// RingSpacing is the base radial distance multiplier between rings.
	RingSpacing float64

	// UniformScale is applied to every instance.
	UniformScale float64

	// HeightStep is the per-ring Z elevation increment.
	HeightStep float64

	// AngularOffsetPerRing is the incremental angular twist applied per ring,
	// in radians. Unbounded in either direction; drives the spiral effect.
	AngularOffsetPerRing float64

	// RadialOffset is an additive per-ring-index radial bias, combined
	// linearly with RingSpacing. Can be negative.
	RadialOffset float64

	// DensityFactor controls how many instances occupy a ring relative to its
	// circumference.
	DensityFactor float64
}

// DefaultParameters returns the parameter snapshot the application starts with.
//
// Returns:
//   - Parameters: the default configuration
func DefaultParameters() Parameters {
	return Parameters{
		RingCount:            3,
		RingSpacing:          1.0,
		UniformScale:         1.0,
		HeightStep:           0.0,
		AngularOffsetPerRing: 0.0,
		RadialOffset:         0.0,
		DensityFactor:        2.0,
	}
}

// Clamped returns a copy of p with every bounded field saturated into its
// legal range: RingCount >= 1, RingSpacing >= 0.2, UniformScale in [0.1, 3.0],
// HeightStep >= 0, DensityFactor >= 1.0. AngularOffsetPerRing and RadialOffset
// are unbounded and pass through unchanged.
//
// Returns:
//   - Parameters: the saturated copy
func (p Parameters) Clamped() Parameters {
	if p.RingCount < MinRingCount {
		p.RingCount = MinRingCount
	}
	if p.RingSpacing < MinRingSpacing {
		p.RingSpacing = MinRingSpacing
	}
	if p.UniformScale < MinUniformScale {
		p.UniformScale = MinUniformScale
	}
	if p.UniformScale > MaxUniformScale {
		p.UniformScale = MaxUniformScale
	}
	if p.HeightStep < MinHeightStep {
		p.HeightStep = MinHeightStep
	}
	if p.DensityFactor < MinDensityFactor {
		p.DensityFactor = MinDensityFactor
	}
	return p
}
