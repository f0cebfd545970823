package lattice

import "sync"

// Action identifies one discrete controller input. Each parameter has exactly
// one increment/decrement pair; the marker and spin toggles are independent of
// the layout parameters.
type Action int

const (
	// ActionIncreaseRingCount adds one lattice ring.
	ActionIncreaseRingCount Action = iota

	// ActionDecreaseRingCount removes one lattice ring, saturating at 1.
	ActionDecreaseRingCount

	// ActionIncreaseRingSpacing widens the radial gap between rings.
	ActionIncreaseRingSpacing

	// ActionDecreaseRingSpacing narrows the radial gap, saturating at 0.2.
	ActionDecreaseRingSpacing

	// ActionIncreaseUniformScale grows every instance, saturating at 3.0.
	ActionIncreaseUniformScale

	// ActionDecreaseUniformScale shrinks every instance, saturating at 0.1.
	ActionDecreaseUniformScale

	// ActionIncreaseHeightStep raises the per-ring elevation increment.
	ActionIncreaseHeightStep

	// ActionDecreaseHeightStep lowers the per-ring elevation increment,
	// saturating at 0.
	ActionDecreaseHeightStep

	// ActionIncreaseAngularOffset twists each ring further counterclockwise.
	ActionIncreaseAngularOffset

	// ActionDecreaseAngularOffset twists each ring further clockwise.
	ActionDecreaseAngularOffset

	// ActionIncreaseRadialOffset biases ring distances outward.
	ActionIncreaseRadialOffset

	// ActionDecreaseRadialOffset biases ring distances inward; may be negative.
	ActionDecreaseRadialOffset

	// ActionIncreaseDensity packs more instances per ring.
	ActionIncreaseDensity

	// ActionDecreaseDensity thins instances per ring, saturating at 1.0.
	ActionDecreaseDensity

	// ActionToggleMarkers flips marker-overlay visibility. Pure visibility
	// flag, no geometry recompute.
	ActionToggleMarkers

	// ActionToggleSpin flips the global spin state machine between stopped
	// and spinning. Stopping resets every instance to its rest pose.
	ActionToggleSpin
)

// Fixed per-action step sizes. These are a product decision, not a
// correctness contract, but they stay constant for the whole session.
const (
	ringCountStep     = 1
	ringSpacingStep   = 0.05
	uniformScaleStep  = 0.1
	heightStepDelta   = 0.05
	angularOffsetStep = 0.05
	radialOffsetStep  = 0.05
	densityFactorStep = 0.1
)

// controller is the implementation of the Controller interface.
type controller struct {
	mu             sync.Mutex
	params         Parameters
	markersVisible bool
	spinning       bool

	onChange  func(Parameters)
	onMarkers func(visible bool)
	onSpin    func(active bool)
}

// Controller owns the only mutable copy of the lattice Parameters. It maps
// discrete named actions to fixed-step mutations, saturates them against the
// parameter bounds, and publishes immutable snapshots through the change
// handler. Actions that would leave the snapshot unchanged (a decrement at a
// floor, an increment at a ceiling) are idempotent and publish nothing.
type Controller interface {
	// Parameters returns the current parameter snapshot.
	//
	// Returns:
	//   - Parameters: a copy of the live configuration
	Parameters() Parameters

	// Apply executes one named action: a fixed-step parameter mutation with
	// saturating clamps, or one of the two independent toggles. Handlers fire
	// synchronously before Apply returns.
	//
	// Parameters:
	//   - action: the action to apply
	Apply(action Action)

	// MarkersVisible reports the current marker-overlay visibility flag.
	//
	// Returns:
	//   - bool: true if the overlay should be drawn
	MarkersVisible() bool

	// SpinActive reports whether global spin is currently running.
	//
	// Returns:
	//   - bool: true if spinning
	SpinActive() bool
}

var _ Controller = &controller{}

// NewController creates a Controller starting from DefaultParameters with the
// provided options applied. The marker overlay starts visible and spin starts
// stopped.
//
// Parameters:
//   - opts: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: a new Controller instance
func NewController(opts ...ControllerBuilderOption) Controller {
	c := &controller{
		params:         DefaultParameters(),
		markersVisible: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *controller) Parameters() Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *controller) MarkersVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markersVisible
}

func (c *controller) SpinActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spinning
}

func (c *controller) Apply(action Action) {
	switch action {
	case ActionToggleMarkers:
		c.mu.Lock()
		c.markersVisible = !c.markersVisible
		visible := c.markersVisible
		handler := c.onMarkers
		c.mu.Unlock()
		if handler != nil {
			handler(visible)
		}
	case ActionToggleSpin:
		c.mu.Lock()
		c.spinning = !c.spinning
		active := c.spinning
		handler := c.onSpin
		c.mu.Unlock()
		if handler != nil {
			handler(active)
		}
	default:
		c.mu.Lock()
		next := stepped(c.params, action).Clamped()
		if next == c.params {
			c.mu.Unlock()
			return
		}
		c.params = next
		handler := c.onChange
		c.mu.Unlock()
		if handler != nil {
			handler(next)
		}
	}
}

// stepped applies the fixed step for a parameter action to a snapshot copy.
// Unknown actions return the snapshot unchanged.
func stepped(p Parameters, action Action) Parameters {
	switch action {
	case ActionIncreaseRingCount:
		p.RingCount += ringCountStep
	case ActionDecreaseRingCount:
		p.RingCount -= ringCountStep
	case ActionIncreaseRingSpacing:
		p.RingSpacing += ringSpacingStep
	case ActionDecreaseRingSpacing:
		p.RingSpacing -= ringSpacingStep
	case ActionIncreaseUniformScale:
		p.UniformScale += uniformScaleStep
	case ActionDecreaseUniformScale:
		p.UniformScale -= uniformScaleStep
	case ActionIncreaseHeightStep:
		p.HeightStep += heightStepDelta
	case ActionDecreaseHeightStep:
		p.HeightStep -= heightStepDelta
	case ActionIncreaseAngularOffset:
		p.AngularOffsetPerRing += angularOffsetStep
	case ActionDecreaseAngularOffset:
		p.AngularOffsetPerRing -= angularOffsetStep
	case ActionIncreaseRadialOffset:
		p.RadialOffset += radialOffsetStep
	case ActionDecreaseRadialOffset:
		p.RadialOffset -= radialOffsetStep
	case ActionIncreaseDensity:
		p.DensityFactor += densityFactorStep
	case ActionDecreaseDensity:
		p.DensityFactor -= densityFactorStep
	}
	return p
}
