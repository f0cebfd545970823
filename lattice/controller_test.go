package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerDefaults(t *testing.T) {
	c := NewController()
	assert.Equal(t, DefaultParameters(), c.Parameters())
	assert.True(t, c.MarkersVisible())
	assert.False(t, c.SpinActive())
}

func TestControllerSteps(t *testing.T) {
	var published []Parameters
	c := NewController(WithChangeHandler(func(p Parameters) {
		published = append(published, p)
	}))
	start := c.Parameters()

	c.Apply(ActionIncreaseRingCount)
	c.Apply(ActionIncreaseRingSpacing)
	c.Apply(ActionDecreaseDensity)
	c.Apply(ActionIncreaseUniformScale)

	require.Len(t, published, 4)
	got := c.Parameters()
	assert.Equal(t, start.RingCount+1, got.RingCount)
	assert.InDelta(t, start.RingSpacing+0.05, got.RingSpacing, 1e-12)
	assert.InDelta(t, start.DensityFactor-0.1, got.DensityFactor, 1e-12)
	assert.InDelta(t, start.UniformScale+0.1, got.UniformScale, 1e-12)
	assert.Equal(t, got, published[len(published)-1])
}

func TestControllerClampIdempotence(t *testing.T) {
	floor := Parameters{
		RingCount:     MinRingCount,
		RingSpacing:   MinRingSpacing,
		UniformScale:  MinUniformScale,
		HeightStep:    MinHeightStep,
		DensityFactor: MinDensityFactor,
	}
	decrements := []Action{
		ActionDecreaseRingCount,
		ActionDecreaseRingSpacing,
		ActionDecreaseUniformScale,
		ActionDecreaseHeightStep,
		ActionDecreaseDensity,
	}

	calls := 0
	c := NewController(
		WithInitialParameters(floor),
		WithChangeHandler(func(Parameters) { calls++ }),
	)
	for _, action := range decrements {
		c.Apply(action)
		assert.Equal(t, floor, c.Parameters(), "action %d must saturate", action)
	}
	assert.Zero(t, calls, "saturated actions must not publish")

	ceiling := floor
	ceiling.UniformScale = MaxUniformScale
	c = NewController(
		WithInitialParameters(ceiling),
		WithChangeHandler(func(Parameters) { calls++ }),
	)
	c.Apply(ActionIncreaseUniformScale)
	assert.Equal(t, ceiling, c.Parameters())
	assert.Zero(t, calls)
}

func TestControllerUnboundedOffsets(t *testing.T) {
	c := NewController()
	for i := 0; i < 30; i++ {
		c.Apply(ActionDecreaseAngularOffset)
		c.Apply(ActionDecreaseRadialOffset)
	}
	got := c.Parameters()
	assert.InDelta(t, -1.5, got.AngularOffsetPerRing, 1e-9)
	assert.InDelta(t, -1.5, got.RadialOffset, 1e-9)
}

func TestControllerToggles(t *testing.T) {
	var markerStates []bool
	var spinStates []bool
	c := NewController(
		WithMarkerHandler(func(v bool) { markerStates = append(markerStates, v) }),
		WithSpinHandler(func(v bool) { spinStates = append(spinStates, v) }),
	)

	c.Apply(ActionToggleMarkers)
	assert.False(t, c.MarkersVisible())
	c.Apply(ActionToggleMarkers)
	assert.True(t, c.MarkersVisible())
	assert.Equal(t, []bool{false, true}, markerStates)

	c.Apply(ActionToggleSpin)
	assert.True(t, c.SpinActive())
	c.Apply(ActionToggleSpin)
	assert.False(t, c.SpinActive())
	assert.Equal(t, []bool{true, false}, spinStates)
}

func TestControllerInitialParametersClamped(t *testing.T) {
	c := NewController(WithInitialParameters(Parameters{
		RingCount:     0,
		RingSpacing:   0.01,
		UniformScale:  9.0,
		HeightStep:    -2.0,
		DensityFactor: 0.0,
	}))
	got := c.Parameters()
	assert.Equal(t, MinRingCount, got.RingCount)
	assert.Equal(t, MinRingSpacing, got.RingSpacing)
	assert.Equal(t, MaxUniformScale, got.UniformScale)
	assert.Equal(t, MinHeightStep, got.HeightStep)
	assert.Equal(t, MinDensityFactor, got.DensityFactor)
}
