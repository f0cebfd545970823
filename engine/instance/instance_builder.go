package instance

import "github.com/Carmen-Shannon/pajarita-go/engine/model"

// InstanceBuilderOption is a function that configures an Instance during construction.
type InstanceBuilderOption func(*instanceImpl)

// WithInner is an option builder that tags the instance as part of the fixed
// inner ring, exempting it from lattice regeneration purges.
//
// Parameters:
//   - inner: true for inner-ring instances
//
// Returns:
//   - InstanceBuilderOption: a function that applies the inner tag
func WithInner(inner bool) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.inner = inner
	}
}

// WithRing is an option builder that sets the ring/slot address of the instance.
//
// Parameters:
//   - ringIndex: the ring the instance occupies (0 = inner ring)
//   - slotIndex: the slot within the ring
//
// Returns:
//   - InstanceBuilderOption: a function that applies the ring address
func WithRing(ringIndex, slotIndex int) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.ringIndex = ringIndex
		i.slotIndex = slotIndex
	}
}

// WithColor is an option builder that sets the color sequence index and the
// palette class derived from it.
//
// Parameters:
//   - colorIndex: the global color sequence index
//   - colorClass: the palette class (0 or 1)
//
// Returns:
//   - InstanceBuilderOption: a function that applies the color assignment
func WithColor(colorIndex, colorClass uint32) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.colorIndex = colorIndex
		i.colorClass = colorClass
	}
}

// WithPosition is an option builder that stages the initial pivot position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - InstanceBuilderOption: a function that applies the position
func WithPosition(x, y, z float32) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.initialPosition = [3]float32{x, y, z}
	}
}

// WithRotationZ is an option builder that stages the initial rest-pose rotation.
//
// Parameters:
//   - rotZ: rotation around the Z axis in radians
//
// Returns:
//   - InstanceBuilderOption: a function that applies the rotation
func WithRotationZ(rotZ float32) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.initialRotationZ = rotZ
	}
}

// WithScale is an option builder that stages the initial uniform scale.
//
// Parameters:
//   - scale: the uniform scale factor
//
// Returns:
//   - InstanceBuilderOption: a function that applies the scale
func WithScale(scale float32) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.initialScale = scale
	}
}

// WithModel is an option builder that associates a Model with the instance.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - InstanceBuilderOption: a function that applies the model reference
func WithModel(m model.Model) InstanceBuilderOption {
	return func(i *instanceImpl) {
		i.mdl = m
	}
}
