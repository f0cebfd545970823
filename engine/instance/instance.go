// package instance defines the scene entity for one placed shape in the
// lattice: its ring/slot address, rest-pose transform, color class, and the
// marker overlay segments it owns.
package instance

import (
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/animator"
)

// Marker overlay colors. The cross marks the instance pivot; the tether runs
// from the pivot to the lattice's central axis at the instance's depth.
var (
	markerCrossColor  = [4]float32{1.0, 0.78, 0.25, 1.0}
	markerTetherColor = [4]float32{0.42, 0.55, 0.8, 1.0}
)

// markerCrossHalf is the half-length of each marker cross arm, scaled by the
// instance's uniform scale.
const markerCrossHalf = 0.12

type instanceImpl struct {
	id         uint64
	inner      bool
	ringIndex  int
	slotIndex  int
	colorIndex uint32
	colorClass uint32

	mdl                model.Model
	animator           animator.Animator
	animatorInstanceID int

	// rest-pose transform used before the instance is materialized into an
	// animator slot; reads fall through to the animator once bound
	initialPosition  [3]float32
	initialRotationZ float32
	initialScale     float32

	markerVertices []model.GPULineVertex
}

// Instance defines the interface for a single lattice entity bound to an
// Animator slot. Transform reads derive from the Animator's state arrays via
// the slot index once the instance is materialized; before that they return
// the values staged at construction. RotationZ is always the rest pose: the
// global spin angle lives in the Animator and never touches it.
//
// Instances are not safe for concurrent mutation; the scene's lock guards them.
type Instance interface {
	// ID returns the instance's unique identifier within the scene registry.
	//
	// Returns:
	//   - uint64: the instance ID
	ID() uint64

	// Inner reports whether this instance belongs to the fixed inner ring.
	// Inner instances are created once and survive every lattice regeneration.
	//
	// Returns:
	//   - bool: true for inner-ring instances
	Inner() bool

	// RingIndex returns the ring this instance occupies. The fixed inner ring
	// is ring 0; lattice rings count from 1.
	//
	// Returns:
	//   - int: the ring index
	RingIndex() int

	// SlotIndex returns the slot within the ring, counting counterclockwise
	// from the ring's start angle.
	//
	// Returns:
	//   - int: the slot index
	SlotIndex() int

	// ColorIndex returns the global color sequence index assigned by the
	// layout engine.
	//
	// Returns:
	//   - uint32: the color index
	ColorIndex() uint32

	// ColorClass returns the palette class (0 or 1) derived from the color
	// index parity.
	//
	// Returns:
	//   - uint32: the color class
	ColorClass() uint32

	// Model returns the Model associated with this instance, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Animator returns the Animator this instance is materialized into.
	//
	// Returns:
	//   - animator.Animator: the associated Animator, or nil before materialization
	Animator() animator.Animator

	// AnimatorInstanceID returns the slot index within the Animator.
	//
	// Returns:
	//   - int: the slot index, or -1 if not materialized
	AnimatorInstanceID() int

	// Position returns the instance's pivot position. Reads from the Animator
	// slot when materialized, otherwise from the staged initial transform.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// RotationZ returns the rest-pose rotation around the Z axis in radians.
	// The accrued global spin angle is never included.
	//
	// Returns:
	//   - float32: the rest-pose rotation
	RotationZ() float32

	// Scale returns the uniform scale factor.
	//
	// Returns:
	//   - float32: the scale factor
	Scale() float32

	// SetID sets the instance's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetModel assigns a Model to this instance.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetAnimator sets the Animator this instance is materialized into.
	//
	// Parameters:
	//   - anim: the Animator to associate
	SetAnimator(anim animator.Animator)

	// SetAnimatorInstanceID sets the slot index within the Animator.
	//
	// Parameters:
	//   - instanceID: the slot index
	SetAnimatorInstanceID(instanceID int)

	// SetPosition updates the pivot position, writing through to the Animator
	// slot when materialized. Marker segments are not rebuilt automatically;
	// call RebuildMarkers after repositioning.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotationZ updates the rest-pose rotation, writing through to the
	// Animator slot when materialized.
	//
	// Parameters:
	//   - rotZ: new rest-pose rotation in radians
	SetRotationZ(rotZ float32)

	// SetScale updates the uniform scale, writing through to the Animator
	// slot when materialized.
	//
	// Parameters:
	//   - scale: new uniform scale factor
	SetScale(scale float32)

	// MarkerVertices returns the overlay line segments owned by this instance
	// as line-list vertex pairs: the pivot cross plus the tether to the
	// central axis. Nil until RebuildMarkers has run.
	//
	// Returns:
	//   - []model.GPULineVertex: the marker vertices, two per segment
	MarkerVertices() []model.GPULineVertex

	// RebuildMarkers recomputes the marker segments from the current position
	// and scale. Segments are world-space and do not follow the global spin.
	RebuildMarkers()
}

var _ Instance = &instanceImpl{}

// NewInstance creates a new Instance configured with the given options.
//
// Parameters:
//   - options: functional options to configure the instance
//
// Returns:
//   - Instance: the newly created instance
func NewInstance(options ...InstanceBuilderOption) Instance {
	inst := &instanceImpl{
		initialScale:       1,
		animatorInstanceID: -1,
	}
	for _, option := range options {
		option(inst)
	}
	return inst
}

func (i *instanceImpl) ID() uint64 {
	return i.id
}

func (i *instanceImpl) Inner() bool {
	return i.inner
}

func (i *instanceImpl) RingIndex() int {
	return i.ringIndex
}

func (i *instanceImpl) SlotIndex() int {
	return i.slotIndex
}

func (i *instanceImpl) ColorIndex() uint32 {
	return i.colorIndex
}

func (i *instanceImpl) ColorClass() uint32 {
	return i.colorClass
}

func (i *instanceImpl) Model() model.Model {
	return i.mdl
}

func (i *instanceImpl) Animator() animator.Animator {
	return i.animator
}

func (i *instanceImpl) AnimatorInstanceID() int {
	return i.animatorInstanceID
}

func (i *instanceImpl) Position() (x, y, z float32) {
	if i.animator == nil || i.animatorInstanceID < 0 {
		return i.initialPosition[0], i.initialPosition[1], i.initialPosition[2]
	}
	st := i.animator.InstanceState(uint32(i.animatorInstanceID))
	return st.Position[0], st.Position[1], st.Position[2]
}

func (i *instanceImpl) RotationZ() float32 {
	if i.animator == nil || i.animatorInstanceID < 0 {
		return i.initialRotationZ
	}
	return i.animator.InstanceState(uint32(i.animatorInstanceID)).Rotation
}

func (i *instanceImpl) Scale() float32 {
	if i.animator == nil || i.animatorInstanceID < 0 {
		return i.initialScale
	}
	return i.animator.InstanceState(uint32(i.animatorInstanceID)).Scale
}

func (i *instanceImpl) SetID(id uint64) {
	i.id = id
}

func (i *instanceImpl) SetModel(m model.Model) {
	i.mdl = m
}

func (i *instanceImpl) SetAnimator(anim animator.Animator) {
	i.animator = anim
}

func (i *instanceImpl) SetAnimatorInstanceID(instanceID int) {
	i.animatorInstanceID = instanceID
}

func (i *instanceImpl) SetPosition(x, y, z float32) {
	if i.animator == nil || i.animatorInstanceID < 0 {
		i.initialPosition = [3]float32{x, y, z}
		return
	}
	st := i.animator.InstanceState(uint32(i.animatorInstanceID))
	st.Position = [3]float32{x, y, z}
	i.animator.SetInstanceState(uint32(i.animatorInstanceID), st)
}

func (i *instanceImpl) SetRotationZ(rotZ float32) {
	if i.animator == nil || i.animatorInstanceID < 0 {
		i.initialRotationZ = rotZ
		return
	}
	st := i.animator.InstanceState(uint32(i.animatorInstanceID))
	st.Rotation = rotZ
	i.animator.SetInstanceState(uint32(i.animatorInstanceID), st)
}

func (i *instanceImpl) SetScale(scale float32) {
	if i.animator == nil || i.animatorInstanceID < 0 {
		i.initialScale = scale
		return
	}
	st := i.animator.InstanceState(uint32(i.animatorInstanceID))
	st.Scale = scale
	i.animator.SetInstanceState(uint32(i.animatorInstanceID), st)
}

func (i *instanceImpl) MarkerVertices() []model.GPULineVertex {
	return i.markerVertices
}

func (i *instanceImpl) RebuildMarkers() {
	x, y, z := i.Position()
	h := markerCrossHalf * i.Scale()

	// Two cross arms in the lattice plane, then the tether to the central
	// axis at this instance's depth. Line-list pairs.
	i.markerVertices = []model.GPULineVertex{
		{Position: [3]float32{x - h, y, z}, Color: markerCrossColor},
		{Position: [3]float32{x + h, y, z}, Color: markerCrossColor},
		{Position: [3]float32{x, y - h, z}, Color: markerCrossColor},
		{Position: [3]float32{x, y + h, z}, Color: markerCrossColor},
		{Position: [3]float32{x, y, z}, Color: markerTetherColor},
		{Position: [3]float32{0, 0, z}, Color: markerTetherColor},
	}
}
