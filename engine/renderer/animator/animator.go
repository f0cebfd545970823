package animator

import (
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/bind_group_provider"
)

// animator is the implementation of the Animator interface.
type animator struct {
	backendType AnimatorBackendType
	backend     AnimatorBackend
	model       model.Model
}

// Animator defines the public interface for the instanced animation system.
//
// The Animator owns the CPU mirror of a model's per-instance storage buffer. Instances
// are registered with a rest-pose state (position, rotation, scale, palette data); the
// Animator rebuilds their GPU model matrices from that state plus a global spin
// accumulator and stages coalesced buffer writes for the renderer to submit each frame.
// Because rest-pose rotations are never mutated by the spin animation, turning spin off
// restores every instance's original rotation exactly.
type Animator interface {
	// MaxInstances returns the maximum number of instances this animator can hold
	// before it must grow.
	//
	// Returns:
	//   - uint32: the current instance capacity
	MaxInstances() uint32

	// InstanceCount returns the current number of live instances.
	//
	// Returns:
	//   - uint32: the number of live instances
	InstanceCount() uint32

	// InstanceBindGroupProvider returns the BindGroupProvider holding the instance
	// storage buffer consumed by the lit, shadow, and overlay vertex shaders.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the instance buffer provider
	InstanceBindGroupProvider() bind_group_provider.BindGroupProvider

	// AddInstance registers a new instance with the given rest-pose state.
	// If the current capacity is exceeded, the animator grows automatically.
	//
	// Parameters:
	//   - st: the rest-pose placement and palette data for the new instance
	//
	// Returns:
	//   - uint32: the index of the newly registered instance
	//   - error: an error if the instance could not be added
	AddInstance(st InstanceState) (uint32, error)

	// InstanceState returns the rest-pose state for a specific instance. Returns the
	// zero value when the index is out of range.
	//
	// Parameters:
	//   - index: the instance index to query
	//
	// Returns:
	//   - InstanceState: the instance's rest-pose placement and palette data
	InstanceState(index uint32) InstanceState

	// SetInstanceState replaces the rest-pose state for a specific instance.
	// No-op when the index is not a live instance.
	//
	// Parameters:
	//   - index: the instance index to update
	//   - st: the new rest-pose placement and palette data
	SetInstanceState(index uint32, st InstanceState)

	// Truncate drops all instances at or beyond count, keeping indices below it
	// untouched. Used for wholesale regeneration where a fixed prefix of instances
	// survives and everything after it is rebuilt.
	//
	// Parameters:
	//   - count: the number of leading instances to keep
	Truncate(count uint32)

	// Grow increases the instance capacity to newMax, preserving all live instance
	// data. Sets the rebuild flag so the render thread recreates the GPU buffer.
	//
	// Parameters:
	//   - newMax: the new instance capacity
	Grow(newMax uint32)

	// NeedsRebuild reports whether the GPU instance buffer must be recreated after
	// a capacity change.
	//
	// Returns:
	//   - bool: true if a rebuild is pending
	NeedsRebuild() bool

	// ClearNeedsRebuild resets the rebuild flag after the GPU buffer has been recreated.
	ClearNeedsRebuild()

	// SetSpinning toggles the global spin animation. Disabling spin restores every
	// instance's rest-pose rotation exactly on the next build pass.
	//
	// Parameters:
	//   - spinning: true to start spinning, false to stop and restore rest pose
	SetSpinning(spinning bool)

	// Spinning reports whether the global spin animation is active.
	//
	// Returns:
	//   - bool: true if instances are spinning
	Spinning() bool

	// SetSpinSpeed sets the spin rate in radians per second.
	//
	// Parameters:
	//   - radiansPerSecond: the spin rate
	SetSpinSpeed(radiansPerSecond float32)

	// SpinAngle returns the current spin accumulator in radians. Zero when spin is off.
	//
	// Returns:
	//   - float32: the accumulated spin angle
	SpinAngle() float32

	// PrepareFrame advances the spin accumulator by deltaTime when spinning and
	// marks all live instances for a matrix rebuild.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// BuildRange rebuilds the GPU model matrices for instances in [start, end) from
	// their rest-pose state plus the current spin accumulator. Safe to call
	// concurrently over disjoint ranges, which is how the scene fans matrix builds
	// across its worker pool.
	//
	// Parameters:
	//   - start: the first instance index to rebuild (inclusive)
	//   - end: the last instance index to rebuild (exclusive)
	BuildRange(start, end uint32)

	// HasDirty reports whether any instances have been mutated since the last Flush,
	// meaning a build and flush pass is needed this frame.
	//
	// Returns:
	//   - bool: true if dirty instances are pending upload
	HasDirty() bool

	// Flush coalesces dirty instances into contiguous staged buffer writes targeting
	// the given binding on the instance provider.
	//
	// Parameters:
	//   - instanceBinding: the bind group binding index of the instance storage buffer
	//
	// Returns:
	//   - uint32: the number of instances staged for upload
	Flush(instanceBinding int) uint32

	// StagedWriteData returns and clears the pending GPU buffer writes.
	// The scene drains this each frame and submits the batch via WriteBuffers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the pending buffer writes
	StagedWriteData() []bind_group_provider.BufferWrite

	// Release frees all GPU resources held by this animator and its provider.
	Release()

	// BackendType returns the type of backend this animator is using.
	//
	// Returns:
	//   - AnimatorBackendType: the backend type
	BackendType() AnimatorBackendType

	// Model retrieves the Model associated with this animator, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model and adopts its pivot offset for matrix builds.
	//
	// Parameters:
	//   - m: the Model to associate with this animator
	SetModel(m model.Model)
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator instance with the specified backend type.
// The backend is created based on the type and then configured using the provided options.
//
// Parameters:
//   - backendType: the type of animation backend to use
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new instance of Animator configured with the specified backend and options
func NewAnimator(backendType AnimatorBackendType, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		backendType: backendType,
	}
	switch backendType {
	case BackendTypeTransform:
		fallthrough
	default:
		a.backend = newTransformAnimatorBackend()
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) MaxInstances() uint32 {
	return a.backend.MaxInstances()
}

func (a *animator) InstanceCount() uint32 {
	return a.backend.InstanceCount()
}

func (a *animator) InstanceBindGroupProvider() bind_group_provider.BindGroupProvider {
	return a.backend.InstanceBindGroupProvider()
}

func (a *animator) AddInstance(st InstanceState) (uint32, error) {
	return a.backend.AddInstance(st)
}

func (a *animator) InstanceState(index uint32) InstanceState {
	return a.backend.InstanceState(index)
}

func (a *animator) SetInstanceState(index uint32, st InstanceState) {
	a.backend.SetInstanceState(index, st)
}

func (a *animator) Truncate(count uint32) {
	a.backend.Truncate(count)
}

func (a *animator) Grow(newMax uint32) {
	a.backend.Grow(newMax)
}

func (a *animator) NeedsRebuild() bool {
	return a.backend.NeedsRebuild()
}

func (a *animator) ClearNeedsRebuild() {
	a.backend.ClearNeedsRebuild()
}

func (a *animator) SetSpinning(spinning bool) {
	a.backend.SetSpinning(spinning)
}

func (a *animator) Spinning() bool {
	return a.backend.Spinning()
}

func (a *animator) SetSpinSpeed(radiansPerSecond float32) {
	a.backend.SetSpinSpeed(radiansPerSecond)
}

func (a *animator) SpinAngle() float32 {
	return a.backend.SpinAngle()
}

func (a *animator) PrepareFrame(deltaTime float32) {
	a.backend.PrepareFrame(deltaTime)
}

func (a *animator) BuildRange(start, end uint32) {
	a.backend.BuildRange(start, end)
}

func (a *animator) HasDirty() bool {
	return a.backend.HasDirty()
}

func (a *animator) Flush(instanceBinding int) uint32 {
	return a.backend.Flush(instanceBinding)
}

func (a *animator) StagedWriteData() []bind_group_provider.BufferWrite {
	return a.backend.StagedWriteData()
}

func (a *animator) Release() {
	a.backend.Release()
}

func (a *animator) BackendType() AnimatorBackendType {
	return a.backendType
}

func (a *animator) Model() model.Model {
	return a.model
}

func (a *animator) SetModel(m model.Model) {
	a.model = m
	if m != nil {
		a.backend.SetPivot(m.PivotOffset())
	}
}
