package animator

import (
	"sync"

	"github.com/Carmen-Shannon/pajarita-go/common"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// transformAnimatorBackendImpl is the concrete implementation of the transform animator backend.
type transformAnimatorBackendImpl struct {
	mu *sync.RWMutex

	// instanceProvider is the BindGroupProvider holding the instance storage buffer that
	// the lit, shadow, and overlay vertex shaders index with @builtin(instance_index).
	// Staged writes target this provider, and the scene re-initializes its bind group in
	// place when the backend reports a capacity rebuild.
	instanceProvider bind_group_provider.BindGroupProvider

	// stagedWriteData accumulates BufferWrite structs produced by Flush. The scene drains
	// this via StagedWriteData and submits the batch in a single WriteBuffers call.
	stagedWriteData []bind_group_provider.BufferWrite

	// maxInstances and instanceCount track the current capacity and number of live instances.
	maxInstances, instanceCount uint32

	// states is the CPU-side source of truth for instance placement. Rotation values here
	// are rest-pose angles; the spin accumulator never mutates them, which is what makes
	// disabling spin restore every instance's original rotation exactly.
	states []InstanceState

	// gpuData mirrors the GPU instance storage buffer. BuildRange rebuilds the Model field
	// from states plus the spin accumulator; palette fields are copied at mutation time.
	gpuData []GPUInstanceData

	// Sparse dirty tracking: dirtyIndices holds instance indices mutated since the last
	// Flush, dirtyBitset provides O(1) dedup. allDirty short-circuits both when a whole
	// buffer pass is pending (spin frames, regeneration, capacity changes).
	dirtyIndices []uint32
	dirtyBitset  []uint64 // 1 bit per instance index; word = index/64, bit = index%64
	allDirty     bool

	// stagingInstance is a reusable byte buffer for staged writes, sized to maxInstances.
	// wgpu's queue.WriteBuffer copies data internally before returning, so a single
	// buffer reused every frame is safe.
	stagingInstance []byte

	// needsRebuild is set when capacity changes and the GPU buffer must be recreated to
	// match. The render thread checks this before drawing and reinitializes the provider's
	// bind group at the new size.
	needsRebuild bool

	// pivot is the mesh-space offset from geometric center to rotation pivot, shared by
	// every instance of the model this backend animates.
	pivot [3]float32

	// Spin state. spinAngle accumulates while spinning and resets to zero when spin is
	// disabled, so rest-pose rotations come back untouched.
	spinning  bool
	spinSpeed float32 // radians per second
	spinAngle float32
}

// transformAnimatorBackend defines the interface for the instanced transform backend.
// It manages per-instance placement and palette data, rebuilds model matrices from
// rest-pose state plus the global spin accumulator, and stages coalesced GPU buffer
// writes for mutated instances.
type transformAnimatorBackend interface {
	// InstanceBindGroupProvider returns the BindGroupProvider holding the instance
	// storage buffer consumed by the lit, shadow, and overlay vertex shaders.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the instance buffer provider
	InstanceBindGroupProvider() bind_group_provider.BindGroupProvider

	// AddInstance registers a new instance with the given state and marks it dirty.
	// If the current capacity is exceeded, the backend grows automatically.
	//
	// Parameters:
	//   - st: the rest-pose placement and palette data for the new instance
	//
	// Returns:
	//   - uint32: the index of the newly registered instance
	//   - error: an error if the instance could not be added
	AddInstance(st InstanceState) (uint32, error)

	// InstanceCount returns the current number of live instances.
	//
	// Returns:
	//   - uint32: the number of live instances
	InstanceCount() uint32

	// MaxInstances returns the maximum number of instances the backend can hold
	// before it must grow.
	//
	// Returns:
	//   - uint32: the current instance capacity
	MaxInstances() uint32

	// SetMaxInstances resets the backend to a new capacity, discarding all instance
	// data. Intended for construction-time configuration; use Grow to change capacity
	// while preserving live instances.
	//
	// Parameters:
	//   - maxInstances: the new instance capacity
	SetMaxInstances(maxInstances uint32)

	// InstanceState returns the rest-pose state for a specific instance. Returns the
	// zero value when the index is out of range.
	//
	// Parameters:
	//   - index: the instance index to query
	//
	// Returns:
	//   - InstanceState: the instance's rest-pose placement and palette data
	InstanceState(index uint32) InstanceState

	// SetInstanceState replaces the rest-pose state for a specific instance and
	// marks it dirty. No-op when the index is not a live instance.
	//
	// Parameters:
	//   - index: the instance index to update
	//   - st: the new rest-pose placement and palette data
	SetInstanceState(index uint32, st InstanceState)

	// Truncate drops all instances at or beyond count, keeping indices below it
	// untouched. Used for wholesale regeneration where a fixed prefix of instances
	// survives and everything after it is rebuilt. No-op if count is greater than
	// or equal to the current instance count.
	//
	// Parameters:
	//   - count: the number of leading instances to keep
	Truncate(count uint32)

	// Grow increases the instance capacity to newMax, preserving all live instance
	// data, and sets the needsRebuild flag so the render thread recreates the GPU
	// buffer at the new size. No-op if newMax is not greater than the current capacity.
	//
	// Parameters:
	//   - newMax: the new instance capacity
	Grow(newMax uint32)

	// NeedsRebuild reports whether the GPU instance buffer must be recreated after a
	// capacity change.
	//
	// Returns:
	//   - bool: true if a rebuild is pending
	NeedsRebuild() bool

	// ClearNeedsRebuild resets the rebuild flag after the GPU buffer has been recreated.
	ClearNeedsRebuild()

	// SetPivot sets the mesh-space pivot offset folded into every instance's model matrix.
	//
	// Parameters:
	//   - pivot: the offset from the mesh's geometric center to its rotation pivot
	SetPivot(pivot [3]float32)

	// Pivot returns the mesh-space pivot offset.
	//
	// Returns:
	//   - [3]float32: the pivot offset
	Pivot() [3]float32

	// SetSpinning toggles the global spin animation. Disabling spin resets the spin
	// accumulator and marks all instances dirty, so the next build pass restores every
	// instance's rest-pose rotation exactly.
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

	// SpinSpeed returns the spin rate in radians per second.
	//
	// Returns:
	//   - float32: the spin rate
	SpinSpeed() float32

	// SpinAngle returns the current spin accumulator in radians. Zero when spin is off.
	//
	// Returns:
	//   - float32: the accumulated spin angle
	SpinAngle() float32

	// PrepareFrame advances the spin accumulator by deltaTime when spinning and marks
	// all live instances dirty so the next build pass rotates them. No-op when spin
	// is off or no instances are live.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// BuildRange rebuilds the GPU model matrices for instances in [start, end) from
	// their rest-pose state plus the current spin accumulator. The range is clamped
	// to the live instance count. Safe to call concurrently over disjoint ranges,
	// which is how the scene fans matrix builds across its worker pool.
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
	// the given binding on the instance provider. Returns 0 without staging anything
	// while a capacity rebuild is pending.
	//
	// Parameters:
	//   - instanceBinding: the bind group binding index of the instance storage buffer
	//
	// Returns:
	//   - uint32: the number of instances staged for upload
	Flush(instanceBinding int) uint32

	// StagedWriteData returns and clears the pending GPU buffer writes. The scene
	// drains this each frame and submits the batch via the renderer's WriteBuffers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the pending buffer writes
	StagedWriteData() []bind_group_provider.BufferWrite

	// Release frees the GPU resources held by the instance provider and drops all
	// CPU-side instance data.
	Release()
}

// compile-time check to ensure transformAnimatorBackendImpl implements AnimatorBackend.
var _ AnimatorBackend = &transformAnimatorBackendImpl{}

// newTransformAnimatorBackend creates and initializes a new instance of the transform
// animator backend with the default capacity.
//
// Returns:
//   - transformAnimatorBackend: a new instance of the transform animator backend
func newTransformAnimatorBackend() transformAnimatorBackend {
	t := &transformAnimatorBackendImpl{
		mu:           &sync.RWMutex{},
		maxInstances: 8192,
		spinSpeed:    1.0,
	}

	t.states = make([]InstanceState, t.maxInstances)
	t.gpuData = make([]GPUInstanceData, t.maxInstances)
	t.instanceProvider = bind_group_provider.NewBindGroupProvider("animator_instances")
	t.stagedWriteData = make([]bind_group_provider.BufferWrite, 0, 2)
	t.dirtyIndices = make([]uint32, 0, t.maxInstances)
	t.dirtyBitset = make([]uint64, (t.maxInstances+63)/64)
	t.initStagingPool()
	return t
}

// initStagingPool allocates (or reallocates) the reusable staging byte slice sized to
// the current maxInstances. Called at init time and after Grow/SetMaxInstances.
func (t *transformAnimatorBackendImpl) initStagingPool() {
	t.stagingInstance = make([]byte, int(t.maxInstances)*(&GPUInstanceData{}).Size())
}

func (t *transformAnimatorBackendImpl) InstanceBindGroupProvider() bind_group_provider.BindGroupProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.instanceProvider
}

func (t *transformAnimatorBackendImpl) AddInstance(st InstanceState) (uint32, error) {
	t.mu.Lock()
	if t.instanceCount >= t.maxInstances {
		// Auto-grow: double capacity (minimum 8). Unlock first because Grow acquires its own lock.
		newCap := max(t.maxInstances*2, 8)
		t.mu.Unlock()
		t.Grow(newCap)
		t.mu.Lock()
	}
	idx := t.instanceCount
	t.instanceCount++
	t.states[idx] = st
	t.gpuData[idx].ColorIndex = st.ColorIndex
	t.gpuData[idx].ColorClass = st.ColorClass
	t.enqueueDirty(idx)
	t.mu.Unlock()
	return idx, nil
}

func (t *transformAnimatorBackendImpl) InstanceCount() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.instanceCount
}

func (t *transformAnimatorBackendImpl) MaxInstances() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxInstances
}

func (t *transformAnimatorBackendImpl) SetMaxInstances(maxInstances uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxInstances = maxInstances
	t.states = make([]InstanceState, maxInstances)
	t.gpuData = make([]GPUInstanceData, maxInstances)
	t.instanceCount = 0
	t.dirtyIndices = t.dirtyIndices[:0]
	t.dirtyBitset = make([]uint64, (maxInstances+63)/64)
	t.allDirty = false
	t.initStagingPool()
}

func (t *transformAnimatorBackendImpl) InstanceState(index uint32) InstanceState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index >= t.instanceCount {
		return InstanceState{}
	}
	return t.states[index]
}

func (t *transformAnimatorBackendImpl) SetInstanceState(index uint32, st InstanceState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index >= t.instanceCount {
		return
	}
	t.states[index] = st
	t.gpuData[index].ColorIndex = st.ColorIndex
	t.gpuData[index].ColorClass = st.ColorClass
	t.enqueueDirty(index)
}

func (t *transformAnimatorBackendImpl) Truncate(count uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if count >= t.instanceCount {
		return
	}

	// Zero the dropped tail so stale data never reaches the GPU if capacity
	// is later reused, and prune dirty entries pointing past the new count.
	for i := count; i < t.instanceCount; i++ {
		t.states[i] = InstanceState{}
		t.gpuData[i] = GPUInstanceData{}
	}

	kept := t.dirtyIndices[:0]
	for _, idx := range t.dirtyIndices {
		if idx < count {
			kept = append(kept, idx)
		} else {
			t.dirtyBitset[idx/64] &^= uint64(1) << (idx % 64)
		}
	}
	t.dirtyIndices = kept
	t.instanceCount = count
}

func (t *transformAnimatorBackendImpl) Grow(newMax uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if newMax <= t.maxInstances {
		return
	}

	newStates := make([]InstanceState, newMax)
	copy(newStates, t.states[:t.instanceCount])
	t.states = newStates

	newData := make([]GPUInstanceData, newMax)
	copy(newData, t.gpuData[:t.instanceCount])
	t.gpuData = newData

	t.maxInstances = newMax

	// Everything live must re-upload once the GPU buffer is recreated.
	t.dirtyBitset = make([]uint64, (newMax+63)/64)
	t.dirtyIndices = t.dirtyIndices[:0]
	t.allDirty = true

	t.initStagingPool()

	// Discard stale staged writes and signal rebuild.
	t.stagedWriteData = t.stagedWriteData[:0]
	t.needsRebuild = true
}

func (t *transformAnimatorBackendImpl) NeedsRebuild() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.needsRebuild
}

func (t *transformAnimatorBackendImpl) ClearNeedsRebuild() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.needsRebuild = false
}

func (t *transformAnimatorBackendImpl) SetPivot(pivot [3]float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pivot = pivot
}

func (t *transformAnimatorBackendImpl) Pivot() [3]float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pivot
}

func (t *transformAnimatorBackendImpl) SetSpinning(spinning bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spinning == spinning {
		return
	}
	t.spinning = spinning
	if !spinning {
		// Rest-pose rotations were never mutated, so zeroing the accumulator and
		// rebuilding restores every instance's original rotation exactly.
		t.spinAngle = 0
		if t.instanceCount > 0 {
			t.allDirty = true
		}
	}
}

func (t *transformAnimatorBackendImpl) Spinning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spinning
}

func (t *transformAnimatorBackendImpl) SetSpinSpeed(radiansPerSecond float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spinSpeed = radiansPerSecond
}

func (t *transformAnimatorBackendImpl) SpinSpeed() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spinSpeed
}

func (t *transformAnimatorBackendImpl) SpinAngle() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spinAngle
}

func (t *transformAnimatorBackendImpl) PrepareFrame(deltaTime float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.spinning || t.instanceCount == 0 {
		return
	}

	// Wrap to keep the accumulator well-conditioned over long sessions.
	t.spinAngle = math32.Mod(t.spinAngle+t.spinSpeed*deltaTime, 2*math32.Pi)
	t.allDirty = true
}

func (t *transformAnimatorBackendImpl) BuildRange(start, end uint32) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := t.instanceCount
	if start >= count {
		return
	}
	end = min(end, count)

	for i := start; i < end; i++ {
		st := &t.states[i]
		common.BuildPivotModelMatrix(
			t.gpuData[i].Model[:],
			st.Position[0], st.Position[1], st.Position[2],
			st.Rotation+t.spinAngle,
			st.Scale,
			t.pivot[0], t.pivot[1], t.pivot[2],
		)
	}
}

func (t *transformAnimatorBackendImpl) HasDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allDirty || len(t.dirtyIndices) > 0
}

func (t *transformAnimatorBackendImpl) Flush(instanceBinding int) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.needsRebuild {
		return 0
	}

	instSize := uint64((&GPUInstanceData{}).Size())

	// Whole-buffer passes (spin frames, regeneration, post-grow re-uploads) collapse
	// into a single contiguous write covering every live instance.
	if t.allDirty {
		count := t.instanceCount
		if count > 0 {
			t.flushRange(0, count, instSize, instanceBinding)
		}
		t.clearDirty()
		return count
	}

	if len(t.dirtyIndices) == 0 {
		return 0
	}

	// Sort dirty indices so adjacent ones coalesce into contiguous buffer writes,
	// minimizing GPU write commands while only uploading mutated data.
	sortUint32(t.dirtyIndices)

	count := uint32(len(t.dirtyIndices))
	runStart := t.dirtyIndices[0]
	runEnd := runStart + 1 // exclusive

	for i := 1; i < len(t.dirtyIndices); i++ {
		idx := t.dirtyIndices[i]
		if idx == runEnd {
			runEnd++
		} else {
			t.flushRange(runStart, runEnd, instSize, instanceBinding)
			runStart = idx
			runEnd = idx + 1
		}
	}
	t.flushRange(runStart, runEnd, instSize, instanceBinding)

	t.clearDirty()
	return count
}

func (t *transformAnimatorBackendImpl) StagedWriteData() []bind_group_provider.BufferWrite {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.stagedWriteData
	t.stagedWriteData = t.stagedWriteData[:0]
	return w
}

func (t *transformAnimatorBackendImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.instanceProvider != nil {
		t.instanceProvider.Release()
	}
	t.states = nil
	t.gpuData = nil
	t.stagedWriteData = nil
	t.stagingInstance = nil
	t.dirtyIndices = nil
	t.dirtyBitset = nil
}

// enqueueDirty adds an instance index to the dirty queue if not already present.
// Uses a bitset for O(1) dedup. Caller must hold t.mu.
func (t *transformAnimatorBackendImpl) enqueueDirty(index uint32) {
	word := index / 64
	bit := uint64(1) << (index % 64)
	if t.dirtyBitset[word]&bit != 0 {
		return // already queued
	}
	t.dirtyBitset[word] |= bit
	t.dirtyIndices = append(t.dirtyIndices, index)
}

// clearDirty resets all dirty tracking state. Caller must hold t.mu.
func (t *transformAnimatorBackendImpl) clearDirty() {
	t.allDirty = false
	t.dirtyIndices = t.dirtyIndices[:0]
	for i := range t.dirtyBitset {
		t.dirtyBitset[i] = 0
	}
}

// flushRange stages a contiguous run of instance data [start, end) as a single
// GPU buffer write. Caller must hold t.mu.
func (t *transformAnimatorBackendImpl) flushRange(start, end uint32, instSize uint64, binding int) {
	offset := uint64(start) * instSize
	dirty := t.gpuData[start:end]
	raw := common.SliceToBytes(dirty)
	buf := t.stagingInstance[offset : offset+uint64(len(raw))]
	copy(buf, raw)

	t.stagedWriteData = append(t.stagedWriteData, bind_group_provider.BufferWrite{
		Provider: t.instanceProvider,
		Binding:  binding,
		Offset:   offset,
		Data:     buf,
	})
}

// sortUint32 sorts a uint32 slice in ascending order using insertion sort.
// For the typical dirty queue sizes (0 to a few hundred), insertion sort
// outperforms sort.Slice due to zero allocation and low overhead.
func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && s[j] > key {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}
