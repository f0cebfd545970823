package animator

import (
	"testing"

	"github.com/Carmen-Shannon/pajarita-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(x, y, z, rot, scale float32, colorIndex, colorClass uint32) InstanceState {
	return InstanceState{
		Position:   [3]float32{x, y, z},
		Rotation:   rot,
		Scale:      scale,
		ColorIndex: colorIndex,
		ColorClass: colorClass,
	}
}

func TestAddInstanceAssignsSequentialIndices(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(16))

	for i := range uint32(5) {
		idx, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, i%2))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	assert.Equal(t, uint32(5), a.InstanceCount())
	st := a.InstanceState(3)
	assert.Equal(t, float32(3), st.Position[0])
	assert.Equal(t, uint32(3), st.ColorIndex)
	assert.Equal(t, uint32(1), st.ColorClass)
}

func TestInstanceStateOutOfRangeReturnsZero(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(4))
	_, err := a.AddInstance(testState(1, 2, 3, 0, 1, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, InstanceState{}, a.InstanceState(1))
	assert.Equal(t, InstanceState{}, a.InstanceState(99))
}

func TestAddInstanceAutoGrows(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(2))

	for i := range uint32(3) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, 0))
		require.NoError(t, err)
	}

	assert.Equal(t, uint32(3), a.InstanceCount())
	assert.GreaterOrEqual(t, a.MaxInstances(), uint32(3))
	assert.True(t, a.NeedsRebuild(), "capacity change must request a GPU buffer rebuild")

	// Live data survives the grow.
	assert.Equal(t, float32(2), a.InstanceState(2).Position[0])
	assert.Equal(t, uint32(2), a.InstanceState(2).ColorIndex)
}

func TestBuildRangeProducesPivotModelMatrix(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(4))
	st := testState(1, 2, 3, 0.5, 2.0, 7, 1)
	idx, err := a.AddInstance(st)
	require.NoError(t, err)

	a.BuildRange(0, a.InstanceCount())

	backend := a.(*animator).backend.(*transformAnimatorBackendImpl)
	got := backend.gpuData[idx]

	var want [16]float32
	common.BuildPivotModelMatrix(want[:], 1, 2, 3, 0.5, 2.0, 0, 0, 0)
	assert.Equal(t, want, got.Model)
	assert.Equal(t, uint32(7), got.ColorIndex)
	assert.Equal(t, uint32(1), got.ColorClass)
}

func TestBuildRangeAppliesModelPivot(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(4))
	backend := a.(*animator).backend.(*transformAnimatorBackendImpl)
	backend.SetPivot([3]float32{0.25, -0.5, 0})

	_, err := a.AddInstance(testState(4, 0, 0, 0, 1, 0, 0))
	require.NoError(t, err)
	a.BuildRange(0, 1)

	var want [16]float32
	common.BuildPivotModelMatrix(want[:], 4, 0, 0, 0, 1, 0.25, -0.5, 0)
	assert.Equal(t, want, backend.gpuData[0].Model)
}

func TestBuildRangeClampsToLiveInstances(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(8))
	_, err := a.AddInstance(testState(1, 0, 0, 0, 1, 0, 0))
	require.NoError(t, err)

	// Ranges past the live count must not touch dead slots.
	a.BuildRange(0, 8)
	a.BuildRange(5, 8)

	backend := a.(*animator).backend.(*transformAnimatorBackendImpl)
	assert.Equal(t, GPUInstanceData{}, backend.gpuData[1])
}

func TestSpinAdvancesAndRestoresRestPoseExactly(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(8), WithSpinSpeed(2.0))

	for i := range uint32(4) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0.25*float32(i), 1, i, 0))
		require.NoError(t, err)
	}

	// Capture the rest-pose matrices before any spin.
	a.BuildRange(0, a.InstanceCount())
	a.Flush(1)
	a.StagedWriteData()
	backend := a.(*animator).backend.(*transformAnimatorBackendImpl)
	var rest [4]GPUInstanceData
	copy(rest[:], backend.gpuData[:4])

	a.SetSpinning(true)
	assert.True(t, a.Spinning())
	a.PrepareFrame(0.5)
	assert.InDelta(t, 1.0, float64(a.SpinAngle()), 1e-6, "spinAngle should advance by speed*dt")
	assert.True(t, a.HasDirty(), "spin frames must mark instances for rebuild")

	a.BuildRange(0, a.InstanceCount())
	assert.NotEqual(t, rest[1].Model, backend.gpuData[1].Model, "spin should rotate instance matrices")

	// Disabling spin zeroes the accumulator and the next build pass restores
	// the rest pose bit for bit.
	a.SetSpinning(false)
	assert.False(t, a.Spinning())
	assert.Zero(t, a.SpinAngle())
	assert.True(t, a.HasDirty())

	a.BuildRange(0, a.InstanceCount())
	for i := range 4 {
		assert.Equal(t, rest[i].Model, backend.gpuData[i].Model, "instance %d rest pose must restore exactly", i)
	}
}

func TestPrepareFrameNoOpWhenNotSpinning(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(4))
	_, err := a.AddInstance(testState(1, 0, 0, 0, 1, 0, 0))
	require.NoError(t, err)
	a.Flush(1)
	a.StagedWriteData()

	a.PrepareFrame(0.016)
	assert.Zero(t, a.SpinAngle())
	assert.False(t, a.HasDirty())
}

func TestFlushCoalescesDirtyRuns(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(16))
	for i := range uint32(10) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, 0))
		require.NoError(t, err)
	}
	// Drain the writes staged by the initial adds.
	a.Flush(1)
	a.StagedWriteData()

	// Mutate a contiguous run and one isolated index, out of order.
	a.SetInstanceState(7, testState(70, 0, 0, 0, 1, 7, 0))
	a.SetInstanceState(3, testState(30, 0, 0, 0, 1, 3, 0))
	a.SetInstanceState(2, testState(20, 0, 0, 0, 1, 2, 0))
	a.SetInstanceState(4, testState(40, 0, 0, 0, 1, 4, 0))

	flushed := a.Flush(1)
	assert.Equal(t, uint32(4), flushed)

	writes := a.StagedWriteData()
	require.Len(t, writes, 2, "runs [2,4] and [7,7] should coalesce into two writes")

	stride := uint64((&GPUInstanceData{}).Size())
	assert.Equal(t, 2*stride, writes[0].Offset)
	assert.Equal(t, int(3*stride), len(writes[0].Data))
	assert.Equal(t, 7*stride, writes[1].Offset)
	assert.Equal(t, int(stride), len(writes[1].Data))
	for _, w := range writes {
		assert.Equal(t, 1, w.Binding)
		assert.Same(t, a.InstanceBindGroupProvider(), w.Provider)
	}

	// A second drain returns nothing.
	assert.Empty(t, a.StagedWriteData())
	assert.Zero(t, a.Flush(1))
}

func TestFlushAllDirtyStagesSingleWrite(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(16), WithSpinSpeed(1))
	for i := range uint32(6) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, 0))
		require.NoError(t, err)
	}
	a.Flush(1)
	a.StagedWriteData()

	a.SetSpinning(true)
	a.PrepareFrame(0.1)
	a.BuildRange(0, a.InstanceCount())

	flushed := a.Flush(1)
	assert.Equal(t, uint32(6), flushed)

	writes := a.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Zero(t, writes[0].Offset)
	assert.Equal(t, 6*(&GPUInstanceData{}).Size(), len(writes[0].Data))
}

func TestFlushSkippedWhileRebuildPending(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(2))
	_, err := a.AddInstance(testState(0, 0, 0, 0, 1, 0, 0))
	require.NoError(t, err)
	_, err = a.AddInstance(testState(1, 0, 0, 0, 1, 1, 0))
	require.NoError(t, err)
	_, err = a.AddInstance(testState(2, 0, 0, 0, 1, 2, 0))
	require.NoError(t, err)

	require.True(t, a.NeedsRebuild())
	assert.Zero(t, a.Flush(1), "writes against a stale buffer must not be staged")
	assert.Empty(t, a.StagedWriteData())

	// Once the render thread recreates the buffer, the full re-upload flows.
	a.ClearNeedsRebuild()
	a.BuildRange(0, a.InstanceCount())
	flushed := a.Flush(1)
	assert.Equal(t, uint32(3), flushed)

	writes := a.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Zero(t, writes[0].Offset)
}

func TestTruncateKeepsPrefixAndPrunesDirty(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(16))
	for i := range uint32(10) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, 0))
		require.NoError(t, err)
	}
	a.Flush(1)
	a.StagedWriteData()

	a.SetInstanceState(2, testState(20, 0, 0, 0, 1, 2, 0))
	a.SetInstanceState(8, testState(80, 0, 0, 0, 1, 8, 0))

	a.Truncate(6)
	assert.Equal(t, uint32(6), a.InstanceCount())
	assert.Equal(t, float32(5), a.InstanceState(5).Position[0])
	assert.Equal(t, InstanceState{}, a.InstanceState(6), "dropped slots read as zero")

	// Only the surviving dirty index flushes.
	flushed := a.Flush(1)
	assert.Equal(t, uint32(1), flushed)
	writes := a.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, 2*uint64((&GPUInstanceData{}).Size()), writes[0].Offset)

	// Truncate at or past the live count is a no-op.
	a.Truncate(6)
	a.Truncate(100)
	assert.Equal(t, uint32(6), a.InstanceCount())
}

func TestTruncateThenAddReusesSlots(t *testing.T) {
	a := NewAnimator(BackendTypeTransform, WithMaxInstances(8))
	for i := range uint32(6) {
		_, err := a.AddInstance(testState(float32(i), 0, 0, 0, 1, i, 0))
		require.NoError(t, err)
	}

	a.Truncate(2)
	idx, err := a.AddInstance(testState(99, 0, 0, 0, 1, 9, 1))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), idx)
	assert.Equal(t, float32(99), a.InstanceState(2).Position[0])
}

func TestGPUInstanceDataLayout(t *testing.T) {
	d := GPUInstanceData{ColorIndex: 5, ColorClass: 1}
	assert.Equal(t, 80, d.Size(), "instance stride must match the WGSL InstanceData layout")

	buf := d.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, byte(5), buf[64])
	assert.Equal(t, byte(1), buf[68])
}
