package instance

import (
	"testing"

	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagedTransformBeforeMaterialization(t *testing.T) {
	inst := NewInstance(
		WithInner(true),
		WithRing(0, 4),
		WithColor(7, 1),
		WithPosition(1, 2, 3),
		WithRotationZ(0.5),
		WithScale(1.5),
	)

	assert.True(t, inst.Inner())
	assert.Equal(t, 0, inst.RingIndex())
	assert.Equal(t, 4, inst.SlotIndex())
	assert.Equal(t, uint32(7), inst.ColorIndex())
	assert.Equal(t, uint32(1), inst.ColorClass())
	assert.Equal(t, -1, inst.AnimatorInstanceID())

	x, y, z := inst.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})
	assert.Equal(t, float32(0.5), inst.RotationZ())
	assert.Equal(t, float32(1.5), inst.Scale())
}

func TestReadsFollowAnimatorSlotAfterBinding(t *testing.T) {
	anim := animator.NewAnimator(animator.BackendTypeTransform)
	idx, err := anim.AddInstance(animator.InstanceState{
		Position:   [3]float32{4, 0, 0},
		Rotation:   1.0,
		Scale:      2.0,
		ColorIndex: 3,
		ColorClass: 1,
	})
	require.NoError(t, err)

	inst := NewInstance(WithRing(1, 0), WithColor(3, 1))
	inst.SetAnimator(anim)
	inst.SetAnimatorInstanceID(int(idx))

	x, _, _ := inst.Position()
	assert.Equal(t, float32(4), x)
	assert.Equal(t, float32(1.0), inst.RotationZ())
	assert.Equal(t, float32(2.0), inst.Scale())

	// Writes go through to the animator slot.
	inst.SetPosition(6, 1, 0)
	st := anim.InstanceState(idx)
	assert.Equal(t, [3]float32{6, 1, 0}, st.Position)

	inst.SetRotationZ(0.25)
	assert.Equal(t, float32(0.25), anim.InstanceState(idx).Rotation)

	inst.SetScale(0.5)
	assert.Equal(t, float32(0.5), anim.InstanceState(idx).Scale)
}

func TestRebuildMarkersProducesCrossAndTether(t *testing.T) {
	inst := NewInstance(WithPosition(3, 4, 5), WithScale(2))
	require.Nil(t, inst.MarkerVertices())

	inst.RebuildMarkers()
	verts := inst.MarkerVertices()
	require.Len(t, verts, 6)

	h := float32(markerCrossHalf * 2)
	assert.Equal(t, [3]float32{3 - h, 4, 5}, verts[0].Position)
	assert.Equal(t, [3]float32{3 + h, 4, 5}, verts[1].Position)
	assert.Equal(t, [3]float32{3, 4 - h, 5}, verts[2].Position)
	assert.Equal(t, [3]float32{3, 4 + h, 5}, verts[3].Position)

	// Tether runs from the pivot to the central axis at the same depth.
	assert.Equal(t, [3]float32{3, 4, 5}, verts[4].Position)
	assert.Equal(t, [3]float32{0, 0, 5}, verts[5].Position)
	assert.NotEqual(t, verts[0].Color, verts[4].Color)
}

func TestRebuildMarkersTracksRepositioning(t *testing.T) {
	inst := NewInstance(WithPosition(1, 0, 0), WithScale(1))
	inst.RebuildMarkers()
	first := inst.MarkerVertices()[4].Position

	inst.SetPosition(2, 0, 0)
	inst.RebuildMarkers()
	second := inst.MarkerVertices()[4].Position

	assert.Equal(t, [3]float32{1, 0, 0}, first)
	assert.Equal(t, [3]float32{2, 0, 0}, second)
}
