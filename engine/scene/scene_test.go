package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/pajarita-go/assets"
	"github.com/Carmen-Shannon/pajarita-go/engine/camera"
	"github.com/Carmen-Shannon/pajarita-go/engine/instance"
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/pajarita-go/lattice"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullRenderer satisfies renderer.Renderer without a GPU device so registry
// behavior can be exercised CPU-only.
type nullRenderer struct{}

var _ renderer.Renderer = &nullRenderer{}

func (n *nullRenderer) Pipeline(string) pipeline.Pipeline { return nil }

func (n *nullRenderer) Pipelines() map[string]pipeline.Pipeline { return nil }

func (n *nullRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }

func (n *nullRenderer) SetPipeline(string, pipeline.Pipeline) {}

func (n *nullRenderer) Resize(int, int) {}

func (n *nullRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (n *nullRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (n *nullRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (n *nullRenderer) BeginFrame() error { return nil }

func (n *nullRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (n *nullRenderer) DrawCallVertices(string, bind_group_provider.BindGroupProvider, uint32, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (n *nullRenderer) EndFrame() {}

func (n *nullRenderer) Present() {}

func (n *nullRenderer) SetPresentMode(renderer.PresentMode) {}

func (n *nullRenderer) SetClearColor(float64, float64, float64, float64) {}

func (n *nullRenderer) CreateShadowDepthTexture(int, int) (*wgpu.TextureView, *wgpu.Texture, error) {
	return nil, nil, nil
}

func (n *nullRenderer) CreateComparisonSampler() (*wgpu.Sampler, error) { return nil, nil }

func (n *nullRenderer) RegisterShadowPipeline(pipeline.Pipeline) error { return nil }

func (n *nullRenderer) BeginShadowFrame() error { return nil }

func (n *nullRenderer) BeginShadowPass(*wgpu.TextureView) {}

func (n *nullRenderer) ShadowDrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (n *nullRenderer) EndShadowPass() {}

func (n *nullRenderer) EndShadowFrame() {}

// newRegistryScene builds a scene on the null renderer with the inner ring and
// lattice requested before adoption, then adopts the shape model so both
// requests replay against the given parameters.
func newRegistryScene(t *testing.T, params lattice.Parameters) Scene {
	t.Helper()
	litVert := shader.NewShader("registry_lit_vert", shader.ShaderTypeVertex, assets.LatticeLitVertexWGSL)
	sc := NewScene("registry_test", camera.NewCamera(), &nullRenderer{}, litVert, WithComputeWorkers(1))
	sc.AddInnerRing()
	sc.RegenerateLattice(params)
	sc.AdoptShapeModel(model.NewModel(model.WithName("shape"), model.WithBoundingRadius(0.5)), sc.Generation())
	return sc
}

func TestPlacementStateCarriesPlacementData(t *testing.T) {
	p := lattice.Placement{
		RingIndex:  2,
		SlotIndex:  5,
		Position:   [3]float64{1.5, -2.25, 0.5},
		RotationZ:  math.Pi / 3,
		ColorIndex: 7,
		ColorClass: lattice.ColorClassB,
	}

	st := placementState(p, 1.4)

	assert.InDelta(t, 1.5, st.Position[0], 1e-6)
	assert.InDelta(t, -2.25, st.Position[1], 1e-6)
	assert.InDelta(t, 0.5, st.Position[2], 1e-6)
	assert.InDelta(t, math.Pi/3, st.Rotation, 1e-6)
	assert.Equal(t, float32(1.4), st.Scale)
	assert.Equal(t, uint32(7), st.ColorIndex)
	assert.Equal(t, uint32(1), st.ColorClass)
}

func TestBuildFloorMeshQuad(t *testing.T) {
	vertices, indices := buildFloorMesh(10, -0.5)

	require.Len(t, vertices, 4)
	require.Len(t, indices, 6)

	for _, v := range vertices {
		assert.Equal(t, float32(-0.5), v.Position[2])
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
		assert.Equal(t, float32(10), max32(abs32(v.Position[0]), abs32(v.Position[1])))
	}

	// Both triangles wind counterclockwise seen from +Z.
	for tri := 0; tri < 2; tri++ {
		a := vertices[indices[tri*3]].Position
		b := vertices[indices[tri*3+1]].Position
		c := vertices[indices[tri*3+2]].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		assert.Greater(t, cross, float32(0))
	}
}

func TestCollectMarkerVerticesSlotOrder(t *testing.T) {
	first := instance.NewInstance(instance.WithPosition(1, 0, 0), instance.WithScale(1))
	second := instance.NewInstance(instance.WithPosition(0, 2, 0.5), instance.WithScale(1))
	first.RebuildMarkers()
	second.RebuildMarkers()

	vertices := collectMarkerVertices([]instance.Instance{first, second})

	require.Len(t, vertices, 12)
	// The tether endpoint of each instance lands on the central axis at the
	// instance's depth.
	assert.Equal(t, [3]float32{0, 0, 0}, vertices[5].Position)
	assert.Equal(t, [3]float32{0, 0, 0.5}, vertices[11].Position)
}

func TestRegenerateLatticeRepeatDoesNotAccumulate(t *testing.T) {
	params := lattice.Parameters{
		RingCount:     2,
		RingSpacing:   1.0,
		UniformScale:  1.0,
		DensityFactor: 2.0,
	}
	sc := newRegistryScene(t, params)

	// Rings of 12 and 24 plus the six-instance inner ring.
	require.Equal(t, 6, sc.InnerCount())
	require.Equal(t, 42, sc.Count())

	impl := sc.(*scene)
	innerIDs := make([]uint64, 0, 6)
	for _, inst := range impl.instances[:6] {
		innerIDs = append(innerIDs, inst.ID())
	}
	wantX, wantY, wantZ := impl.instances[6].Position()

	for i := 0; i < 3; i++ {
		sc.RegenerateLattice(params)
	}

	assert.Equal(t, 42, sc.Count())
	assert.Equal(t, 6, sc.InnerCount())
	assert.Equal(t, uint32(42), impl.anim.InstanceCount())

	// The inner ring instances are the same objects, never re-created.
	for i, inst := range impl.instances[:6] {
		assert.True(t, inst.Inner())
		assert.Equal(t, innerIDs[i], inst.ID())
	}

	// Identical parameters lay the first lattice instance back in place.
	gotX, gotY, gotZ := impl.instances[6].Position()
	assert.InDelta(t, float64(wantX), float64(gotX), 1e-6)
	assert.InDelta(t, float64(wantY), float64(gotY), 1e-6)
	assert.InDelta(t, float64(wantZ), float64(gotZ), 1e-6)
}

func TestRegenerateLatticeRescalesInnerRing(t *testing.T) {
	params := lattice.Parameters{
		RingCount:     1,
		RingSpacing:   1.0,
		UniformScale:  1.0,
		DensityFactor: 1.0,
	}
	sc := newRegistryScene(t, params)
	impl := sc.(*scene)
	require.Equal(t, 6, sc.InnerCount())
	require.Equal(t, float32(1.0), impl.instances[0].Scale())

	params.UniformScale = 2.5
	sc.RegenerateLattice(params)

	// The uniform scale applies to every instance, inner ring included.
	for _, inst := range impl.instances {
		assert.Equal(t, float32(2.5), inst.Scale())
	}

	// Marker cross arms track the new scale.
	verts := impl.instances[0].MarkerVertices()
	require.Len(t, verts, 6)
	armSpan := verts[1].Position[0] - verts[0].Position[0]
	assert.InDelta(t, 2*0.12*2.5, float64(armSpan), 1e-5)
}

func TestLatticeBoundingSphereEnclosesOutermostRing(t *testing.T) {
	params := lattice.Parameters{
		RingCount:     4,
		RingSpacing:   1.5,
		UniformScale:  2.0,
		HeightStep:    0.5,
		DensityFactor: 2.0,
	}

	center, radius := latticeBoundingSphere(params, 0.8)

	// Outermost ring sits at distance 6 and height 2; the sphere must cover
	// its farthest point plus the scaled shape radius.
	outer := [3]float32{6, 0, 2}
	dx := outer[0] - center[0]
	dz := outer[2] - center[2]
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))
	assert.GreaterOrEqual(t, radius, dist+0.8*2.0-1e-4)
}

func TestLatticeBoundingSphereFloorsAtInnerRing(t *testing.T) {
	params := lattice.Parameters{
		RingCount:     1,
		RingSpacing:   0.2,
		RadialOffset:  -0.1,
		UniformScale:  1.0,
		DensityFactor: 1.0,
	}

	_, radius := latticeBoundingSphere(params, 0.5)
	assert.GreaterOrEqual(t, radius, float32(lattice.BaseRadius))
}

func TestLatticeBoundingSphereCoversNegativeRadialOffset(t *testing.T) {
	params := lattice.Parameters{
		RingCount:     3,
		RingSpacing:   0.5,
		RadialOffset:  -2.0,
		UniformScale:  1.0,
		DensityFactor: 1.0,
	}

	center, radius := latticeBoundingSphere(params, 0.5)

	// Ring 3 lands at distance (0.5-2.0)*3 = -4.5, on the far side of the
	// axis; the sphere must still cover it plus the shape radius.
	dist := abs32(float32(-4.5) - center[0])
	assert.GreaterOrEqual(t, radius, dist+0.5-1e-4)
}

func TestGPUFogParamsMarshalLayout(t *testing.T) {
	fog := GPUFogParams{Color: [3]float32{0.1, 0.2, 0.3}, Near: 25, Far: 70}

	require.Equal(t, 32, fog.Size())
	buf := fog.Marshal()
	require.Len(t, buf, 32)

	assert.Equal(t, float32(0.2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	assert.Equal(t, float32(25), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])))
	assert.Equal(t, float32(70), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
