package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_normal: vec3<f32>,
};

struct CameraUniform {
    view_proj: mat4x4<f32>,
    position: vec4<f32>,
};

struct InstanceData {
    model: mat4x4<f32>,
    color_index: u32,
    flags: u32,
    pad0: u32,
    pad1: u32,
};

struct InstanceBuffer {
    items: array<InstanceData>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<storage, read> instances: InstanceBuffer;

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) instance_index: u32) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.world_normal = in.normal;
    return out;
}
`

const testFragmentSource = `
struct FragmentInput {
    @builtin(position) frag_coord: vec4<f32>,
    @location(0) world_normal: vec3<f32>,
};

struct SceneUniform {
    fog_color: vec4<f32>,
    fog_params: vec4<f32>,
};

@group(0) @binding(1) var<uniform> scene_data: SceneUniform;
@group(2) @binding(0) var shadow_map: texture_depth_2d;
@group(2) @binding(1) var shadow_sampler: sampler_comparison;

@fragment
fn fs_main(in: FragmentInput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.world_normal, 1.0);
}
`

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("empty", ShaderTypeVertex, "")
	})
}

func TestNewShaderParsesVertexEntryPoint(t *testing.T) {
	s := NewShader("test_vertex", ShaderTypeVertex, testVertexSource)

	assert.Equal(t, "test_vertex", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())

	require.NotNil(t, s.Module())
	assert.Equal(t, "test_vertex", s.Module().Label)
	require.NotNil(t, s.Module().WGSLDescriptor)
	assert.Equal(t, testVertexSource, s.Module().WGSLDescriptor.Code)
}

func TestNewShaderParsesFragmentEntryPoint(t *testing.T) {
	s := NewShader("test_fragment", ShaderTypeFragment, testFragmentSource)

	assert.Equal(t, ShaderTypeFragment, s.ShaderType())
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
}

func TestVertexLayoutExtraction(t *testing.T) {
	s := NewShader("test_vertex", ShaderTypeVertex, testVertexSource)

	layouts := s.VertexLayout(0)
	require.Len(t, layouts, 1)

	layout := layouts[0]
	assert.Equal(t, uint64(24), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 2)

	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, uint32(0), layout.Attributes[0].ShaderLocation)

	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[1].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout.Attributes[1].ShaderLocation)
}

func TestVertexLayoutSkipsOutputStructs(t *testing.T) {
	s := NewShader("test_vertex", ShaderTypeVertex, testVertexSource)

	// VertexOutput mixes @builtin(position) with @location fields and must not
	// produce a vertex buffer layout. Only VertexInput qualifies.
	assert.Len(t, s.VertexLayouts(), 1)
}

func TestBindGroupLayoutsForVertexShader(t *testing.T) {
	s := NewShader("test_vertex", ShaderTypeVertex, testVertexSource)

	descriptors := s.BindGroupLayoutDescriptors()
	require.Len(t, descriptors, 2)

	group0 := s.BindGroupLayoutDescriptor(0)
	require.Len(t, group0.Entries, 1)
	assert.Equal(t, uint32(0), group0.Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex, group0.Entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, group0.Entries[0].Buffer.Type)
	// CameraUniform: mat4x4<f32> (64) + vec4<f32> (16) = 80 bytes
	assert.Equal(t, uint64(80), group0.Entries[0].Buffer.MinBindingSize)

	group1 := s.BindGroupLayoutDescriptor(1)
	require.Len(t, group1.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, group1.Entries[0].Buffer.Type)
	// InstanceBuffer holds a runtime-sized array of InstanceData, so the minimum
	// binding size is one element: mat4x4<f32> (64) + 4 x u32 (16) = 80 bytes.
	assert.Equal(t, uint64(80), group1.Entries[0].Buffer.MinBindingSize)
}

func TestBindGroupLayoutsForFragmentShader(t *testing.T) {
	s := NewShader("test_fragment", ShaderTypeFragment, testFragmentSource)

	group0 := s.BindGroupLayoutDescriptor(0)
	require.Len(t, group0.Entries, 1)
	assert.Equal(t, uint32(1), group0.Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, group0.Entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, group0.Entries[0].Buffer.Type)
	// SceneUniform: 2 x vec4<f32> = 32 bytes
	assert.Equal(t, uint64(32), group0.Entries[0].Buffer.MinBindingSize)

	group2 := s.BindGroupLayoutDescriptor(2)
	require.Len(t, group2.Entries, 2)

	assert.Equal(t, uint32(0), group2.Entries[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, group2.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, group2.Entries[0].Texture.ViewDimension)

	assert.Equal(t, uint32(1), group2.Entries[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, group2.Entries[1].Sampler.Type)
}

func TestBindGroupVarNameLookup(t *testing.T) {
	s := NewShader("test_fragment", ShaderTypeFragment, testFragmentSource)

	assert.Equal(t, "scene_data", s.BindGroupVarName(0, 1))
	assert.Equal(t, "shadow_map", s.BindGroupVarName(2, 0))
	assert.Equal(t, "shadow_sampler", s.BindGroupVarName(2, 1))
	assert.Equal(t, "", s.BindGroupVarName(5, 0))

	binding, ok := s.BindGroupFromVarName(2, "shadow_sampler")
	assert.True(t, ok)
	assert.Equal(t, 1, binding)

	_, ok = s.BindGroupFromVarName(2, "missing")
	assert.False(t, ok)
}

func TestParseIgnoresCommentedDeclarations(t *testing.T) {
	source := `
// @group(0) @binding(0) var<uniform> ghost: GhostUniform;
/* @group(1) @binding(0) var<uniform> nested_ghost: GhostUniform;
   /* nested block */ still inside */
struct RealUniform {
    value: vec4<f32>,
};

@group(0) @binding(0) var<uniform> real_data: RealUniform;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`
	s := NewShader("commented", ShaderTypeVertex, source)

	descriptors := s.BindGroupLayoutDescriptors()
	require.Len(t, descriptors, 1)
	require.Len(t, descriptors[0].Entries, 1)
	assert.Equal(t, "real_data", s.BindGroupVarName(0, 0))
	assert.Equal(t, uint64(16), descriptors[0].Entries[0].Buffer.MinBindingSize)
}

func TestComputeStructSizesResolvesNestedStructs(t *testing.T) {
	structs := []parsedStruct{
		{
			// Declared before its dependency to exercise iterative resolution
			name: "Outer",
			fields: []parsedField{
				{name: "inner", typeName: "Inner", location: -1},
				{name: "weight", typeName: "f32", location: -1},
			},
		},
		{
			name: "Inner",
			fields: []parsedField{
				{name: "direction", typeName: "vec3<f32>", location: -1},
				{name: "intensity", typeName: "f32", location: -1},
			},
		},
	}

	sizes := computeStructSizes(structs)

	require.Contains(t, sizes, "Inner")
	assert.Equal(t, uint64(16), sizes["Inner"].size)
	assert.Equal(t, uint64(16), sizes["Inner"].align)

	require.Contains(t, sizes, "Outer")
	// Inner (16, align 16) + f32 (4) rounded up to align 16 = 32
	assert.Equal(t, uint64(32), sizes["Outer"].size)
}

func TestResolveTypeLayoutFixedArray(t *testing.T) {
	layout, ok := resolveTypeLayout("array<vec4<f32>, 6>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(96), layout.size)
	assert.Equal(t, uint64(16), layout.align)
}

func TestResolveTypeLayoutVec3Padding(t *testing.T) {
	structs := []parsedStruct{
		{
			name: "Padded",
			fields: []parsedField{
				{name: "a", typeName: "vec3<f32>", location: -1},
				{name: "b", typeName: "f32", location: -1},
				{name: "c", typeName: "vec3<f32>", location: -1},
			},
		},
	}

	sizes := computeStructSizes(structs)
	require.Contains(t, sizes, "Padded")
	// vec3 at 0 (12), f32 packs at 12 (16), vec3 aligns up to 16 (28), round to 32
	assert.Equal(t, uint64(32), sizes["Padded"].size)
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("colors: array<vec4<f32>, 6>, count: u32")
	require.Len(t, parts, 2)
	assert.Equal(t, "colors: array<vec4<f32>, 6>", strings.TrimSpace(parts[0]))
	assert.Equal(t, "count: u32", strings.TrimSpace(parts[1]))
}
