package scene

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/pajarita-go/common"
	"github.com/Carmen-Shannon/pajarita-go/engine/camera"
	"github.com/Carmen-Shannon/pajarita-go/engine/instance"
	"github.com/Carmen-Shannon/pajarita-go/engine/light"
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/animator"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/material"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/pajarita-go/lattice"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys registered by the scene. The lit pipeline draws the lattice
// pieces and the floor; the overlay pipeline draws pivot markers as a line
// list on top; the shadow pipeline renders the depth-only pass.
const (
	litPipelineKey     = "lattice_lit"
	overlayPipelineKey = "marker_overlay"
	shadowPipelineKey  = "shadow_depth"
)

// floorColorClass selects the palette floor color in the lit fragment shader.
// Classes 0 and 1 belong to lattice instances.
const floorColorClass = 2

// defaultMaxInstances sizes the initial GPU instance buffer. The animator
// grows past it on demand; growth forces a buffer rebuild on the next frame.
const defaultMaxInstances = 8192

// scene is the unexported implementation of Scene.
type scene struct {
	mu     *sync.RWMutex
	name   string
	active bool
	cam    camera.Camera
	r      renderer.Renderer

	// litVertexShader is retained after construction because its parsed bind
	// group layouts seed the instance storage layouts for both the lattice
	// animator and the single-entry floor buffer.
	litVertexShader shader.Shader

	// params is the snapshot the current lattice materialization was built
	// from. Replaced wholesale by RegenerateLattice, never mutated in place.
	params lattice.Parameters

	// generation tags shape-load requests so completions that raced a
	// regeneration can be recognized. It only ever increments.
	generation uint64

	// latticeRequested / innerRequested record regeneration and inner ring
	// requests that arrived before the shape model finished loading. They are
	// replayed against the current params when the model is adopted.
	latticeRequested bool
	innerRequested   bool

	mdl  model.Model
	anim animator.Animator

	// instances is slot-ordered: instances[i] owns animator slot i. The first
	// innerCount entries are the fixed inner ring and survive regeneration.
	instances  []instance.Instance
	innerCount int
	nextID     uint64

	// instanceGroupDesc is the instance storage bind group layout parsed from
	// the lit vertex shader; instanceBinding is the storage buffer's binding
	// index within that group.
	instanceGroupDesc wgpu.BindGroupLayoutDescriptor
	instanceBinding   int

	maxInstances int
	spinSpeed    float32
	spinActive   bool

	markersVisible     bool
	overlayDirty       bool
	overlayVertexCount uint32
	overlayBGP         bind_group_provider.BindGroupProvider
	overlayReady       bool

	floorMeshBGP     bind_group_provider.BindGroupProvider
	floorInstanceBGP bind_group_provider.BindGroupProvider
	floorEnabled     bool

	lights       []light.Light
	ambientColor [3]float32
	lightsBGP    bind_group_provider.BindGroupProvider

	// Bindings within the lights group, resolved by variable name from the
	// lit fragment shader during InitLighting.
	lightBufferBinding int
	paletteBinding     int
	fogBinding         int

	classAMaterial material.Material
	classBMaterial material.Material
	floorMaterial  material.Material
	colorVariation float32
	paletteDirty   bool

	fog      GPUFogParams
	fogDirty bool

	shadowDepthTexture     *wgpu.Texture
	shadowDepthTextureView *wgpu.TextureView
	shadowComparisonSamp   *wgpu.Sampler
	shadowDataBGP          bind_group_provider.BindGroupProvider
	shadowLitBGP           bind_group_provider.BindGroupProvider
	shadowReady            bool
	shadowHalfExtent       float32
	shadowNear             float32
	shadowFar              float32
	shadowBias             float32
	shadowNormalBiasScale  float32
	shadowMapResolution    int

	cullingDisabled bool

	// frameFrustum is extracted once per frame in PrepareFrame and consumed
	// by DrawCalls for the whole-lattice sphere test.
	frameFrustum    common.Frustum
	frameHasFrustum bool

	// computePool fans per-frame matrix rebuilds across reusable workers.
	computeWorkers int
	computePool    worker.DynamicWorkerPool

	// drawBindGroupsPool is reused across draw calls to avoid per-frame allocations.
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

// Scene is the instance registry and per-frame orchestrator for the radial
// lattice. It owns the fixed inner ring, the regenerable lattice rings, the
// marker overlay geometry, the floor plane, lights, and shadow resources, and
// issues the frame's buffer writes and draw calls through the Renderer.
//
// All lattice mutations (regeneration, spin, marker visibility) are safe to
// call from the engine tick goroutine while PrepareFrame and DrawCalls run on
// the render goroutine.
type Scene interface {
	// Name returns the scene's identifier.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// SetName sets the scene's identifier.
	//
	// Parameters:
	//   - name: the new scene name
	SetName(name string)

	// Active reports whether the scene is rendered by the engine loop.
	//
	// Returns:
	//   - bool: true when active
	Active() bool

	// SetActive toggles whether the engine renders this scene.
	//
	// Parameters:
	//   - active: true to render the scene
	SetActive(active bool)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the camera to attach
	SetCamera(cam camera.Camera)

	// Renderer returns the renderer this scene draws through.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil
	Renderer() renderer.Renderer

	// SetRenderer replaces the renderer this scene draws through.
	//
	// Parameters:
	//   - r: the renderer to attach
	SetRenderer(r renderer.Renderer)

	// CullingDisabled reports whether the whole-lattice frustum test is skipped.
	//
	// Returns:
	//   - bool: true when culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled toggles the whole-lattice frustum test.
	//
	// Parameters:
	//   - disabled: true to always draw regardless of camera frustum
	SetCullingDisabled(disabled bool)

	// AddLight registers a light with the scene.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight unregisters a light from the scene.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns a copy of the scene's light list.
	//
	// Returns:
	//   - []light.Light: the registered lights
	Lights() []light.Light

	// AmbientColor returns the scene's ambient light color.
	//
	// Returns:
	//   - [3]float32: ambient RGB
	AmbientColor() [3]float32

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: ambient RGB
	SetAmbientColor(color [3]float32)

	// SetFog sets the linear fog range and color. The renderer's clear color
	// is matched to the fog color so distant geometry fades seamlessly.
	//
	// Parameters:
	//   - color: fog RGB
	//   - near: view distance where fog starts
	//   - far: view distance of full fog saturation
	SetFog(color [3]float32, near, far float32)

	// SetPalette replaces the instance color materials and the per-index
	// shading variation read by the lit fragment shader.
	//
	// Parameters:
	//   - classA: material for even color class instances
	//   - classB: material for odd color class instances
	//   - floor: material for the floor plane
	//   - variation: per-color-index darkening step
	SetPalette(classA, classB, floor material.Material, variation float32)

	// InitLighting creates the light storage buffer, palette and fog
	// uniforms, the shadow depth texture and samplers, and registers the lit
	// and shadow pipelines. Must be called once before the first frame.
	//
	// Parameters:
	//   - litFragmentShader: the lit fragment shader (declares lights, palette, fog, shadow groups)
	//   - shadowVertexShader: the depth-only shadow vertex shader
	InitLighting(litFragmentShader, shadowVertexShader shader.Shader)

	// InitOverlay registers the marker overlay pipeline and creates the
	// overlay's vertex buffer provider. Must be called once before the first
	// frame for markers to draw.
	//
	// Parameters:
	//   - overlayVertexShader: the overlay vertex shader
	//   - overlayFragmentShader: the overlay fragment shader
	InitOverlay(overlayVertexShader, overlayFragmentShader shader.Shader)

	// InitFloor creates the floor plane mesh and its single-entry instance
	// buffer. The floor is lit and receives shadows but never casts them.
	//
	// Parameters:
	//   - halfExtent: half-size of the floor quad in world units
	//   - z: the plane's height on the Z axis
	InitFloor(halfExtent, z float32)

	// Generation returns the current regeneration tag. Callers snapshot it
	// when requesting an async shape load and pass it back to AdoptShapeModel
	// so stale completions can be recognized.
	//
	// Returns:
	//   - uint64: the current generation
	Generation() uint64

	// AdoptShapeModel installs the loaded shape model and materializes every
	// placement requested so far. A generation older than the current one is
	// logged and treated as current: the model does not depend on lattice
	// parameters, so a stale completion still materializes the live layout.
	//
	// Parameters:
	//   - m: the loaded shape model
	//   - generation: the tag snapshotted when the load was requested
	AdoptShapeModel(m model.Model, generation uint64)

	// Model returns the adopted shape model, or nil before adoption.
	//
	// Returns:
	//   - model.Model: the shape model or nil
	Model() model.Model

	// AddInnerRing materializes the fixed six-instance inner ring. The inner
	// ring is created once and survives every regeneration. Calling it again
	// is a no-op.
	AddInnerRing()

	// RegenerateLattice discards every lattice instance (the inner ring
	// survives), bumps the generation, and materializes the layout computed
	// from the given parameters. The clamped uniform scale is written through
	// to the surviving inner ring instances as well. Before the shape model
	// is adopted the request is recorded and replayed on adoption.
	//
	// Parameters:
	//   - params: the parameter snapshot to lay out
	RegenerateLattice(params lattice.Parameters)

	// Parameters returns the snapshot the current lattice was built from.
	//
	// Returns:
	//   - lattice.Parameters: the current parameters
	Parameters() lattice.Parameters

	// SetGlobalSpin toggles the global spin animation. Turning spin off
	// restores every instance's rest-pose rotation exactly.
	//
	// Parameters:
	//   - active: true to spin, false to restore rest pose
	SetGlobalSpin(active bool)

	// SpinActive reports whether the global spin animation is running.
	//
	// Returns:
	//   - bool: true when spinning
	SpinActive() bool

	// SetMarkersVisible toggles the pivot marker overlay. Marker geometry is
	// kept either way; visibility only gates the overlay draw call.
	//
	// Parameters:
	//   - visible: true to draw markers
	SetMarkersVisible(visible bool)

	// MarkersVisible reports whether the pivot marker overlay is drawn.
	//
	// Returns:
	//   - bool: true when markers draw
	MarkersVisible() bool

	// Count returns the number of materialized instances, inner ring included.
	//
	// Returns:
	//   - int: the instance count
	Count() int

	// InnerCount returns the number of materialized inner ring instances.
	//
	// Returns:
	//   - int: the inner ring instance count
	InnerCount() int

	// PrepareFrame updates the camera uniform, light buffer, palette and fog
	// uniforms, advances the spin accumulator, rebuilds dirty instance
	// matrices across the worker pool, refreshes overlay geometry, and
	// submits the frame's coalesced buffer writes. Called once per render
	// frame before DrawCalls.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the previous frame
	PrepareFrame(deltaTime float32)

	// PrepareShadows writes the light view-projection uniforms and executes
	// the depth-only shadow pass for the first enabled shadow-casting
	// directional light. The marker overlay and the floor never cast shadows.
	PrepareShadows()

	// DrawCalls issues the lit lattice draw, the lit floor draw, and the
	// marker overlay draw for the current frame.
	//
	// Returns:
	//   - error: an error if a draw call failed
	DrawCalls() error
}

var _ Scene = &scene{}

// NewScene creates a Scene bound to a camera and renderer. The lit vertex
// shader seeds the camera bind group and the instance storage layout; the
// remaining GPU resources are created by InitLighting, InitOverlay, and
// InitFloor.
//
// Parameters:
//   - name: the scene identifier
//   - cam: the camera to render from
//   - r: the renderer to draw through
//   - litVertexShader: the instanced lit vertex shader
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, litVertexShader shader.Shader, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if litVertexShader == nil {
		panic("scene: NewScene requires a non-nil lit vertex shader")
	}

	s := &scene{
		mu:                    &sync.RWMutex{},
		name:                  name,
		cam:                   cam,
		r:                     r,
		litVertexShader:       litVertexShader,
		params:                lattice.DefaultParameters(),
		nextID:                1,
		maxInstances:          defaultMaxInstances,
		spinSpeed:             1.0,
		markersVisible:        true,
		computeWorkers:        max(runtime.NumCPU()-1, 1),
		drawBindGroupsPool:    make([]bind_group_provider.BindGroupProvider, 0, 4),
		classAMaterial:        material.NewMaterial(material.WithName("class_a"), material.WithBaseColor([4]float32{0.93, 0.35, 0.14, 1})),
		classBMaterial:        material.NewMaterial(material.WithName("class_b"), material.WithBaseColor([4]float32{0.16, 0.5, 0.73, 1})),
		floorMaterial:         material.NewMaterial(material.WithName("floor"), material.WithBaseColor([4]float32{0.82, 0.8, 0.76, 1})),
		colorVariation:        0.04,
		paletteDirty:          true,
		fog:                   GPUFogParams{Color: [3]float32{0.85, 0.87, 0.9}, Near: 25, Far: 70},
		fogDirty:              true,
		shadowHalfExtent:      light.DefaultShadowHalfExtent,
		shadowNear:            light.DefaultShadowNear,
		shadowFar:             light.DefaultShadowFar,
		shadowBias:            light.DefaultShadowBias,
		shadowNormalBiasScale: light.DefaultShadowNormalBiasScale,
		shadowMapResolution:   light.ShadowMapResolution,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can
	// override the default. Queue size 256 covers the per-frame chunk fanout.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	// Resolve the instance storage group from the lit vertex shader, both
	// the layout descriptor and the storage buffer binding within it.
	instanceGroup := findGroupByVarName(litVertexShader, "instance")
	if instanceGroup < 0 {
		panic(fmt.Sprintf("scene %q: lit vertex shader declares no instance storage group", name))
	}
	s.instanceGroupDesc = litVertexShader.BindGroupLayoutDescriptor(instanceGroup)
	for _, entry := range s.instanceGroupDesc.Entries {
		if entry.Buffer.Type == wgpu.BufferBindingTypeReadOnlyStorage || entry.Buffer.Type == wgpu.BufferBindingTypeStorage {
			s.instanceBinding = int(entry.Binding)
			break
		}
	}

	// Initialize the camera's bind group from the lit vertex shader's layout.
	// InitLighting recreates it later with merged VERTEX|FRAGMENT visibility.
	cameraGroup := findGroupByVarName(litVertexShader, "camera")
	if cameraGroup < 0 {
		cameraGroup = 0
	}
	if bgp := cam.BindGroupProvider(); bgp != nil {
		if err := r.InitBindGroup(bgp, litVertexShader.BindGroupLayoutDescriptor(cameraGroup), nil, nil); err != nil {
			panic(fmt.Sprintf("scene: failed to init camera bind group: %v", err))
		}
	}

	return s
}

// findGroupByVarName returns the first bind group index whose variable names
// contain the given substring, or -1 when no group matches.
func findGroupByVarName(sh shader.Shader, substr string) int {
	for groupIdx, bindings := range sh.BindGroupVarNames() {
		for _, varName := range bindings {
			if strings.Contains(strings.ToLower(varName), substr) {
				return groupIdx
			}
		}
	}
	return -1
}

// findBindingByVarName returns the binding index within a group whose variable
// name contains the given substring, or -1 when no binding matches.
func findBindingByVarName(sh shader.Shader, group int, substr string) int {
	for binding, varName := range sh.BindGroupVarNames()[group] {
		if strings.Contains(strings.ToLower(varName), substr) {
			return binding
		}
	}
	return -1
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]light.Light, len(s.lights))
	copy(cp, s.lights)
	return cp
}

func (s *scene) AmbientColor() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambientColor
}

func (s *scene) SetAmbientColor(color [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambientColor = color
}

func (s *scene) SetFog(color [3]float32, near, far float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fog = GPUFogParams{Color: color, Near: near, Far: far}
	s.fogDirty = true
	s.r.SetClearColor(float64(color[0]), float64(color[1]), float64(color[2]), 1.0)
}

func (s *scene) SetPalette(classA, classB, floor material.Material, variation float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if classA != nil {
		s.classAMaterial = classA
	}
	if classB != nil {
		s.classBMaterial = classB
	}
	if floor != nil {
		s.floorMaterial = floor
	}
	s.colorVariation = variation
	s.paletteDirty = true
}

func (s *scene) InitLighting(litFragmentShader, shadowVertexShader shader.Shader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil || litFragmentShader == nil || shadowVertexShader == nil {
		return
	}

	// Light storage buffer + palette + fog uniforms, all in one group on the
	// lit fragment shader. Bindings are resolved by variable name.
	lightGroup := findGroupByVarName(litFragmentShader, "light")
	if lightGroup < 0 {
		panic(fmt.Sprintf("scene %q: lit fragment shader declares no light group", s.name))
	}
	s.lightBufferBinding = findBindingByVarName(litFragmentShader, lightGroup, "light")
	s.paletteBinding = findBindingByVarName(litFragmentShader, lightGroup, "palette")
	s.fogBinding = findBindingByVarName(litFragmentShader, lightGroup, "fog")

	lightsBGP := bind_group_provider.NewBindGroupProvider(s.name + "_lights")
	lightsDesc := litFragmentShader.BindGroupLayoutDescriptor(lightGroup)
	sizeOverrides := map[int]uint64{
		// Header plus the full light budget; the enabled count lives in the header.
		s.lightBufferBinding: uint64((&light.GPULightHeader{}).Size() + light.MaxGPULights*(&light.GPULight{}).Size()),
		s.paletteBinding:     uint64((&material.GPUPaletteParams{}).Size()),
		s.fogBinding:         uint64((&GPUFogParams{}).Size()),
	}
	if err := s.r.InitBindGroup(lightsBGP, lightsDesc, nil, sizeOverrides); err != nil {
		panic(fmt.Sprintf("scene: failed to init light bind group: %v", err))
	}
	s.lightsBGP = lightsBGP

	// Shadow depth texture and comparison sampler for PCF in the lit pass.
	res := s.shadowMapResolution
	view, tex, err := s.r.CreateShadowDepthTexture(res, res)
	if err != nil {
		panic(fmt.Sprintf("scene: failed to create shadow depth texture: %v", err))
	}
	s.shadowDepthTexture = tex
	s.shadowDepthTextureView = view

	samp, err := s.r.CreateComparisonSampler()
	if err != nil {
		panic(fmt.Sprintf("scene: failed to create comparison sampler: %v", err))
	}
	s.shadowComparisonSamp = samp

	// Shadow data BGP for the depth pass: group(0) of the shadow vertex
	// shader, a single light view-projection uniform.
	shadowGroup := findGroupByVarName(shadowVertexShader, "shadow")
	if shadowGroup < 0 {
		shadowGroup = 0
	}
	shadowDataBGP := bind_group_provider.NewBindGroupProvider(s.name + "_shadow_data")
	shadowDesc := shadowVertexShader.BindGroupLayoutDescriptor(shadowGroup)
	shadowSizes := make(map[int]uint64)
	for _, entry := range shadowDesc.Entries {
		if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
			shadowSizes[int(entry.Binding)] = uint64((&light.GPUShadowUniform{}).Size())
		}
	}
	if err := s.r.InitBindGroup(shadowDataBGP, shadowDesc, nil, shadowSizes); err != nil {
		panic(fmt.Sprintf("scene: failed to init shadow data bind group: %v", err))
	}
	s.shadowDataBGP = shadowDataBGP

	// Depth-only shadow pipeline. Front-face culling reduces acne on the
	// closed extruded shape.
	sp := pipeline.NewPipeline(shadowPipelineKey,
		pipeline.WithVertexShader(shadowVertexShader),
		pipeline.WithDepthBias(2, 1.5),
		pipeline.WithCullMode(wgpu.CullModeFront),
	)
	if err := s.r.RegisterShadowPipeline(sp); err != nil {
		panic(fmt.Sprintf("scene: failed to register shadow pipeline: %v", err))
	}

	// Shadow sampling BGP for the lit pass: shadow map texture, comparison
	// sampler, and the full shadow data uniform.
	litShadowGroup := findGroupByVarName(litFragmentShader, "shadow")
	if litShadowGroup >= 0 {
		shadowLitBGP := bind_group_provider.NewBindGroupProvider(s.name + "_shadow_lit")
		litShadowDesc := litFragmentShader.BindGroupLayoutDescriptor(litShadowGroup)
		litShadowSizes := make(map[int]uint64)
		for _, entry := range litShadowDesc.Entries {
			binding := int(entry.Binding)
			if entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
				shadowLitBGP.SetTextureView(binding, s.shadowDepthTextureView)
			}
			if entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined {
				shadowLitBGP.SetSampler(binding, s.shadowComparisonSamp)
			}
			if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
				litShadowSizes[binding] = uint64((&light.GPUShadowData{}).Size())
			}
		}
		if err := s.r.InitBindGroup(shadowLitBGP, litShadowDesc, nil, litShadowSizes); err != nil {
			panic(fmt.Sprintf("scene: failed to init shadow lit bind group: %v", err))
		}
		s.shadowLitBGP = shadowLitBGP
	}
	s.shadowReady = true

	// Lit pipeline for the lattice and the floor.
	lp := pipeline.NewPipeline(litPipelineKey,
		pipeline.WithVertexShader(s.litVertexShader),
		pipeline.WithFragmentShader(litFragmentShader),
	)
	if err := s.r.RegisterPipelines(lp); err != nil {
		panic(fmt.Sprintf("scene: failed to register lit pipeline: %v", err))
	}

	// The camera's bind group was created in NewScene from the vertex shader
	// alone (VERTEX visibility). The lit fragment shader also declares the
	// camera group, and the render pipeline merges both stages. WebGPU
	// requires layout equivalence, so recreate the camera BGL with the
	// combined visibility.
	s.reinitCameraBGP(litFragmentShader)

	// Match the clear color to the fog so culled geometry fades seamlessly.
	s.r.SetClearColor(float64(s.fog.Color[0]), float64(s.fog.Color[1]), float64(s.fog.Color[2]), 1.0)
}

// reinitCameraBGP recreates the camera bind group with VERTEX|FRAGMENT
// visibility merged from both lit shader stages. Caller must hold the mutex.
func (s *scene) reinitCameraBGP(litFragmentShader shader.Shader) {
	if s.cam == nil {
		return
	}
	cameraGroup := findGroupByVarName(litFragmentShader, "camera")
	if cameraGroup < 0 {
		return
	}
	bgp := s.cam.BindGroupProvider()
	if bgp == nil {
		return
	}

	fragDesc := litFragmentShader.BindGroupLayoutDescriptor(cameraGroup)
	entries := make([]wgpu.BindGroupLayoutEntry, len(fragDesc.Entries))
	copy(entries, fragDesc.Entries)
	for i := range entries {
		entries[i].Visibility |= wgpu.ShaderStageVertex
	}
	mergedDesc := wgpu.BindGroupLayoutDescriptor{
		Label:   fragDesc.Label,
		Entries: entries,
	}

	// Clear the old layout so InitBindGroup creates a new one from mergedDesc.
	bgp.SetBindGroupLayout(nil)
	if err := s.r.InitBindGroup(bgp, mergedDesc, nil, nil); err != nil {
		panic(fmt.Sprintf("scene: failed to reinit camera bind group for lit pipeline: %v", err))
	}
}

func (s *scene) InitOverlay(overlayVertexShader, overlayFragmentShader shader.Shader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil || overlayVertexShader == nil || overlayFragmentShader == nil {
		return
	}

	// Line-list pipeline over pre-colored world-space vertices. Depth test
	// stays on so markers occlude correctly; depth writes stay off so the
	// thin lines never punch holes into later fragments.
	op := pipeline.NewPipeline(overlayPipelineKey,
		pipeline.WithVertexShader(overlayVertexShader),
		pipeline.WithFragmentShader(overlayFragmentShader),
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := s.r.RegisterPipelines(op); err != nil {
		panic(fmt.Sprintf("scene: failed to register overlay pipeline: %v", err))
	}

	s.overlayBGP = bind_group_provider.NewBindGroupProvider(s.name + "_overlay")
	s.overlayReady = true
	s.overlayDirty = true
}

func (s *scene) InitFloor(halfExtent, z float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return
	}

	vertices, indices := buildFloorMesh(halfExtent, z)
	meshBGP := bind_group_provider.NewBindGroupProvider(s.name + "_floor_mesh")
	if err := s.r.InitMeshBuffers(meshBGP, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		panic(fmt.Sprintf("scene: failed to init floor mesh buffers: %v", err))
	}
	s.floorMeshBGP = meshBGP

	// Single-entry instance buffer sharing the lit pipeline's instance
	// layout. Identity transform; the class field routes to the floor color.
	instBGP := bind_group_provider.NewBindGroupProvider(s.name + "_floor_instance")
	stride := uint64((&animator.GPUInstanceData{}).Size())
	if err := s.r.InitBindGroup(instBGP, s.instanceGroupDesc, nil, map[int]uint64{s.instanceBinding: stride}); err != nil {
		panic(fmt.Sprintf("scene: failed to init floor instance bind group: %v", err))
	}

	floorInstance := animator.GPUInstanceData{ColorClass: floorColorClass}
	common.Identity(floorInstance.Model[:])
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: instBGP, Binding: s.instanceBinding, Offset: 0, Data: floorInstance.Marshal()},
	})
	s.floorInstanceBGP = instBGP
	s.floorEnabled = true
}

// buildFloorMesh returns the quad geometry for the floor plane: four vertices
// in the lattice (XY) plane at height z with +Z normals, wound counterclockwise
// when seen from above.
func buildFloorMesh(halfExtent, z float32) ([]model.GPUVertex, []uint32) {
	normal := [3]float32{0, 0, 1}
	vertices := []model.GPUVertex{
		{Position: [3]float32{-halfExtent, -halfExtent, z}, Normal: normal},
		{Position: [3]float32{halfExtent, -halfExtent, z}, Normal: normal},
		{Position: [3]float32{halfExtent, halfExtent, z}, Normal: normal},
		{Position: [3]float32{-halfExtent, halfExtent, z}, Normal: normal},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return vertices, indices
}

func (s *scene) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *scene) AdoptShapeModel(m model.Model, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == nil {
		log.Printf("[Scene] %s: ignoring nil shape model (gen %d)", s.name, generation)
		return
	}
	if generation != s.generation {
		// Not an error: a regeneration raced the load. The model carries no
		// parameter-dependent data, so it materializes the live layout.
		log.Printf("[Scene] %s: shape load tagged gen %d completed at gen %d; materializing current layout", s.name, generation, s.generation)
	}
	if s.mdl != nil {
		// The shape is cached and parameter-independent; only the first
		// adoption installs anything.
		return
	}

	s.mdl = m
	s.anim = animator.NewAnimator(animator.BackendTypeTransform,
		animator.WithModel(m),
		animator.WithMaxInstances(s.maxInstances),
		animator.WithSpinSpeed(s.spinSpeed),
	)
	s.anim.SetSpinning(s.spinActive)
	s.initInstanceBindGroupLocked()

	// Replay placements requested while the load was in flight.
	if s.innerRequested && s.innerCount == 0 {
		s.materializeInnerLocked()
	}
	if s.latticeRequested {
		s.materializeLatticeLocked()
	}
}

// initInstanceBindGroupLocked creates (or recreates, after growth) the GPU
// buffer and bind group behind the animator's instance provider. The provider
// keeps its layout across rebuilds so pipeline compatibility is preserved.
// Caller must hold the mutex.
func (s *scene) initInstanceBindGroupLocked() {
	stride := uint64((&animator.GPUInstanceData{}).Size())
	overrides := map[int]uint64{
		s.instanceBinding: uint64(s.anim.MaxInstances()) * stride,
	}
	if err := s.r.InitBindGroup(s.anim.InstanceBindGroupProvider(), s.instanceGroupDesc, nil, overrides); err != nil {
		panic(fmt.Sprintf("scene: failed to init instance bind group: %v", err))
	}
}

func (s *scene) Model() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mdl
}

func (s *scene) AddInnerRing() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.innerRequested = true
	if s.mdl == nil || s.innerCount > 0 {
		return
	}
	s.materializeInnerLocked()
}

// materializeInnerLocked creates the fixed inner ring instances. Caller must
// hold the mutex and guarantee the model is adopted.
func (s *scene) materializeInnerLocked() {
	for _, p := range lattice.InnerRing() {
		if s.materializePlacementLocked(p, true) {
			s.innerCount++
		}
	}
	s.overlayDirty = true
}

func (s *scene) RegenerateLattice(params lattice.Parameters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = params.Clamped()
	s.generation++
	s.latticeRequested = true
	if s.mdl == nil {
		// The adopt path replays this request once the shape finishes loading.
		return
	}
	s.materializeLatticeLocked()
}

// materializeLatticeLocked drops every instance beyond the inner ring and
// materializes the layout for the current parameters. Caller must hold the
// mutex and guarantee the model is adopted.
func (s *scene) materializeLatticeLocked() {
	s.instances = s.instances[:s.innerCount]
	s.anim.Truncate(uint32(s.innerCount))

	// The uniform scale applies to every instance. Inner ring instances are
	// never re-created, so the new scale is written through to their slots.
	scale := float32(s.params.UniformScale)
	for _, inst := range s.instances {
		if inst.Scale() != scale {
			inst.SetScale(scale)
			inst.RebuildMarkers()
		}
	}

	placements := lattice.Layout(s.params)
	for _, p := range placements {
		s.materializePlacementLocked(p, false)
	}
	s.overlayDirty = true

	log.Printf("[Scene] %s: lattice regenerated, %d rings, %d lattice instances, %d total (gen %d)",
		s.name, s.params.RingCount, len(placements), len(s.instances), s.generation)
}

// materializePlacementLocked converts one placement descriptor into a live
// instance bound to the next animator slot. Caller must hold the mutex.
func (s *scene) materializePlacementLocked(p lattice.Placement, inner bool) bool {
	// The inner ring ignores the layout parameters but shares the uniform
	// scale with the lattice.
	scale := float32(s.params.UniformScale)

	slot, err := s.anim.AddInstance(placementState(p, scale))
	if err != nil {
		log.Printf("[Scene] %s: failed to register instance ring %d slot %d: %v", s.name, p.RingIndex, p.SlotIndex, err)
		return false
	}

	inst := instance.NewInstance(
		instance.WithInner(inner),
		instance.WithRing(p.RingIndex, p.SlotIndex),
		instance.WithColor(uint32(p.ColorIndex), uint32(p.ColorClass)),
		instance.WithPosition(float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2])),
		instance.WithRotationZ(float32(p.RotationZ)),
		instance.WithScale(scale),
		instance.WithModel(s.mdl),
	)
	inst.SetID(s.nextID)
	s.nextID++
	inst.SetAnimator(s.anim)
	inst.SetAnimatorInstanceID(int(slot))
	inst.RebuildMarkers()
	s.instances = append(s.instances, inst)
	return true
}

// placementState converts a layout placement into the animator's rest-pose
// instance state, applying the uniform scale.
func placementState(p lattice.Placement, scale float32) animator.InstanceState {
	return animator.InstanceState{
		Position:   [3]float32{float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2])},
		Rotation:   float32(p.RotationZ),
		Scale:      scale,
		ColorIndex: uint32(p.ColorIndex),
		ColorClass: uint32(p.ColorClass),
	}
}

func (s *scene) Parameters() lattice.Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *scene) SetGlobalSpin(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinActive = active
	if s.anim != nil {
		s.anim.SetSpinning(active)
	}
}

func (s *scene) SpinActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spinActive
}

func (s *scene) SetMarkersVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markersVisible = visible
}

func (s *scene) MarkersVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markersVisible
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

func (s *scene) InnerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.innerCount
}

func (s *scene) PrepareFrame(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return
	}

	var writes []bind_group_provider.BufferWrite

	// Camera uniform and the frame's frustum for whole-lattice culling.
	s.frameHasFrustum = false
	if s.cam != nil {
		s.cam.Update()
		vpMat := s.cam.ViewProjectionMatrix()
		if camBGP := s.cam.BindGroupProvider(); camBGP != nil {
			camUniform := camera.GPUCameraUniform{ViewProj: vpMat}
			if ctrl := s.cam.Controller(); ctrl != nil {
				camUniform.CameraPosition[0], camUniform.CameraPosition[1], camUniform.CameraPosition[2] = ctrl.Position()
			}
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: camBGP,
				Binding:  0,
				Offset:   0,
				Data:     camUniform.Marshal(),
			})
		}
		if !s.cullingDisabled {
			s.frameFrustum = common.ExtractFrustumFromMatrix(vpMat[:])
			s.frameHasFrustum = true
		}
	}

	// Lights, palette, and fog share one bind group on the lit pass.
	if s.lightsBGP != nil {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.lightsBGP,
			Binding:  s.lightBufferBinding,
			Offset:   0,
			Data:     light.MarshalLightBuffer(s.lights, s.ambientColor),
		})
		if s.paletteDirty {
			palette := material.GPUPaletteParams{
				ClassAColor:    s.classAMaterial.BaseColor(),
				ClassBColor:    s.classBMaterial.BaseColor(),
				FloorColor:     s.floorMaterial.BaseColor(),
				ColorVariation: s.colorVariation,
			}
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: s.lightsBGP,
				Binding:  s.paletteBinding,
				Offset:   0,
				Data:     palette.Marshal(),
			})
			s.paletteDirty = false
		}
		if s.fogDirty {
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: s.lightsBGP,
				Binding:  s.fogBinding,
				Offset:   0,
				Data:     s.fog.Marshal(),
			})
			s.fogDirty = false
		}
	}

	if s.anim != nil {
		// Growth since last frame invalidates the GPU buffer. Recreate it at
		// the new capacity; the animator marked everything dirty on Grow so
		// the flush below re-uploads every slot.
		if s.anim.NeedsRebuild() {
			bgp := s.anim.InstanceBindGroupProvider()
			if old := bgp.Buffer(s.instanceBinding); old != nil {
				old.Release()
			}
			bgp.SetBuffer(s.instanceBinding, nil)
			s.maxInstances = int(s.anim.MaxInstances())
			s.initInstanceBindGroupLocked()
			s.anim.ClearNeedsRebuild()
		}

		s.anim.PrepareFrame(deltaTime)

		if count := s.anim.InstanceCount(); count > 0 && s.anim.HasDirty() {
			s.buildMatricesLocked(count)
			s.anim.Flush(s.instanceBinding)
			writes = append(writes, s.anim.StagedWriteData()...)
		}
	}

	if s.overlayDirty && s.overlayReady {
		s.rebuildOverlayLocked()
	}

	if len(writes) > 0 {
		s.r.WriteBuffers(writes)
	}
}

// buildMatricesLocked rebuilds dirty instance matrices, fanning chunks across
// the worker pool when the instance count makes the goroutine handoff
// worthwhile. BuildRange is safe over disjoint ranges. Caller must hold the mutex.
func (s *scene) buildMatricesLocked(count uint32) {
	const minChunk = 512

	chunk := (count + uint32(s.computeWorkers) - 1) / uint32(s.computeWorkers)
	if chunk < minChunk {
		s.anim.BuildRange(0, count)
		return
	}

	// A WaitGroup provides the per-frame barrier; pool.Wait() blocks until
	// workers idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	taskID := 0
	for start := uint32(0); start < count; start += chunk {
		end := min(start+chunk, count)
		wg.Add(1)
		rangeStart, rangeEnd := start, end
		s.computePool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				s.anim.BuildRange(rangeStart, rangeEnd)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

// rebuildOverlayLocked regenerates the overlay vertex buffer from every
// instance's marker segments. Caller must hold the mutex.
func (s *scene) rebuildOverlayLocked() {
	vertices := collectMarkerVertices(s.instances)
	s.overlayVertexCount = uint32(len(vertices))
	s.overlayDirty = false
	if len(vertices) == 0 {
		return
	}

	if old := s.overlayBGP.VertexBuffer(); old != nil {
		old.Release()
		s.overlayBGP.SetVertexBuffer(nil)
	}
	if err := s.r.InitMeshBuffers(s.overlayBGP, common.SliceToBytes(vertices), nil, 0); err != nil {
		log.Printf("[Scene] %s: failed to rebuild overlay vertex buffer: %v", s.name, err)
		s.overlayVertexCount = 0
	}
}

// collectMarkerVertices concatenates the marker line segments of every
// instance in slot order.
func collectMarkerVertices(instances []instance.Instance) []model.GPULineVertex {
	vertices := make([]model.GPULineVertex, 0, len(instances)*6)
	for _, inst := range instances {
		vertices = append(vertices, inst.MarkerVertices()...)
	}
	return vertices
}

func (s *scene) PrepareShadows() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.r == nil || !s.shadowReady || s.anim == nil || s.anim.InstanceCount() == 0 {
		return
	}

	// First enabled, shadow-casting directional light drives the pass.
	var shadowLight light.Light
	for _, l := range s.lights {
		if l.Enabled() && l.CastsShadows() && l.Type() == light.LightTypeDirectional {
			shadowLight = l
			break
		}
	}
	if shadowLight == nil {
		return
	}

	// Center the shadow frustum on the camera target so the lattice stays
	// covered while the camera orbits.
	centerX, centerY, centerZ := float32(0), float32(0), float32(0)
	if s.cam != nil {
		if ctrl := s.cam.Controller(); ctrl != nil {
			centerX, centerY, centerZ = ctrl.Target()
		}
	}

	texelSize := 1.0 / float32(s.shadowMapResolution)
	shadowData := light.GPUShadowData{
		TexelSize: [2]float32{texelSize, texelSize},
		Bias:      s.shadowBias,
	}
	shadowData.ComputeDirectionalLightVP(
		shadowLight.Direction(),
		centerX, centerY, centerZ,
		s.shadowHalfExtent, s.shadowNear, s.shadowFar,
	)
	shadowData.ComputeNormalBias(s.shadowHalfExtent, s.shadowNormalBiasScale, s.shadowMapResolution)

	writes := []bind_group_provider.BufferWrite{
		{
			Provider: s.shadowDataBGP,
			Binding:  0,
			Offset:   0,
			Data:     (&light.GPUShadowUniform{LightVP: shadowData.LightVP}).Marshal(),
		},
	}
	if s.shadowLitBGP != nil {
		for binding, buf := range s.shadowLitBGP.Buffers() {
			if buf != nil {
				writes = append(writes, bind_group_provider.BufferWrite{
					Provider: s.shadowLitBGP,
					Binding:  binding,
					Offset:   0,
					Data:     shadowData.Marshal(),
				})
				break // only one uniform buffer in the shadow sampling group
			}
		}
	}
	s.r.WriteBuffers(writes)

	// Depth-only pass over the lattice instances. The floor only receives
	// shadows and the marker overlay is excluded entirely.
	if err := s.r.BeginShadowFrame(); err != nil {
		return
	}
	s.r.BeginShadowPass(s.shadowDepthTextureView)

	if meshProvider := s.mdl.MeshProvider(); meshProvider != nil {
		shadowBindGroups := []bind_group_provider.BindGroupProvider{
			s.shadowDataBGP,
			s.anim.InstanceBindGroupProvider(),
		}
		_ = s.r.ShadowDrawCall(shadowPipelineKey, meshProvider, s.anim.InstanceCount(), shadowBindGroups)
	}

	s.r.EndShadowPass()
	s.r.EndShadowFrame()
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.r == nil {
		return fmt.Errorf("scene %q has no renderer attached", s.name)
	}
	if s.lightsBGP == nil {
		return nil // InitLighting has not run; nothing can draw yet
	}

	var camBGP bind_group_provider.BindGroupProvider
	if s.cam != nil {
		camBGP = s.cam.BindGroupProvider()
	}
	if camBGP == nil {
		return nil
	}

	// Lattice instances: one instanced indexed draw when the whole-lattice
	// bounding sphere intersects the camera frustum.
	if s.anim != nil && s.anim.InstanceCount() > 0 && s.mdl != nil {
		visible := true
		if s.frameHasFrustum {
			center, radius := latticeBoundingSphere(s.params, s.mdl.BoundingRadius())
			visible = s.frameFrustum.ContainsSphere(center, radius)
		}
		if visible {
			if meshProvider := s.mdl.MeshProvider(); meshProvider != nil {
				bindGroups := append(s.drawBindGroupsPool[:0],
					camBGP,
					s.anim.InstanceBindGroupProvider(),
					s.shadowLitBGP,
					s.lightsBGP,
				)
				if err := s.r.DrawCall(litPipelineKey, meshProvider, s.anim.InstanceCount(), bindGroups); err != nil {
					return fmt.Errorf("lattice draw call failed in scene %q: %w", s.name, err)
				}
			}
		}
	}

	// Floor plane: same lit pipeline, its own single-entry instance buffer.
	if s.floorEnabled && s.floorMeshBGP != nil {
		bindGroups := append(s.drawBindGroupsPool[:0],
			camBGP,
			s.floorInstanceBGP,
			s.shadowLitBGP,
			s.lightsBGP,
		)
		if err := s.r.DrawCall(litPipelineKey, s.floorMeshBGP, 1, bindGroups); err != nil {
			return fmt.Errorf("floor draw call failed in scene %q: %w", s.name, err)
		}
	}

	// Marker overlay: visibility only gates the draw, geometry stays resident.
	if s.markersVisible && s.overlayReady && s.overlayVertexCount > 0 && s.overlayBGP.VertexBuffer() != nil {
		bindGroups := append(s.drawBindGroupsPool[:0], camBGP)
		if err := s.r.DrawCallVertices(overlayPipelineKey, s.overlayBGP, s.overlayVertexCount, 1, bindGroups); err != nil {
			return fmt.Errorf("overlay draw call failed in scene %q: %w", s.name, err)
		}
	}

	return nil
}

// latticeBoundingSphere returns a sphere that encloses every lattice and inner
// ring instance for the given parameters, padded by the shape's bounding
// radius at the current scale.
func latticeBoundingSphere(params lattice.Parameters, modelRadius float32) ([3]float32, float32) {
	// The per-ring distance goes negative when RadialOffset is driven far
	// below zero; instances then land on the opposite side of the axis, so
	// the magnitude is what bounds the geometry.
	perRing := params.RingSpacing + params.RadialOffset
	if perRing < 0 {
		perRing = -perRing
	}
	maxDistance := perRing * float64(params.RingCount)
	if maxDistance < lattice.BaseRadius {
		maxDistance = lattice.BaseRadius
	}
	halfHeight := params.HeightStep * float64(params.RingCount) / 2

	center := [3]float32{0, 0, float32(halfHeight)}
	radius := math32.Hypot(float32(maxDistance), float32(halfHeight)) + modelRadius*float32(params.UniformScale)
	return center, radius
}
