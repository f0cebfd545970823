package scene

import (
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/material"
	"github.com/Carmen-Shannon/pajarita-go/lattice"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithParameters sets the initial lattice parameter snapshot. The snapshot is
// clamped into its legal bounds. Defaults to lattice.DefaultParameters().
//
// Parameters:
//   - params: the initial parameter snapshot
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParameters(params lattice.Parameters) SceneBuilderOption {
	return func(s *scene) {
		s.params = params.Clamped()
	}
}

// WithMaxInstances sets the initial capacity of the GPU instance buffer. The
// animator grows past it automatically; each growth costs a buffer rebuild on
// the next frame, so size this for the densest lattice you expect.
//
// Parameters:
//   - n: the initial instance capacity (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxInstances(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.maxInstances = n
	}
}

// WithSpinSpeed sets the global spin rate in radians per second. Default 1.0.
//
// Parameters:
//   - radiansPerSecond: the spin rate
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpinSpeed(radiansPerSecond float32) SceneBuilderOption {
	return func(s *scene) {
		s.spinSpeed = radiansPerSecond
	}
}

// WithMarkersVisible sets the initial pivot marker overlay visibility.
// Default is visible.
//
// Parameters:
//   - visible: true to draw markers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMarkersVisible(visible bool) SceneBuilderOption {
	return func(s *scene) {
		s.markersVisible = visible
	}
}

// WithAmbientColor sets the scene's ambient light color.
//
// Parameters:
//   - color: ambient RGB
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(color [3]float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = color
	}
}

// WithFog sets the linear fog color and range. The clear color follows the
// fog color once InitLighting runs.
//
// Parameters:
//   - color: fog RGB
//   - near: view distance where fog starts
//   - far: view distance of full fog saturation
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFog(color [3]float32, near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.fog = GPUFogParams{Color: color, Near: near, Far: far}
		s.fogDirty = true
	}
}

// WithPalette sets the instance color materials and the per-index shading
// variation. Nil materials keep their defaults.
//
// Parameters:
//   - classA: material for even color class instances
//   - classB: material for odd color class instances
//   - floor: material for the floor plane
//   - variation: per-color-index darkening step
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPalette(classA, classB, floor material.Material, variation float32) SceneBuilderOption {
	return func(s *scene) {
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
}

// WithComputeWorkers sets the number of worker goroutines used for the
// parallel matrix build phase of PrepareFrame. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithCullingDisabled disables the whole-lattice frustum test. When disabled,
// the lattice draws every frame regardless of the camera frustum. By default
// culling is enabled.
//
// Parameters:
//   - disabled: true to disable frustum culling
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithShadowHalfExtent sets the orthographic half-extent of the directional
// shadow frustum in world units. Larger values capture more of the lattice
// but reduce effective shadow resolution. Default is
// light.DefaultShadowHalfExtent (40.0).
//
// Parameters:
//   - halfExtent: half-size of the shadow frustum in world units
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowHalfExtent(halfExtent float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowHalfExtent = halfExtent
	}
}

// WithShadowNearFar sets the near and far planes for the directional shadow
// projection. Default is light.DefaultShadowNear (0.1) and
// light.DefaultShadowFar (200.0).
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowNearFar(near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowNear = near
		s.shadowFar = far
	}
}

// WithShadowBias sets the depth comparison bias used during shadow sampling
// to reduce shadow acne. Default is light.DefaultShadowBias (0.001).
//
// Parameters:
//   - bias: the depth bias value
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowBias(bias float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowBias = bias
	}
}

// WithShadowNormalBiasScale sets the multiplier applied to the shadow-map
// texel world-size to derive the normal-offset bias. Default is
// light.DefaultShadowNormalBiasScale (3.0).
//
// Parameters:
//   - scale: multiplier on per-texel world size (typically 2.0-4.0)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowNormalBiasScale(scale float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowNormalBiasScale = scale
	}
}

// WithShadowMapResolution sets the width and height in texels of the shadow
// depth texture. Must be set before InitLighting is called, as the texture is
// allocated once. Default is light.ShadowMapResolution (2048).
//
// Parameters:
//   - resolution: shadow map width and height in texels (e.g. 1024, 2048, 4096)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowMapResolution(resolution int) SceneBuilderOption {
	return func(s *scene) {
		s.shadowMapResolution = resolution
	}
}
