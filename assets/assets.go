// package assets carries the WGSL shader sources and the lattice shape
// asset embedded at build time, so the binary has no runtime file
// dependencies.
package assets

import (
	_ "embed"
)

// LatticeLitVertexWGSL is the instanced vertex stage shared by the lattice
// pieces and the floor plane.
//
//go:embed shaders/lattice-lit-vert.wgsl
var LatticeLitVertexWGSL string

// LatticeLitFragmentWGSL is the lit fragment stage: palette lookup, lambert
// lighting, directional shadow sampling, and linear fog.
//
//go:embed shaders/lattice-lit-frag.wgsl
var LatticeLitFragmentWGSL string

// ShadowDepthVertexWGSL is the depth-only vertex stage for the shadow pass.
//
//go:embed shaders/shadow-depth-vert.wgsl
var ShadowDepthVertexWGSL string

// MarkerOverlayVertexWGSL is the line-list vertex stage for pivot markers.
//
//go:embed shaders/marker-overlay-vert.wgsl
var MarkerOverlayVertexWGSL string

// MarkerOverlayFragmentWGSL is the flat-color fragment stage for pivot markers.
//
//go:embed shaders/marker-overlay-frag.wgsl
var MarkerOverlayFragmentWGSL string

// PajaritaSVG is the paper-bird outline extruded into the instanced
// lattice mesh.
//
//go:embed pajarita.svg
var PajaritaSVG []byte
