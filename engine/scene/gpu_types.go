package scene

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFogParams is the GPU-aligned uniform carrying the linear fog settings
// read by the lit fragment shader. Fragments blend toward Color as their view
// distance moves from Near to Far. Matches the WGSL FogParams struct layout
// exactly. Size: 32 bytes (vec3<f32> + f32 + f32 + 3 pad floats).
type GPUFogParams struct {
	Color [3]float32 // offset  0: fog color, usually matched to the clear color
	Near  float32    // offset 12: view distance where fog starts
	Far   float32    // offset 16: view distance of full fog saturation
	_pad0 float32
	_pad1 float32
	_pad2 float32
}

// Size returns the size of the GPUFogParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (32)
func (g *GPUFogParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFogParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUFogParams) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Near))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Far))
	return buf
}
