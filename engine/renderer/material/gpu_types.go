package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPaletteParams is the GPU-aligned uniform carrying the instance color
// palette read by the lit fragment shader. Instances select class A or class B
// by their color class field; the floor plane draws with its own class value.
// ColorVariation scales a per-instance darkening factor derived from the
// instance color index, so deeper rings shade slightly darker.
// Matches the WGSL PaletteParams struct layout exactly.
// Size: 64 bytes (std430 / WGSL aligned).
type GPUPaletteParams struct {
	ClassAColor    [4]float32 // offset  0: RGBA for color class A instances
	ClassBColor    [4]float32 // offset 16: RGBA for color class B instances
	FloorColor     [4]float32 // offset 32: RGBA for the floor plane
	ColorVariation float32    // offset 48: per-color-index darkening step
	_pad0          float32
	_pad1          float32
	_pad2          float32
}

// Size returns the size of the GPUPaletteParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (64)
func (g *GPUPaletteParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPaletteParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPUPaletteParams) Marshal() []byte {
	buf := make([]byte, 64)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ClassAColor[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.ClassBColor[i]))
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.FloorColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[48:], math.Float32bits(g.ColorVariation))
	binary.LittleEndian.PutUint32(buf[52:], 0)
	binary.LittleEndian.PutUint32(buf[56:], 0)
	binary.LittleEndian.PutUint32(buf[60:], 0)
	return buf
}
