package animator

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUInstanceData is the GPU-aligned representation of per-instance data in the
// instance storage buffer. Matches the WGSL InstanceData struct layout used by
// the lit, shadow, and overlay pipelines. Size: 80 bytes (mat4x4<f32> plus four
// u32 fields, std430 aligned).
type GPUInstanceData struct {
	Model      [16]float32 // offset  0: column-major model matrix (64 bytes)
	ColorIndex uint32      // offset 64: palette index computed at layout time
	ColorClass uint32      // offset 68: 0 = even parity class, 1 = odd
	_pad0      uint32      // offset 72: keeps stride at a 16-byte multiple
	_pad1      uint32      // offset 76
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:68], g.ColorIndex)
	binary.LittleEndian.PutUint32(buf[68:72], g.ColorClass)
	return buf
}

// InstanceState holds the CPU-side source data for one rendered instance. It is
// the authority the backend rebuilds the instance's GPU model matrix from, so
// Rotation always stores the instance's rest-pose angle: the global spin
// accumulator is applied on top at matrix build time and never mutates this value.
type InstanceState struct {
	// Position is the instance's world-space position.
	Position [3]float32

	// Rotation is the rest-pose rotation around the Z axis in radians.
	Rotation float32

	// Scale is the uniform scale factor applied to all three axes.
	Scale float32

	// ColorIndex is the palette index assigned at layout time.
	ColorIndex uint32

	// ColorClass selects the palette half: 0 for the even parity class, 1 for odd.
	ColorClass uint32
}
