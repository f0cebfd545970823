package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a wgpu vertex attribute format with its byte width
// so attribute offsets can be accumulated while walking a struct.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo carries the view dimension and multisample flag derived
// from a WGSL texture declaration.
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout records the size and alignment of a WGSL host-shareable
// type. The parser uses these to derive MinBindingSize for buffer bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct as read from source.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block as read from source.
type parsedStruct struct {
	name   string
	fields []parsedField
}
