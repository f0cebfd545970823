package bind_group_provider

// BufferWrite describes one pending GPU buffer upload. The scene and the
// animator stage these during frame preparation and the renderer submits the
// whole batch through a single queue pass.
type BufferWrite struct {
	// Provider owns the destination buffer.
	Provider BindGroupProvider

	// Binding is the binding index of the destination buffer on the provider.
	Binding int

	// Offset is the destination byte offset within the buffer.
	Offset uint64

	// Data is the payload to upload.
	Data []byte
}
