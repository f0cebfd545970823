package model

// --- Import Types ---

// ImportedMesh holds CPU-side vertex and index data for a single mesh,
// produced by a loader backend before GPU upload.
type ImportedMesh struct {
	// Vertices is the GPU-aligned vertex array.
	Vertices []GPUVertex

	// Indices is the triangle index array (three indices per triangle).
	Indices []uint32
}

// ImportedShape is the CPU-side result of importing a 2D outline file:
// a triangulated, extruded, recentered mesh plus the metadata derived
// from the source outline.
type ImportedShape struct {
	// Name is the shape identifier, derived from the source document or file path.
	Name string

	// Mesh is the extruded mesh data.
	Mesh ImportedMesh

	// PivotOffset is the vector from the mesh's geometric center to the
	// rotation pivot, derived from the outline bounds.
	PivotOffset [3]float32

	// BoundingRadius is the maximum vertex distance from the mesh origin.
	BoundingRadius float32
}
