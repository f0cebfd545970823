package material

// material is the implementation of the Material interface.
type material struct {
	name      string
	baseColor [4]float32
}

// Material defines the interface for a flat-color render material. The scene
// holds one material per instance color class plus one for the floor plane and
// packs their colors into the palette uniform consumed by the lit fragment
// shader; materials own no GPU resources themselves.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// SetBaseColor sets the RGBA color of the material.
	//
	// Parameters:
	//   - r, g, b, a: color components
	SetBaseColor(r, g, b, a float32)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) SetBaseColor(r, g, b, a float32) {
	m.baseColor = [4]float32{r, g, b, a}
}
