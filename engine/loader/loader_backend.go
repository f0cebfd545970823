package loader

import (
	"io"

	"github.com/Carmen-Shannon/pajarita-go/engine/model"
)

// loaderBackend defines the generic interface for importing shapes from
// files or streams. Concrete implementations (e.g., svgLoaderBackend)
// handle format-specific details.
type loaderBackend interface {
	// Load performs a full shape import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedShape: the imported shape data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedShape, error)

	// LoadReader imports a shape from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing shape data
	//   - name: the shape name, since a reader has no path
	//
	// Returns:
	//   - *model.ImportedShape: the imported shape data
	//   - error: error if loading fails
	LoadReader(r io.Reader, name string) (*model.ImportedShape, error)
}
