package loader

import (
	"io"

	"github.com/Carmen-Shannon/pajarita-go/engine/model"
)

// svgLoaderBackendImpl is the implementation of svgLoaderBackend.
type svgLoaderBackendImpl struct {
	importer svgImporter
}

// svgLoaderBackend is a loaderBackend implementation for SVG outline files.
// It delegates to the svgImporter for parsing, extraction, and extrusion.
type svgLoaderBackend interface {
	loaderBackend
}

var _ svgLoaderBackend = &svgLoaderBackendImpl{}

// newSVGLoaderBackend creates a new SVG loader backend.
//
// Returns:
//   - svgLoaderBackend: the loader backend for SVG files
func newSVGLoaderBackend() svgLoaderBackend {
	return &svgLoaderBackendImpl{
		importer: newSVGImporter(),
	}
}

func (b *svgLoaderBackendImpl) Load(path string) (*model.ImportedShape, error) {
	return b.importer.Import(path)
}

func (b *svgLoaderBackendImpl) LoadReader(r io.Reader, name string) (*model.ImportedShape, error) {
	return b.importer.ImportReader(r, name)
}
