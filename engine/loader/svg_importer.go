package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/pajarita-go/engine/model"
)

// svgImporterImpl is the implementation of the svgImporter interface.
type svgImporterImpl struct{}

// svgImporter defines the interface for orchestrating a full SVG import.
// It combines the parser, the outline extractor, and the extruder to
// produce a complete ImportedShape.
type svgImporter interface {
	// Import loads an SVG file and extrudes its outline into an ImportedShape.
	//
	// Parameters:
	//   - path: the file path to the SVG file
	//
	// Returns:
	//   - *model.ImportedShape: the fully populated imported shape
	//   - error: error if import fails
	Import(path string) (*model.ImportedShape, error)

	// ImportReader loads an SVG document from a reader and extrudes it.
	//
	// Parameters:
	//   - r: the reader providing SVG XML data
	//   - fallbackName: the shape name to use, since a reader has no path
	//
	// Returns:
	//   - *model.ImportedShape: the fully populated imported shape
	//   - error: error if import fails
	ImportReader(r io.Reader, fallbackName string) (*model.ImportedShape, error)
}

var _ svgImporter = &svgImporterImpl{}

// newSVGImporter creates a new SVG importer.
//
// Returns:
//   - svgImporter: the importer
func newSVGImporter() svgImporter {
	return &svgImporterImpl{}
}

func (imp *svgImporterImpl) Import(path string) (*model.ImportedShape, error) {
	parser := newSVGParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return imp.importFromParser(parser, svgExtractShapeName(path))
}

func (imp *svgImporterImpl) ImportReader(r io.Reader, fallbackName string) (*model.ImportedShape, error) {
	parser := newSVGParser()
	if err := parser.ParseReader(r); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}

	if fallbackName == "" {
		fallbackName = "unnamed_shape"
	}
	return imp.importFromParser(parser, fallbackName)
}

// importFromParser performs a full import from a parser that has already
// loaded a document.
func (imp *svgImporterImpl) importFromParser(parser svgParser, name string) (*model.ImportedShape, error) {
	extractor := newSVGOutlineExtractor(parser)

	outline, err := extractor.ExtractOutline()
	if err != nil {
		return nil, fmt.Errorf("outline extraction failed: %w", err)
	}

	shape, err := extrudeOutline(outline, name)
	if err != nil {
		return nil, fmt.Errorf("extrusion failed: %w", err)
	}
	return shape, nil
}

// svgExtractShapeName derives a shape name from the file path.
func svgExtractShapeName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "unnamed_shape"
	}
	return base
}
