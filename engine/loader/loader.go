package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/pajarita-go/common"
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/bind_group_provider"
)

// LoaderBackendType identifies the shape file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeSVG selects the SVG outline loader backend.
	BackendTypeSVG LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	renderer renderer.Renderer

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching shape
// models. It abstracts the file format behind a generic backend, extrudes
// imported outlines into GPU-ready meshes, and manages a cache of
// previously loaded models.
type Loader interface {
	// Load imports a shape file and caches the result.
	// If the shape is already cached (by file path), the cached version is
	// returned. The backend is selected based on the file extension
	// (.svg → SVG backend).
	//
	// Parameters:
	//   - path: the file path to the shape file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadAsync imports a shape file on a background goroutine and delivers
	// the result to onComplete. Completion order is not guaranteed to follow
	// call order when multiple loads are in flight; callers must tag requests
	// and discard completions that have been superseded.
	//
	// Parameters:
	//   - path: the file path to the shape file
	//   - onComplete: invoked with the loaded model or the load error
	LoadAsync(path string, onComplete func(model.Model, error))

	// LoadReader imports a shape from a reader stream and caches it by the
	// given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing shape data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeSVG)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeSVG:
		l.backend = newSVGLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadAsync(path string, onComplete func(model.Model, error)) {
	go func() {
		m, err := l.Load(path)
		if onComplete != nil {
			onComplete(m, err)
		}
	}()
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	imported, err := l.backend.LoadReader(r, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file
// extension. Currently only SVG is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".svg":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported shape format: %s", ext)
	}
}

// importedToModel converts an ImportedShape (CPU data) into a Model
// (engine-ready). It serializes the mesh into vertex and index buffers,
// uploads the data to the GPU via InitMeshBuffers when a Renderer is
// available, and carries the pivot and bounding metadata over.
//
// Parameters:
//   - imported: the CPU-side ImportedShape containing mesh and pivot data
//
// Returns:
//   - model.Model: the engine-ready Model with GPU mesh resources
//   - error: error if GPU resource creation fails
func (l *loader) importedToModel(imported *model.ImportedShape) (model.Model, error) {
	vertexBytes := common.SliceToBytes(imported.Mesh.Vertices)
	indexBytes := common.SliceToBytes(imported.Mesh.Indices)
	indexCount := len(imported.Mesh.Indices)

	provider := bind_group_provider.NewBindGroupProvider(
		imported.Name + "_mesh",
	)

	if l.renderer != nil {
		if err := l.renderer.InitMeshBuffers(provider, vertexBytes, indexBytes, indexCount); err != nil {
			return nil, fmt.Errorf("failed to init mesh bind group for %q: %w", imported.Name, err)
		}
	}

	mdl := model.NewModel(
		model.WithName(imported.Name),
		model.WithMeshProvider(provider),
		model.WithBoundingRadius(imported.BoundingRadius),
		model.WithPivotOffset(imported.PivotOffset),
		model.WithVertexData(vertexBytes),
		model.WithIndexData(indexBytes),
		model.WithIndexCount(indexCount),
	)

	return mdl, nil
}
