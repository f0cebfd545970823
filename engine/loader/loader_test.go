package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const birdDoc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <path d="M 8 56 L 32 8 L 56 56 L 40 56 L 32 40 L 24 56 Z"/>
</svg>`

func TestLoaderLoadReaderCaches(t *testing.T) {
	l := NewLoader(BackendTypeSVG)

	m, err := l.LoadReader("bird", strings.NewReader(birdDoc))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "bird", m.Name())
	assert.NotEmpty(t, m.VertexData())
	assert.NotEmpty(t, m.IndexData())
	assert.Positive(t, m.IndexCount())
	assert.Positive(t, m.BoundingRadius())

	// Vertex bytes must be whole GPUVertex records.
	var v model.GPUVertex
	assert.Zero(t, len(m.VertexData())%v.Size())

	// Second load by the same key returns the cached instance.
	again, err := l.LoadReader("bird", strings.NewReader("not even svg"))
	require.NoError(t, err)
	assert.Same(t, m, again)

	assert.Same(t, m, l.Get("bird"))
	assert.Len(t, l.Models(), 1)
}

func TestLoaderLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bird.svg")
	require.NoError(t, os.WriteFile(path, []byte(birdDoc), 0o644))

	l := NewLoader(BackendTypeSVG)

	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bird", m.Name())

	// The cache key is the full path.
	assert.Same(t, m, l.Get(path))
}

func TestLoaderUnsupportedFormat(t *testing.T) {
	l := NewLoader(BackendTypeSVG)

	_, err := l.Load("shape.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shape format")
}

func TestLoaderLoadAsyncDeliversResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bird.svg")
	require.NoError(t, os.WriteFile(path, []byte(birdDoc), 0o644))

	l := NewLoader(BackendTypeSVG)

	type result struct {
		m   model.Model
		err error
	}
	done := make(chan result, 1)

	l.LoadAsync(path, func(m model.Model, err error) {
		done <- result{m: m, err: err}
	})

	res := <-done
	require.NoError(t, res.err)
	require.NotNil(t, res.m)
	assert.Equal(t, "bird", res.m.Name())
}

func TestLoaderLoadAsyncDeliversError(t *testing.T) {
	l := NewLoader(BackendTypeSVG)

	done := make(chan error, 1)
	l.LoadAsync("does_not_exist.svg", func(m model.Model, err error) {
		done <- err
	})

	require.Error(t, <-done)
}

func TestLoaderPivotCarriedToModel(t *testing.T) {
	l := NewLoader(BackendTypeSVG)

	m, err := l.LoadReader("bird", strings.NewReader(birdDoc))
	require.NoError(t, err)

	pivot := m.PivotOffset()
	assert.NotZero(t, pivot[0])
	assert.NotZero(t, pivot[1])
	assert.Zero(t, pivot[2])
}
