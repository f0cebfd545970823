package loader

import (
	"math"
	"strings"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareRing(min, max float64) []geom.Coord {
	return []geom.Coord{
		{X: min, Y: min},
		{X: max, Y: min},
		{X: max, Y: max},
		{X: min, Y: max},
	}
}

// triangulatedArea sums the signed area of each triangle in an ear clip result.
func triangulatedArea(points []geom.Coord, tris []uint32) float64 {
	var sum float64
	for t := 0; t+2 < len(tris); t += 3 {
		a, b, c := points[tris[t]], points[tris[t+1]], points[tris[t+2]]
		sum += ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) / 2
	}
	return sum
}

func TestEarClipSquare(t *testing.T) {
	square := squareRing(0, 1)
	tris := earClip(square)

	require.Len(t, tris, 6)
	assert.InDelta(t, 1.0, triangulatedArea(square, tris), 1e-9)
}

func TestEarClipConcave(t *testing.T) {
	// L-shaped hexagon with one reflex vertex at (1,1).
	lShape := []geom.Coord{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 2},
		{X: 0, Y: 2},
	}
	tris := earClip(lShape)

	require.Len(t, tris, 12)
	assert.InDelta(t, 3.0, triangulatedArea(lShape, tris), 1e-9)

	// Every emitted triangle must keep CCW winding.
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := lShape[tris[i]], lShape[tris[i+1]], lShape[tris[i+2]]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		assert.Greater(t, cross, 0.0)
	}
}

func TestBridgeHoles(t *testing.T) {
	outer := squareRing(0, 4)
	hole := []geom.Coord{
		{X: 1, Y: 1},
		{X: 1, Y: 3},
		{X: 3, Y: 3},
		{X: 3, Y: 1},
	}
	require.Negative(t, ringSignedArea(hole), "hole fixture must wind clockwise")

	merged := bridgeHoles(outer, [][]geom.Coord{hole})
	require.Len(t, merged, 10)

	tris := earClip(merged)
	assert.InDelta(t, 12.0, triangulatedArea(merged, tris), 1e-9)
}

func TestRingVertexNormalsPointOutward(t *testing.T) {
	square := squareRing(-1, 1)
	normals := ringVertexNormals(square)
	require.Len(t, normals, 4)

	for i, n := range normals {
		corner := square[i]
		// At a square corner the outward bisector points away from center.
		dot := n.X*corner.X + n.Y*corner.Y
		assert.Greater(t, dot, 0.0, "normal %d should point outward", i)
		assert.InDelta(t, 1.0, n.Magnitude(), 1e-9)
	}
}

func TestOffsetRingExpands(t *testing.T) {
	square := squareRing(-1, 1)
	normals := ringVertexNormals(square)
	expanded := offsetRing(square, normals, 0.1)

	for i, p := range expanded {
		assert.Greater(t, p.DistanceFrom(geom.Coord{}), square[i].DistanceFrom(geom.Coord{}))
	}
}

func TestExtrudeOutlineSquare(t *testing.T) {
	outline := &shapeOutline{
		Rings: []outlineRing{
			{Points: squareRing(-0.5, 0.5)},
		},
		Bounds: geom.Rect{
			Min: geom.Coord{X: -0.5, Y: -0.5},
			Max: geom.Coord{X: 0.5, Y: 0.5},
		},
	}

	shape, err := extrudeOutline(outline, "square")
	require.NoError(t, err)

	// Two caps of 4 vertices plus three bands of 8 vertices per ring.
	assert.Len(t, shape.Mesh.Vertices, 32)
	// Two triangles per cap plus eight per band.
	assert.Len(t, shape.Mesh.Indices, 84)

	assert.Equal(t, "square", shape.Name)
	assert.InDelta(t, 0.5*shapeScale*pivotFraction, float64(shape.PivotOffset[0]), 1e-6)
	assert.InDelta(t, 0.5*shapeScale*pivotFraction, float64(shape.PivotOffset[1]), 1e-6)
	assert.Zero(t, shape.PivotOffset[2])

	assert.Greater(t, shape.BoundingRadius, float32(0.38))
	assert.Less(t, shape.BoundingRadius, float32(0.45))

	// All normals stay unit length.
	for _, v := range shape.Mesh.Vertices {
		mag := math.Sqrt(float64(v.Normal[0]*v.Normal[0] + v.Normal[1]*v.Normal[1] + v.Normal[2]*v.Normal[2]))
		assert.InDelta(t, 1.0, mag, 1e-5)
	}
}

func TestExtrudeOutlineWithHole(t *testing.T) {
	hole := squareRing(-0.2, 0.2)
	reverseRing(hole)
	outline := &shapeOutline{
		Rings: []outlineRing{
			{Points: squareRing(-0.5, 0.5)},
			{Points: hole, Hole: true},
		},
		Bounds: geom.Rect{
			Min: geom.Coord{X: -0.5, Y: -0.5},
			Max: geom.Coord{X: 0.5, Y: 0.5},
		},
	}

	shape, err := extrudeOutline(outline, "frame")
	require.NoError(t, err)

	// Caps triangulate the bridged polygon (10 points, 8 triangles each),
	// and both the outer and hole boundaries grow wall bands.
	assert.Len(t, shape.Mesh.Vertices, 2*10+2*3*8)
	assert.NotEmpty(t, shape.Mesh.Indices)
}

func TestExtrudeOutlineNoOuterContour(t *testing.T) {
	hole := squareRing(-0.2, 0.2)
	reverseRing(hole)
	outline := &shapeOutline{
		Rings: []outlineRing{{Points: hole, Hole: true}},
	}

	_, err := extrudeOutline(outline, "empty")
	require.Error(t, err)
}

func TestExtractOutlineNormalization(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <path d="M 10 10 L 90 10 L 90 90 L 10 90 Z"/>
</svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	outline, err := newSVGOutlineExtractor(p).ExtractOutline()
	require.NoError(t, err)
	require.Len(t, outline.Rings, 1)

	ring := outline.Rings[0]
	assert.False(t, ring.Hole)
	require.Len(t, ring.Points, 4)

	// The 10..90 square inside a 100-unit viewBox normalizes to ±0.4
	// around the origin.
	for _, pt := range ring.Points {
		assert.InDelta(t, 0.4, math.Abs(pt.X), 1e-9)
		assert.InDelta(t, 0.4, math.Abs(pt.Y), 1e-9)
	}

	// Outer rings wind counter-clockwise in Y-up space.
	assert.Positive(t, ringSignedArea(ring.Points))

	assert.InDelta(t, -0.4, outline.Bounds.Min.X, 1e-9)
	assert.InDelta(t, 0.4, outline.Bounds.Max.Y, 1e-9)
}

func TestExtractOutlineHoleClassification(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <path d="M 0 0 H 100 V 100 H 0 Z M 25 25 H 75 V 75 H 25 Z"/>
</svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	outline, err := newSVGOutlineExtractor(p).ExtractOutline()
	require.NoError(t, err)
	require.Len(t, outline.Rings, 2)

	var outers, holes int
	for _, ring := range outline.Rings {
		if ring.Hole {
			holes++
			assert.Negative(t, ringSignedArea(ring.Points))
		} else {
			outers++
			assert.Positive(t, ringSignedArea(ring.Points))
		}
	}
	assert.Equal(t, 1, outers)
	assert.Equal(t, 1, holes)
}

func TestExtractOutlineFlattensCurves(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <path d="M 0 5 C 0 0 10 0 10 5 Q 5 10 0 5 Z"/>
</svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	outline, err := newSVGOutlineExtractor(p).ExtractOutline()
	require.NoError(t, err)
	require.Len(t, outline.Rings, 1)

	// One start point plus curveSegments samples per curve, minus the
	// duplicated closing point.
	assert.Len(t, outline.Rings[0].Points, 2*curveSegments)
}

func TestExtractOutlineWithoutViewBox(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg">
  <polygon points="0,0 40,0 40,20 0,20"/>
</svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	outline, err := newSVGOutlineExtractor(p).ExtractOutline()
	require.NoError(t, err)
	require.Len(t, outline.Rings, 1)

	// Bounds fall back to the geometry: 40x20 normalizes to a unit width.
	assert.InDelta(t, -0.5, outline.Bounds.Min.X, 1e-9)
	assert.InDelta(t, 0.5, outline.Bounds.Max.X, 1e-9)
	assert.InDelta(t, 0.25, outline.Bounds.Max.Y, 1e-9)
}

func TestExtractOutlineEmptyDocument(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"></svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	_, err := newSVGOutlineExtractor(p).ExtractOutline()
	require.ErrorIs(t, err, errEmptySVGDocument)
}
