package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/pajarita-go/engine/model"
	"github.com/jbeda/geom"
)

// Extrusion dimensions in world units, applied to the normalized outline.
const (
	// shapeScale is the world-space size of the normalized unit outline.
	shapeScale = 0.55

	// shapeDepth is the total extrusion depth along Z.
	shapeDepth = 0.12

	// bevelSize is how far the body cross-section expands beyond the caps.
	bevelSize = 0.015

	// bevelThickness is the Z span of each chamfer band between a cap and
	// the expanded body wall.
	bevelThickness = 0.025

	// pivotFraction places the rotation pivot this far from the shape
	// center toward the upper-right outline corner.
	pivotFraction = 0.5
)

// extrudeOutline turns a normalized outline into an extruded, beveled mesh.
// Caps carry the outline at full depth, the body wall is expanded by the
// bevel size, and chamfer bands join the two. The rotation pivot is derived
// from the outline bounds.
//
// Parameters:
//   - outline: the normalized contour set (outer rings CCW, holes CW)
//   - name: the shape identifier carried into the result
//
// Returns:
//   - *model.ImportedShape: the extruded mesh with pivot and bounds metadata
//   - error: error if no contour can be triangulated
func extrudeOutline(outline *shapeOutline, name string) (*model.ImportedShape, error) {
	outers, holesByOuter := groupRings(outline.Rings)
	if len(outers) == 0 {
		return nil, fmt.Errorf("outline %q has no outer contour", name)
	}

	b := &meshBuilder{}
	halfDepth := shapeDepth / 2
	wallHalf := halfDepth - bevelThickness
	if wallHalf < 0 {
		wallHalf = 0
	}

	triangulated := 0
	for oi, outer := range outers {
		scaledOuter := scaleRing(outer, shapeScale)
		scaledHoles := make([][]geom.Coord, len(holesByOuter[oi]))
		for hi, hole := range holesByOuter[oi] {
			scaledHoles[hi] = scaleRing(hole, shapeScale)
		}

		// Caps triangulate the outer contour with holes bridged in.
		merged := bridgeHoles(scaledOuter, scaledHoles)
		tris := earClip(merged)
		if len(tris) > 0 {
			triangulated++
		}
		b.addCap(merged, tris, halfDepth, false)
		b.addCap(merged, tris, -halfDepth, true)

		// Walls follow each original boundary: cap ring chamfers out to the
		// expanded body ring, which runs straight between the chamfers.
		for _, ring := range append([][]geom.Coord{scaledOuter}, scaledHoles...) {
			normals := ringVertexNormals(ring)
			expanded := offsetRing(ring, normals, bevelSize)

			b.addBand(ring, expanded, normals, -halfDepth, -wallHalf, -1)
			b.addBand(expanded, expanded, normals, -wallHalf, wallHalf, 0)
			b.addBand(expanded, ring, normals, wallHalf, halfDepth, 1)
		}
	}

	if triangulated == 0 {
		return nil, fmt.Errorf("outline %q could not be triangulated", name)
	}

	pivot := [3]float32{
		float32(outline.Bounds.Max.X * shapeScale * pivotFraction),
		float32(outline.Bounds.Max.Y * shapeScale * pivotFraction),
		0,
	}

	return &model.ImportedShape{
		Name: name,
		Mesh: model.ImportedMesh{
			Vertices: b.vertices,
			Indices:  b.indices,
		},
		PivotOffset:    pivot,
		BoundingRadius: model.ComputeBoundingRadius(b.vertices),
	}, nil
}

// groupRings splits rings into outer contours and the holes contained in
// each. Holes that sit inside no outer contour are dropped.
func groupRings(rings []outlineRing) ([][]geom.Coord, [][][]geom.Coord) {
	var outers [][]geom.Coord
	for _, r := range rings {
		if !r.Hole {
			outers = append(outers, r.Points)
		}
	}

	holes := make([][][]geom.Coord, len(outers))
	for _, r := range rings {
		if !r.Hole {
			continue
		}
		for oi, outer := range outers {
			if pointInRing(r.Points[0], outer) {
				holes[oi] = append(holes[oi], r.Points)
				break
			}
		}
	}
	return outers, holes
}

// scaleRing multiplies every ring point by s.
func scaleRing(ring []geom.Coord, s float64) []geom.Coord {
	out := make([]geom.Coord, len(ring))
	for i, p := range ring {
		out[i] = p.Times(s)
	}
	return out
}

// ringVertexNormals computes the outward normal at each ring vertex as the
// normalized bisector of its two edge normals. With outer rings CCW and
// holes CW, "outward" consistently points away from the shape material.
func ringVertexNormals(ring []geom.Coord) []geom.Coord {
	n := len(ring)
	edgeNormals := make([]geom.Coord, n)
	for i := range ring {
		d := ring[(i+1)%n].Minus(ring[i])
		if d.Magnitude() < 1e-12 {
			edgeNormals[i] = geom.Coord{X: 1, Y: 0}
			continue
		}
		d = d.Unit()
		edgeNormals[i] = geom.Coord{X: d.Y, Y: -d.X}
	}

	normals := make([]geom.Coord, n)
	for i := range ring {
		prev := edgeNormals[(i+n-1)%n]
		sum := prev.Plus(edgeNormals[i])
		if sum.Magnitude() < 1e-9 {
			// Edges fold back on themselves, fall back to one edge normal.
			normals[i] = edgeNormals[i]
			continue
		}
		normals[i] = sum.Unit()
	}
	return normals
}

// offsetRing pushes each vertex along its outward normal, with the miter
// length clamped so near-degenerate corners cannot spike.
func offsetRing(ring []geom.Coord, normals []geom.Coord, amount float64) []geom.Coord {
	n := len(ring)
	out := make([]geom.Coord, n)
	for i, p := range ring {
		// The bisector must be scaled up where edges meet at a sharp angle
		// to keep the offset edge distance uniform.
		prev := ring[(i+n-1)%n]
		edge := p.Minus(prev)
		var cosHalf float64 = 1
		if edge.Magnitude() > 1e-12 {
			e := edge.Unit()
			edgeNormal := geom.Coord{X: e.Y, Y: -e.X}
			cosHalf = normals[i].X*edgeNormal.X + normals[i].Y*edgeNormal.Y
		}
		if cosHalf < 0.5 {
			cosHalf = 0.5
		}
		out[i] = p.Plus(normals[i].Times(amount / cosHalf))
	}
	return out
}

// bridgeHoles splices hole contours into an outer contour with zero-width
// bridges, producing one simple polygon an ear clipper can consume. Each
// hole is joined at its rightmost vertex to a visible outer vertex found by
// casting a ray toward +X.
func bridgeHoles(outer []geom.Coord, holes [][]geom.Coord) []geom.Coord {
	if len(holes) == 0 {
		return outer
	}

	// Bridge rightmost holes first so later rays cannot cross an already
	// spliced bridge unseen.
	order := make([]int, len(holes))
	for i := range order {
		order[i] = i
	}
	rightmost := make([]int, len(holes))
	for i, hole := range holes {
		rightmost[i] = ringMaxXIndex(hole)
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if holes[order[j]][rightmost[order[j]]].X > holes[order[i]][rightmost[order[i]]].X {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	merged := outer
	for _, hi := range order {
		merged = spliceHole(merged, holes[hi], rightmost[hi])
	}
	return merged
}

// spliceHole joins one hole into the polygon at the given hole vertex.
func spliceHole(polygon []geom.Coord, hole []geom.Coord, holeVertex int) []geom.Coord {
	m := hole[holeVertex]

	bridgeTo := findBridgeVertex(polygon, m)
	if bridgeTo < 0 {
		// No visible vertex, the hole is outside the polygon. Skip it.
		return polygon
	}

	// polygon[:bridgeTo+1] + hole[holeVertex:] + hole[:holeVertex+1] + polygon[bridgeTo:]
	out := make([]geom.Coord, 0, len(polygon)+len(hole)+2)
	out = append(out, polygon[:bridgeTo+1]...)
	out = append(out, hole[holeVertex:]...)
	out = append(out, hole[:holeVertex+1]...)
	out = append(out, polygon[bridgeTo:]...)
	return out
}

// findBridgeVertex locates a polygon vertex visible from point m along a
// +X ray. It returns the index of the chosen vertex, or -1 if the ray exits
// without hitting the polygon.
func findBridgeVertex(polygon []geom.Coord, m geom.Coord) int {
	n := len(polygon)

	// Find the closest edge intersection strictly right of m.
	bestX := math.Inf(1)
	bestEdge := -1
	var bestPoint geom.Coord
	for i := range polygon {
		a := polygon[i]
		b := polygon[(i+1)%n]
		if (a.Y > m.Y) == (b.Y > m.Y) {
			continue
		}
		x := a.X + (m.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if x >= m.X && x < bestX {
			bestX = x
			bestEdge = i
			bestPoint = geom.Coord{X: x, Y: m.Y}
		}
	}
	if bestEdge < 0 {
		return -1
	}

	// Prefer the endpoint of the intersected edge with the larger X. If a
	// reflex vertex of the polygon falls inside the triangle (m, i, p), the
	// bridge must target the reflex vertex closest in angle to the ray.
	candidate := bestEdge
	if polygon[(bestEdge+1)%n].X > polygon[bestEdge].X {
		candidate = (bestEdge + 1) % n
	}

	best := candidate
	bestAngle := math.Inf(1)
	for i, p := range polygon {
		if i == candidate {
			continue
		}
		if !pointInTriangleStrict(p, m, bestPoint, polygon[candidate]) {
			continue
		}
		angle := math.Abs(math.Atan2(p.Y-m.Y, p.X-m.X))
		if angle < bestAngle {
			bestAngle = angle
			best = i
		}
	}
	return best
}

// ringMaxXIndex returns the index of the ring vertex with the largest X.
func ringMaxXIndex(ring []geom.Coord) int {
	best := 0
	for i, p := range ring {
		if p.X > ring[best].X {
			best = i
		}
	}
	return best
}

// earClip triangulates a simple polygon (CCW) into index triples. If the
// polygon is degenerate and no ear can be found, the remainder is fanned
// from the first vertex so the result stays bounded.
func earClip(polygon []geom.Coord) []uint32 {
	n := len(polygon)
	if n < 3 {
		return nil
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	var tris []uint32
	for len(remaining) > 3 {
		clipped := false
		for i := 0; i < len(remaining); i++ {
			prev := remaining[(i+len(remaining)-1)%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isEar(polygon, remaining, prev, cur, next) {
				continue
			}

			tris = append(tris, uint32(prev), uint32(cur), uint32(next))
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}

		if !clipped {
			// Degenerate input, fan the remainder.
			for i := 1; i+1 < len(remaining); i++ {
				tris = append(tris, uint32(remaining[0]), uint32(remaining[i]), uint32(remaining[i+1]))
			}
			return tris
		}
	}
	tris = append(tris, uint32(remaining[0]), uint32(remaining[1]), uint32(remaining[2]))
	return tris
}

// isEar reports whether the corner (prev, cur, next) is convex and holds no
// other remaining vertex.
func isEar(polygon []geom.Coord, remaining []int, prev, cur, next int) bool {
	a, b, c := polygon[prev], polygon[cur], polygon[next]

	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross <= 1e-12 {
		return false
	}

	for _, idx := range remaining {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangleStrict(polygon[idx], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangleStrict tests strict containment, excluding points on the
// triangle boundary. Bridge splices duplicate vertices onto triangle
// corners, and those must not block ear clipping.
func pointInTriangleStrict(p, a, b, c geom.Coord) bool {
	const eps = 1e-12
	d1 := (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
	d2 := (p.X-c.X)*(b.Y-c.Y) - (b.X-c.X)*(p.Y-c.Y)
	d3 := (p.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(p.Y-a.Y)
	return d1 > eps && d2 > eps && d3 > eps
}

// --- Mesh Assembly ---

// meshBuilder accumulates extruded vertices and triangle indices.
type meshBuilder struct {
	vertices []model.GPUVertex
	indices  []uint32
}

func (b *meshBuilder) addVertex(p geom.Coord, z float64, normal [3]float32) uint32 {
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, model.GPUVertex{
		Position: [3]float32{float32(p.X), float32(p.Y), float32(z)},
		Normal:   normal,
	})
	return idx
}

func (b *meshBuilder) addTriangle(i, j, k uint32) {
	b.indices = append(b.indices, i, j, k)
}

// addCap emits one flat cap face at depth z. The back cap flips both the
// normal and the triangle winding.
func (b *meshBuilder) addCap(points []geom.Coord, tris []uint32, z float64, back bool) {
	if len(tris) == 0 {
		return
	}

	normal := [3]float32{0, 0, 1}
	if back {
		normal = [3]float32{0, 0, -1}
	}

	base := uint32(len(b.vertices))
	for _, p := range points {
		b.addVertex(p, z, normal)
	}

	for t := 0; t+2 < len(tris); t += 3 {
		if back {
			b.addTriangle(base+tris[t], base+tris[t+2], base+tris[t+1])
		} else {
			b.addTriangle(base+tris[t], base+tris[t+1], base+tris[t+2])
		}
	}
}

// addBand emits one quad strip between a bottom ring at z0 and a top ring
// at z1. The zSlope sets the Z component of the band normals: 0 for the
// straight body wall, negative or positive for the chamfer bands.
func (b *meshBuilder) addBand(bottom, top []geom.Coord, normals []geom.Coord, z0, z1, zSlope float64) {
	n := len(bottom)
	if n == 0 || len(top) != n {
		return
	}

	base := uint32(len(b.vertices))
	for i := 0; i < n; i++ {
		b.addVertex(bottom[i], z0, bandNormal(normals[i], zSlope))
	}
	for i := 0; i < n; i++ {
		b.addVertex(top[i], z1, bandNormal(normals[i], zSlope))
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b.addTriangle(base+uint32(i), base+uint32(j), base+uint32(n+i))
		b.addTriangle(base+uint32(j), base+uint32(n+j), base+uint32(n+i))
	}
}

// bandNormal blends a 2D outward normal with a Z slope and renormalizes.
func bandNormal(n geom.Coord, zSlope float64) [3]float32 {
	v := [3]float64{n.X, n.Y, zSlope}
	mag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if mag < 1e-12 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{float32(v[0] / mag), float32(v[1] / mag), float32(v[2] / mag)}
}
