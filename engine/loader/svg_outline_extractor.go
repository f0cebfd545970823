package loader

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// curveSegments is the number of line segments each bezier curve is
// flattened into.
const curveSegments = 12

// outlineRing is one closed contour of a shape outline. Points are stored
// without a duplicated closing point; the ring is implicitly closed.
type outlineRing struct {
	// Points is the contour in normalized shape space.
	Points []geom.Coord

	// Hole reports whether this ring cuts a hole out of a containing ring.
	Hole bool
}

// shapeOutline is the full contour set extracted from an SVG document,
// normalized so the larger document dimension spans one unit, centered at
// the origin, with +Y up. Outer rings wind counter-clockwise and holes
// clockwise regardless of authored direction.
type shapeOutline struct {
	Rings  []outlineRing
	Bounds geom.Rect
}

// svgOutlineExtractorImpl is the implementation of the svgOutlineExtractor interface.
type svgOutlineExtractorImpl struct {
	parser svgParser
}

// svgOutlineExtractor defines the interface for converting a parsed SVG
// document into normalized outline rings ready for extrusion.
type svgOutlineExtractor interface {
	// ExtractOutline walks the document, flattens curves, and normalizes
	// all contours into shape space.
	//
	// Returns:
	//   - *shapeOutline: the normalized contour set
	//   - error: error if the document holds no usable outline
	ExtractOutline() (*shapeOutline, error)
}

var _ svgOutlineExtractor = &svgOutlineExtractorImpl{}

// newSVGOutlineExtractor creates an outline extractor bound to a parser
// that has already loaded a document.
//
// Parameters:
//   - parser: the SVG parser holding the parsed document
//
// Returns:
//   - svgOutlineExtractor: the extractor
func newSVGOutlineExtractor(parser svgParser) svgOutlineExtractor {
	return &svgOutlineExtractorImpl{parser: parser}
}

func (e *svgOutlineExtractorImpl) ExtractOutline() (*shapeOutline, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	rawRings, err := collectDocumentRings(doc)
	if err != nil {
		return nil, err
	}
	if len(rawRings) == 0 {
		return nil, errEmptySVGDocument
	}

	// Establish document bounds from the viewBox when present, otherwise
	// from the geometry itself.
	var bounds geom.Rect
	if doc.ViewBox != "" {
		vb, err := parseViewBox(doc.ViewBox)
		if err != nil {
			return nil, err
		}
		bounds = geom.Rect{
			Min: geom.Coord{X: vb.MinX, Y: vb.MinY},
			Max: geom.Coord{X: vb.MinX + vb.Width, Y: vb.MinY + vb.Height},
		}
	} else {
		bounds = ringsBounds(rawRings)
	}

	normalized, normBounds, err := normalizeRings(rawRings, bounds)
	if err != nil {
		return nil, err
	}

	rings := classifyRings(normalized)

	return &shapeOutline{Rings: rings, Bounds: normBounds}, nil
}

// collectDocumentRings gathers raw contours from every supported element
// in the document, including nested groups. Coordinates are left in the
// authored document space (Y down).
func collectDocumentRings(doc *svgDocument) ([][]geom.Coord, error) {
	var rings [][]geom.Coord

	appendElems := func(paths []svgPath, polygons []svgPolygon, polylines []svgPolyline, rects []svgRect) error {
		for _, p := range paths {
			pathRings, err := ringsFromPathData(p.D)
			if err != nil {
				return err
			}
			rings = append(rings, pathRings...)
		}
		for _, p := range polygons {
			ring, err := ringFromPointList(p.Points)
			if err != nil {
				return err
			}
			if ring != nil {
				rings = append(rings, ring)
			}
		}
		for _, p := range polylines {
			ring, err := ringFromPointList(p.Points)
			if err != nil {
				return err
			}
			if ring != nil {
				rings = append(rings, ring)
			}
		}
		for _, r := range rects {
			ring, err := ringFromRect(r)
			if err != nil {
				return err
			}
			if ring != nil {
				rings = append(rings, ring)
			}
		}
		return nil
	}

	if err := appendElems(doc.Paths, doc.Polygons, doc.Polylines, doc.Rects); err != nil {
		return nil, err
	}

	var walkGroups func(groups []svgGroup) error
	walkGroups = func(groups []svgGroup) error {
		for _, g := range groups {
			if err := appendElems(g.Paths, g.Polygons, g.Polylines, g.Rects); err != nil {
				return err
			}
			if err := walkGroups(g.Groups); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walkGroups(doc.Groups); err != nil {
		return nil, err
	}

	// Drop degenerate contours.
	filtered := rings[:0]
	for _, ring := range rings {
		cleaned := dedupeRing(ring)
		if len(cleaned) >= 3 {
			filtered = append(filtered, cleaned)
		}
	}
	return filtered, nil
}

// ringsFromPathData executes a tokenized path and returns its closed
// subpaths as rings. Unclosed subpaths with at least three points are
// closed implicitly, since only filled outlines matter for extrusion.
func ringsFromPathData(d string) ([][]geom.Coord, error) {
	commands, err := parsePathData(d)
	if err != nil {
		return nil, err
	}

	var rings [][]geom.Coord
	var current []geom.Coord
	var cur, subpathStart geom.Coord

	flush := func() {
		if len(current) >= 3 {
			rings = append(rings, current)
		}
		current = nil
	}

	for _, cmd := range commands {
		switch cmd.op {
		case 'M':
			flush()
			pt := geom.Coord{X: cmd.args[0], Y: cmd.args[1]}
			if cmd.rel {
				pt = cur.Plus(pt)
			}
			cur = pt
			subpathStart = pt
			current = append(current, pt)

		case 'L':
			pt := geom.Coord{X: cmd.args[0], Y: cmd.args[1]}
			if cmd.rel {
				pt = cur.Plus(pt)
			}
			cur = pt
			current = append(current, pt)

		case 'H':
			x := cmd.args[0]
			if cmd.rel {
				x += cur.X
			}
			cur = geom.Coord{X: x, Y: cur.Y}
			current = append(current, cur)

		case 'V':
			y := cmd.args[0]
			if cmd.rel {
				y += cur.Y
			}
			cur = geom.Coord{X: cur.X, Y: y}
			current = append(current, cur)

		case 'C':
			c1 := geom.Coord{X: cmd.args[0], Y: cmd.args[1]}
			c2 := geom.Coord{X: cmd.args[2], Y: cmd.args[3]}
			end := geom.Coord{X: cmd.args[4], Y: cmd.args[5]}
			if cmd.rel {
				c1 = cur.Plus(c1)
				c2 = cur.Plus(c2)
				end = cur.Plus(end)
			}
			for i := 1; i <= curveSegments; i++ {
				t := float64(i) / curveSegments
				current = append(current, cubicBezierPoint(cur, c1, c2, end, t))
			}
			cur = end

		case 'Q':
			c1 := geom.Coord{X: cmd.args[0], Y: cmd.args[1]}
			end := geom.Coord{X: cmd.args[2], Y: cmd.args[3]}
			if cmd.rel {
				c1 = cur.Plus(c1)
				end = cur.Plus(end)
			}
			for i := 1; i <= curveSegments; i++ {
				t := float64(i) / curveSegments
				current = append(current, quadBezierPoint(cur, c1, end, t))
			}
			cur = end

		case 'Z':
			flush()
			cur = subpathStart
			// A command following Z without an intervening moveto starts
			// a new subpath at the close point.
			current = append(current, cur)
		}
	}
	flush()

	return rings, nil
}

// ringFromPointList converts a polygon/polyline points attribute into a ring.
func ringFromPointList(points string) ([]geom.Coord, error) {
	pairs, err := parsePointList(points)
	if err != nil {
		return nil, err
	}
	if len(pairs) < 3 {
		return nil, nil
	}

	ring := make([]geom.Coord, len(pairs))
	for i, p := range pairs {
		ring[i] = geom.Coord{X: p[0], Y: p[1]}
	}
	return ring, nil
}

// ringFromRect converts a rect element into a four-corner ring.
func ringFromRect(r svgRect) ([]geom.Coord, error) {
	var x, y float64
	var err error
	if r.X != "" {
		if x, err = parseLength(r.X); err != nil {
			return nil, fmt.Errorf("rect x: %w", err)
		}
	}
	if r.Y != "" {
		if y, err = parseLength(r.Y); err != nil {
			return nil, fmt.Errorf("rect y: %w", err)
		}
	}
	w, err := parseLength(r.Width)
	if err != nil {
		return nil, fmt.Errorf("rect width: %w", err)
	}
	h, err := parseLength(r.Height)
	if err != nil {
		return nil, fmt.Errorf("rect height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	return []geom.Coord{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}, nil
}

// cubicBezierPoint evaluates a cubic bezier at t.
func cubicBezierPoint(p0, c1, c2, p1 geom.Coord, t float64) geom.Coord {
	u := 1 - t
	a := p0.Times(u * u * u)
	b := c1.Times(3 * u * u * t)
	c := c2.Times(3 * u * t * t)
	d := p1.Times(t * t * t)
	return a.Plus(b).Plus(c).Plus(d)
}

// quadBezierPoint evaluates a quadratic bezier at t.
func quadBezierPoint(p0, c1, p1 geom.Coord, t float64) geom.Coord {
	u := 1 - t
	a := p0.Times(u * u)
	b := c1.Times(2 * u * t)
	c := p1.Times(t * t)
	return a.Plus(b).Plus(c)
}

// dedupeRing removes consecutive duplicate points, including a duplicated
// closing point.
func dedupeRing(ring []geom.Coord) []geom.Coord {
	const eps = 1e-9

	out := make([]geom.Coord, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && p.DistanceFrom(out[len(out)-1]) < eps {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].DistanceFrom(out[len(out)-1]) < eps {
		out = out[:len(out)-1]
	}
	return out
}

// ringsBounds computes the bounding rectangle of all ring points.
func ringsBounds(rings [][]geom.Coord) geom.Rect {
	bounds := geom.Rect{Min: rings[0][0], Max: rings[0][0]}
	for _, ring := range rings {
		for _, p := range ring {
			bounds.ExpandToContainCoord(p)
		}
	}
	return bounds
}

// normalizeRings maps rings from document space into shape space: the larger
// document dimension spans one unit, the document center sits at the origin,
// and the Y axis is flipped so +Y points up.
func normalizeRings(rings [][]geom.Coord, bounds geom.Rect) ([][]geom.Coord, geom.Rect, error) {
	w := bounds.Max.X - bounds.Min.X
	h := bounds.Max.Y - bounds.Min.Y
	if w <= 0 && h <= 0 {
		return nil, geom.Rect{}, fmt.Errorf("outline bounds are degenerate")
	}

	scale := 1.0 / math.Max(w, h)
	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2

	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		mapped := make([]geom.Coord, len(ring))
		for j, p := range ring {
			mapped[j] = geom.Coord{
				X: (p.X - cx) * scale,
				Y: (cy - p.Y) * scale,
			}
		}
		out[i] = mapped
	}

	normBounds := geom.Rect{Min: out[0][0], Max: out[0][0]}
	for _, ring := range out {
		for _, p := range ring {
			normBounds.ExpandToContainCoord(p)
		}
	}
	return out, normBounds, nil
}

// classifyRings marks each ring as outer or hole by containment depth and
// forces canonical winding: outer rings counter-clockwise, holes clockwise.
// Containment is tested on a representative point, which is sufficient for
// non-intersecting contours.
func classifyRings(rings [][]geom.Coord) []outlineRing {
	out := make([]outlineRing, len(rings))
	for i, ring := range rings {
		depth := 0
		for j, other := range rings {
			if i == j {
				continue
			}
			if pointInRing(ring[0], other) {
				depth++
			}
		}

		hole := depth%2 == 1
		area := ringSignedArea(ring)
		if (area < 0) != hole {
			// Winding disagrees with role, reverse in place.
			reverseRing(ring)
		}
		out[i] = outlineRing{Points: ring, Hole: hole}
	}
	return out
}

// ringSignedArea computes the shoelace signed area of a ring. Positive
// area means counter-clockwise winding in Y-up space.
func ringSignedArea(ring []geom.Coord) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// pointInRing tests containment with an even-odd ray cast along +X.
func pointInRing(pt geom.Coord, ring []geom.Coord) bool {
	inside := false
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// reverseRing reverses ring winding in place.
func reverseRing(ring []geom.Coord) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}
