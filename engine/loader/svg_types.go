package loader

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// --- SVG Document Types ---
// These structs map the subset of the SVG 1.1 structure the importer
// understands. Unknown elements and attributes are ignored by encoding/xml.

// svgDocument is the root <svg> element.
type svgDocument struct {
	XMLName   xml.Name      `xml:"svg"`
	ViewBox   string        `xml:"viewBox,attr"`
	Width     string        `xml:"width,attr"`
	Height    string        `xml:"height,attr"`
	Paths     []svgPath     `xml:"path"`
	Polygons  []svgPolygon  `xml:"polygon"`
	Polylines []svgPolyline `xml:"polyline"`
	Rects     []svgRect     `xml:"rect"`
	Groups    []svgGroup    `xml:"g"`
}

// svgGroup is a <g> container element. Transform attributes are not applied;
// geometry is read in the coordinates it is authored in.
type svgGroup struct {
	Paths     []svgPath     `xml:"path"`
	Polygons  []svgPolygon  `xml:"polygon"`
	Polylines []svgPolyline `xml:"polyline"`
	Rects     []svgRect     `xml:"rect"`
	Groups    []svgGroup    `xml:"g"`
}

// svgPath is a <path> element carrying outline data in its "d" attribute.
type svgPath struct {
	D string `xml:"d,attr"`
}

// svgPolygon is a <polygon> element with a closed point list.
type svgPolygon struct {
	Points string `xml:"points,attr"`
}

// svgPolyline is a <polyline> element. The importer closes the point list
// into a ring, since only filled outlines are meaningful for extrusion.
type svgPolyline struct {
	Points string `xml:"points,attr"`
}

// svgRect is a <rect> element. Corner rounding (rx/ry) is ignored.
type svgRect struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

// svgViewBox holds the parsed viewBox rectangle of a document.
type svgViewBox struct {
	MinX, MinY, Width, Height float64
}

// parseViewBox parses a viewBox attribute string ("minX minY width height").
// Values may be separated by whitespace or commas.
//
// Parameters:
//   - s: the raw viewBox attribute value
//
// Returns:
//   - svgViewBox: the parsed rectangle
//   - error: error if the attribute does not contain four numbers
func parseViewBox(s string) (svgViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == '\r'
	})
	if len(fields) != 4 {
		return svgViewBox{}, fmt.Errorf("viewBox %q: expected 4 values, got %d", s, len(fields))
	}

	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return svgViewBox{}, fmt.Errorf("viewBox %q: %w", s, err)
		}
		vals[i] = v
	}

	vb := svgViewBox{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}
	if vb.Width <= 0 || vb.Height <= 0 {
		return svgViewBox{}, fmt.Errorf("viewBox %q: non-positive dimensions", s)
	}
	return vb, nil
}

// parseLength parses a dimension attribute value, stripping a trailing
// unit suffix (px, pt, mm, etc.) when present. Percentages are rejected
// since they cannot be resolved without a containing block.
//
// Parameters:
//   - s: the raw attribute value
//
// Returns:
//   - float64: the numeric value
//   - error: error if the value is empty, a percentage, or not numeric
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}
	if strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("percentage length %q not supported", s)
	}

	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		end--
	}
	if end == 0 {
		return 0, fmt.Errorf("invalid length %q", s)
	}

	return strconv.ParseFloat(s[:end], 64)
}

// parsePointList parses a polygon/polyline points attribute into coordinate
// pairs. An odd trailing value is discarded per the SVG error handling rules.
//
// Parameters:
//   - s: the raw points attribute value
//
// Returns:
//   - [][2]float64: the parsed coordinate pairs
//   - error: error if a token is not numeric
func parsePointList(s string) ([][2]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == '\r'
	})

	pairs := make([][2]float64, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("points value %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("points value %q: %w", fields[i+1], err)
		}
		pairs = append(pairs, [2]float64{x, y})
	}
	return pairs, nil
}
