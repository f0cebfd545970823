package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Common errors returned by the parser
var (
	errEmptySVGDocument       = errors.New("svg document contains no outline elements")
	errUnsupportedPathCommand = errors.New("unsupported path command")
	errUnexpectedPathEnd      = errors.New("unexpected end of path data")
)

// svgParserImpl is the implementation of the svgParser interface.
type svgParserImpl struct {
	document *svgDocument
}

// svgParser defines the interface for loading and parsing SVG outline files.
// It handles file I/O, XML deserialization, and path data tokenization.
// This is internal to the loader package.
type svgParser interface {
	// Parse loads and parses an SVG file from the given path.
	//
	// Parameters:
	//   - path: path to the SVG file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader parses an SVG document from a reader.
	// Use this when loading from embedded resources or network streams.
	//
	// Parameters:
	//   - r: reader containing SVG XML data
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader) error

	// Document returns the parsed SVG document.
	// Returns nil if Parse has not been called successfully.
	//
	// Returns:
	//   - *svgDocument: the parsed document or nil
	Document() *svgDocument
}

var _ svgParser = &svgParserImpl{}

// newSVGParser creates a new SVG parser.
//
// Returns:
//   - svgParser: the parser
func newSVGParser() svgParser {
	return &svgParserImpl{}
}

func (p *svgParserImpl) Parse(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return p.ParseReader(f)
}

func (p *svgParserImpl) ParseReader(r io.Reader) error {
	var doc svgDocument
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode svg xml: %w", err)
	}

	p.document = &doc
	return nil
}

func (p *svgParserImpl) Document() *svgDocument {
	return p.document
}

// --- Path Data Tokenization ---

// svgPathCommand is a single segment of a path "d" attribute after
// tokenization. Implicit command repetition is expanded, so every command
// carries exactly one segment's worth of arguments. The op byte is the
// canonical uppercase letter; rel records whether the authored command
// was lowercase (relative coordinates).
type svgPathCommand struct {
	op   byte
	rel  bool
	args []float64
}

// pathArgCounts maps each supported canonical command to its argument count.
var pathArgCounts = map[byte]int{
	'M': 2,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'Q': 4,
	'Z': 0,
}

// parsePathData tokenizes a path "d" attribute into a flat command list.
// Supported commands are M, L, H, V, C, Q, and Z in absolute and relative
// form. Implicit repetition is expanded: extra coordinate pairs after a
// moveto continue as lineto segments per the SVG path grammar, and extra
// argument sets after any other command repeat that command.
//
// Parameters:
//   - d: the raw path data attribute value
//
// Returns:
//   - []svgPathCommand: one entry per expanded segment
//   - error: error if the data contains an unsupported command or truncated arguments
func parsePathData(d string) ([]svgPathCommand, error) {
	var commands []svgPathCommand
	pos := 0

	for {
		pos = skipPathSeparators(d, pos)
		if pos >= len(d) {
			break
		}

		c := d[pos]
		op := upperByte(c)
		rel := c >= 'a' && c <= 'z'

		argCount, ok := pathArgCounts[op]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnsupportedPathCommand, string(c))
		}
		pos++

		if argCount == 0 {
			commands = append(commands, svgPathCommand{op: op, rel: rel})
			continue
		}

		// Consume argument sets until the next command letter. The first
		// set belongs to the authored command; subsequent sets are implicit
		// repeats (moveto repeats become lineto).
		first := true
		for {
			pos = skipPathSeparators(d, pos)
			if pos >= len(d) || isPathCommandByte(d[pos]) {
				if first {
					return nil, fmt.Errorf("%w after %q", errUnexpectedPathEnd, string(c))
				}
				break
			}

			args := make([]float64, argCount)
			for i := 0; i < argCount; i++ {
				v, next, err := scanPathNumber(d, pos)
				if err != nil {
					return nil, err
				}
				args[i] = v
				pos = next
			}

			segOp := op
			if op == 'M' && !first {
				segOp = 'L'
			}
			commands = append(commands, svgPathCommand{op: segOp, rel: rel, args: args})
			first = false
		}
	}

	return commands, nil
}

// skipPathSeparators advances past whitespace and commas in path data.
func skipPathSeparators(d string, pos int) int {
	for pos < len(d) {
		switch d[pos] {
		case ' ', '\t', '\n', '\r', ',':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// isPathCommandByte reports whether b is a path command letter.
func isPathCommandByte(b byte) bool {
	_, ok := pathArgCounts[upperByte(b)]
	if ok {
		return true
	}
	// Recognize unsupported command letters too, so argument scanning stops
	// at them and parsePathData can report the right error.
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// upperByte uppercases an ASCII letter.
func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// scanPathNumber scans one floating point number from path data starting at
// pos. SVG allows numbers to run together ("10-5" is 10 then -5, "1.5.5" is
// 1.5 then 0.5), so the scan stops at a sign or a second decimal point.
//
// Parameters:
//   - d: the path data string
//   - pos: the scan start offset, positioned at a separator or digit
//
// Returns:
//   - float64: the parsed number
//   - int: the offset just past the number
//   - error: error if no number is present at pos
func scanPathNumber(d string, pos int) (float64, int, error) {
	pos = skipPathSeparators(d, pos)
	start := pos

	if pos < len(d) && (d[pos] == '+' || d[pos] == '-') {
		pos++
	}

	sawDigit := false
	sawDot := false
	for pos < len(d) {
		c := d[pos]
		if c >= '0' && c <= '9' {
			sawDigit = true
			pos++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			pos++
			continue
		}
		break
	}

	// Optional exponent.
	if sawDigit && pos < len(d) && (d[pos] == 'e' || d[pos] == 'E') {
		expEnd := pos + 1
		if expEnd < len(d) && (d[expEnd] == '+' || d[expEnd] == '-') {
			expEnd++
		}
		expDigits := false
		for expEnd < len(d) && d[expEnd] >= '0' && d[expEnd] <= '9' {
			expDigits = true
			expEnd++
		}
		if expDigits {
			pos = expEnd
		}
	}

	if !sawDigit {
		return 0, start, fmt.Errorf("%w: expected number at offset %d", errUnexpectedPathEnd, start)
	}

	v, err := strconv.ParseFloat(d[start:pos], 64)
	if err != nil {
		return 0, start, fmt.Errorf("invalid number %q at offset %d: %w", d[start:pos], start, err)
	}
	return v, pos, nil
}
