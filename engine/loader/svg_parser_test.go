package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathDataAbsolute(t *testing.T) {
	commands, err := parsePathData("M 10 10 L 90 10 L 90 90 L 10 90 Z")
	require.NoError(t, err)
	require.Len(t, commands, 5)

	assert.Equal(t, byte('M'), commands[0].op)
	assert.False(t, commands[0].rel)
	assert.Equal(t, []float64{10, 10}, commands[0].args)
	assert.Equal(t, byte('Z'), commands[4].op)
}

func TestParsePathDataRelative(t *testing.T) {
	commands, err := parsePathData("m10,10 l80,0 v80 h-80 z")
	require.NoError(t, err)
	require.Len(t, commands, 5)

	assert.True(t, commands[1].rel)
	assert.Equal(t, byte('L'), commands[1].op)
	assert.Equal(t, byte('V'), commands[2].op)
	assert.Equal(t, []float64{80}, commands[2].args)
	assert.Equal(t, byte('H'), commands[3].op)
	assert.Equal(t, []float64{-80}, commands[3].args)
}

func TestParsePathDataImplicitRepeat(t *testing.T) {
	// Extra pairs after a moveto continue as lineto segments.
	commands, err := parsePathData("M 0 0 10 0 10 10 Z")
	require.NoError(t, err)
	require.Len(t, commands, 4)

	assert.Equal(t, byte('M'), commands[0].op)
	assert.Equal(t, byte('L'), commands[1].op)
	assert.Equal(t, byte('L'), commands[2].op)

	// Extra argument sets after a curve repeat the curve command.
	commands, err = parsePathData("M 0 0 C 1 1 2 2 3 3 4 4 5 5 6 6")
	require.NoError(t, err)
	require.Len(t, commands, 3)
	assert.Equal(t, byte('C'), commands[1].op)
	assert.Equal(t, byte('C'), commands[2].op)
	assert.Equal(t, []float64{4, 4, 5, 5, 6, 6}, commands[2].args)
}

func TestParsePathDataGluedNumbers(t *testing.T) {
	commands, err := parsePathData("M10-5L1.5.5 2e1-1e-1")
	require.NoError(t, err)
	require.Len(t, commands, 3)

	assert.Equal(t, []float64{10, -5}, commands[0].args)
	assert.Equal(t, []float64{1.5, 0.5}, commands[1].args)
	assert.Equal(t, []float64{20, -0.1}, commands[2].args)
}

func TestParsePathDataUnsupportedCommand(t *testing.T) {
	_, err := parsePathData("M 0 0 A 5 5 0 0 1 10 10")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnsupportedPathCommand)
}

func TestParsePathDataTruncatedArguments(t *testing.T) {
	_, err := parsePathData("M 0 0 L 10")
	require.Error(t, err)
}

func TestParseViewBox(t *testing.T) {
	vb, err := parseViewBox("0 0 100 50")
	require.NoError(t, err)
	assert.Equal(t, svgViewBox{MinX: 0, MinY: 0, Width: 100, Height: 50}, vb)

	vb, err = parseViewBox("-10,-10,20,20")
	require.NoError(t, err)
	assert.Equal(t, svgViewBox{MinX: -10, MinY: -10, Width: 20, Height: 20}, vb)

	_, err = parseViewBox("0 0 100")
	assert.Error(t, err)

	_, err = parseViewBox("0 0 0 100")
	assert.Error(t, err)
}

func TestParseLength(t *testing.T) {
	v, err := parseLength("42")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	v, err = parseLength("12.5px")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	_, err = parseLength("50%")
	assert.Error(t, err)

	_, err = parseLength("")
	assert.Error(t, err)
}

func TestParsePointList(t *testing.T) {
	pairs, err := parsePointList("0,0 10,0 10,10 0,10")
	require.NoError(t, err)
	require.Len(t, pairs, 4)
	assert.Equal(t, [2]float64{10, 10}, pairs[2])

	// Odd trailing value is discarded.
	pairs, err = parsePointList("0 0 10 0 10")
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}

func TestParseReaderDocumentStructure(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="5" y="5" width="20" height="10"/>
  <g>
    <path d="M 10 10 L 90 10 L 50 90 Z"/>
    <g>
      <polygon points="1,1 2,1 2,2"/>
    </g>
  </g>
</svg>`

	p := newSVGParser()
	require.NoError(t, p.ParseReader(strings.NewReader(doc)))

	parsed := p.Document()
	require.NotNil(t, parsed)
	assert.Equal(t, "0 0 100 100", parsed.ViewBox)
	assert.Len(t, parsed.Rects, 1)
	require.Len(t, parsed.Groups, 1)
	assert.Len(t, parsed.Groups[0].Paths, 1)
	require.Len(t, parsed.Groups[0].Groups, 1)
	assert.Len(t, parsed.Groups[0].Groups[0].Polygons, 1)
}
