package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	require.LessOrEqual(t, offset+4, len(buf))
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

func TestNewLightAppliesOptions(t *testing.T) {
	l := NewLight(LightTypePoint,
		WithPosition(1, 2, 3),
		WithColor(0.5, 0.25, 0.125),
		WithIntensity(4.0),
		WithRange(25.0),
		WithCastsShadows(true),
	)

	assert.Equal(t, LightTypePoint, l.Type())
	assert.Equal(t, [3]float32{1, 2, 3}, l.Position())
	assert.Equal(t, [3]float32{0.5, 0.25, 0.125}, l.Color())
	assert.Equal(t, float32(4.0), l.Intensity())
	assert.Equal(t, float32(25.0), l.Range())
	assert.True(t, l.Enabled())
	assert.True(t, l.CastsShadows())
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight(LightTypeDirectional)
	l.SetDirection(0, 0, 5)
	assert.Equal(t, [3]float32{0, 0, 1}, l.Direction())

	l.SetDirection(0, 0, 0)
	assert.Equal(t, [3]float32{0, 0, 0}, l.Direction())
}

func TestToGPULightEncodesShadowFlag(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithDirection(0, -1, 0),
		WithCastsShadows(true),
	)

	gpu := ToGPULight(l)
	assert.Equal(t, uint32(LightTypeDirectional), gpu.LightType)
	assert.Equal(t, [3]float32{0, -1, 0}, gpu.Direction)
	assert.Equal(t, uint32(1), gpu.CastsShadows)
	assert.Equal(t, 64, gpu.Size())
}

func TestMarshalLightBufferSkipsDisabledLights(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeDirectional, WithDirection(0, -1, 0), WithCastsShadows(true)),
		NewLight(LightTypePoint, WithPosition(5, 3, 0), WithEnabled(false)),
		NewLight(LightTypePoint, WithPosition(-5, 3, 0), WithIntensity(0.5)),
	}
	ambient := [3]float32{0.1, 0.2, 0.3}

	buf := MarshalLightBuffer(lights, ambient)
	require.Len(t, buf, 16+2*64)

	// Header: ambient color then enabled count.
	assert.Equal(t, float32(0.1), f32At(t, buf, 0))
	assert.Equal(t, float32(0.2), f32At(t, buf, 4))
	assert.Equal(t, float32(0.3), f32At(t, buf, 8))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:16]))

	// First entry is the directional light, second is the enabled point light.
	assert.Equal(t, uint32(LightTypeDirectional), binary.LittleEndian.Uint32(buf[16+12:16+16]))
	assert.Equal(t, uint32(LightTypePoint), binary.LittleEndian.Uint32(buf[16+64+12:16+64+16]))
	assert.Equal(t, float32(-5), f32At(t, buf, 16+64))
	assert.Equal(t, float32(0.5), f32At(t, buf, 16+64+28))
}

// transformPoint applies a column-major 4x4 matrix to a point with w = 1.
func transformPoint(m [16]float32, x, y, z float32) (float32, float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
		m[3]*x + m[7]*y + m[11]*z + m[15]
}

func TestComputeDirectionalLightVPCentersFrustum(t *testing.T) {
	var sd GPUShadowData
	sd.ComputeDirectionalLightVP([3]float32{0, 0, -1}, 0, 0, 0, 40, 0.1, 200)

	// The frustum center lands on the clip-space axis with depth inside [0, 1].
	cx, cy, cz, cw := transformPoint(sd.LightVP, 0, 0, 0)
	assert.InDelta(t, 0, cx, 1e-5)
	assert.InDelta(t, 0, cy, 1e-5)
	assert.Equal(t, float32(1), cw)
	assert.Greater(t, cz, float32(0))
	assert.Less(t, cz, float32(1))

	// A point one half-extent from center lands on the clip-space boundary.
	ex, _, _, _ := transformPoint(sd.LightVP, 40, 0, 0)
	assert.InDelta(t, 1.0, math.Abs(float64(ex)), 1e-4)
}

func TestComputeNormalBias(t *testing.T) {
	var sd GPUShadowData
	sd.ComputeNormalBias(40, 3.0, 2048)
	assert.InDelta(t, 2.0*40.0/2048.0*3.0, sd.NormalBias, 1e-6)
}
